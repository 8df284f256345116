package odoorpc

import (
	"strconv"
	"strings"
)

// stringField extracts an optional string from a decoded RPC record value.
// Odoo represents an empty scalar field as the literal boolean false, so a
// boolean is treated as absent, as is a blank string. Reference fields come
// back as a two-element [id, label] array; the first element is taken when it
// is a plain scalar.
func stringField(v interface{}) *string {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return &val
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		return &s
	case []interface{}:
		if len(val) == 0 {
			return nil
		}
		switch first := val[0].(type) {
		case string:
			return &first
		case float64:
			s := strconv.FormatFloat(first, 'f', -1, 64)
			return &s
		default:
			return nil
		}
	default:
		return nil
	}
}

// stringFieldOr returns the extracted string or a fallback when absent
func stringFieldOr(v interface{}, fallback string) string {
	if s := stringField(v); s != nil {
		return *s
	}
	return fallback
}

// intField extracts an integer from a decoded RPC value; JSON numbers decode
// as float64. Returns 0, false when the value is not numeric (including the
// boolean-false empty marker).
func intField(v interface{}) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}
