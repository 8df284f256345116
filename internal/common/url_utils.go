package common

import (
	"net/url"
	"strings"
)

// NormalizeServerURL ensures the server URL carries an https scheme and no
// trailing slash. A bare host ("erp.example.com") becomes "https://erp.example.com".
// Plain-http URLs are returned unchanged so the RPC client can reject them.
func NormalizeServerURL(serverURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if trimmed == "" {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "https://") || strings.HasPrefix(trimmed, "http://") {
		return trimmed
	}
	return "https://" + trimmed
}

// ExtractHost returns the host (with port, if any) of a server URL.
// Falls back to string stripping for URLs net/url cannot parse.
func ExtractHost(serverURL string) string {
	if parsed, err := url.Parse(serverURL); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	host := strings.TrimPrefix(strings.TrimPrefix(serverURL, "https://"), "http://")
	if idx := strings.IndexByte(host, '/'); idx >= 0 {
		host = host[:idx]
	}
	return host
}
