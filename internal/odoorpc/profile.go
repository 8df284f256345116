package odoorpc

import (
	"context"
	"encoding/json"

	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/models"
)

// profileFields is the fixed res.users field list requested for the profile
// screen. Only fields that exist across Odoo versions are included.
var profileFields = []string{
	"name", "login", "email", "phone",
	"mobile", "website", "function", "image_1920",
	"lang", "tz", "signature",
}

// GetUserProfile reads a user record via execute_kw. Returns nil on any
// transport, protocol, or missing-result condition; callers treat nil as
// "no profile available".
func (c *Client) GetUserProfile(ctx context.Context, serverURL, database string, userID int, password string) *models.UserProfile {
	params := newExecuteKw(database, userID, password,
		"res.users", "read",
		[]interface{}{[]int{userID}},
		map[string]interface{}{"fields": profileFields},
	)

	response, err := c.execute(ctx, serverURL+"/jsonrpc", newRequest(params, requestIDReadProfile))
	if err != nil {
		c.logIfSet(func(l arbor.ILogger) {
			l.Error().Err(err).Msg("getUserProfile request failed")
		})
		return nil
	}
	if response.Error != nil {
		c.logIfSet(func(l arbor.ILogger) {
			l.Error().Str("message", response.Error.bestMessage()).Msg("getUserProfile API error")
		})
		return nil
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(response.Result, &records); err != nil || len(records) == 0 {
		c.logIfSet(func(l arbor.ILogger) {
			l.Error().Msg("getUserProfile: empty result")
		})
		return nil
	}
	record := records[0]

	return &models.UserProfile{
		ID:          userID,
		Name:        stringFieldOr(record["name"], ""),
		Login:       stringFieldOr(record["login"], ""),
		Email:       stringField(record["email"]),
		Phone:       stringField(record["phone"]),
		Mobile:      stringField(record["mobile"]),
		Website:     stringField(record["website"]),
		Function:    stringField(record["function"]),
		ImageBase64: stringField(record["image_1920"]),
		Lang:        stringField(record["lang"]),
		Timezone:    stringField(record["tz"]),
		Signature:   stringField(record["signature"]),
	}
}

// UpdateUserProfile writes field updates to a user record via execute_kw.
// Returns whether the protocol-level response carried no error.
func (c *Client) UpdateUserProfile(ctx context.Context, serverURL, database string, userID int, password string, updates map[string]interface{}) bool {
	params := newExecuteKw(database, userID, password,
		"res.users", "write",
		[]interface{}{[]int{userID}, updates},
	)

	response, err := c.execute(ctx, serverURL+"/jsonrpc", newRequest(params, requestIDWriteProfile))
	if err != nil {
		c.logIfSet(func(l arbor.ILogger) {
			l.Error().Err(err).Msg("updateUserProfile request failed")
		})
		return false
	}
	if response.Error != nil {
		c.logIfSet(func(l arbor.ILogger) {
			l.Error().Str("message", response.Error.bestMessage()).Msg("updateUserProfile API error")
		})
		return false
	}
	return true
}

// GetAvailableLanguages lists active server languages via res.lang
// search_read. Returns an empty list on any failure.
func (c *Client) GetAvailableLanguages(ctx context.Context, serverURL, database string, userID int, password string) []models.Language {
	params := newExecuteKw(database, userID, password,
		"res.lang", "search_read",
		[]interface{}{[]interface{}{[]interface{}{"active", "=", true}}},
		map[string]interface{}{"fields": []string{"code", "name"}},
	)

	response, err := c.execute(ctx, serverURL+"/jsonrpc", newRequest(params, requestIDLanguages))
	if err != nil {
		c.logIfSet(func(l arbor.ILogger) {
			l.Error().Err(err).Msg("getAvailableLanguages request failed")
		})
		return []models.Language{}
	}
	if response.Error != nil || !response.hasResult() {
		return []models.Language{}
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(response.Result, &records); err != nil {
		return []models.Language{}
	}

	languages := make([]models.Language, 0, len(records))
	for _, record := range records {
		code := stringField(record["code"])
		name := stringField(record["name"])
		if code != nil && name != nil {
			languages = append(languages, models.Language{Code: *code, Name: *name})
		}
	}
	return languages
}
