package models

import (
	"fmt"
	"strings"
	"time"
)

// Account represents one configured (server, database, username) login.
// Exactly one account may be active at any time.
type Account struct {
	ID           string    `json:"id" badgerhold:"key"`
	ServerURL    string    `json:"server_url" badgerhold:"index"` // Always normalized to carry https://
	Database     string    `json:"database"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	AvatarBase64 string    `json:"avatar_base64,omitempty"`
	UserID       int       `json:"user_id"` // Remote numeric user id; 0 until first successful authentication
	LastLogin    time.Time `json:"last_login"`
	IsActive     bool      `json:"is_active" badgerhold:"index"`
}

// FullServerURL returns the server URL with an https scheme guaranteed
func (a *Account) FullServerURL() string {
	if strings.HasPrefix(a.ServerURL, "https://") {
		return a.ServerURL
	}
	return "https://" + a.ServerURL
}

// Host returns the server host used as the session cookie key
func (a *Account) Host() string {
	host := strings.TrimPrefix(strings.TrimPrefix(a.FullServerURL(), "https://"), "http://")
	if idx := strings.IndexByte(host, '/'); idx >= 0 {
		host = host[:idx]
	}
	return host
}

// WebURL returns the ERP main URL the embedded browser navigates to
func (a *Account) WebURL() string {
	return fmt.Sprintf("%s/web?db=%s", a.FullServerURL(), a.Database)
}
