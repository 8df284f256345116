package account

import (
	"context"
	"net/http"

	"github.com/woowtech/odoogate/internal/models"
)

// BrowserSession is the payload handed to the embedded browser shell: the
// credentials it may need, the ERP main URL, and the session cookie to set
// for the server origin before navigating.
type BrowserSession struct {
	ServerURL string          `json:"server_url"`
	Database  string          `json:"database"`
	Username  string          `json:"username"`
	Password  string          `json:"password"`
	WebURL    string          `json:"web_url"`
	SessionID string          `json:"session_id,omitempty"`
	Account   *models.Account `json:"account"`

	cookie *http.Cookie
}

// SessionCookie returns the session_id cookie formatted for the browser's
// cookie store: path "/", Secure set for the https origin.
func (b *BrowserSession) SessionCookie() *http.Cookie {
	return b.cookie
}

// BrowserSession resolves the active account and its credential, establishes
// a live session if needed, and returns the hand-off payload for the embedded
// browser. Returns nil when no active account or credential is available.
func (s *Service) BrowserSession(ctx context.Context) *BrowserSession {
	account, password, ok := s.resolveActive(ctx)
	if !ok {
		return nil
	}

	if !s.ensureSession(ctx, account, password) {
		s.logger.Error().Str("account_id", account.ID).Msg("browserSession: failed to establish session")
		return nil
	}

	session := &BrowserSession{
		ServerURL: account.FullServerURL(),
		Database:  account.Database,
		Username:  account.Username,
		Password:  password,
		WebURL:    account.WebURL(),
		Account:   account,
	}

	if sessionID := s.client.GetSessionID(account.Host()); sessionID != "" {
		session.SessionID = sessionID
		session.cookie = &http.Cookie{
			Name:   "session_id",
			Value:  sessionID,
			Path:   "/",
			Secure: true,
		}
	}

	return session
}
