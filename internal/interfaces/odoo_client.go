package interfaces

import (
	"context"
	"net/http"

	"github.com/woowtech/odoogate/internal/models"
)

// OdooClient issues JSON-RPC calls to the ERP server and owns the in-memory
// per-host cookie table. It never returns a Go error on the authenticate path;
// every failure mode is folded into the AuthResult. Profile operations degrade
// to nil/false/empty on any failure.
type OdooClient interface {
	Authenticate(ctx context.Context, serverURL, database, username, password string) models.AuthResult
	GetUserProfile(ctx context.Context, serverURL, database string, userID int, password string) *models.UserProfile
	UpdateUserProfile(ctx context.Context, serverURL, database string, userID int, password string, updates map[string]interface{}) bool
	GetAvailableLanguages(ctx context.Context, serverURL, database string, userID int, password string) []models.Language

	// Cookie accessors are pure in-memory operations keyed by host
	GetSessionID(host string) string
	GetSessionCookies(host string) []*http.Cookie
	ClearCookies(host string)
}
