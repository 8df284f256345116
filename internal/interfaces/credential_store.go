package interfaces

import (
	"github.com/woowtech/odoogate/internal/models"
)

// CredentialStore is the secret-bearing durable store for per-account
// passwords. Values are encrypted at rest by the implementation. GetPassword
// returns ("", nil) when no credential exists for the account; that is the
// defined "cannot re-authenticate" condition, not an error.
type CredentialStore interface {
	SavePassword(accountID, password string) error
	GetPassword(accountID string) (string, error)
	RemovePassword(accountID string) error
}

// SettingsStore persists app-lock, biometric, PIN, and lockout state
type SettingsStore interface {
	GetSettings() (*models.AppSettings, error)
	SaveSettings(settings *models.AppSettings) error
}
