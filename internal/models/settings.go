package models

// AppSettings holds app-lock and preference state persisted by the secrets store
type AppSettings struct {
	AppLockEnabled    bool   `json:"app_lock_enabled"`
	BiometricEnabled  bool   `json:"biometric_enabled"`
	PinEnabled        bool   `json:"pin_enabled"`
	PinHash           string `json:"pin_hash,omitempty"` // SHA-256 hex of the PIN; empty when no PIN set
	Language          string `json:"language"`           // UI language code, "system" by default
	FailedPinAttempts int    `json:"failed_pin_attempts"`
	PinLockoutUntil   int64  `json:"pin_lockout_until,omitempty"` // Unix millis; 0 when not locked out
}
