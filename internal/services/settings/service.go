// Package settings manages app-lock, biometric, PIN, and language
// preferences on top of the encrypted settings store.
package settings

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/interfaces"
	"github.com/woowtech/odoogate/internal/models"
)

const (
	// MaxPinAttempts is the failed-attempt limit before lockout.
	MaxPinAttempts = 5

	// LockoutDuration is how long PIN entry stays locked after too many
	// failed attempts.
	LockoutDuration = 30 * time.Second
)

// Service provides app-lock and PIN operations. A mutex serializes the
// read-modify-write cycles against the store.
type Service struct {
	store  interfaces.SettingsStore
	logger arbor.ILogger
	mu     sync.Mutex
}

// NewService creates a new settings service
func NewService(store interfaces.SettingsStore, logger arbor.ILogger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Settings returns the current app settings
func (s *Service) Settings() (*models.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetSettings()
}

// UpdateAppLock toggles the app-lock requirement
func (s *Service) UpdateAppLock(enabled bool) error {
	return s.update(func(settings *models.AppSettings) {
		settings.AppLockEnabled = enabled
	})
}

// UpdateBiometric toggles the biometric-unlock preference. The biometric
// prompt itself is the hosting platform's concern; only the flag lives here.
func (s *Service) UpdateBiometric(enabled bool) error {
	return s.update(func(settings *models.AppSettings) {
		settings.BiometricEnabled = enabled
	})
}

// UpdateLanguage stores the UI language preference
func (s *Service) UpdateLanguage(code string) error {
	return s.update(func(settings *models.AppSettings) {
		settings.Language = code
	})
}

// SetPin enables PIN lock. The PIN must be 4-6 digits; only its SHA-256 hash
// is stored.
func (s *Service) SetPin(pin string) error {
	if len(pin) < 4 || len(pin) > 6 {
		return fmt.Errorf("PIN must be 4-6 digits")
	}
	return s.update(func(settings *models.AppSettings) {
		settings.PinEnabled = true
		settings.PinHash = hashPin(pin)
	})
}

// RemovePin disables PIN lock and clears the stored hash
func (s *Service) RemovePin() error {
	return s.update(func(settings *models.AppSettings) {
		settings.PinEnabled = false
		settings.PinHash = ""
		settings.FailedPinAttempts = 0
		settings.PinLockoutUntil = 0
	})
}

// VerifyPin checks a PIN attempt. A correct PIN resets the failed-attempt
// counter; an incorrect one increments it and triggers a lockout at the
// limit. Returns false while locked out without evaluating the PIN.
func (s *Service) VerifyPin(pin string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.GetSettings()
	if err != nil {
		return false, err
	}
	if settings.PinHash == "" {
		return false, nil
	}
	if settings.PinLockoutUntil > 0 && time.Now().UnixMilli() < settings.PinLockoutUntil {
		return false, nil
	}

	if hashPin(pin) == settings.PinHash {
		settings.FailedPinAttempts = 0
		settings.PinLockoutUntil = 0
		if err := s.store.SaveSettings(settings); err != nil {
			return false, err
		}
		return true, nil
	}

	settings.FailedPinAttempts++
	if settings.FailedPinAttempts >= MaxPinAttempts {
		settings.PinLockoutUntil = time.Now().Add(LockoutDuration).UnixMilli()
		s.logger.Warn().
			Int("attempts", settings.FailedPinAttempts).
			Msg("PIN entry locked out")
	}
	if err := s.store.SaveSettings(settings); err != nil {
		return false, err
	}
	return false, nil
}

// RemainingAttempts returns how many PIN attempts remain before lockout
func (s *Service) RemainingAttempts() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.GetSettings()
	if err != nil {
		return 0, err
	}
	remaining := MaxPinAttempts - settings.FailedPinAttempts
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// LockoutRemaining returns how long PIN entry stays locked, zero when not
// locked out
func (s *Service) LockoutRemaining() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.GetSettings()
	if err != nil {
		return 0, err
	}
	if settings.PinLockoutUntil == 0 {
		return 0, nil
	}
	remaining := time.Until(time.UnixMilli(settings.PinLockoutUntil))
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func (s *Service) update(mutate func(*models.AppSettings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.GetSettings()
	if err != nil {
		return err
	}
	mutate(settings)
	return s.store.SaveSettings(settings)
}

func hashPin(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}
