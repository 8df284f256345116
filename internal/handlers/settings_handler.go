package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/services/settings"
)

// SettingsHandler handles app-lock and PIN requests from the shell UI
type SettingsHandler struct {
	settings *settings.Service
	logger   arbor.ILogger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *settings.Service, logger arbor.ILogger) *SettingsHandler {
	return &SettingsHandler{
		settings: settingsService,
		logger:   logger,
	}
}

// SettingsRoutesHandler handles GET and PUT /api/settings
func (h *SettingsHandler) SettingsRoutesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		current, err := h.settings.Settings()
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to load settings")
			WriteError(w, http.StatusInternalServerError, "Failed to load settings")
			return
		}
		// The PIN hash never leaves the process
		current.PinHash = ""
		WriteJSON(w, http.StatusOK, current)
	case http.MethodPut:
		var req struct {
			AppLockEnabled   *bool   `json:"app_lock_enabled"`
			BiometricEnabled *bool   `json:"biometric_enabled"`
			Language         *string `json:"language"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		if req.AppLockEnabled != nil {
			if err := h.settings.UpdateAppLock(*req.AppLockEnabled); err != nil {
				WriteError(w, http.StatusInternalServerError, "Failed to save settings")
				return
			}
		}
		if req.BiometricEnabled != nil {
			if err := h.settings.UpdateBiometric(*req.BiometricEnabled); err != nil {
				WriteError(w, http.StatusInternalServerError, "Failed to save settings")
				return
			}
		}
		if req.Language != nil {
			if err := h.settings.UpdateLanguage(*req.Language); err != nil {
				WriteError(w, http.StatusInternalServerError, "Failed to save settings")
				return
			}
		}
		WriteSuccess(w, "Settings saved")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SetPinHandler handles POST /api/settings/pin
func (h *SettingsHandler) SetPinHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Pin string `json:"pin"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.settings.SetPin(req.Pin); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteSuccess(w, "PIN set")
}

// RemovePinHandler handles DELETE /api/settings/pin
func (h *SettingsHandler) RemovePinHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.settings.RemovePin(); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to remove PIN")
		return
	}
	WriteSuccess(w, "PIN removed")
}

// VerifyPinHandler handles POST /api/settings/pin/verify
func (h *SettingsHandler) VerifyPinHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Pin string `json:"pin"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	ok, err := h.settings.VerifyPin(req.Pin)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to verify PIN")
		return
	}

	remaining, _ := h.settings.RemainingAttempts()
	lockout, _ := h.settings.LockoutRemaining()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":              ok,
		"remaining_attempts": remaining,
		"lockout_ms":         lockout / time.Millisecond,
	})
}
