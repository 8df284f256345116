package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/services/account"
)

// ProfileHandler handles profile and language requests for the active account
type ProfileHandler struct {
	accounts *account.Service
	logger   arbor.ILogger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(accounts *account.Service, logger arbor.ILogger) *ProfileHandler {
	return &ProfileHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// ProfileRoutesHandler handles GET and PUT /api/profile. The client degrades
// to nil or false on failure, so the UI copy stays generic here.
func (h *ProfileHandler) ProfileRoutesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		profile := h.accounts.GetUserProfile(r.Context())
		if profile == nil {
			WriteError(w, http.StatusServiceUnavailable, "Failed to load profile")
			return
		}
		WriteJSON(w, http.StatusOK, profile)
	case http.MethodPut:
		var updates map[string]interface{}
		if !DecodeJSON(w, r, &updates) {
			return
		}
		if !h.accounts.UpdateUserProfile(r.Context(), updates) {
			WriteError(w, http.StatusServiceUnavailable, "Failed to save profile")
			return
		}
		WriteSuccess(w, "Profile saved")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// LanguagesHandler handles GET /api/languages
func (h *ProfileHandler) LanguagesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, h.accounts.GetAvailableLanguages(r.Context()))
}
