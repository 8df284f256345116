package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/services/account"
	"golang.org/x/time/rate"
)

// loginRequest is the login intent from the shell UI
type loginRequest struct {
	ServerURL string `json:"server_url" validate:"required"`
	Database  string `json:"database" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// AuthHandler handles login, logout, account switching and listing
type AuthHandler struct {
	accounts     *account.Service
	logger       arbor.ILogger
	validate     *validator.Validate
	loginLimiter *rate.Limiter
}

// NewAuthHandler creates a new auth handler. Login attempts are rate limited
// to slow down PIN-less brute forcing through the local bridge.
func NewAuthHandler(accounts *account.Service, logger arbor.ILogger) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		logger:       logger,
		validate:     validator.New(),
		loginLimiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// LoginHandler handles POST /api/login
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	if !h.loginLimiter.Allow() {
		WriteError(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	result := h.accounts.Authenticate(r.Context(), req.ServerURL, req.Database, req.Username, req.Password)
	if !result.IsSuccess() {
		h.logger.Warn().
			Str("kind", string(result.Error.Kind)).
			Str("server_url", req.ServerURL).
			Msg("Login failed")
		WriteJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"status":  "error",
			"kind":    result.Error.Kind,
			"error":   result.Error.UserMessage(),
			"message": result.Error.Message,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"user_id":      result.Success.UserID,
		"session_id":   result.Success.SessionID,
		"username":     result.Success.Username,
		"display_name": result.Success.DisplayName,
	})
}

// LogoutHandler handles POST /api/logout. An optional account_id selects a
// specific account; otherwise the active account is logged out.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		AccountID string `json:"account_id"`
	}
	if r.ContentLength > 0 && !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.accounts.Logout(r.Context(), req.AccountID); err != nil {
		h.logger.Error().Err(err).Msg("Logout failed")
		WriteError(w, http.StatusInternalServerError, "Logout failed")
		return
	}
	WriteSuccess(w, "Logged out")
}

// ListAccountsHandler handles GET /api/accounts
func (h *AuthHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	accounts, err := h.accounts.Accounts(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list accounts")
		WriteError(w, http.StatusInternalServerError, "Failed to list accounts")
		return
	}
	WriteJSON(w, http.StatusOK, accounts)
}

// AccountRoutesHandler dispatches /api/accounts/{id} and
// /api/accounts/{id}/switch
func (h *AuthHandler) AccountRoutesHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "Missing account id")
		return
	}

	if strings.HasSuffix(rest, "/switch") {
		h.switchAccount(w, r, strings.TrimSuffix(rest, "/switch"))
		return
	}

	if r.Method == http.MethodDelete {
		h.removeAccount(w, r, rest)
		return
	}

	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func (h *AuthHandler) switchAccount(w http.ResponseWriter, r *http.Request, accountID string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if !h.accounts.SwitchAccount(r.Context(), accountID) {
		WriteError(w, http.StatusUnauthorized, "Could not switch account")
		return
	}
	WriteSuccess(w, "Account switched")
}

func (h *AuthHandler) removeAccount(w http.ResponseWriter, r *http.Request, accountID string) {
	if err := h.accounts.RemoveAccount(r.Context(), accountID); err != nil {
		h.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to remove account")
		WriteError(w, http.StatusInternalServerError, "Failed to remove account")
		return
	}
	WriteSuccess(w, "Account removed")
}

// SessionHandler handles GET /api/session: the browser hand-off payload for
// the active account (web URL, session cookie value, credentials).
func (h *AuthHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	session := h.accounts.BrowserSession(r.Context())
	if session == nil {
		WriteError(w, http.StatusNotFound, "No active session available")
		return
	}
	WriteJSON(w, http.StatusOK, session)
}
