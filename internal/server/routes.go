package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Authentication and accounts
	mux.HandleFunc("/api/login", s.app.AuthHandler.LoginHandler)            // POST - authenticate against a server
	mux.HandleFunc("/api/logout", s.app.AuthHandler.LogoutHandler)          // POST - log out active (or named) account
	mux.HandleFunc("/api/accounts", s.app.AuthHandler.ListAccountsHandler)  // GET - list stored accounts
	mux.HandleFunc("/api/accounts/", s.app.AuthHandler.AccountRoutesHandler) // POST /{id}/switch, DELETE /{id}
	mux.HandleFunc("/api/session", s.app.AuthHandler.SessionHandler)        // GET - browser hand-off payload

	// API routes - Profile
	mux.HandleFunc("/api/profile", s.app.ProfileHandler.ProfileRoutesHandler) // GET, PUT
	mux.HandleFunc("/api/languages", s.app.ProfileHandler.LanguagesHandler)   // GET

	// API routes - Settings and app lock
	mux.HandleFunc("/api/settings", s.app.SettingsHandler.SettingsRoutesHandler) // GET, PUT
	mux.HandleFunc("/api/settings/pin", s.handlePinRoutes)                       // POST (set), DELETE (remove)
	mux.HandleFunc("/api/settings/pin/verify", s.app.SettingsHandler.VerifyPinHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handlePinRoutes dispatches /api/settings/pin by method
func (s *Server) handlePinRoutes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.app.SettingsHandler.SetPinHandler(w, r)
	case http.MethodDelete:
		s.app.SettingsHandler.RemovePinHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
