package models

// AuthErrorKind classifies a failed authentication attempt.
// Callers pattern-match on the kind to choose UI copy.
type AuthErrorKind string

const (
	AuthErrorNetwork            AuthErrorKind = "network_error"
	AuthErrorInvalidURL         AuthErrorKind = "invalid_url"
	AuthErrorDatabaseNotFound   AuthErrorKind = "database_not_found"
	AuthErrorInvalidCredentials AuthErrorKind = "invalid_credentials"
	AuthErrorSessionExpired     AuthErrorKind = "session_expired"
	AuthErrorHTTPSRequired      AuthErrorKind = "https_required"
	AuthErrorServer             AuthErrorKind = "server_error"
	AuthErrorUnknown            AuthErrorKind = "unknown"
)

// AuthResult is the tagged outcome of one authentication attempt.
// Exactly one of Success or Error is set.
type AuthResult struct {
	Success *AuthSuccess `json:"success,omitempty"`
	Error   *AuthError   `json:"error,omitempty"`
}

// AuthSuccess carries the identity established by the server
type AuthSuccess struct {
	UserID      int    `json:"user_id"`
	SessionID   string `json:"session_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// AuthError carries a human-readable message plus a machine-matchable kind
type AuthError struct {
	Message string        `json:"message"`
	Kind    AuthErrorKind `json:"kind"`
}

// IsSuccess reports whether the attempt established a session
func (r AuthResult) IsSuccess() bool {
	return r.Success != nil
}

// NewAuthSuccess builds a successful result
func NewAuthSuccess(userID int, sessionID, username, displayName string) AuthResult {
	return AuthResult{Success: &AuthSuccess{
		UserID:      userID,
		SessionID:   sessionID,
		Username:    username,
		DisplayName: displayName,
	}}
}

// NewAuthError builds a failed result
func NewAuthError(message string, kind AuthErrorKind) AuthResult {
	return AuthResult{Error: &AuthError{Message: message, Kind: kind}}
}

// UserMessage maps an error kind to the copy shown by the shell UI
func (e *AuthError) UserMessage() string {
	switch e.Kind {
	case AuthErrorHTTPSRequired:
		return "Secure connection required (HTTPS)"
	case AuthErrorInvalidCredentials:
		return "Invalid username or password"
	case AuthErrorDatabaseNotFound:
		return "Database not found on server"
	case AuthErrorNetwork:
		return "Unable to connect to server"
	case AuthErrorServer:
		return "Server error, please try again"
	default:
		return "Login failed, please try again"
	}
}
