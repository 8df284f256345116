package odoorpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woowtech/odoogate/internal/models"
)

// newAuthServer returns a TLS test server that answers
// /web/session/authenticate with the given handler and a client wired to
// trust it.
func newAuthServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	ts := httptest.NewTLSServer(handler)
	t.Cleanup(ts.Close)

	client := NewClient(WithHTTPClient(ts.Client()), WithRateLimit(100))
	return ts, client
}

func writeRPCResult(w http.ResponseWriter, result interface{}) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"result":  result,
	})
}

func TestAuthenticateSuccess(t *testing.T) {
	ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/web/session/authenticate", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req["jsonrpc"])
		assert.Equal(t, "call", req["method"])

		params := req["params"].(map[string]interface{})
		assert.Equal(t, "mydb", params["db"])
		assert.Equal(t, "alice", params["login"])

		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "sess-abc"})
		writeRPCResult(w, map[string]interface{}{
			"uid":  7,
			"name": "Alice Admin",
		})
	})

	result := client.Authenticate(context.Background(), ts.URL, "mydb", "alice", "secret")

	require.True(t, result.IsSuccess(), "expected success, got %+v", result.Error)
	assert.Equal(t, 7, result.Success.UserID)
	assert.Equal(t, "sess-abc", result.Success.SessionID)
	assert.Equal(t, "alice", result.Success.Username)
	assert.Equal(t, "Alice Admin", result.Success.DisplayName)

	host := extractHost(ts.URL)
	assert.Equal(t, "sess-abc", client.GetSessionID(host))
}

func TestAuthenticateDisplayNameFallsBackToUsername(t *testing.T) {
	ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Odoo returns boolean false for an unset name
		writeRPCResult(w, map[string]interface{}{
			"uid":  3,
			"name": false,
		})
	})

	result := client.Authenticate(context.Background(), ts.URL, "mydb", "bob", "secret")

	require.True(t, result.IsSuccess())
	assert.Equal(t, "bob", result.Success.DisplayName)
}

func TestAuthenticateNullUIDIsInvalidCredentials(t *testing.T) {
	// HTTP 200 with result.uid null or false still means rejection
	for _, uid := range []interface{}{nil, false} {
		ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeRPCResult(w, map[string]interface{}{"uid": uid})
		})

		result := client.Authenticate(context.Background(), ts.URL, "mydb", "alice", "wrong")

		require.False(t, result.IsSuccess())
		assert.Equal(t, models.AuthErrorInvalidCredentials, result.Error.Kind)
	}
}

func TestAuthenticateErrorClassification(t *testing.T) {
	tests := []struct {
		message string
		want    models.AuthErrorKind
	}{
		{"Database not found", models.AuthErrorDatabaseNotFound},
		{"Wrong login/password", models.AuthErrorInvalidCredentials},
		{"Invalid credentials supplied", models.AuthErrorInvalidCredentials},
		{"Internal Server Error", models.AuthErrorServer},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"jsonrpc": "2.0",
					"id":      1,
					"error": map[string]interface{}{
						"code":    200,
						"message": "Odoo Server Error",
						"data": map[string]interface{}{
							"message": tt.message,
						},
					},
				})
			})

			result := client.Authenticate(context.Background(), ts.URL, "mydb", "alice", "secret")

			require.False(t, result.IsSuccess())
			assert.Equal(t, tt.want, result.Error.Kind)
			assert.Equal(t, tt.message, result.Error.Message)
		})
	}
}

func TestAuthenticateRequiresHTTPS(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	client := NewClient(WithHTTPClient(ts.Client()), WithRateLimit(100))

	// ts.URL is plain http; the precondition must fire before any network I/O
	result := client.Authenticate(context.Background(), ts.URL, "mydb", "alice", "secret")

	require.False(t, result.IsSuccess())
	assert.Equal(t, models.AuthErrorHTTPSRequired, result.Error.Kind)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "no request may be sent for a plain-http URL")
}

func TestAuthenticateNetworkError(t *testing.T) {
	client := NewClient(WithRateLimit(100))

	result := client.Authenticate(context.Background(), "https://127.0.0.1:1", "mydb", "alice", "secret")

	require.False(t, result.IsSuccess())
	assert.Equal(t, models.AuthErrorNetwork, result.Error.Kind)
}

func TestCookieLifecycle(t *testing.T) {
	ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "first"})
		http.SetCookie(w, &http.Cookie{Name: "other", Value: "x"})
		writeRPCResult(w, map[string]interface{}{"uid": 1, "name": "A"})
	})
	host := extractHost(ts.URL)

	require.True(t, client.Authenticate(context.Background(), ts.URL, "db", "a", "p").IsSuccess())
	assert.Equal(t, "first", client.GetSessionID(host))
	assert.Len(t, client.GetSessionCookies(host), 2)

	client.ClearCookies(host)
	assert.Equal(t, "", client.GetSessionID(host))
	assert.Empty(t, client.GetSessionCookies(host))
}

func TestCookiesReplacedWholesale(t *testing.T) {
	first := true
	ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		if first {
			first = false
			http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "old"})
			http.SetCookie(w, &http.Cookie{Name: "stale", Value: "y"})
		} else {
			http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "new"})
		}
		writeRPCResult(w, map[string]interface{}{"uid": 1, "name": "A"})
	})
	host := extractHost(ts.URL)

	client.Authenticate(context.Background(), ts.URL, "db", "a", "p")
	client.Authenticate(context.Background(), ts.URL, "db", "a", "p")

	// The second response set only session_id; the stale cookie must be gone
	assert.Equal(t, "new", client.GetSessionID(host))
	assert.Len(t, client.GetSessionCookies(host), 1)
}

func TestGetUserProfile(t *testing.T) {
	ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jsonrpc", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		params := req["params"].(map[string]interface{})
		assert.Equal(t, "object", params["service"])
		assert.Equal(t, "execute_kw", params["method"])

		args := params["args"].([]interface{})
		assert.Equal(t, "mydb", args[0])
		assert.Equal(t, float64(7), args[1])
		assert.Equal(t, "res.users", args[3])
		assert.Equal(t, "read", args[4])

		writeRPCResult(w, []map[string]interface{}{{
			"name":      "Alice Admin",
			"login":     "alice",
			"email":     "alice@example.com",
			"phone":     false,
			"lang":      "en_US",
			"signature": "",
		}})
	})

	profile := client.GetUserProfile(context.Background(), ts.URL, "mydb", 7, "secret")

	require.NotNil(t, profile)
	assert.Equal(t, 7, profile.ID)
	assert.Equal(t, "Alice Admin", profile.Name)
	assert.Equal(t, "alice", profile.Login)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "alice@example.com", *profile.Email)
	assert.Nil(t, profile.Phone, "boolean false means the field is unset")
	assert.Nil(t, profile.Signature, "blank string means the field is unset")
}

func TestGetUserProfileDegradesToNil(t *testing.T) {
	ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      2,
			"error":   map[string]interface{}{"code": 200, "message": "Access Denied"},
		})
	})

	assert.Nil(t, client.GetUserProfile(context.Background(), ts.URL, "mydb", 7, "bad"))
}

func TestUpdateUserProfile(t *testing.T) {
	ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeRPCResult(w, true)
	})

	ok := client.UpdateUserProfile(context.Background(), ts.URL, "mydb", 7, "secret",
		map[string]interface{}{"phone": "+1 555 0100"})
	assert.True(t, ok)
}

func TestGetAvailableLanguages(t *testing.T) {
	ts, client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		args := req["params"].(map[string]interface{})["args"].([]interface{})
		assert.Equal(t, "res.lang", args[3])
		assert.Equal(t, "search_read", args[4])

		writeRPCResult(w, []map[string]interface{}{
			{"code": "en_US", "name": "English (US)"},
			{"code": "fr_FR", "name": "French"},
			{"code": false, "name": "Broken"}, // skipped: no code
		})
	})

	languages := client.GetAvailableLanguages(context.Background(), ts.URL, "mydb", 7, "secret")

	require.Len(t, languages, 2)
	assert.Equal(t, "en_US", languages[0].Code)
	assert.Equal(t, "French", languages[1].Name)
}

func TestGetAvailableLanguagesEmptyOnFailure(t *testing.T) {
	client := NewClient(WithRateLimit(100))

	languages := client.GetAvailableLanguages(context.Background(), "https://127.0.0.1:1", "mydb", 7, "secret")
	assert.NotNil(t, languages)
	assert.Empty(t, languages)
}

func TestExtractHost(t *testing.T) {
	assert.Equal(t, "erp.example.com", extractHost("https://erp.example.com/web"))
	assert.Equal(t, "erp.example.com:8069", extractHost("https://erp.example.com:8069"))
	assert.True(t, strings.HasPrefix(extractHost("https://127.0.0.1:8443/jsonrpc"), "127.0.0.1"))
}
