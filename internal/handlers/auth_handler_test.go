package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woowtech/odoogate/internal/common"
	"github.com/woowtech/odoogate/internal/models"
	"github.com/woowtech/odoogate/internal/services/account"
	badgerstore "github.com/woowtech/odoogate/internal/storage/badger"
)

// mockOdooClient implements interfaces.OdooClient for handler tests
type mockOdooClient struct {
	authenticateFunc func(ctx context.Context, serverURL, database, username, password string) models.AuthResult
	sessions         map[string]string
}

func (m *mockOdooClient) Authenticate(ctx context.Context, serverURL, database, username, password string) models.AuthResult {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, serverURL, database, username, password)
	}
	return models.NewAuthSuccess(7, "sess-1", username, "Mock User")
}

func (m *mockOdooClient) GetUserProfile(ctx context.Context, serverURL, database string, userID int, password string) *models.UserProfile {
	return nil
}

func (m *mockOdooClient) UpdateUserProfile(ctx context.Context, serverURL, database string, userID int, password string, updates map[string]interface{}) bool {
	return false
}

func (m *mockOdooClient) GetAvailableLanguages(ctx context.Context, serverURL, database string, userID int, password string) []models.Language {
	return []models.Language{}
}

func (m *mockOdooClient) GetSessionID(host string) string {
	return m.sessions[host]
}

func (m *mockOdooClient) GetSessionCookies(host string) []*http.Cookie {
	return nil
}

func (m *mockOdooClient) ClearCookies(host string) {
	delete(m.sessions, host)
}

// memCredentialStore is an in-memory CredentialStore for handler tests
type memCredentialStore struct {
	passwords map[string]string
}

func (m *memCredentialStore) SavePassword(accountID, password string) error {
	m.passwords[accountID] = password
	return nil
}

func (m *memCredentialStore) GetPassword(accountID string) (string, error) {
	return m.passwords[accountID], nil
}

func (m *memCredentialStore) RemovePassword(accountID string) error {
	delete(m.passwords, accountID)
	return nil
}

func newTestAuthHandler(t *testing.T, client *mockOdooClient) *AuthHandler {
	t.Helper()

	db, err := badgerstore.NewBadgerDB(common.GetLogger(), &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "accounts"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	accounts := badgerstore.NewAccountStorage(db, common.GetLogger())
	credentials := &memCredentialStore{passwords: make(map[string]string)}
	service := account.NewService(client, accounts, credentials, nil, common.GetLogger())

	return NewAuthHandler(service, common.GetLogger())
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLoginHandlerSuccess(t *testing.T) {
	handler := newTestAuthHandler(t, &mockOdooClient{sessions: make(map[string]string)})

	rec := postJSON(t, handler.LoginHandler, "/api/login", map[string]string{
		"server_url": "https://erp.example.com",
		"database":   "prod",
		"username":   "alice",
		"password":   "secret",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, float64(7), resp["user_id"])
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, "Mock User", resp["display_name"])
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	client := &mockOdooClient{sessions: make(map[string]string)}
	client.authenticateFunc = func(ctx context.Context, serverURL, database, username, password string) models.AuthResult {
		return models.NewAuthError("Wrong login/password", models.AuthErrorInvalidCredentials)
	}
	handler := newTestAuthHandler(t, client)

	rec := postJSON(t, handler.LoginHandler, "/api/login", map[string]string{
		"server_url": "https://erp.example.com",
		"database":   "prod",
		"username":   "alice",
		"password":   "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, string(models.AuthErrorInvalidCredentials), resp["kind"])
	assert.Equal(t, "Invalid username or password", resp["error"])
}

func TestLoginHandlerMissingFields(t *testing.T) {
	handler := newTestAuthHandler(t, &mockOdooClient{sessions: make(map[string]string)})

	rec := postJSON(t, handler.LoginHandler, "/api/login", map[string]string{
		"server_url": "https://erp.example.com",
		// database, username, password missing
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandlerRejectsGet(t *testing.T) {
	handler := newTestAuthHandler(t, &mockOdooClient{sessions: make(map[string]string)})

	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	rec := httptest.NewRecorder()
	handler.LoginHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListAccountsHandler(t *testing.T) {
	handler := newTestAuthHandler(t, &mockOdooClient{sessions: make(map[string]string)})

	postJSON(t, handler.LoginHandler, "/api/login", map[string]string{
		"server_url": "https://erp.example.com",
		"database":   "prod",
		"username":   "alice",
		"password":   "secret",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rec := httptest.NewRecorder()
	handler.ListAccountsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var accounts []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, "alice", accounts[0]["username"])
	assert.Equal(t, true, accounts[0]["is_active"])
}

func TestAccountRoutesSwitchAndDelete(t *testing.T) {
	handler := newTestAuthHandler(t, &mockOdooClient{sessions: make(map[string]string)})

	postJSON(t, handler.LoginHandler, "/api/login", map[string]string{
		"server_url": "https://a.example.com",
		"database":   "prod",
		"username":   "alice",
		"password":   "pw",
	})
	postJSON(t, handler.LoginHandler, "/api/login", map[string]string{
		"server_url": "https://b.example.com",
		"database":   "prod",
		"username":   "bob",
		"password":   "pw",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rec := httptest.NewRecorder()
	handler.ListAccountsHandler(rec, req)

	var accounts []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	require.Len(t, accounts, 2)

	var aliceID string
	for _, acc := range accounts {
		if acc["username"] == "alice" {
			aliceID = acc["id"].(string)
		}
	}
	require.NotEmpty(t, aliceID)

	// Switch back to alice
	req = httptest.NewRequest(http.MethodPost, "/api/accounts/"+aliceID+"/switch", nil)
	rec = httptest.NewRecorder()
	handler.AccountRoutesHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Delete alice
	req = httptest.NewRequest(http.MethodDelete, "/api/accounts/"+aliceID, nil)
	rec = httptest.NewRecorder()
	handler.AccountRoutesHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rec = httptest.NewRecorder()
	handler.ListAccountsHandler(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	assert.Len(t, accounts, 1)
}

func TestSessionHandlerNoActiveAccount(t *testing.T) {
	handler := newTestAuthHandler(t, &mockOdooClient{sessions: make(map[string]string)})

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	handler.SessionHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogoutHandlerWithoutBody(t *testing.T) {
	handler := newTestAuthHandler(t, &mockOdooClient{sessions: make(map[string]string)})

	postJSON(t, handler.LoginHandler, "/api/login", map[string]string{
		"server_url": "https://erp.example.com",
		"database":   "prod",
		"username":   "alice",
		"password":   "secret",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	handler.LogoutHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rec = httptest.NewRecorder()
	handler.ListAccountsHandler(rec, req)

	var accounts []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	assert.Empty(t, accounts)
}
