package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserSession(t *testing.T) {
	client := newMockClient()
	service, _, _ := newTestService(t, client)
	ctx := context.Background()

	require.True(t, service.Authenticate(ctx, "https://erp.example.com", "prod", "alice", "pw").IsSuccess())
	client.sessions["erp.example.com"] = "sess-live"

	session := service.BrowserSession(ctx)

	require.NotNil(t, session)
	assert.Equal(t, "https://erp.example.com", session.ServerURL)
	assert.Equal(t, "prod", session.Database)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "pw", session.Password)
	assert.Equal(t, "https://erp.example.com/web?db=prod", session.WebURL)
	assert.Equal(t, "sess-live", session.SessionID)

	cookie := session.SessionCookie()
	require.NotNil(t, cookie)
	assert.Equal(t, "session_id", cookie.Name)
	assert.Equal(t, "sess-live", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.Secure)
}

func TestBrowserSessionWithoutActiveAccount(t *testing.T) {
	client := newMockClient()
	service, _, _ := newTestService(t, client)

	assert.Nil(t, service.BrowserSession(context.Background()))
}

func TestBrowserSessionReestablishesSession(t *testing.T) {
	client := newMockClient()
	service, _, _ := newTestService(t, client)
	ctx := context.Background()

	require.True(t, service.Authenticate(ctx, "https://erp.example.com", "prod", "alice", "pw").IsSuccess())

	// No live session; the service re-authenticates. The mock does not track
	// cookies, so the hand-off carries no session id.
	callsBefore := client.authCalls
	session := service.BrowserSession(ctx)

	require.NotNil(t, session)
	assert.Equal(t, callsBefore+1, client.authCalls)
	assert.Empty(t, session.SessionID)
	assert.Nil(t, session.SessionCookie())
}
