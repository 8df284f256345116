// Package odoorpc provides a JSON-RPC 2.0 client for Odoo ERP servers.
// The client tracks session cookies in memory per host; sessions never
// survive process restart and are re-established by the account service.
package odoorpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP timeout for RPC calls.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// SessionCookieName is the cookie Odoo uses to identify a session.
	SessionCookieName = "session_id"
)

// Client is an Odoo JSON-RPC client with an in-memory per-host cookie table.
// Concurrent authenticate calls for the same host race; the last writer's
// cookie set wins.
type Client struct {
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter

	mu      sync.RWMutex
	cookies map[string][]*http.Cookie
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Odoo JSON-RPC client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		cookies: make(map[string][]*http.Cookie),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetSessionID returns the session_id cookie value for a host, or "" when no
// session exists.
func (c *Client) GetSessionID(host string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cookie := range c.cookies[host] {
		if cookie.Name == SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// GetSessionCookies returns a copy of the cookie set for a host.
func (c *Client) GetSessionCookies(host string) []*http.Cookie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored := c.cookies[host]
	out := make([]*http.Cookie, len(stored))
	copy(out, stored)
	return out
}

// ClearCookies discards the cookie set for a host.
func (c *Client) ClearCookies(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cookies, host)
}

// replaceCookies replaces the cookie set for a host wholesale. Old cookies
// are discarded, not merged.
func (c *Client) replaceCookies(host string, cookies []*http.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies[host] = cookies
}

// Authenticate performs /web/session/authenticate and replaces the host's
// cookie set on completion. Every failure mode is returned as a typed
// AuthResult; this method never returns a Go error.
func (c *Client) Authenticate(ctx context.Context, serverURL, database, username, password string) models.AuthResult {
	if !strings.HasPrefix(serverURL, "https://") {
		return models.NewAuthError("HTTPS required", models.AuthErrorHTTPSRequired)
	}

	request := newRequest(map[string]interface{}{
		"db":       database,
		"login":    username,
		"password": password,
	}, requestIDAuthenticate)

	response, err := c.execute(ctx, serverURL+"/web/session/authenticate", request)
	if err != nil {
		return authErrorFromTransport(err)
	}

	if response.Error != nil {
		message := response.Error.bestMessage()
		return models.NewAuthError(message, classifyAuthError(message))
	}

	// The server can answer HTTP 200 with a null or uid-less result for bad
	// credentials; treat that the same as an explicit rejection.
	var result map[string]interface{}
	if response.hasResult() {
		if err := json.Unmarshal(response.Result, &result); err != nil {
			return models.NewAuthError(fmt.Sprintf("Error: %v", err), models.AuthErrorUnknown)
		}
	}
	uid, ok := intField(result["uid"])
	if !ok {
		return models.NewAuthError("Invalid credentials", models.AuthErrorInvalidCredentials)
	}

	host := extractHost(serverURL)
	displayName := stringFieldOr(result["name"], username)

	c.logIfSet(func(l arbor.ILogger) {
		l.Debug().Str("host", host).Int("uid", uid).Msg("Authenticated against Odoo server")
	})

	return models.NewAuthSuccess(uid, c.GetSessionID(host), username, displayName)
}

// execute POSTs a JSON-RPC envelope, sending the host's stored cookies and
// capturing any cookies the server sets.
func (c *Client) execute(ctx context.Context, requestURL string, body rpcRequest) (*rpcResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	host := extractHost(requestURL)
	for _, cookie := range c.GetSessionCookies(host) {
		req.AddCookie(cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if cookies := resp.Cookies(); len(cookies) > 0 {
		c.replaceCookies(host, cookies)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response from %s", requestURL)
	}

	var response rpcResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}

// classifyAuthError maps a protocol-level error message to an error kind by
// case-insensitive substring match.
func classifyAuthError(message string) models.AuthErrorKind {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "database"):
		return models.AuthErrorDatabaseNotFound
	case strings.Contains(lower, "login"),
		strings.Contains(lower, "password"),
		strings.Contains(lower, "credentials"):
		return models.AuthErrorInvalidCredentials
	default:
		return models.AuthErrorServer
	}
}

// authErrorFromTransport maps a transport failure to a typed result. Network
// failures (DNS, timeout, I/O) become NetworkError; anything unexpected, such
// as an unparseable response body, becomes Unknown.
func authErrorFromTransport(err error) models.AuthResult {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return models.NewAuthError("Connection timeout", models.AuthErrorNetwork)
		}
		return models.NewAuthError("Unable to connect to server", models.AuthErrorNetwork)
	}
	if strings.Contains(err.Error(), "rate limit wait") {
		return models.NewAuthError("Network error: "+err.Error(), models.AuthErrorNetwork)
	}
	return models.NewAuthError("Error: "+err.Error(), models.AuthErrorUnknown)
}

func extractHost(requestURL string) string {
	if parsed, err := url.Parse(requestURL); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	host := strings.TrimPrefix(strings.TrimPrefix(requestURL, "https://"), "http://")
	if idx := strings.IndexByte(host, '/'); idx >= 0 {
		host = host[:idx]
	}
	return host
}

func (c *Client) logIfSet(fn func(arbor.ILogger)) {
	if c.logger != nil {
		fn(c.logger)
	}
}
