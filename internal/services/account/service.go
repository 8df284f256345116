// Package account implements the account/session manager: it coordinates
// authentication, account persistence, session liveness, and exposes the
// active-account concept to the rest of the app.
package account

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/common"
	"github.com/woowtech/odoogate/internal/interfaces"
	"github.com/woowtech/odoogate/internal/models"
)

// Service orchestrates the RPC client, account storage, and credential store
type Service struct {
	client      interfaces.OdooClient
	accounts    interfaces.AccountStorage
	credentials interfaces.CredentialStore
	events      interfaces.EventService
	logger      arbor.ILogger
}

// NewService creates a new account service. The events service may be nil.
func NewService(
	client interfaces.OdooClient,
	accounts interfaces.AccountStorage,
	credentials interfaces.CredentialStore,
	events interfaces.EventService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		client:      client,
		accounts:    accounts,
		credentials: credentials,
		events:      events,
		logger:      logger,
	}
}

// Authenticate logs in against the server and, on success, upserts the
// account row (creating it for a new (server, db, username) triple, updating
// in place otherwise), enforces the at-most-one-active invariant, and stores
// the password. The AuthResult is returned to the caller unchanged.
func (s *Service) Authenticate(ctx context.Context, serverURL, database, username, password string) models.AuthResult {
	fullURL := common.NormalizeServerURL(serverURL)

	result := s.client.Authenticate(ctx, fullURL, database, username, password)
	if !result.IsSuccess() {
		return result
	}

	existing, err := s.accounts.Find(ctx, fullURL, database, username)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up existing account")
	}

	var account *models.Account
	if existing != nil {
		existing.DisplayName = result.Success.DisplayName
		existing.UserID = result.Success.UserID
		existing.LastLogin = time.Now()
		existing.IsActive = true
		account = existing
	} else {
		account = &models.Account{
			ID:          common.NewAccountID(),
			ServerURL:   fullURL,
			Database:    database,
			Username:    username,
			DisplayName: result.Success.DisplayName,
			UserID:      result.Success.UserID,
			LastLogin:   time.Now(),
			IsActive:    true,
		}
	}

	// Deactivate-all must complete before the target is persisted active so a
	// crash between the steps leaves zero active accounts, never two.
	if err := s.accounts.DeactivateAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to deactivate accounts")
	}
	if err := s.accounts.Upsert(ctx, account); err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("Failed to persist account")
	}
	if err := s.credentials.SavePassword(account.ID, password); err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("Failed to store credential")
	}

	s.publish(ctx, interfaces.EventAuthenticated, account.ID, map[string]interface{}{
		"display_name": account.DisplayName,
		"server_url":   account.ServerURL,
	})

	return result
}

// SwitchAccount re-authenticates the target account with its stored password.
// Returns false without any network call when the account or its credential
// is missing; on failure nothing changes and the current account stays active.
func (s *Service) SwitchAccount(ctx context.Context, accountID string) bool {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil || account == nil {
		return false
	}

	password, err := s.credentials.GetPassword(accountID)
	if err != nil || password == "" {
		return false
	}

	result := s.client.Authenticate(ctx, account.FullServerURL(), account.Database, account.Username, password)
	if !result.IsSuccess() {
		return false
	}

	if err := s.accounts.DeactivateAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to deactivate accounts")
		return false
	}
	if err := s.accounts.Activate(ctx, accountID); err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to activate account")
		return false
	}
	if err := s.accounts.TouchLastLogin(ctx, accountID); err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to update last login")
	}

	s.publish(ctx, interfaces.EventAccountSwitched, accountID, nil)
	return true
}

// Logout clears the account's in-memory session cookies, removes its stored
// credential, and deletes the account row. An empty accountID resolves to the
// current active account; when none resolves this is a no-op. All three steps
// must complete for the logout to be considered successful.
func (s *Service) Logout(ctx context.Context, accountID string) error {
	if accountID == "" {
		active, err := s.accounts.GetActive(ctx)
		if err != nil || active == nil {
			return nil
		}
		accountID = active.ID
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil || account == nil {
		return nil
	}

	s.client.ClearCookies(account.Host())

	if err := s.credentials.RemovePassword(accountID); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		return err
	}

	s.publish(ctx, interfaces.EventLoggedOut, accountID, nil)
	return nil
}

// RemoveAccount deletes the stored credential and account row without
// touching session cookies; intended for removing a non-active account.
func (s *Service) RemoveAccount(ctx context.Context, accountID string) error {
	if err := s.credentials.RemovePassword(accountID); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		return err
	}

	s.publish(ctx, interfaces.EventAccountRemoved, accountID, nil)
	return nil
}

// ensureSession re-establishes the in-memory session when the cookie table is
// empty for the account's host, e.g. after a process restart. Sessions are
// transient while accounts are durable; this reconciles the two.
func (s *Service) ensureSession(ctx context.Context, account *models.Account, password string) bool {
	if s.client.GetSessionID(account.Host()) != "" {
		return true
	}

	s.logger.Debug().Str("account_id", account.ID).Msg("Re-authenticating to establish session")
	result := s.client.Authenticate(ctx, account.FullServerURL(), account.Database, account.Username, password)
	if !result.IsSuccess() {
		s.publish(ctx, interfaces.EventSessionLost, account.ID, nil)
		return false
	}
	return true
}

// GetUserProfile reads the active account's profile; nil means unavailable
func (s *Service) GetUserProfile(ctx context.Context) *models.UserProfile {
	account, password, ok := s.resolveActive(ctx)
	if !ok || account.UserID == 0 {
		return nil
	}
	if !s.ensureSession(ctx, account, password) {
		s.logger.Error().Str("account_id", account.ID).Msg("getUserProfile: failed to establish session")
		return nil
	}
	return s.client.GetUserProfile(ctx, account.FullServerURL(), account.Database, account.UserID, password)
}

// UpdateUserProfile writes field updates to the active account's user record
func (s *Service) UpdateUserProfile(ctx context.Context, updates map[string]interface{}) bool {
	account, password, ok := s.resolveActive(ctx)
	if !ok || account.UserID == 0 {
		return false
	}
	if !s.ensureSession(ctx, account, password) {
		s.logger.Error().Str("account_id", account.ID).Msg("updateUserProfile: failed to establish session")
		return false
	}
	return s.client.UpdateUserProfile(ctx, account.FullServerURL(), account.Database, account.UserID, password, updates)
}

// GetAvailableLanguages lists the server's active languages for the active
// account; empty on any failure
func (s *Service) GetAvailableLanguages(ctx context.Context) []models.Language {
	account, password, ok := s.resolveActive(ctx)
	if !ok || account.UserID == 0 {
		return []models.Language{}
	}
	if !s.ensureSession(ctx, account, password) {
		s.logger.Error().Str("account_id", account.ID).Msg("getAvailableLanguages: failed to establish session")
		return []models.Language{}
	}
	return s.client.GetAvailableLanguages(ctx, account.FullServerURL(), account.Database, account.UserID, password)
}

// RefreshSession re-validates the active account's session, re-authenticating
// if the in-memory cookie is gone. Used by the background refresher.
func (s *Service) RefreshSession(ctx context.Context) bool {
	account, password, ok := s.resolveActive(ctx)
	if !ok {
		return false
	}
	if !s.ensureSession(ctx, account, password) {
		return false
	}
	s.publish(ctx, interfaces.EventSessionRefreshed, account.ID, nil)
	return true
}

// GetSessionID returns the session_id cookie value for a server URL
func (s *Service) GetSessionID(serverURL string) string {
	return s.client.GetSessionID(common.ExtractHost(serverURL))
}

// GetSessionCookies returns the cookie set for a server URL
func (s *Service) GetSessionCookies(serverURL string) []*http.Cookie {
	return s.client.GetSessionCookies(common.ExtractHost(serverURL))
}

// ActiveAccount returns the currently active account, or nil
func (s *Service) ActiveAccount(ctx context.Context) (*models.Account, error) {
	return s.accounts.GetActive(ctx)
}

// Accounts lists all configured accounts, newest login first
func (s *Service) Accounts(ctx context.Context) ([]*models.Account, error) {
	return s.accounts.List(ctx)
}

// AccountCount returns the number of configured accounts
func (s *Service) AccountCount(ctx context.Context) (int, error) {
	return s.accounts.Count(ctx)
}

func (s *Service) resolveActive(ctx context.Context) (*models.Account, string, bool) {
	account, err := s.accounts.GetActive(ctx)
	if err != nil || account == nil {
		return nil, "", false
	}
	password, err := s.credentials.GetPassword(account.ID)
	if err != nil || password == "" {
		return nil, "", false
	}
	return account, password, true
}

func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, accountID string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, interfaces.Event{
		Type:      eventType,
		AccountID: accountID,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}
