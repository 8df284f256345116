package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
	"github.com/woowtech/odoogate/internal/interfaces"
	"github.com/woowtech/odoogate/internal/models"
)

// AccountStorage implements the AccountStorage interface for Badger
type AccountStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAccountStorage creates a new AccountStorage instance
func NewAccountStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AccountStorage {
	return &AccountStorage{
		db:     db,
		logger: logger,
	}
}

func (s *AccountStorage) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Store().Get(id, &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// Find looks up an account by its exact (serverURL, database, username) triple
func (s *AccountStorage) Find(ctx context.Context, serverURL, database, username string) (*models.Account, error) {
	var accounts []models.Account
	query := badgerhold.Where("ServerURL").Eq(serverURL).
		And("Database").Eq(database).
		And("Username").Eq(username)
	if err := s.db.Store().Find(&accounts, query); err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

func (s *AccountStorage) GetActive(ctx context.Context) (*models.Account, error) {
	var accounts []models.Account
	if err := s.db.Store().Find(&accounts, badgerhold.Where("IsActive").Eq(true)); err != nil {
		return nil, fmt.Errorf("failed to find active account: %w", err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

// List returns all accounts ordered by last login, newest first
func (s *AccountStorage) List(ctx context.Context) ([]*models.Account, error) {
	var accounts []models.Account
	if err := s.db.Store().Find(&accounts, nil); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	result := make([]*models.Account, len(accounts))
	for i := range accounts {
		result[i] = &accounts[i]
	}
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].LastLogin.After(result[i].LastLogin) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (s *AccountStorage) Upsert(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		return fmt.Errorf("account ID is required")
	}
	if err := s.db.Store().Upsert(account.ID, account); err != nil {
		return fmt.Errorf("failed to store account: %w", err)
	}
	return nil
}

func (s *AccountStorage) Delete(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Account{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// DeactivateAll clears the active flag on every account. Completes before
// any subsequent activation so a crash between the two steps leaves zero
// active accounts rather than two.
func (s *AccountStorage) DeactivateAll(ctx context.Context) error {
	err := s.db.Store().UpdateMatching(&models.Account{}, badgerhold.Where("IsActive").Eq(true),
		func(record interface{}) error {
			account, ok := record.(*models.Account)
			if !ok {
				return fmt.Errorf("unexpected record type %T", record)
			}
			account.IsActive = false
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to deactivate accounts: %w", err)
	}
	return nil
}

func (s *AccountStorage) Activate(ctx context.Context, id string) error {
	var account models.Account
	if err := s.db.Store().Get(id, &account); err != nil {
		return fmt.Errorf("failed to get account for activation: %w", err)
	}
	account.IsActive = true
	if err := s.db.Store().Update(id, &account); err != nil {
		return fmt.Errorf("failed to activate account: %w", err)
	}
	return nil
}

func (s *AccountStorage) TouchLastLogin(ctx context.Context, id string) error {
	var account models.Account
	if err := s.db.Store().Get(id, &account); err != nil {
		return fmt.Errorf("failed to get account for last-login update: %w", err)
	}
	account.LastLogin = time.Now()
	if err := s.db.Store().Update(id, &account); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (s *AccountStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Account{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return int(count), nil
}
