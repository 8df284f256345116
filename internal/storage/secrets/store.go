// Package secrets implements the credential and settings stores on a
// dedicated Badger database, sealing every value with ChaCha20-Poly1305
// under a 32-byte master key.
package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/common"
	"github.com/woowtech/odoogate/internal/models"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	passwordKeyPrefix = "pwd_"
	settingsKey       = "settings"
)

// Store is an encrypted-at-rest key/value store for passwords and app
// settings. It implements interfaces.CredentialStore and
// interfaces.SettingsStore.
type Store struct {
	db     *badger.DB
	aead   *chachaAEAD
	logger arbor.ILogger
}

// NewStore opens the secrets database and loads the master key. A missing
// key file is created with a freshly generated key on first run.
func NewStore(config *common.SecretsConfig, logger arbor.ILogger) (*Store, error) {
	masterKey, err := loadMasterKey(config.MasterKeyFile)
	if err != nil {
		return nil, err
	}

	aead, err := newChachaAEAD(masterKey)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create secrets directory: %w", err)
	}

	options := badger.DefaultOptions(config.Path)
	options.Logger = nil // Disable default badger logger to use arbor

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open secrets database: %w", err)
	}

	logger.Debug().Str("path", config.Path).Msg("Secrets database initialized")

	return &Store{
		db:     db,
		aead:   aead,
		logger: logger,
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePassword stores the password for an account, encrypted at rest
func (s *Store) SavePassword(accountID, password string) error {
	return s.setSealed(passwordKeyPrefix+accountID, []byte(password))
}

// GetPassword returns the stored password, or "" when no credential exists.
// Absence is the defined "cannot re-authenticate" condition, not an error.
func (s *Store) GetPassword(accountID string) (string, error) {
	plain, err := s.getSealed(passwordKeyPrefix + accountID)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// RemovePassword deletes the stored password for an account
func (s *Store) RemovePassword(accountID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(passwordKeyPrefix + accountID))
	})
	if err != nil {
		return fmt.Errorf("failed to remove password: %w", err)
	}
	return nil
}

// GetSettings returns the persisted app settings, defaulted when unset
func (s *Store) GetSettings() (*models.AppSettings, error) {
	plain, err := s.getSealed(settingsKey)
	if err != nil {
		return nil, err
	}
	settings := &models.AppSettings{Language: "system"}
	if plain == nil {
		return settings, nil
	}
	if err := json.Unmarshal(plain, settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

// SaveSettings persists the app settings
func (s *Store) SaveSettings(settings *models.AppSettings) error {
	plain, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.setSealed(settingsKey, plain)
}

func (s *Store) setSealed(key string, plain []byte) error {
	sealed, err := s.aead.seal(plain)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), sealed)
	})
	if err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}
	return nil
}

// getSealed returns (nil, nil) when the key does not exist
func (s *Store) getSealed(key string) ([]byte, error) {
	var sealed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		sealed, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	return s.aead.open(sealed)
}

// loadMasterKey resolves the 32-byte master key: ODOOGATE_MASTER_KEY env var
// (hex), then the key file, generating and writing the file on first run.
func loadMasterKey(keyFile string) ([]byte, error) {
	if h := os.Getenv("ODOOGATE_MASTER_KEY"); h != "" {
		return decodeMasterKey(h)
	}

	if keyFile == "" {
		return nil, fmt.Errorf("no master key: set ODOOGATE_MASTER_KEY or configure master_key_file")
	}

	if data, err := os.ReadFile(keyFile); err == nil {
		return decodeMasterKey(string(data))
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	if err := os.WriteFile(keyFile, []byte(hex.EncodeToString(key)), 0600); err != nil {
		return nil, fmt.Errorf("failed to write master key file: %w", err)
	}
	return key, nil
}

func decodeMasterKey(h string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(h))
	if err != nil {
		return nil, fmt.Errorf("master key hex decode error: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("master key length must be %d bytes (hex %d chars)", chacha20poly1305.KeySize, chacha20poly1305.KeySize*2)
	}
	return key, nil
}
