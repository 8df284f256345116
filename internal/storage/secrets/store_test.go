package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woowtech/odoogate/internal/common"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()

	store, err := NewStore(&common.SecretsConfig{
		Path:          filepath.Join(dir, "secrets"),
		MasterKeyFile: filepath.Join(dir, "master.key"),
	}, common.GetLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestPasswordRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SavePassword("acct_1", "s3cret"))

	password, err := store.GetPassword("acct_1")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)
}

func TestGetPasswordMissing(t *testing.T) {
	store := newTestStore(t)

	password, err := store.GetPassword("acct_never_saved")
	require.NoError(t, err, "a missing credential is not an error")
	assert.Equal(t, "", password)
}

func TestRemovePassword(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SavePassword("acct_1", "s3cret"))
	require.NoError(t, store.RemovePassword("acct_1"))

	password, err := store.GetPassword("acct_1")
	require.NoError(t, err)
	assert.Equal(t, "", password)

	// Removing again is a no-op
	require.NoError(t, store.RemovePassword("acct_1"))
}

func TestPasswordsEncryptedAtRest(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "secrets")

	store, err := NewStore(&common.SecretsConfig{
		Path:          dbPath,
		MasterKeyFile: filepath.Join(dir, "master.key"),
	}, common.GetLogger())
	require.NoError(t, err)

	require.NoError(t, store.SavePassword("acct_1", "hunter2-plaintext-marker"))
	require.NoError(t, store.Close())

	// The plaintext must not appear anywhere in the database files
	entries, err := os.ReadDir(dbPath)
	require.NoError(t, err)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dbPath, entry.Name()))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "hunter2-plaintext-marker",
			"found plaintext password in %s", entry.Name())
	}
}

func TestMasterKeyGeneratedOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "master.key")

	store, err := NewStore(&common.SecretsConfig{
		Path:          filepath.Join(dir, "secrets"),
		MasterKeyFile: keyFile,
	}, common.GetLogger())
	require.NoError(t, err)
	require.NoError(t, store.SavePassword("acct_1", "s3cret"))
	require.NoError(t, store.Close())

	// Key file was created and allows reopening with the same key
	_, err = os.Stat(keyFile)
	require.NoError(t, err)

	reopened, err := NewStore(&common.SecretsConfig{
		Path:          filepath.Join(dir, "secrets"),
		MasterKeyFile: keyFile,
	}, common.GetLogger())
	require.NoError(t, err)
	defer reopened.Close()

	password, err := reopened.GetPassword("acct_1")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	// Unset settings come back with defaults
	settings, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "system", settings.Language)
	assert.False(t, settings.AppLockEnabled)

	settings.AppLockEnabled = true
	settings.PinEnabled = true
	settings.PinHash = "deadbeef"
	require.NoError(t, store.SaveSettings(settings))

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.True(t, got.AppLockEnabled)
	assert.True(t, got.PinEnabled)
	assert.Equal(t, "deadbeef", got.PinHash)
}

func TestDecodeMasterKeyValidation(t *testing.T) {
	_, err := decodeMasterKey("not-hex")
	assert.Error(t, err)

	_, err = decodeMasterKey("abcd")
	assert.Error(t, err, "short keys must be rejected")

	key, err := decodeMasterKey("000102030405060708090a0b0c0d0e0f000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	assert.Len(t, key, 32)
}
