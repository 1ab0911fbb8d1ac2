package credstore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/tweetauth/internal/credentials"
	"github.com/florianilch/tweetauth/internal/secret"
)

func testCredentials(access, refresh string) *credentials.Credentials {
	return &credentials.Credentials{
		AccessToken:  secret.NewAccessToken(access),
		RefreshToken: secret.NewRefreshToken(refresh),
	}
}

func TestFileStoreCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Create(context.Background(), testCredentials("AT1", "RT1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"access_token":"AT1","refresh_token":"RT1"}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0700), dirInfo.Mode().Perm())
}

func TestFileStoreCreateExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	original := []byte("not even credentials\n")
	require.NoError(t, os.WriteFile(path, original, 0600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	err = store.Create(context.Background(), testCredentials("AT1", "RT1"))
	require.ErrorIs(t, err, ErrAlreadyExists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestFileStoreSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), testCredentials("AT1", "RT1")))

	require.NoError(t, store.Save(context.Background(), testCredentials("AT2", "")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"access_token":"AT2","refresh_token":null}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"AT1","refresh_token":"RT1"}`), 0600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	creds, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AT1", creds.AccessToken.Expose())
	assert.Equal(t, "RT1", creds.RefreshToken.Expose())
}

func TestFileStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		store, err := NewFileStore(filepath.Join(dir, "missing.json"))
		require.NoError(t, err)
		_, err = store.Load(context.Background())
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("insecure permissions", func(t *testing.T) {
		path := filepath.Join(dir, "world-readable.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"AT1"}`), 0600))
		require.NoError(t, os.Chmod(path, 0644))

		store, err := NewFileStore(path)
		require.NoError(t, err)
		_, err = store.Load(context.Background())
		assert.ErrorContains(t, err, "insecure permissions")
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "malformed.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"refresh_token":"RT1"}`), 0600))

		store, err := NewFileStore(path)
		require.NoError(t, err)
		_, err = store.Load(context.Background())
		assert.ErrorIs(t, err, credentials.ErrInvalidFormat)
	})
}

func TestFileStoreCanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Create(ctx, testCredentials("AT1", "RT1")), context.Canceled)
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewFileStoreEmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}
