package credstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domenectl/domenectl/internal/adapter/driven/credstore"
	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

func newFileStore(t *testing.T) *credstore.FileStore {
	t.Helper()
	return credstore.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
}

func pair(token, secret string) model.Credentials {
	return model.Credentials{Token: token, Secret: secret, Source: model.SourceInteractive}
}

func TestFileStore_SaveAndLoadRoundtrip(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.SaveAccount("Work", pair("tok1", "sec1")))

	creds, err := store.LoadAccount("Work")
	require.NoError(t, err)
	assert.Equal(t, "tok1", creds.Token)
	assert.Equal(t, "sec1", creds.Secret)
	assert.Equal(t, model.SourceFile, creds.Source)
}

func TestFileStore_MissingAccountIsNotFound(t *testing.T) {
	store := newFileStore(t)
	_, err := store.LoadAccount("nope")
	assert.ErrorIs(t, err, driven.ErrAccountNotFound)
}

func TestFileStore_FileHasOwnerOnlyPermissions(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.SaveAccount("Work", pair("tok", "sec")))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFileReadsAsEmpty(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o600))

	names, err := store.ListAccounts()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFileStore_LegacyFormat(t *testing.T) {
	store := newFileStore(t)
	legacy := []byte(`{"token": "oldtok", "secret": "oldsec"}`)
	require.NoError(t, os.WriteFile(store.Path(), legacy, 0o600))

	t.Run("reads as account Standard", func(t *testing.T) {
		names, err := store.ListAccounts()
		require.NoError(t, err)
		assert.Equal(t, []string{"Standard"}, names)

		creds, err := store.LoadAccount("Standard")
		require.NoError(t, err)
		assert.Equal(t, "oldtok", creds.Token)
	})

	t.Run("first save upgrades the file and keeps the legacy pair", func(t *testing.T) {
		require.NoError(t, store.SaveAccount("Work", pair("tok2", "sec2")))

		names, err := store.ListAccounts()
		require.NoError(t, err)
		assert.Equal(t, []string{"Standard", "Work"}, names)

		creds, err := store.LoadAccount("Standard")
		require.NoError(t, err)
		assert.Equal(t, "oldtok", creds.Token)

		raw, err := os.ReadFile(store.Path())
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"version": 2`)
	})
}

func TestFileStore_DeleteLastAccountRemovesFile(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.SaveAccount("Work", pair("tok", "sec")))
	require.NoError(t, store.DeleteAccount("Work"))

	assert.False(t, store.Exists())
	assert.ErrorIs(t, store.DeleteAccount("Work"), driven.ErrAccountNotFound)
}

func TestFileStore_SaveReplacesExistingPair(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.SaveAccount("Work", pair("tok1", "sec1")))
	require.NoError(t, store.SaveAccount("Work", pair("tok2", "sec2")))

	creds, err := store.LoadAccount("Work")
	require.NoError(t, err)
	assert.Equal(t, "tok2", creds.Token)

	names, err := store.ListAccounts()
	require.NoError(t, err)
	assert.Len(t, names, 1)
}
