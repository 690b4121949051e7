package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	var got sample
	require.ErrorIs(t, store.Load(KeyCartItems, &got), ErrNotFound)

	require.NoError(t, store.Save(KeyCartItems, sample{Name: "mug", Count: 2}))
	require.NoError(t, store.Load(KeyCartItems, &got))
	require.Equal(t, sample{Name: "mug", Count: 2}, got)

	require.NoError(t, store.Save(KeyCartItems, sample{Name: "mug", Count: 3}))
	require.NoError(t, store.Load(KeyCartItems, &got))
	require.Equal(t, 3, got.Count)

	require.NoError(t, store.Save(KeyAuth, sample{Name: "ada"}))
	require.NoError(t, store.Remove(AllKeys...))
	require.ErrorIs(t, store.Load(KeyCartItems, &got), ErrNotFound)
	require.ErrorIs(t, store.Load(KeyAuth, &got), ErrNotFound)

	require.NoError(t, store.Remove(KeyCheckoutAddress))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	exerciseStore(t, store)

	require.NoError(t, store.Save(KeyCartItems, []sample{}))
	require.True(t, store.Has(KeyCartItems))
	var empty []sample
	require.NoError(t, store.Load(KeyCartItems, &empty))
	require.Empty(t, empty)
}

func TestFileStorePlain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewFileStore(FileConfig{Dir: dir})
	require.NoError(t, err)
	exerciseStore(t, store)

	require.NoError(t, store.Save(KeyCheckoutAddress, sample{Name: "home"}))
	raw, err := os.ReadFile(filepath.Join(dir, KeyCheckoutAddress+".json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"home","count":0}`, string(raw))
}

func TestFileStoreSignedDetectsTampering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewFileStore(FileConfig{Dir: dir, HashKey: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)
	exerciseStore(t, store)

	require.NoError(t, store.Save(KeyAuth, sample{Name: "ada"}))
	path := filepath.Join(dir, KeyAuth+".json")
	require.NoError(t, os.WriteFile(path, []byte("forged-value"), 0o600))

	var got sample
	require.ErrorIs(t, store.Load(KeyAuth, &got), ErrTampered)
}

func TestFileStoreEncryptedRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewFileStore(FileConfig{
		Dir:      dir,
		HashKey:  []byte("0123456789abcdef0123456789abcdef"),
		BlockKey: []byte("fedcba9876543210"),
	})
	require.NoError(t, err)

	require.NoError(t, store.Save(KeyAuth, sample{Name: "secret-user"}))
	raw, err := os.ReadFile(filepath.Join(dir, KeyAuth+".json"))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secret-user")

	var got sample
	require.NoError(t, store.Load(KeyAuth, &got))
	require.Equal(t, "secret-user", got.Name)
}

func TestNewFileStoreValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := NewFileStore(FileConfig{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewFileStore(FileConfig{Dir: t.TempDir(), BlockKey: []byte("fedcba9876543210")})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(FileConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	require.Error(t, store.Save("../escape", sample{}))
}
