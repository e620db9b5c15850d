package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name, err := store.Save(filepath.Join("backup_1", "students.csv"), []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("backup_1", "students.csv"), name)
	assert.True(t, store.Exists(name))

	data, err := store.Read(name)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	_, err = store.Read("missing.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, dir, store.Root())
	assert.Equal(t, filepath.Join(dir, "x.txt"), store.Path("x.txt"))
}

func TestLocalStorageList(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"b.csv", "a.CSV", "notes.txt"} {
		_, err := store.Save(name, []byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, os.Mkdir(store.Path("nested.csv"), 0o755))

	csvFiles, err := store.List(".csv")
	require.NoError(t, err)
	require.Len(t, csvFiles, 2)
	assert.Equal(t, "a.CSV", csvFiles[0].Name)
	assert.Equal(t, int64(5), csvFiles[0].Size)
	assert.Equal(t, "b.csv", csvFiles[1].Name)

	all, err := store.List()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(filepath.Join("old", "students.csv"), []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("fresh.csv", []byte("fresh"))
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path(filepath.Join("old", "students.csv")), past, past))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("old", "students.csv")}, deleted)
	assert.True(t, store.Exists("fresh.csv"))
}

func TestNewLocalStorageRequiresDir(t *testing.T) {
	_, err := NewLocalStorage("")
	assert.Error(t, err)
}
