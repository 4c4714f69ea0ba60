package storage

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func openBackends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := Open(BackendFile, t.TempDir(), quietLogger())
	require.NoError(t, err)
	sqliteStore, err := Open(BackendSQLite, t.TempDir(), quietLogger())
	require.NoError(t, err)

	stores := map[string]Store{
		"memory":      NewMemory(),
		BackendFile:   fileStore,
		BackendSQLite: sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close() //nolint:errcheck // Test cleanup
		}
	})
	return stores
}

func TestStore_Contract(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set("theme", "dark"))
			require.NoError(t, s.Set("active-tab", "go"))
			require.NoError(t, s.Set("theme", "light"))

			v, err := s.Get("theme")
			require.NoError(t, err)
			assert.Equal(t, "light", v)

			keys, err := s.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"active-tab", "theme"}, keys)

			n, err := s.Len()
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			require.NoError(t, s.Remove("theme"))
			require.NoError(t, s.Remove("theme"), "removing a missing key is not an error")
			_, err = s.Get("theme")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Clear())
			n, err = s.Len()
			require.NoError(t, err)
			assert.Zero(t, n)
			keys, err = s.Keys()
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestFile_Persists(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenFile(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	assert.FileExists(t, filepath.Join(dir, FileName))

	reopened, err := OpenFile(dir)
	require.NoError(t, err)
	v, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestFile_FailedWriteKeepsState(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	s, err := OpenFile(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))

	// A regular file where the directory was makes every write fail.
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("blocked"), 0o600))

	require.Error(t, s.Set("other", "x"))
	_, err = s.Get("other")
	assert.ErrorIs(t, err, ErrNotFound)

	require.Error(t, s.Set("k", "changed"))
	require.Error(t, s.Remove("k"))
	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.Error(t, s.Clear())
	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFile_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{invalid"), 0o600))

	_, err := OpenFile(dir)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFile_ConcurrentSet(t *testing.T) {
	s, err := OpenFile(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Set(string(rune('a'+i)), "x"))
		}()
	}
	wg.Wait()

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestSQLite_Persists(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(BackendSQLite, dir, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())

	reopened, err := Open(BackendSQLite, dir, quietLogger())
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir(), quietLogger())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestResolveDir(t *testing.T) {
	dir, err := ResolveDir("/tmp/explicit")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/explicit", dir)

	dir, err = ResolveDir("")
	require.NoError(t, err)
	assert.Contains(t, dir, DirName)
}
