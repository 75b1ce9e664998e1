package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))
}

func TestLocate_PrefersCredentialsFileInBaseDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	writeFile(t, filepath.Join(base, ".claude", ".credentials.json"))
	writeFile(t, filepath.Join(base, ".claude.json"))

	path, err := Locate(base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, ".claude", ".credentials.json"), path)
}

func TestLocate_FallsBackToLegacyFile(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	writeFile(t, filepath.Join(base, ".claude.json"))

	path, err := Locate(base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, ".claude.json"), path)
}

func TestLocate_FallsBackToHome(t *testing.T) {
	base := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)

	writeFile(t, filepath.Join(home, ".claude", ".credentials.json"))

	path, err := Locate(base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".claude", ".credentials.json"), path)
}

func TestLocate_NotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Locate(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocate_IgnoresDirectories(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	// A directory at a candidate path must not match.
	require.NoError(t, os.MkdirAll(filepath.Join(base, ".claude.json"), 0700))

	_, err := Locate(base)
	assert.ErrorIs(t, err, ErrNotFound)
}
