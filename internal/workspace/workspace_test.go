package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_EphemeralMode(t *testing.T) {
	mgr := NewManager(t.TempDir())
	assert.Empty(t, mgr.Path())

	require.NoError(t, mgr.Create())
	wsPath := mgr.Path()
	require.NotEmpty(t, wsPath)
	assert.True(t, strings.HasPrefix(filepath.Base(wsPath), "gtmdocs-"))
	assert.DirExists(t, wsPath)
	assert.False(t, mgr.Persistent())

	require.NoError(t, mgr.Cleanup())
	assert.NoDirExists(t, wsPath)
	assert.Empty(t, mgr.Path())
}

func TestManager_EphemeralDirectoriesAreDistinct(t *testing.T) {
	base := t.TempDir()
	a, b := NewManager(base), NewManager(base)
	require.NoError(t, a.Create())
	require.NoError(t, b.Create())
	assert.NotEqual(t, a.Path(), b.Path())
}

func TestManager_PersistentMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs-clone")
	mgr := NewPersistentManager(dir)

	require.NoError(t, mgr.Create())
	assert.Equal(t, dir, mgr.Path())
	assert.True(t, mgr.Persistent())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o600))
	require.NoError(t, mgr.Cleanup())
	assert.FileExists(t, filepath.Join(dir, "marker"))

	// Create again is idempotent.
	require.NoError(t, mgr.Create())
	assert.Equal(t, dir, mgr.Path())
}

func TestManager_CleanupBeforeCreate(t *testing.T) {
	assert.NoError(t, NewManager(t.TempDir()).Cleanup())
}
