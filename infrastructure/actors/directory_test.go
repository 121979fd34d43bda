package actors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDirectoryMissingFileStartsEmpty(t *testing.T) {
	dir, err := NewDirectory(filepath.Join(t.TempDir(), "actors.json"), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 0, dir.Count())
	_, ok := dir.Resolve("anyone")
	assert.False(t, ok)
}

func TestDirectoryResolvesActors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actors.json")
	payload := `[
		{"id": "actor-1", "name": "Mira Hart", "image": "portraits/mira.png"},
		{"id": "actor-2", "name": "Rook"},
		{"name": "no id, skipped"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	dir, err := NewDirectory(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Count())

	info, ok := dir.Resolve("actor-1")
	require.True(t, ok)
	assert.Equal(t, "Mira Hart", info.Name)
	assert.Equal(t, "portraits/mira.png", info.Image)

	info, ok = dir.Resolve("actor-2")
	require.True(t, ok)
	assert.Equal(t, "Rook", info.Name)
	assert.Empty(t, info.Image)
}

func TestDirectoryReloadReplacesIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "a", "name": "First"}]`), 0o644))

	dir, err := NewDirectory(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "b", "name": "Second"}]`), 0o644))
	require.NoError(t, dir.Reload())

	_, ok := dir.Resolve("a")
	assert.False(t, ok)
	info, ok := dir.Resolve("b")
	require.True(t, ok)
	assert.Equal(t, "Second", info.Name)
}

func TestDirectoryRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"}`), 0o644))

	_, err := NewDirectory(path, zap.NewNop())
	assert.Error(t, err)
}
