package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relatree/domain/tree"
	apperrors "relatree/pkg/errors"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "relational-trees.json")
	store, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)
	return store, path
}

func TestNewStoreCreatesEmptyJournal(t *testing.T) {
	store, path := newStore(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))

	collection, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, collection)
}

func TestSaveAndReloadAcrossInstances(t *testing.T) {
	store, path := newStore(t)
	ctx := context.Background()

	collection := tree.NewCollection()
	id := collection.CreateTree(tree.CategoryFamily, "Hart")
	tr := collection[id]
	a, err := tr.AddReferenceNode("actor-a", 10, 20)
	require.NoError(t, err)
	b, err := tr.AddReferenceNode("actor-b", 100, 20)
	require.NoError(t, err)
	_, err = tr.Connect(a.ID, b.ID, "family")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, collection))

	reopened, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)
	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)

	require.Contains(t, loaded, id)
	assert.Equal(t, "Hart", loaded[id].Name)
	assert.Len(t, loaded[id].Nodes, 2)
	assert.Len(t, loaded[id].Connections, 1)
}

func TestLoadRejectsCorruptJournal(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsStore(err))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, store.Save(context.Background(), tree.NewCollection()))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp-")
	}
}

func TestPinsRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	pins, err := store.LoadPins(ctx)
	require.NoError(t, err)
	assert.Empty(t, pins)

	pin := tree.Pin{TreeID: tree.NewTreeID(), Label: "here", X: 1, Y: 2, Icon: tree.DefaultPinIcon}
	require.NoError(t, store.SavePins(ctx, []tree.Pin{pin}))

	pins, err = store.LoadPins(ctx)
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, pin, pins[0])
}
