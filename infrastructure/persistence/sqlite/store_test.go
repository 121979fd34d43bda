package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relatree/domain/tree"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relatree.db")
	store, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestLoadEmptyDatabase(t *testing.T) {
	store, _ := newStore(t)

	collection, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, collection)
}

func TestSaveAndReloadAcrossHandles(t *testing.T) {
	store, path := newStore(t)
	ctx := context.Background()

	collection := tree.NewCollection()
	id := collection.CreateTree(tree.CategoryFactions, "Guilds")
	tr := collection[id]
	a, err := tr.AddReferenceNode("actor-a", 0, 0)
	require.NoError(t, err)
	b, err := tr.AddReferenceNode("actor-b", 100, 0)
	require.NoError(t, err)
	_, err = tr.Connect(a.ID, b.ID, "rival")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, collection))

	reopened, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, loaded, id)
	assert.Equal(t, "Guilds", loaded[id].Name)
	assert.Len(t, loaded[id].Connections, 1)
}

func TestSaveOverwritesDocument(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	first := tree.NewCollection()
	first.CreateTree(tree.CategoryFamily, "Hart")
	require.NoError(t, store.Save(ctx, first))

	second := tree.NewCollection()
	second.CreateTree(tree.CategoryFamily, "Stag")
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	_, found := loaded.FindByName(tree.CategoryFamily, "Stag")
	assert.True(t, found)
}

func TestPinsRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	pins, err := store.LoadPins(ctx)
	require.NoError(t, err)
	assert.Empty(t, pins)

	pin := tree.Pin{TreeID: tree.NewTreeID(), Label: "camp", X: 3, Y: 4, Icon: tree.DefaultPinIcon}
	require.NoError(t, store.SavePins(ctx, []tree.Pin{pin}))

	pins, err = store.LoadPins(ctx)
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, pin, pins[0])
}
