package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relatree/domain/tree"
)

type memStore struct {
	collection tree.Collection
}

func (m *memStore) Load(context.Context) (tree.Collection, error) {
	if m.collection == nil {
		m.collection = tree.NewCollection()
	}
	return m.collection, nil
}

func (m *memStore) Save(_ context.Context, c tree.Collection) error {
	m.collection = c
	return nil
}

func browseFixture(t *testing.T) (*BrowseService, *memStore) {
	t.Helper()
	store := &memStore{collection: tree.NewCollection()}
	return NewBrowseService(store, nil, zap.NewNop()), store
}

func TestListTreesFiltersAndCounts(t *testing.T) {
	svc, store := browseFixture(t)
	ctx := context.Background()

	id := store.collection.CreateTree(tree.CategoryFamily, "Hart")
	hart := store.collection[id]
	a, err := hart.AddReferenceNode("actor-a", 0, 0)
	require.NoError(t, err)
	b, err := hart.AddReferenceNode("actor-b", 100, 0)
	require.NoError(t, err)
	_, err = hart.Connect(a.ID, b.ID, "family")
	require.NoError(t, err)

	store.collection.CreateTree(tree.CategoryFamily, "Stag")
	store.collection.CreateTree(tree.CategoryFactions, "Guilds")

	all, err := svc.ListTrees(ctx, tree.CategoryFamily, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Hart", all[0].Name)
	assert.Equal(t, 2, all[0].NodeCount)
	assert.Equal(t, 1, all[0].ConnectionCount)
	assert.Equal(t, "Stag", all[1].Name)

	filtered, err := svc.ListTrees(ctx, tree.CategoryFamily, "har")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, id, filtered[0].ID)
}

func TestListTreesEmptyCategory(t *testing.T) {
	svc, _ := browseFixture(t)

	got, err := svc.ListTrees(context.Background(), tree.CategoryExtras, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetTreeProjects(t *testing.T) {
	svc, store := browseFixture(t)

	id := store.collection.CreateTree(tree.CategoryFamily, "Hart")
	_, err := store.collection[id].AddReferenceNode("actor-a", 10, 20)
	require.NoError(t, err)

	vm, err := svc.GetTree(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, vm.TreeID)
	require.Len(t, vm.Nodes, 1)

	_, err = svc.GetTree(context.Background(), tree.NewTreeID())
	require.Error(t, err)
}

func TestCatalogsAreStable(t *testing.T) {
	svc, _ := browseFixture(t)

	categories := svc.Categories()
	require.Len(t, categories, 3)
	assert.Equal(t, "Family Trees", categories[0].Name)

	types := svc.ConnectionTypes()
	assert.Equal(t, "#888888", types["neutral"].Color)
}
