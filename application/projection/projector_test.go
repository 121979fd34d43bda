package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relatree/application/ports"
	"relatree/domain/tree"
)

type stubResolver map[string]ports.ActorInfo

func (r stubResolver) Resolve(id string) (ports.ActorInfo, bool) {
	info, ok := r[id]
	return info, ok
}

func TestProjectResolvesReferenceNodes(t *testing.T) {
	tr := tree.NewTree(tree.CategoryFamily, "Clan A")
	n, err := tr.AddReferenceNode("actor-1", 100, 100)
	require.NoError(t, err)

	resolver := stubResolver{"actor-1": {Name: "Alice", Image: "alice.png"}}
	vm := Project("t1", tr, resolver)

	view, ok := vm.Node(n.ID)
	require.True(t, ok)
	assert.Equal(t, "Alice", view.DisplayName)
	assert.Equal(t, "alice.png", view.DisplayImage)
	assert.False(t, view.IsCustom)
}

func TestProjectFallsBackForUnresolvedActor(t *testing.T) {
	tr := tree.NewTree(tree.CategoryFamily, "Clan A")
	n, err := tr.AddReferenceNode("actor-gone", 0, 0)
	require.NoError(t, err)

	vm := Project("t1", tr, stubResolver{})

	view, _ := vm.Node(n.ID)
	assert.Equal(t, UnknownName, view.DisplayName)
	assert.Equal(t, PlaceholderImage, view.DisplayImage)
}

func TestProjectUsesCustomFieldsInline(t *testing.T) {
	tr := tree.NewTree(tree.CategoryExtras, "Mysteries")
	n := tr.AddCustomNode(tree.CustomProfile{Name: "Mystery", Image: "m.png", Description: "who?"}, 0, 0)

	// Resolver must never be consulted for custom nodes.
	vm := Project("t1", tr, nil)

	view, _ := vm.Node(n.ID)
	assert.True(t, view.IsCustom)
	assert.Equal(t, "Mystery", view.DisplayName)
	assert.Equal(t, "m.png", view.DisplayImage)
	assert.Equal(t, "who?", view.Description)
}

func TestFontSizeAndWidthDerivation(t *testing.T) {
	cases := []struct {
		size     float64
		fontSize int
		maxWidth float64
	}{
		{40, 10, 80},  // round(6)=6 clamps up to 10; 60 clamps up to 80
		{80, 12, 120}, // defaults
		{120, 18, 180},
		{200, 18, 300}, // round(30)=30 clamps down to 18
	}
	for _, tc := range cases {
		assert.Equal(t, tc.fontSize, FontSize(tc.size), "size %v", tc.size)
		assert.Equal(t, tc.maxWidth, NameMaxWidth(tc.size), "size %v", tc.size)
	}
}

func TestProjectDefaultsUnknownConnectionType(t *testing.T) {
	tr := tree.NewTree(tree.CategoryFamily, "Clan A")
	a, _ := tr.AddReferenceNode("actor-1", 0, 0)
	b, _ := tr.AddReferenceNode("actor-2", 0, 0)
	_, err := tr.Connect(a.ID, b.ID, "neutral")
	require.NoError(t, err)
	// Simulate a legacy document carrying an unrecognized type.
	tr.Connections[0].Type = "mysterious"

	vm := Project("t1", tr, stubResolver{})

	require.Len(t, vm.Connections, 1)
	assert.Equal(t, "#888888", vm.Connections[0].Color)
	assert.Equal(t, "Neutral", vm.Connections[0].Label)
}

func TestSyncNodePositionUpdatesOnlyIncidentEdges(t *testing.T) {
	tr := tree.NewTree(tree.CategoryFamily, "Clan A")
	a, _ := tr.AddReferenceNode("actor-1", 0, 0)
	b, _ := tr.AddReferenceNode("actor-2", 100, 0)
	c, _ := tr.AddReferenceNode("actor-3", 200, 0)
	_, err := tr.Connect(a.ID, b.ID, "friendly")
	require.NoError(t, err)
	_, err = tr.Connect(b.ID, c.ID, "friendly")
	require.NoError(t, err)

	vm := Project("t1", tr, stubResolver{})
	untouched := vm.Connections[1]

	vm.SyncNodePosition(a.ID, 500, 500)

	// Edge a-b follows the moved node's center.
	assert.Equal(t, 540.0, vm.Connections[0].X1)
	assert.Equal(t, 540.0, vm.Connections[0].Y1)
	// Edge b-c is untouched.
	assert.Equal(t, untouched, vm.Connections[1])

	view, _ := vm.Node(a.ID)
	assert.Equal(t, 500.0, view.X)
}

func TestSyncNodePositionIgnoresUnknownNode(t *testing.T) {
	tr := tree.NewTree(tree.CategoryFamily, "Clan A")
	vm := Project("t1", tr, stubResolver{})
	vm.SyncNodePosition("missing", 1, 1) // must not panic
}
