package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relatree/application/projection"
	"relatree/domain/tree"
	apperrors "relatree/pkg/errors"
)

func TestConnectStateTransitions(t *testing.T) {
	var s ConnectState

	assert.Equal(t, Idle, s.Phase())

	// Idle: plain node clicks and canvas clicks do nothing.
	outcome, _, _ := s.ClickNode("a")
	assert.Equal(t, OutcomeNone, outcome)
	assert.Equal(t, OutcomeNone, s.ClickCanvas())

	// Arm with source + type.
	assert.Equal(t, OutcomeStarted, s.BeginPick("a", "rival"))
	assert.Equal(t, PickingTarget, s.Phase())
	source, connType := s.Pending()
	assert.Equal(t, tree.NodeID("a"), source)
	assert.Equal(t, "rival", connType)

	// Clicking the pending source is a self-loop attempt: ignored, no
	// transition.
	outcome, _, _ = s.ClickNode("a")
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Equal(t, PickingTarget, s.Phase())

	// Clicking another node completes and returns to Idle.
	outcome, source, connType = s.ClickNode("b")
	assert.Equal(t, OutcomeCompleted, outcome)
	assert.Equal(t, tree.NodeID("a"), source)
	assert.Equal(t, "rival", connType)
	assert.Equal(t, Idle, s.Phase())
}

func TestConnectStateToggleCancel(t *testing.T) {
	var s ConnectState
	s.BeginPick("a", "enemy")

	// Re-invoking connect on the pending source toggles the pick off.
	assert.Equal(t, OutcomeCancelled, s.BeginPick("a", "enemy"))
	assert.Equal(t, Idle, s.Phase())
}

func TestConnectStateRearmOnOtherSource(t *testing.T) {
	var s ConnectState
	s.BeginPick("a", "enemy")

	assert.Equal(t, OutcomeStarted, s.BeginPick("b", "family"))
	source, connType := s.Pending()
	assert.Equal(t, tree.NodeID("b"), source)
	assert.Equal(t, "family", connType)
}

func TestConnectStateCanvasCancel(t *testing.T) {
	var s ConnectState
	s.BeginPick("a", "friendly")

	assert.Equal(t, OutcomeCancelled, s.ClickCanvas())
	assert.Equal(t, Idle, s.Phase())
}

func TestConnectStateEmptyTypeDefaults(t *testing.T) {
	var s ConnectState
	s.BeginPick("a", "")
	_, connType := s.Pending()
	assert.Equal(t, "neutral", connType)
}

type fakeEditor struct {
	addErr      error
	added       [][3]string
	committed   []tree.NodeID
	committedXY [][2]float64
}

func (f *fakeEditor) AddConnection(_ context.Context, _ tree.TreeID, from, to tree.NodeID, connType string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, [3]string{from.String(), to.String(), connType})
	return nil
}

func (f *fakeEditor) CommitNodePosition(_ context.Context, _ tree.TreeID, nodeID tree.NodeID, x, y float64) error {
	f.committed = append(f.committed, nodeID)
	f.committedXY = append(f.committedXY, [2]float64{x, y})
	return nil
}

func sessionFixture(t *testing.T, editor *fakeEditor) (*EditSession, tree.NodeID, tree.NodeID) {
	t.Helper()
	tr := tree.NewTree(tree.CategoryFamily, "Clan A")
	a, err := tr.AddReferenceNode("actor-1", 0, 0)
	require.NoError(t, err)
	b, err := tr.AddReferenceNode("actor-2", 100, 100)
	require.NoError(t, err)
	_, err = tr.Connect(a.ID, b.ID, "friendly")
	require.NoError(t, err)

	vm := projection.Project("t1", tr, nil)
	return NewEditSession("t1", vm, editor, zap.NewNop()), a.ID, b.ID
}

func TestEditSessionCompletesConnection(t *testing.T) {
	editor := &fakeEditor{}
	tr := tree.NewTree(tree.CategoryFamily, "Clan A")
	a, _ := tr.AddReferenceNode("actor-1", 0, 0)
	b, _ := tr.AddReferenceNode("actor-2", 100, 100)
	vm := projection.Project("t1", tr, nil)
	s := NewEditSession("t1", vm, editor, zap.NewNop())

	s.BeginConnect(a.ID, "faction")
	outcome, err := s.ClickNode(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome)
	require.Len(t, editor.added, 1)
	assert.Equal(t, [3]string{a.ID.String(), b.ID.String(), "faction"}, editor.added[0])
	assert.Equal(t, Idle, s.ConnectPhase())
}

func TestEditSessionReturnsToIdleOnDuplicateFailure(t *testing.T) {
	editor := &fakeEditor{addErr: apperrors.NewDuplicateConnectionError()}
	s, a, b := sessionFixture(t, editor)

	s.BeginConnect(a, "enemy")
	outcome, err := s.ClickNode(context.Background(), b)

	// The failure is reported but the machine is back to Idle regardless.
	assert.Equal(t, OutcomeCompleted, outcome)
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateConnection(err))
	assert.Equal(t, Idle, s.ConnectPhase())
}

func TestEditSessionSwitchTreeResets(t *testing.T) {
	editor := &fakeEditor{}
	s, a, _ := sessionFixture(t, editor)

	s.BeginConnect(a, "rival")
	require.Equal(t, PickingTarget, s.ConnectPhase())

	other := projection.Project("t2", tree.NewTree(tree.CategoryExtras, "Other"), nil)
	s.SwitchTree("t2", other)

	assert.Equal(t, Idle, s.ConnectPhase())
	assert.Equal(t, tree.TreeID("t2"), s.TreeID())
}

func TestEditSessionDragPersistsOnlyOnRelease(t *testing.T) {
	editor := &fakeEditor{}
	s, a, _ := sessionFixture(t, editor)

	require.True(t, s.StartDrag(a))
	s.DragMove(a, 10, 10)
	s.DragMove(a, 20, 20)
	s.DragMove(a, 30, 30)
	assert.Empty(t, editor.committed)

	// Preview already moved in the view model.
	view, _ := s.ViewModel().Node(a)
	assert.Equal(t, 30.0, view.X)

	require.NoError(t, s.EndDrag(context.Background(), a, 40, 40))
	require.Len(t, editor.committed, 1)
	assert.Equal(t, [2]float64{40, 40}, editor.committedXY[0])
}

func TestEditSessionRefusesDragWhilePicking(t *testing.T) {
	editor := &fakeEditor{}
	s, a, _ := sessionFixture(t, editor)

	s.BeginConnect(a, "rival")
	assert.False(t, s.StartDrag(a))
}
