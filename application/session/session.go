package session

import (
	"context"

	"go.uber.org/zap"

	"relatree/application/projection"
	"relatree/domain/tree"
)

// GraphEditor is the slice of the editor service a session drives.
type GraphEditor interface {
	AddConnection(ctx context.Context, treeID tree.TreeID, from, to tree.NodeID, connType string) error
	CommitNodePosition(ctx context.Context, treeID tree.TreeID, nodeID tree.NodeID, x, y float64) error
}

// EditSession is one open tree-editing session: it owns the pending-edge
// machine and the drag preview over the session's view model. Sessions are
// single-user and gesture-driven; each gesture runs to completion before the
// next is processed.
type EditSession struct {
	treeID  tree.TreeID
	connect ConnectState
	vm      *projection.ViewModel
	editor  GraphEditor
	logger  *zap.Logger

	dragging tree.NodeID
}

// NewEditSession opens a session over an already-projected view model.
func NewEditSession(treeID tree.TreeID, vm *projection.ViewModel, editor GraphEditor, logger *zap.Logger) *EditSession {
	return &EditSession{
		treeID: treeID,
		vm:     vm,
		editor: editor,
		logger: logger,
	}
}

// TreeID returns the open tree's id.
func (s *EditSession) TreeID() tree.TreeID {
	return s.treeID
}

// ViewModel returns the session's current view model.
func (s *EditSession) ViewModel() *projection.ViewModel {
	return s.vm
}

// SwitchTree points the session at another tree. Any pending edge or drag is
// discarded.
func (s *EditSession) SwitchTree(treeID tree.TreeID, vm *projection.ViewModel) {
	s.treeID = treeID
	s.vm = vm
	s.connect.Reset()
	s.dragging = ""
}

// BeginConnect arms the pending-edge machine from a node's connect control.
func (s *EditSession) BeginConnect(source tree.NodeID, connType string) Outcome {
	return s.connect.BeginPick(source, connType)
}

// ClickNode feeds a plain node click to the machine. A completed pick calls
// the editor; a duplicate-edge failure is returned for reporting but the
// machine stays Idle either way.
func (s *EditSession) ClickNode(ctx context.Context, target tree.NodeID) (Outcome, error) {
	outcome, source, connType := s.connect.ClickNode(target)
	if outcome != OutcomeCompleted {
		return outcome, nil
	}

	if err := s.editor.AddConnection(ctx, s.treeID, source, target, connType); err != nil {
		s.logger.Info("connection not created",
			zap.String("treeID", s.treeID.String()),
			zap.String("source", source.String()),
			zap.String("target", target.String()),
			zap.Error(err),
		)
		return outcome, err
	}
	return outcome, nil
}

// ClickCanvas feeds an empty-surface click to the machine.
func (s *EditSession) ClickCanvas() Outcome {
	return s.connect.ClickCanvas()
}

// ConnectPhase exposes the machine's phase for rendering (e.g. highlighting
// the pending source).
func (s *EditSession) ConnectPhase() ConnectPhase {
	return s.connect.Phase()
}

// PendingSource returns the armed source node while picking a target.
func (s *EditSession) PendingSource() (tree.NodeID, string) {
	return s.connect.Pending()
}

// StartDrag begins a drag preview. Dragging is refused while an edge pick is
// pending, matching the gesture model of the canvas.
func (s *EditSession) StartDrag(nodeID tree.NodeID) bool {
	if s.connect.Phase() == PickingTarget {
		return false
	}
	s.dragging = nodeID
	return true
}

// DragMove updates the preview position. In-memory only: the view model's
// incident edges are resynced, nothing is persisted.
func (s *EditSession) DragMove(nodeID tree.NodeID, x, y float64) {
	if s.dragging != nodeID {
		return
	}
	s.vm.SyncNodePosition(nodeID, x, y)
}

// EndDrag finishes the drag and writes the final position back through the
// editor. Persistence happens only here, once per drag, so pointer-move
// traffic never floods the store.
func (s *EditSession) EndDrag(ctx context.Context, nodeID tree.NodeID, x, y float64) error {
	if s.dragging != nodeID {
		return nil
	}
	s.dragging = ""
	s.vm.SyncNodePosition(nodeID, x, y)
	return s.editor.CommitNodePosition(ctx, s.treeID, nodeID, x, y)
}

// Close ends the session, resetting any pending state.
func (s *EditSession) Close() {
	s.connect.Reset()
	s.dragging = ""
}
