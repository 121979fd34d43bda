package session

import "relatree/domain/tree"

// ConnectPhase is the state of the pending-edge machine.
type ConnectPhase int

const (
	// Idle: no pending edge.
	Idle ConnectPhase = iota
	// PickingTarget: a source node and relationship type are selected and the
	// next node click completes the edge.
	PickingTarget
)

// String returns the phase name used in logs and wire payloads.
func (p ConnectPhase) String() string {
	if p == PickingTarget {
		return "picking_target"
	}
	return "idle"
}

// Outcome reports what a gesture did to the machine.
type Outcome int

const (
	// OutcomeNone: the gesture was irrelevant in the current phase.
	OutcomeNone Outcome = iota
	// OutcomeStarted: a source node and type are now pending.
	OutcomeStarted
	// OutcomeCancelled: the pending edge was discarded.
	OutcomeCancelled
	// OutcomeIgnored: self-loop attempt; the machine did not transition.
	OutcomeIgnored
	// OutcomeCompleted: a target was picked; the pending pair is ready.
	OutcomeCompleted
)

// String returns the outcome name used in logs and wire payloads.
func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeCompleted:
		return "completed"
	default:
		return "none"
	}
}

// ConnectState tracks the pending edge across discrete user picks. All cancel
// triggers are named transitions on this one machine so no path can leave a
// stale pending source behind.
type ConnectState struct {
	phase       ConnectPhase
	source      tree.NodeID
	pendingType string
}

// Phase returns the current phase.
func (s *ConnectState) Phase() ConnectPhase {
	return s.phase
}

// Pending returns the pending source and type while picking a target.
func (s *ConnectState) Pending() (tree.NodeID, string) {
	return s.source, s.pendingType
}

// BeginPick handles the "connect" control on a node: it arms the machine
// with a source and relationship type. Re-invoking on the node that is
// already the pending source toggles the pick off; invoking on another node
// re-arms with the new source.
func (s *ConnectState) BeginPick(source tree.NodeID, connType string) Outcome {
	if s.phase == PickingTarget && s.source == source {
		s.Reset()
		return OutcomeCancelled
	}
	if connType == "" {
		connType = tree.DefaultConnectionType
	}
	s.phase = PickingTarget
	s.source = source
	s.pendingType = connType
	return OutcomeStarted
}

// ClickNode handles a plain click on a node. While picking, clicking the
// pending source is a self-loop attempt and is ignored without transition;
// clicking any other node completes the pick and returns the machine to Idle.
// The completed pair is reported through the returned source/type.
func (s *ConnectState) ClickNode(target tree.NodeID) (Outcome, tree.NodeID, string) {
	if s.phase != PickingTarget {
		return OutcomeNone, "", ""
	}
	if target == s.source {
		return OutcomeIgnored, "", ""
	}
	source, connType := s.source, s.pendingType
	s.Reset()
	return OutcomeCompleted, source, connType
}

// ClickCanvas handles a click on empty canvas or any non-node surface: an
// explicit cancel while picking.
func (s *ConnectState) ClickCanvas() Outcome {
	if s.phase != PickingTarget {
		return OutcomeNone
	}
	s.Reset()
	return OutcomeCancelled
}

// Reset returns the machine to Idle unconditionally. Called when the editing
// session ends or the open tree is switched.
func (s *ConnectState) Reset() {
	s.phase = Idle
	s.source = ""
	s.pendingType = ""
}
