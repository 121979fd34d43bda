package tree

import (
	"math"

	"relatree/pkg/errors"
)

// Canvas dimensions used when the caller does not supply a drop position
// (custom nodes spawn near the center).
const (
	canvasWidth  = 800
	canvasHeight = 600
)

// Tree is one named relationship graph belonging to a category.
//
// Invariant: every Connection's endpoints reference node ids present in
// Nodes. Node removal cascades to the connections touching it.
type Tree struct {
	Name        string       `json:"name"`
	Category    Category     `json:"category"`
	Nodes       []*Node      `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// NewTree creates an empty tree.
func NewTree(category Category, name string) *Tree {
	return &Tree{
		Name:        name,
		Category:    category,
		Nodes:       []*Node{},
		Connections: []Connection{},
	}
}

// FindNode returns the node with the given id, or nil.
func (t *Tree) FindNode(id NodeID) *Node {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// HasActor reports whether a non-custom node referencing the actor exists.
// Custom nodes are never considered duplicates.
func (t *Tree) HasActor(actorID string) bool {
	for _, n := range t.Nodes {
		if n.Kind == NodeReference && n.Ref != nil && n.Ref.ActorID == actorID {
			return true
		}
	}
	return false
}

// AddReferenceNode appends a node pointing at an external actor. Adding the
// same actor twice is rejected.
func (t *Tree) AddReferenceNode(actorID string, x, y float64) (*Node, error) {
	if t.HasActor(actorID) {
		return nil, errors.NewDuplicateReferenceError(actorID)
	}
	node := NewReferenceNode(actorID, x, y)
	t.Nodes = append(t.Nodes, node)
	return node, nil
}

// AddCustomNode appends a self-contained node at the given position.
func (t *Tree) AddCustomNode(profile CustomProfile, x, y float64) *Node {
	node := NewCustomNode(profile, x, y)
	t.Nodes = append(t.Nodes, node)
	return node
}

// SpawnPosition picks a canvas position for a node added without an explicit
// drop point: the canvas center, nudged right and down for every node already
// crowding that spot so stacked nodes stay visible.
func (t *Tree) SpawnPosition() (float64, float64) {
	x := float64(canvasWidth) / 2
	y := float64(canvasHeight) / 2

	crowded := 0
	for _, n := range t.Nodes {
		if math.Abs(n.X-x) < 100 && math.Abs(n.Y-y) < 100 {
			crowded++
		}
	}
	if crowded > 0 {
		x += float64(crowded) * 50
		y += float64(crowded) * 30
	}
	return x, y
}

// RemoveNode deletes the node and every connection touching it.
func (t *Tree) RemoveNode(id NodeID) error {
	idx := -1
	for i, n := range t.Nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.NewNotFoundError("node")
	}

	t.Nodes = append(t.Nodes[:idx], t.Nodes[idx+1:]...)

	kept := t.Connections[:0]
	for _, c := range t.Connections {
		if !c.Touches(id) {
			kept = append(kept, c)
		}
	}
	t.Connections = kept
	return nil
}

// MoveNode updates a node's canvas position.
func (t *Tree) MoveNode(id NodeID, x, y float64) error {
	node := t.FindNode(id)
	if node == nil {
		return errors.NewNotFoundError("node")
	}
	node.X = x
	node.Y = y
	return nil
}

// ResizeNode adjusts a node's diameter by delta, clamped to the allowed
// range.
func (t *Tree) ResizeNode(id NodeID, delta float64) error {
	node := t.FindNode(id)
	if node == nil {
		return errors.NewNotFoundError("node")
	}
	size := node.Size
	if size == 0 {
		size = DefaultNodeSize
	}
	node.Size = ClampSize(size + delta)
	return nil
}

// UpdateCustomNode edits a custom node's profile. Blank name or image keep
// the previous values; the description is always overwritten.
func (t *Tree) UpdateCustomNode(id NodeID, profile CustomProfile) error {
	node := t.FindNode(id)
	if node == nil || node.Kind != NodeCustom || node.Custom == nil {
		return errors.NewNotFoundError("custom node")
	}
	if profile.Name != "" {
		node.Custom.Name = profile.Name
	}
	if profile.Image != "" {
		node.Custom.Image = profile.Image
	}
	node.Custom.Description = profile.Description
	return nil
}

// FindConnection returns the connection joining the unordered pair, or nil.
func (t *Tree) FindConnection(a, b NodeID) *Connection {
	for i := range t.Connections {
		if t.Connections[i].SamePair(a, b) {
			return &t.Connections[i]
		}
	}
	return nil
}

// Connect creates a typed edge between two nodes. Self-loops are rejected
// here, not just in the gesture layer; at most one edge may exist between any
// unordered pair.
func (t *Tree) Connect(from, to NodeID, connType string) (*Connection, error) {
	if from == to {
		return nil, errors.NewValidationError("cannot connect a node to itself")
	}
	if t.FindNode(from) == nil || t.FindNode(to) == nil {
		return nil, errors.NewNotFoundError("node")
	}
	if t.FindConnection(from, to) != nil {
		return nil, errors.NewDuplicateConnectionError()
	}
	if connType == "" {
		connType = DefaultConnectionType
	}
	t.Connections = append(t.Connections, Connection{From: from, To: to, Type: connType})
	return &t.Connections[len(t.Connections)-1], nil
}

// ChangeConnectionType retypes the edge joining the unordered pair.
func (t *Tree) ChangeConnectionType(a, b NodeID, newType string) error {
	conn := t.FindConnection(a, b)
	if conn == nil {
		return errors.NewNotFoundError("connection")
	}
	conn.Type = newType
	return nil
}

// Disconnect removes the edge joining the unordered pair.
func (t *Tree) Disconnect(a, b NodeID) error {
	idx := -1
	for i, c := range t.Connections {
		if c.SamePair(a, b) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.NewNotFoundError("connection")
	}
	t.Connections = append(t.Connections[:idx], t.Connections[idx+1:]...)
	return nil
}

// Degree counts the connections touching a node.
func (t *Tree) Degree(id NodeID) int {
	count := 0
	for _, c := range t.Connections {
		if c.Touches(id) {
			count++
		}
	}
	return count
}

// Validate ensures graph invariants: every connection endpoint resolves to a
// node, and no unordered pair is connected twice.
func (t *Tree) Validate() error {
	ids := make(map[NodeID]struct{}, len(t.Nodes))
	for _, n := range t.Nodes {
		ids[n.ID] = struct{}{}
	}
	for i, c := range t.Connections {
		if _, ok := ids[c.From]; !ok {
			return errors.NewValidationError("connection references missing node " + c.From.String())
		}
		if _, ok := ids[c.To]; !ok {
			return errors.NewValidationError("connection references missing node " + c.To.String())
		}
		for _, other := range t.Connections[i+1:] {
			if other.SamePair(c.From, c.To) {
				return errors.NewValidationError("duplicate connection between " + c.From.String() + " and " + c.To.String())
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	clone := &Tree{
		Name:        t.Name,
		Category:    t.Category,
		Nodes:       make([]*Node, len(t.Nodes)),
		Connections: make([]Connection, len(t.Connections)),
	}
	for i, n := range t.Nodes {
		copied := *n
		if n.Ref != nil {
			ref := *n.Ref
			copied.Ref = &ref
		}
		if n.Custom != nil {
			custom := *n.Custom
			copied.Custom = &custom
		}
		clone.Nodes[i] = &copied
	}
	copy(clone.Connections, t.Connections)
	return clone
}
