package tree

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Node size bounds in pixels. Size is the node's diameter on the canvas.
const (
	MinNodeSize     = 40
	MaxNodeSize     = 200
	DefaultNodeSize = 80
)

// NodeID identifies a node within a tree
type NodeID string

// NewNodeID creates a new random NodeID
func NewNodeID() NodeID {
	return NodeID(uuid.New().String())
}

// String returns the string representation
func (id NodeID) String() string {
	return string(id)
}

// NodeKind discriminates the two node variants
type NodeKind string

const (
	// NodeReference points at an externally-owned actor resolved at render time
	NodeReference NodeKind = "reference"
	// NodeCustom carries its own display fields inline
	NodeCustom NodeKind = "custom"
)

// ActorRef is the payload of a reference node
type ActorRef struct {
	ActorID string
}

// CustomProfile is the payload of a custom node
type CustomProfile struct {
	Name        string
	Image       string
	Description string
}

// Node is a graph vertex. Exactly one of Ref and Custom is set, selected by
// Kind; constructors enforce this so the ambiguity of flag-plus-sparse-fields
// never reaches callers.
type Node struct {
	ID   NodeID
	X    float64
	Y    float64
	Size float64
	Kind NodeKind

	Ref    *ActorRef
	Custom *CustomProfile
}

// NewReferenceNode creates a node pointing at an external actor.
func NewReferenceNode(actorID string, x, y float64) *Node {
	return &Node{
		ID:   NewNodeID(),
		X:    x,
		Y:    y,
		Size: DefaultNodeSize,
		Kind: NodeReference,
		Ref:  &ActorRef{ActorID: actorID},
	}
}

// NewCustomNode creates a self-contained node with inline display fields.
func NewCustomNode(profile CustomProfile, x, y float64) *Node {
	return &Node{
		ID:     NewNodeID(),
		X:      x,
		Y:      y,
		Size:   DefaultNodeSize,
		Kind:   NodeCustom,
		Custom: &profile,
	}
}

// IsCustom reports whether the node carries inline display fields.
func (n *Node) IsCustom() bool {
	return n.Kind == NodeCustom
}

// ClampSize forces a size into the allowed range, substituting the default
// for a missing (zero) size.
func ClampSize(size float64) float64 {
	if size == 0 {
		return DefaultNodeSize
	}
	if size < MinNodeSize {
		return MinNodeSize
	}
	if size > MaxNodeSize {
		return MaxNodeSize
	}
	return size
}

// wireNode is the persisted / exported JSON shape. It keeps the original
// isCustom flag plus conditional fields so documents round-trip with files
// produced by earlier versions.
type wireNode struct {
	ID                NodeID  `json:"id"`
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	Size              float64 `json:"size,omitempty"`
	IsCustom          bool    `json:"isCustom"`
	ActorID           string  `json:"actorId,omitempty"`
	CustomName        string  `json:"customName,omitempty"`
	CustomImg         string  `json:"customImg,omitempty"`
	CustomDescription string  `json:"customDescription,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (n Node) MarshalJSON() ([]byte, error) {
	w := wireNode{
		ID:       n.ID,
		X:        n.X,
		Y:        n.Y,
		Size:     n.Size,
		IsCustom: n.Kind == NodeCustom,
	}
	switch n.Kind {
	case NodeCustom:
		if n.Custom != nil {
			w.CustomName = n.Custom.Name
			w.CustomImg = n.Custom.Image
			w.CustomDescription = n.Custom.Description
		}
	default:
		if n.Ref != nil {
			w.ActorID = n.Ref.ActorID
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	n.ID = w.ID
	n.X = w.X
	n.Y = w.Y
	n.Size = ClampSize(w.Size)
	n.Ref = nil
	n.Custom = nil
	if w.IsCustom {
		n.Kind = NodeCustom
		n.Custom = &CustomProfile{
			Name:        w.CustomName,
			Image:       w.CustomImg,
			Description: w.CustomDescription,
		}
	} else {
		n.Kind = NodeReference
		n.Ref = &ActorRef{ActorID: w.ActorID}
	}
	return nil
}
