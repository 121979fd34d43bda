package projection

import (
	"math"

	"relatree/application/ports"
	"relatree/domain/tree"
)

// Display fallbacks for reference nodes whose actor no longer resolves.
const (
	UnknownName      = "Unknown"
	PlaceholderImage = "icons/svg/mystery-man.svg"
)

// NodeView is a render-ready node record.
type NodeView struct {
	ID           tree.NodeID `json:"id"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	Size         float64     `json:"size"`
	IsCustom     bool        `json:"isCustom"`
	DisplayName  string      `json:"displayName"`
	DisplayImage string      `json:"displayImage"`
	Description  string      `json:"description,omitempty"`
	FontSize     int         `json:"fontSize"`
	NameMaxWidth float64     `json:"nameMaxWidth"`
}

// ConnectionView is a render-ready edge record with resolved endpoints.
type ConnectionView struct {
	From  tree.NodeID `json:"from"`
	To    tree.NodeID `json:"to"`
	Type  string      `json:"type"`
	Color string      `json:"color"`
	Label string      `json:"label"`
	X1    float64     `json:"x1"`
	Y1    float64     `json:"y1"`
	X2    float64     `json:"x2"`
	Y2    float64     `json:"y2"`
}

// ViewModel is the rendered surface consumed by the presentation layer.
type ViewModel struct {
	TreeID          tree.TreeID                        `json:"treeId"`
	Name            string                             `json:"name"`
	Category        tree.Category                      `json:"category"`
	Nodes           []NodeView                         `json:"nodes"`
	Connections     []ConnectionView                   `json:"connections"`
	ConnectionTypes map[string]tree.ConnectionTypeInfo `json:"connectionTypes"`

	nodeIndex map[tree.NodeID]int
	incident  map[tree.NodeID][]int
}

// FontSize derives the label font size from the node diameter:
// round(size*0.15) clamped to [10, 18].
func FontSize(size float64) int {
	fs := int(math.Round(size * 0.15))
	if fs < 10 {
		return 10
	}
	if fs > 18 {
		return 18
	}
	return fs
}

// NameMaxWidth derives the label width from the node diameter:
// max(80, size*1.5).
func NameMaxWidth(size float64) float64 {
	return math.Max(80, size*1.5)
}

// Project converts a tree into a view model. Pure: the tree is not mutated
// and the resolver is consulted only for reference nodes.
func Project(id tree.TreeID, t *tree.Tree, resolver ports.ActorResolver) *ViewModel {
	vm := &ViewModel{
		TreeID:          id,
		Name:            t.Name,
		Category:        t.Category,
		Nodes:           make([]NodeView, 0, len(t.Nodes)),
		Connections:     make([]ConnectionView, 0, len(t.Connections)),
		ConnectionTypes: tree.ConnectionTypeCatalog(),
		nodeIndex:       make(map[tree.NodeID]int, len(t.Nodes)),
		incident:        make(map[tree.NodeID][]int),
	}

	for _, n := range t.Nodes {
		size := tree.ClampSize(n.Size)
		view := NodeView{
			ID:           n.ID,
			X:            n.X,
			Y:            n.Y,
			Size:         size,
			IsCustom:     n.IsCustom(),
			DisplayName:  UnknownName,
			DisplayImage: PlaceholderImage,
			FontSize:     FontSize(size),
			NameMaxWidth: NameMaxWidth(size),
		}

		if n.Kind == tree.NodeCustom && n.Custom != nil {
			if n.Custom.Name != "" {
				view.DisplayName = n.Custom.Name
			}
			if n.Custom.Image != "" {
				view.DisplayImage = n.Custom.Image
			}
			view.Description = n.Custom.Description
		} else if n.Ref != nil && resolver != nil {
			if info, ok := resolver.Resolve(n.Ref.ActorID); ok {
				if info.Name != "" {
					view.DisplayName = info.Name
				}
				if info.Image != "" {
					view.DisplayImage = info.Image
				}
			}
		}

		vm.nodeIndex[n.ID] = len(vm.Nodes)
		vm.Nodes = append(vm.Nodes, view)
	}

	for _, c := range t.Connections {
		info := tree.LookupConnectionType(c.Type)
		cv := ConnectionView{
			From:  c.From,
			To:    c.To,
			Type:  c.Type,
			Color: info.Color,
			Label: info.Label,
		}
		if from, ok := vm.node(c.From); ok {
			cv.X1, cv.Y1 = center(from)
		}
		if to, ok := vm.node(c.To); ok {
			cv.X2, cv.Y2 = center(to)
		}
		idx := len(vm.Connections)
		vm.incident[c.From] = append(vm.incident[c.From], idx)
		vm.incident[c.To] = append(vm.incident[c.To], idx)
		vm.Connections = append(vm.Connections, cv)
	}

	return vm
}

// SyncNodePosition moves a node in the view model and recomputes the
// endpoints of only the connections touching it. O(degree), not O(E) — the
// drag preview loop calls this on every pointer move.
func (vm *ViewModel) SyncNodePosition(id tree.NodeID, x, y float64) {
	idx, ok := vm.nodeIndex[id]
	if !ok {
		return
	}
	vm.Nodes[idx].X = x
	vm.Nodes[idx].Y = y
	cx, cy := center(&vm.Nodes[idx])

	for _, i := range vm.incident[id] {
		if vm.Connections[i].From == id {
			vm.Connections[i].X1 = cx
			vm.Connections[i].Y1 = cy
		} else {
			vm.Connections[i].X2 = cx
			vm.Connections[i].Y2 = cy
		}
	}
}

// Node returns the view record for a node id.
func (vm *ViewModel) Node(id tree.NodeID) (NodeView, bool) {
	if n, ok := vm.node(id); ok {
		return *n, true
	}
	return NodeView{}, false
}

func (vm *ViewModel) node(id tree.NodeID) (*NodeView, bool) {
	idx, ok := vm.nodeIndex[id]
	if !ok {
		return nil, false
	}
	return &vm.Nodes[idx], true
}

func center(n *NodeView) (float64, float64) {
	return n.X + n.Size/2, n.Y + n.Size/2
}
