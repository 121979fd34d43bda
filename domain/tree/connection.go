package tree

// Connection is an undirected, typed edge between two nodes. (from,to) and
// (to,from) denote the same edge for equality and uniqueness.
type Connection struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
	Type string `json:"type"`
}

// SamePair reports whether the connection joins the given unordered pair.
func (c Connection) SamePair(a, b NodeID) bool {
	return (c.From == a && c.To == b) || (c.From == b && c.To == a)
}

// Touches reports whether the connection has the node as either endpoint.
func (c Connection) Touches(id NodeID) bool {
	return c.From == id || c.To == id
}
