package ring

import (
	"slices"

	"github.com/matzehuels/smilesdraw/pkg/molecule"
)

// Connection relates two rings that share at least one vertex.
type Connection struct {
	ID           int   `json:"id"`
	FirstRingID  int   `json:"first"`
	SecondRingID int   `json:"second"`
	Vertices     []int `json:"vertices"`
}

// NewConnection returns the connection between rings a and b, or nil when
// they share no vertex.
func NewConnection(id int, a, b *Ring) *Connection {
	shared := SharedMembers(a, b)
	if len(shared) == 0 {
		return nil
	}
	return &Connection{ID: id, FirstRingID: a.ID, SecondRingID: b.ID, Vertices: shared}
}

// SharedMembers returns the vertices that are members of both rings, in the
// member order of a.
func SharedMembers(a, b *Ring) []int {
	var out []int
	for _, m := range a.Members {
		if b.Contains(m) {
			out = append(out, m)
		}
	}
	return out
}

// Connect builds a connection for every pair of rings sharing a vertex and
// records the rings as neighbours of each other.
func Connect(rings []*Ring) []*Connection {
	var conns []*Connection
	for i, a := range rings {
		for _, b := range rings[i+1:] {
			c := NewConnection(len(conns), a, b)
			if c == nil {
				continue
			}
			a.AddNeighbour(b.ID)
			b.AddNeighbour(a.ID)
			conns = append(conns, c)
		}
	}
	return conns
}

// AddVertex adds id to the shared set.
func (c *Connection) AddVertex(id int) {
	if !slices.Contains(c.Vertices, id) {
		c.Vertices = append(c.Vertices, id)
	}
}

// UpdateOther replaces the ring that is not otherRingID with ringID. It is
// used when a ring is merged into a bridged ring.
func (c *Connection) UpdateOther(ringID, otherRingID int) {
	if c.FirstRingID == otherRingID {
		c.SecondRingID = ringID
	} else {
		c.FirstRingID = ringID
	}
}

// ContainsRing reports whether the connection involves ring id.
func (c *Connection) ContainsRing(id int) bool {
	return c.FirstRingID == id || c.SecondRingID == id
}

// Other returns the ring at the other end of the connection.
func (c *Connection) Other(id int) int {
	if c.FirstRingID == id {
		return c.SecondRingID
	}
	return c.FirstRingID
}

// IsBridge reports whether the connection joins a bridged system: more than
// two shared vertices, or a shared vertex in more than two rings.
func (c *Connection) IsBridge(g *molecule.Graph) bool {
	if len(c.Vertices) > 2 {
		return true
	}
	for _, v := range c.Vertices {
		if len(g.Vertices[v].Atom.Rings) > 2 {
			return true
		}
	}
	return false
}

// SharesEdge reports whether the shared vertices are exactly one bond.
func (c *Connection) SharesEdge(g *molecule.Graph) bool {
	return len(c.Vertices) == 2 && g.HasEdge(c.Vertices[0], c.Vertices[1])
}

// Neighbours returns the ids of all rings connected to ringID.
func Neighbours(conns []*Connection, ringID int) []int {
	var out []int
	for _, c := range conns {
		if c.ContainsRing(ringID) {
			out = append(out, c.Other(ringID))
		}
	}
	return out
}

// Between returns the connection between rings a and b, or nil.
func Between(conns []*Connection, a, b int) *Connection {
	for _, c := range conns {
		if (c.FirstRingID == a && c.SecondRingID == b) || (c.FirstRingID == b && c.SecondRingID == a) {
			return c
		}
	}
	return nil
}

// SharedVertices returns the vertices shared by rings a and b.
func SharedVertices(conns []*Connection, a, b int) []int {
	if c := Between(conns, a, b); c != nil {
		return c.Vertices
	}
	return nil
}

// IsBridgeBetween reports whether rings a and b are joined by a bridge.
func IsBridgeBetween(conns []*Connection, g *molecule.Graph, a, b int) bool {
	c := Between(conns, a, b)
	return c != nil && c.IsBridge(g)
}
