package molecule

import (
	"slices"

	"github.com/matzehuels/smilesdraw/pkg/geom"
)

// Vertex is a node of the molecular graph. Cross references to other
// vertices, edges and rings are dense integer ids into the owning [Graph].
type Vertex struct {
	ID       int          `json:"id"`
	Atom     *Atom        `json:"atom"`
	Position geom.Vector2 `json:"position"`

	// ParentID is the spanning-tree parent, or -1 for a root.
	ParentID int `json:"parent"`

	// Children are the vertices bonded after this one in parse order, ring
	// closures included.
	Children []int `json:"-"`

	// SpanningTreeChildren excludes ring closures, so together with ParentID
	// they form a forest.
	SpanningTreeChildren []int `json:"-"`

	Edges      []int `json:"-"`
	Neighbours []int `json:"-"`

	Positioned bool    `json:"-"`
	Angle      float64 `json:"-"`
}

// NewVertex wraps atom in an unattached vertex.
func NewVertex(atom *Atom) *Vertex {
	return &Vertex{ID: -1, Atom: atom, ParentID: -1}
}

// IsRoot reports whether the vertex has no spanning-tree parent.
func (v *Vertex) IsRoot() bool { return v.ParentID < 0 }

// SetPosition places the vertex and marks it positioned.
func (v *Vertex) SetPosition(p geom.Vector2) {
	v.Position = p
	v.Positioned = true
}

// SetParent links the vertex to its spanning-tree parent.
func (v *Vertex) SetParent(id int) {
	v.ParentID = id
	v.addNeighbour(id)
}

// AddChild records a spanning-tree child.
func (v *Vertex) AddChild(id int) {
	v.Children = append(v.Children, id)
	v.SpanningTreeChildren = append(v.SpanningTreeChildren, id)
	v.addNeighbour(id)
}

// AddRingbondChild records the partner of a ring closure. Ring closures are
// not part of the spanning tree.
func (v *Vertex) AddRingbondChild(id int) {
	v.Children = append(v.Children, id)
	v.addNeighbour(id)
}

func (v *Vertex) addNeighbour(id int) {
	if !slices.Contains(v.Neighbours, id) {
		v.Neighbours = append(v.Neighbours, id)
	}
}

// NeighbourIDs returns the neighbour ids except those listed in exclude.
func (v *Vertex) NeighbourIDs(exclude ...int) []int {
	out := make([]int, 0, len(v.Neighbours))
	for _, n := range v.Neighbours {
		if !slices.Contains(exclude, n) {
			out = append(out, n)
		}
	}
	return out
}

// SpanningTreeNeighbours returns the spanning-tree children and the parent,
// except exclude.
func (v *Vertex) SpanningTreeNeighbours(exclude int) []int {
	out := make([]int, 0, len(v.SpanningTreeChildren)+1)
	for _, c := range v.SpanningTreeChildren {
		if c != exclude {
			out = append(out, c)
		}
	}
	if v.ParentID >= 0 && v.ParentID != exclude {
		out = append(out, v.ParentID)
	}
	return out
}

// IsTerminal reports whether the vertex is a leaf of the spanning tree.
func (v *Vertex) IsTerminal() bool {
	return (v.ParentID < 0 && len(v.Children) < 2) || len(v.Children) == 0
}

// AngleFrom returns the angle of the vector from ref to the vertex.
func (v *Vertex) AngleFrom(ref geom.Vector2) float64 {
	return v.Position.Sub(ref).Angle()
}

// NextInRing returns the neighbour that is a member of ring ringID and is
// not previousID, or -1.
func (v *Vertex) NextInRing(g *Graph, ringID, previousID int) int {
	for _, n := range v.Neighbours {
		if n != previousID && g.Vertices[n].Atom.InRing(ringID) {
			return n
		}
	}
	return -1
}

// Snapshot is the saved placement of one vertex.
type Snapshot struct {
	Position   geom.Vector2
	Positioned bool
}
