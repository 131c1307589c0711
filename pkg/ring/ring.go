package ring

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/smilesdraw/pkg/geom"
	"github.com/matzehuels/smilesdraw/pkg/molecule"
)

// maxRingWalk bounds EachMember on malformed rings.
const maxRingWalk = 100

// Ring is one ring of the molecule, either straight from SSSR or merged from
// a bridged ring system.
type Ring struct {
	ID int `json:"id"`

	// Members are vertex ids. Rings from SSSR list them in cyclic order; a
	// merged bridged ring lists the perimeter first and then the insiders.
	Members []int `json:"members"`

	// Insiders are the bridge atoms of a merged ring that do not lie on its
	// perimeter.
	Insiders []int `json:"insiders,omitempty"`

	// Neighbours are the ids of rings sharing at least one vertex.
	Neighbours []int `json:"neighbours,omitempty"`

	// Rings are the source ring ids of a merged ring.
	Rings []int `json:"rings,omitempty"`

	Center       geom.Vector2 `json:"center"`
	CentralAngle float64      `json:"central_angle"`

	IsBridged       bool `json:"bridged,omitempty"`
	IsPartOfBridged bool `json:"part_of_bridged,omitempty"`
	IsSpiro         bool `json:"spiro,omitempty"`
	IsFused         bool `json:"fused,omitempty"`
	Positioned      bool `json:"-"`
	CanFlip         bool `json:"-"`
}

// New returns a ring over members with the central angle of a regular
// polygon of that size.
func New(id int, members []int) *Ring {
	return &Ring{
		ID:           id,
		Members:      slices.Clone(members),
		CentralAngle: geom.CentralAngle(len(members)),
		CanFlip:      true,
	}
}

// Size returns the number of members.
func (r *Ring) Size() int { return len(r.Members) }

// Contains reports whether vertex id is a member.
func (r *Ring) Contains(id int) bool { return slices.Contains(r.Members, id) }

// InteriorAngle is the polygon angle at each member.
func (r *Ring) InteriorAngle() float64 { return math.Pi - r.CentralAngle }

// Radius returns the circumradius of the ring drawn as a regular polygon.
func (r *Ring) Radius(bondLength float64) float64 {
	return geom.PolygonRadius(bondLength, r.Size())
}

// AddNeighbour records ring id as a neighbour.
func (r *Ring) AddNeighbour(id int) {
	if !slices.Contains(r.Neighbours, id) {
		r.Neighbours = append(r.Neighbours, id)
	}
}

// Polygon returns the member positions in member order.
func (r *Ring) Polygon(g *molecule.Graph) []geom.Vector2 {
	out := make([]geom.Vector2, len(r.Members))
	for i, m := range r.Members {
		out[i] = g.Vertices[m].Position
	}
	return out
}

// Clone returns a deep copy.
func (r *Ring) Clone() *Ring {
	c := *r
	c.Members = slices.Clone(r.Members)
	c.Insiders = slices.Clone(r.Insiders)
	c.Neighbours = slices.Clone(r.Neighbours)
	c.Rings = slices.Clone(r.Rings)
	return &c
}

// EachMember walks the ring starting at start, calling fn for every member
// until the walk returns to start. previous selects the direction; pass -1 to
// let the walk pick the first ring neighbour.
func (r *Ring) EachMember(g *molecule.Graph, start, previous int, fn func(id int)) {
	current := start
	for range maxRingWalk {
		fn(current)
		next := g.Vertices[current].NextInRing(g, r.ID, previous)
		previous, current = current, next
		if current < 0 || current == start {
			return
		}
	}
}

// OrderedNeighbours returns the neighbouring ring ids sorted by the number
// of shared vertices, largest first.
func (r *Ring) OrderedNeighbours(conns []*Connection) []int {
	type entry struct{ id, shared int }
	out := make([]entry, len(r.Neighbours))
	for i, n := range r.Neighbours {
		out[i] = entry{n, len(SharedVertices(conns, r.ID, n))}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].shared > out[b].shared })

	ids := make([]int, len(out))
	for i, e := range out {
		ids[i] = e.id
	}
	return ids
}

// DoubleBondCount returns the number of members bonded to their parent or
// branch by a double bond.
func (r *Ring) DoubleBondCount(g *molecule.Graph) int {
	n := 0
	for _, m := range r.Members {
		a := g.Vertices[m].Atom
		if a.BondType == "=" || a.BranchBond == "=" {
			n++
		}
	}
	return n
}

// IsBenzeneLike reports whether the ring is a six-ring with three double
// bonds or a five-ring with two.
func (r *Ring) IsBenzeneLike(g *molecule.Graph) bool {
	db := r.DoubleBondCount(g)
	return (db == 3 && r.Size() == 6) || (db == 2 && r.Size() == 5)
}

// IsAromatic reports whether every member is an aromatic atom.
func (r *Ring) IsAromatic(g *molecule.Graph) bool {
	for _, m := range r.Members {
		if !g.Vertices[m].Atom.Aromatic {
			return false
		}
	}
	return len(r.Members) > 0
}

// UpdateCenter sets Center to the centroid of the positioned members.
func (r *Ring) UpdateCenter(g *molecule.Graph) {
	var pts []geom.Vector2
	for _, m := range r.Members {
		if g.Vertices[m].Positioned {
			pts = append(pts, g.Vertices[m].Position)
		}
	}
	if len(pts) > 0 {
		r.Center = geom.Centroid(pts)
	}
}
