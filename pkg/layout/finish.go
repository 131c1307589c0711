package layout

import (
	"math"

	"github.com/matzehuels/smilesdraw/pkg/molecule"
)

// snapAngle is the increment the drawing is rotated by.
const snapAngle = math.Pi / 6

// annotateStereochemistry marks wedges around acyclic chiral atoms with
// exactly three neighbours. Of the three angles between consecutive
// neighbour bonds, the bond opening the smallest angle becomes a solid wedge
// and the bond opening the largest a hashed wedge. This is a positional
// heuristic and does not rank substituents.
func (d *Drawer) annotateStereochemistry() {
	g := d.graph
	for _, v := range g.Vertices {
		if len(v.Atom.Rings) > 0 || v.Atom.Chirality() == "" {
			continue
		}
		nbrs := v.Neighbours
		if len(nbrs) != 3 {
			continue
		}

		var angles [3]float64
		for i := range 3 {
			a := g.Vertices[nbrs[i]].Position.Sub(v.Position)
			b := g.Vertices[nbrs[(i+1)%3]].Position.Sub(v.Position)
			angles[i] = angleBetween(a.X, a.Y, b.X, b.Y)
		}

		minIdx, maxIdx := 0, 0
		for i := 1; i < 3; i++ {
			if angles[i] < angles[minIdx] {
				minIdx = i
			}
			if angles[i] > angles[maxIdx] {
				maxIdx = i
			}
		}
		if minIdx == maxIdx {
			maxIdx = (minIdx + 1) % 3
		}

		// An edge between two stereocentres keeps the wedge of the first.
		if e := g.Edge(v.ID, nbrs[minIdx]); e != nil && e.Wedge == molecule.WedgeNone {
			e.Wedge, e.WedgeOrigin = molecule.WedgeUp, v.ID
		}
		if e := g.Edge(v.ID, nbrs[maxIdx]); e != nil && e.Wedge == molecule.WedgeNone {
			e.Wedge, e.WedgeOrigin = molecule.WedgeDown, v.ID
		}
	}
}

// angleBetween returns the unsigned angle between two vectors in [0, π].
func angleBetween(ax, ay, bx, by float64) float64 {
	la, lb := math.Hypot(ax, ay), math.Hypot(bx, by)
	if la == 0 || lb == 0 {
		return 0
	}
	c := (ax*bx + ay*by) / (la * lb)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// initPseudoElements marks carbons in exactly one ring whose two neighbours
// are both carbons. Renderers draw them as a compact glyph; the graph is not
// changed.
func (d *Drawer) initPseudoElements() {
	g := d.graph
	for _, v := range g.Vertices {
		a := v.Atom
		if a.Symbol() != "C" || len(a.Rings) != 1 || len(v.Neighbours) != 2 {
			continue
		}
		if g.Vertices[v.Neighbours[0]].Atom.Symbol() == "C" && g.Vertices[v.Neighbours[1]].Atom.Symbol() == "C" {
			a.Pseudo = true
		}
	}
}

// rotateDrawing turns the whole drawing around one end of its longest axis,
// the pair of drawn vertices farthest apart, by the multiple of 30° that
// brings that axis closest to horizontal. Ring centers rotate along. A
// degenerate axis leaves the drawing untouched.
func (d *Drawer) rotateDrawing() {
	g := d.graph
	a, b, maxDist := 0, 0, 0.0
	for i, va := range g.Vertices {
		if !va.Atom.IsDrawn {
			continue
		}
		for j := i + 1; j < len(g.Vertices); j++ {
			vb := g.Vertices[j]
			if !vb.Atom.IsDrawn {
				continue
			}
			if dist := va.Position.DistanceSq(vb.Position); dist > maxDist {
				maxDist, a, b = dist, i, j
			}
		}
	}
	if maxDist == 0 {
		return
	}

	angle := -g.Vertices[a].Position.Sub(g.Vertices[b].Position).Angle()
	if math.IsNaN(angle) {
		return
	}
	angle = math.Round(angle/snapAngle) * snapAngle
	if angle == 0 {
		return
	}

	origin := g.Vertices[b].Position
	for i, v := range g.Vertices {
		if i == b {
			continue
		}
		v.Position = v.Position.RotateAround(angle, origin)
	}
	for _, r := range d.rings {
		r.Center = r.Center.RotateAround(angle, origin)
	}
}
