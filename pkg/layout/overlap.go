package layout

import (
	"math"

	"github.com/matzehuels/smilesdraw/pkg/geom"
	"github.com/matzehuels/smilesdraw/pkg/molecule"
)

// primaryOverlapThreshold is the subtree score above which the first
// rotation search tries to rotate a subtree.
const primaryOverlapThreshold = 0.1

var rotation120 = geom.ToRad(120)

// OverlapPair is a pair of drawn vertices closer than one bond length.
type OverlapPair struct {
	A      int     `json:"a"`
	B      int     `json:"b"`
	DistSq float64 `json:"dist_sq"`
	Score  float64 `json:"score"`
}

// OverlapScore is the crowding penalty of the current layout.
type OverlapScore struct {
	Total        float64
	VertexScores []float64
	Pairs        []OverlapPair
}

// OverlapScore computes the crowding penalty. Every drawn pair closer than
// the bond length adds ((bondLength - dist) * w)² to the total and to both
// vertices, where w is 1 for two acyclic atoms, 0.2 when one is in a ring
// and 0.1 when both are.
func (d *Drawer) OverlapScore() OverlapScore {
	g := d.graph
	bl := d.opts.BondLength
	blSq := d.opts.BondLengthSq()

	s := OverlapScore{VertexScores: make([]float64, len(g.Vertices))}
	for i, a := range g.Vertices {
		if !a.Atom.IsDrawn {
			continue
		}
		for j := i + 1; j < len(g.Vertices); j++ {
			b := g.Vertices[j]
			if !b.Atom.IsDrawn {
				continue
			}
			distSq := a.Position.DistanceSq(b.Position)
			if distSq >= blSq {
				continue
			}

			weight := 1.0
			inA, inB := len(a.Atom.Rings) > 0, len(b.Atom.Rings) > 0
			switch {
			case inA && inB:
				weight = 0.1
			case inA || inB:
				weight = 0.2
			}

			score := math.Pow((bl-math.Sqrt(distSq))*weight, 2)
			s.VertexScores[i] += score
			s.VertexScores[j] += score
			s.Total += score
			s.Pairs = append(s.Pairs, OverlapPair{A: i, B: j, DistSq: distSq, Score: score})
		}
	}
	return s
}

// SubtreeOverlapScore returns the average vertex score over the subtree
// rooted at v when the link to parent is cut.
func (d *Drawer) SubtreeOverlapScore(v, parent int, vertexScores []float64) float64 {
	tree := d.graph.Tree(v, parent)
	if len(tree) == 0 {
		return 0
	}
	total := 0.0
	for _, id := range tree {
		total += vertexScores[id]
	}
	return total / float64(len(tree))
}

// IsEdgeRotatable reports whether e is a single bond outside any ring.
func (d *Drawer) IsEdgeRotatable(e *molecule.Edge) bool {
	if e.BondType != "-" {
		return false
	}
	g := d.graph
	return len(g.Vertices[e.SourceID].Atom.Rings) == 0 && len(g.Vertices[e.TargetID].Atom.Rings) == 0
}

// RotateSubtree rotates the subtree rooted at v (cut from parent) by angle
// around origin.
func (d *Drawer) RotateSubtree(v, parent int, angle float64, origin geom.Vector2) {
	for _, id := range d.graph.Tree(v, parent) {
		p := d.graph.Vertices[id]
		p.Position = p.Position.RotateAround(angle, origin)
	}
}

// TotalOverlapScore returns the overlap score after the rotation search.
func (d *Drawer) TotalOverlapScore() float64 { return d.totalOverlap }

func (d *Drawer) resolvePrimaryOverlaps() {
	score := d.OverlapScore()
	d.totalOverlap = score.Total
	for range d.opts.OverlapResolutionIterations {
		score = d.rotationPass(primaryOverlapThreshold, score)
	}
}

// rotationPass walks every rotatable bond once. When the subtree on the
// shallower side scores above threshold, the one or two branches hanging off
// its anchor are rotated 120° away from the other side. A rotation is kept
// only if it lowers the total score; otherwise positions are restored from a
// snapshot. It returns the score of the final layout.
func (d *Drawer) rotationPass(threshold float64, score OverlapScore) OverlapScore {
	g := d.graph
	for _, e := range g.Edges {
		if !d.IsEdgeRotatable(e) {
			continue
		}

		a, b := e.TargetID, e.SourceID
		if g.TreeDepth(e.SourceID, e.TargetID) > g.TreeDepth(e.TargetID, e.SourceID) {
			a, b = e.SourceID, e.TargetID
		}
		if d.SubtreeOverlapScore(b, a, score.VertexScores) <= threshold {
			continue
		}

		va, vb := g.Vertices[a], g.Vertices[b]
		neighbours := vb.NeighbourIDs(a)

		switch len(neighbours) {
		case 1:
			n := g.Vertices[neighbours[0]]
			angle := n.Position.GetRotateAwayFromAngle(va.Position, vb.Position, rotation120)
			d.tryRotation(func() {
				d.RotateSubtree(n.ID, vb.ID, angle, vb.Position)
			})
		case 2:
			na, nb := g.Vertices[neighbours[0]], g.Vertices[neighbours[1]]
			ra, rb := na.Atom.Rings, nb.Atom.Rings
			if len(ra) == 1 && len(rb) == 1 {
				if ra[0] != rb[0] {
					continue
				}
			} else if len(ra) != 0 || len(rb) != 0 {
				continue
			}
			angleA := na.Position.GetRotateAwayFromAngle(va.Position, vb.Position, rotation120)
			angleB := nb.Position.GetRotateAwayFromAngle(va.Position, vb.Position, rotation120)
			d.tryRotation(func() {
				origin := vb.Position
				d.RotateSubtree(na.ID, vb.ID, angleA, origin)
				d.RotateSubtree(nb.ID, vb.ID, angleB, origin)
			})
		default:
			continue
		}

		score = d.OverlapScore()
	}
	return score
}

// tryRotation applies rotate and keeps it only when the total overlap score
// strictly decreases.
func (d *Drawer) tryRotation(rotate func()) bool {
	snapshot := d.graph.Positions()
	rotate()
	total := d.OverlapScore().Total
	if total < d.totalOverlap {
		d.totalOverlap = total
		return true
	}
	d.graph.RestorePositions(snapshot)
	return false
}

// resolveSecondaryOverlaps pushes every recorded pair that is still too close
// apart along the line joining them, symmetrically, until they are exactly
// one bond length apart.
func (d *Drawer) resolveSecondaryOverlaps(pairs []OverlapPair) {
	g := d.graph
	bl := d.opts.BondLength
	for _, p := range pairs {
		a, b := g.Vertices[p.A], g.Vertices[p.B]
		distSq := a.Position.DistanceSq(b.Position)
		if distSq >= d.opts.BondLengthSq() {
			continue
		}
		dir := a.Position.Sub(b.Position).Normalize()
		if dir.LengthSq() == 0 {
			dir = geom.V(1, 0)
		}
		shift := dir.Scale((bl - math.Sqrt(distSq)) / 2)
		a.Position = a.Position.Add(shift)
		b.Position = b.Position.Sub(shift)
	}
}
