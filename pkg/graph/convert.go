package graph

import (
	"errors"
	"math"

	"github.com/matzehuels/smilesdraw/pkg/layout"
	"github.com/matzehuels/smilesdraw/pkg/molecule"
)

// ErrNotProcessed is returned when converting a drawer whose layout has not
// run yet.
var ErrNotProcessed = errors.New("graph: layout not processed")

// FromDrawer converts a processed drawer into its serialized layout. Only
// drawn atoms and the bonds between them are kept; hydrogens that were added
// as plain vertices end up in the HCount of their heavy atom.
func FromDrawer(d *layout.Drawer, smiles string) (Layout, error) {
	if d == nil || !d.Processed() {
		return Layout{}, ErrNotProcessed
	}
	opts := d.Options()
	g := d.Graph()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range g.Vertices {
		if !v.Atom.IsDrawn {
			continue
		}
		minX, maxX = min(minX, v.Position.X), max(maxX, v.Position.X)
		minY, maxY = min(minY, v.Position.Y), max(maxY, v.Position.Y)
	}
	if math.IsInf(minX, 1) {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	dx, dy := opts.Padding-minX, opts.Padding-minY

	l := Layout{
		SMILES:        smiles,
		Formula:       d.MolecularFormula(),
		Width:         maxX - minX + 2*opts.Padding,
		Height:        maxY - minY + 2*opts.Padding,
		Padding:       opts.Padding,
		BondLength:    opts.BondLength,
		BondSpacing:   opts.BondSpacing,
		ShortBond:     opts.ShortBondLength,
		BondThickness: opts.BondThickness,
		FontSize:      opts.FontSizeLarge,
		FontSizeSmall: opts.FontSizeSmall,
		Meta: map[string]any{
			"heavy_atoms":   d.HeavyAtomCount(),
			"rings":         d.RingCount(),
			"bridged":       d.HasBridgedRing(),
			"overlap_score": d.TotalOverlapScore(),
		},
	}

	for _, v := range g.Vertices {
		a := v.Atom
		if !a.IsDrawn {
			continue
		}
		atom := Atom{
			ID:       v.ID,
			Element:  a.Symbol(),
			X:        v.Position.X + dx,
			Y:        v.Position.Y + dy,
			HCount:   hydrogenCount(g, v),
			Aromatic: a.Aromatic,
			Pseudo:   a.Pseudo,
			Rings:    append([]int(nil), a.Rings...),
		}
		if a.Bracket != nil {
			atom.Charge = a.Bracket.Charge
			atom.Isotope = a.Bracket.Isotope
		}
		atom.Label = atom.Element != "C" || atom.Charge != 0 || atom.Isotope != 0 ||
			a.DrawExplicit || drawnDegree(g, v) == 0
		l.Atoms = append(l.Atoms, atom)
	}

	for _, e := range g.Edges {
		src, dst := g.Vertices[e.SourceID], g.Vertices[e.TargetID]
		if !src.Atom.IsDrawn || !dst.Atom.IsDrawn {
			continue
		}
		bondType := e.BondType
		if rt := g.RingbondType(e.SourceID, e.TargetID); rt != "" {
			bondType = rt
		}
		b := Bond{
			ID:       e.ID,
			From:     e.SourceID,
			To:       e.TargetID,
			Order:    molecule.BondWeights[bondType],
			Type:     bondType,
			Aromatic: e.Aromatic,
			Wedge:    e.Wedge,
			Ring:     -1,
		}
		if e.Wedge != "" {
			b.WedgeOrigin = e.WedgeOrigin
		}
		for _, r := range src.Atom.Rings {
			if dst.Atom.InRing(r) {
				b.Ring = r
				break
			}
		}
		l.Bonds = append(l.Bonds, b)
	}

	for _, r := range d.Rings() {
		l.Rings = append(l.Rings, Ring{
			ID:       r.ID,
			Members:  append([]int(nil), r.Members...),
			X:        r.Center.X + dx,
			Y:        r.Center.Y + dy,
			Aromatic: r.IsAromatic(g),
			Fused:    r.IsFused,
			Spiro:    r.IsSpiro,
			Bridged:  r.IsBridged,
		})
	}
	return l, nil
}

// hydrogenCount returns the hydrogens shown next to v's label: undrawn
// hydrogen vertices, the hcount of a bracket atom, and the free valence of
// organic-subset atoms. Added hydrogen vertices already use up the valence.
func hydrogenCount(g *molecule.Graph, v *molecule.Vertex) int {
	a := v.Atom
	if a.Symbol() == "H" {
		return 0
	}
	n := 0
	for _, id := range v.Edges {
		o := g.Vertices[g.Edges[id].Other(v.ID)]
		if o.Atom.Symbol() == "H" && !o.Atom.IsDrawn {
			n++
		}
	}
	switch {
	case a.Bracket != nil:
		if !a.IsStereoCenter {
			n += a.Bracket.HCount
		}
	default:
		if free := a.MaxBonds() - a.BondCount; free > 0 {
			n += free
		}
	}
	return n
}

func drawnDegree(g *molecule.Graph, v *molecule.Vertex) int {
	n := 0
	for _, id := range v.Edges {
		if g.Vertices[g.Edges[id].Other(v.ID)].Atom.IsDrawn {
			n++
		}
	}
	return n
}
