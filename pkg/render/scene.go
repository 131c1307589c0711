package render

import (
	"math"
	"strconv"

	"github.com/matzehuels/smilesdraw/pkg/geom"
	"github.com/matzehuels/smilesdraw/pkg/graph"
)

// A scene is the list of drawing primitives for one layout. The SVG and PNG
// renderers both draw from it, so bond geometry is computed in one place.
type scene struct {
	width, height float64
	background    string
	fontSize      float64

	segments []segment
	polygons []polygon
	circles  []circle
	labels   []label
}

type segment struct {
	from, to geom.Vector2
	color    string
	width    float64
}

type polygon struct {
	points []geom.Vector2
	color  string
}

type circle struct {
	center geom.Vector2
	radius float64
	color  string
	width  float64
}

type anchor int

const (
	anchorMiddle anchor = iota
	anchorStart
	anchorEnd
)

type label struct {
	at     geom.Vector2
	text   string
	color  string
	size   float64
	anchor anchor
}

const (
	labelClearance = 0.6  // of the font size, kept free around a label
	wedgeWidth     = 0.6  // of the bond spacing, half-width at the wide end
	hashCount      = 6    // lines in a hashed wedge
	tripleSpacing  = 1.5  // divisor of the bond spacing for triple bonds
	ringCircle     = 0.65 // of the apothem, radius of the aromatic circle
)

func buildScene(l graph.Layout, theme Theme, pseudo bool) scene {
	s := scene{
		width:      l.Width,
		height:     l.Height,
		background: theme.Background(),
		fontSize:   l.FontSize,
	}

	atoms := make(map[int]graph.Atom, len(l.Atoms))
	for _, a := range l.Atoms {
		atoms[a.ID] = a
	}
	adj := make(map[int][]int, len(l.Atoms))
	for _, b := range l.Bonds {
		adj[b.From] = append(adj[b.From], b.To)
		adj[b.To] = append(adj[b.To], b.From)
	}

	for _, b := range l.Bonds {
		s.addBond(l, theme, atoms, adj, b)
	}
	for _, r := range l.Rings {
		if !r.Aromatic || r.Bridged || len(r.Members) < 3 {
			continue
		}
		apothem := l.BondLength / (2 * math.Tan(math.Pi/float64(len(r.Members))))
		s.circles = append(s.circles, circle{
			center: geom.V(r.X, r.Y),
			radius: apothem * ringCircle,
			color:  theme.Color("C"),
			width:  l.BondThickness,
		})
	}
	for _, a := range l.Atoms {
		s.addAtom(l, theme, atoms, adj, a, pseudo)
	}
	return s
}

func (s *scene) addBond(l graph.Layout, theme Theme, atoms map[int]graph.Atom, adj map[int][]int, b graph.Bond) {
	a, c := atoms[b.From], atoms[b.To]
	pa, pc := geom.V(a.X, a.Y), geom.V(c.X, c.Y)
	if pa.DistanceSq(pc) == 0 {
		return
	}
	colA, colC := theme.Color(a.Element), theme.Color(c.Element)

	// Bond ends stop short of element labels.
	dir := pc.Sub(pa).Normalize()
	gap := l.FontSize * labelClearance
	from, to := pa, pc
	if a.Label {
		from = from.Add(dir.Scale(gap))
	}
	if c.Label {
		to = to.Sub(dir.Scale(gap))
	}

	switch {
	case b.Wedge == graph.WedgeUp || b.Wedge == graph.WedgeDown:
		origin, far, color := pa, pc, colA
		if b.WedgeOrigin == b.To {
			origin, far, color = pc, pa, colC
		}
		s.addWedge(origin, far, l.BondSpacing*wedgeWidth, color, l.BondThickness, b.Wedge == graph.WedgeDown)
	case b.Order == 2:
		s.addDouble(l, atoms, adj, b, pa, pc, from, to, colA, colC)
	case b.Order >= 3:
		n := geom.Normals(pa, pc)[0].Scale(l.BondSpacing / tripleSpacing)
		s.addSplit(from, to, colA, colC, l.BondThickness)
		s.addSplit(from.Add(n), to.Add(n), colA, colC, l.BondThickness)
		s.addSplit(from.Sub(n), to.Sub(n), colA, colC, l.BondThickness)
	default:
		s.addSplit(from, to, colA, colC, l.BondThickness)
	}
}

// addDouble draws a double bond. Inside a ring the second line is shorter
// and sits on the ring center's side. Outside a ring it goes to the side
// with more neighbours, or both lines are centered when an end is terminal.
func (s *scene) addDouble(l graph.Layout, atoms map[int]graph.Atom, adj map[int][]int, b graph.Bond,
	pa, pc, from, to geom.Vector2, colA, colC string) {
	normals := geom.Normals(pa, pc)
	mid := geom.Midpoint(pa, pc)
	shorten := (1 - l.ShortBond) * l.BondLength / 2
	dir := pc.Sub(pa).Normalize()

	side := func(n geom.Vector2) {
		off := n.Scale(l.BondSpacing)
		s.addSplit(from, to, colA, colC, l.BondThickness)
		s.addSplit(from.Add(off).Add(dir.Scale(shorten)), to.Add(off).Sub(dir.Scale(shorten)), colA, colC, l.BondThickness)
	}

	if r, ok := l.Ring(b.Ring); ok {
		center := geom.V(r.X, r.Y)
		if mid.Add(normals[0]).DistanceSq(center) < mid.Add(normals[1]).DistanceSq(center) {
			side(normals[0])
		} else {
			side(normals[1])
		}
		return
	}

	if len(adj[b.From]) == 1 || len(adj[b.To]) == 1 {
		off := normals[0].Scale(l.BondSpacing / 2)
		s.addSplit(from.Add(off), to.Add(off), colA, colC, l.BondThickness)
		s.addSplit(from.Sub(off), to.Sub(off), colA, colC, l.BondThickness)
		return
	}

	var count [2]int
	for _, end := range []int{b.From, b.To} {
		for _, n := range adj[end] {
			if n == b.From || n == b.To {
				continue
			}
			p := geom.V(atoms[n].X, atoms[n].Y).Sub(pa)
			if p.X*normals[0].X+p.Y*normals[0].Y > 0 {
				count[0]++
			} else {
				count[1]++
			}
		}
	}
	if count[0] >= count[1] {
		side(normals[0])
	} else {
		side(normals[1])
	}
}

// addSplit draws a line whose halves take the colors of its ends.
func (s *scene) addSplit(from, to geom.Vector2, colFrom, colTo string, width float64) {
	if colFrom == colTo {
		s.segments = append(s.segments, segment{from: from, to: to, color: colFrom, width: width})
		return
	}
	mid := geom.Midpoint(from, to)
	s.segments = append(s.segments,
		segment{from: from, to: mid, color: colFrom, width: width},
		segment{from: mid, to: to, color: colTo, width: width})
}

// addWedge draws a solid wedge, or a hashed one for bonds pointing away
// from the viewer, narrow at the stereocentre.
func (s *scene) addWedge(origin, far geom.Vector2, halfWidth float64, color string, width float64, hashed bool) {
	n := geom.Normals(origin, far)[0].Scale(halfWidth)
	if !hashed {
		s.polygons = append(s.polygons, polygon{
			points: []geom.Vector2{origin, far.Add(n), far.Sub(n)},
			color:  color,
		})
		return
	}
	for i := 1; i <= hashCount; i++ {
		t := float64(i) / hashCount
		p := origin.Add(far.Sub(origin).Scale(t))
		h := n.Scale(t)
		s.segments = append(s.segments, segment{from: p.Add(h), to: p.Sub(h), color: color, width: width})
	}
}

func (s *scene) addAtom(l graph.Layout, theme Theme, atoms map[int]graph.Atom, adj map[int][]int, a graph.Atom, pseudo bool) {
	p := geom.V(a.X, a.Y)
	fs := l.FontSize
	small := fs * 0.7

	if !a.Label {
		if pseudo && a.Pseudo {
			s.labels = append(s.labels, label{at: p, text: graph.PseudoGlyph, color: theme.Color("C"), size: small})
		}
		return
	}

	color := theme.Color(a.Element)
	s.labels = append(s.labels, label{at: p, text: a.Element, color: color, size: fs})

	if a.HCount > 0 {
		// Hydrogens go on the side facing away from the bonds.
		var dx float64
		for _, n := range adj[a.ID] {
			dx += atoms[n].X - a.X
		}
		h := theme.Color("H")
		if dx > 0 {
			x := a.X - fs*0.8
			if a.HCount > 1 {
				s.labels = append(s.labels, label{at: geom.V(x, a.Y+fs*0.3), text: strconv.Itoa(a.HCount), color: h, size: small, anchor: anchorEnd})
				x -= small * 0.6
			}
			s.labels = append(s.labels, label{at: geom.V(x, a.Y), text: "H", color: h, size: fs, anchor: anchorEnd})
		} else {
			x := a.X + fs*0.8
			s.labels = append(s.labels, label{at: geom.V(x, a.Y), text: "H", color: h, size: fs, anchor: anchorStart})
			if a.HCount > 1 {
				s.labels = append(s.labels, label{at: geom.V(x+fs*0.75, a.Y+fs*0.3), text: strconv.Itoa(a.HCount), color: h, size: small, anchor: anchorStart})
			}
		}
	}
	if a.Charge != 0 {
		s.labels = append(s.labels, label{at: geom.V(a.X+fs*0.5, a.Y-fs*0.5), text: chargeText(a.Charge), color: color, size: small, anchor: anchorStart})
	}
	if a.Isotope != 0 {
		s.labels = append(s.labels, label{at: geom.V(a.X-fs*0.5, a.Y-fs*0.5), text: strconv.Itoa(a.Isotope), color: color, size: small, anchor: anchorEnd})
	}
}

func chargeText(charge int) string {
	sign := "+"
	if charge < 0 {
		sign = "−"
		charge = -charge
	}
	if charge == 1 {
		return sign
	}
	return strconv.Itoa(charge) + sign
}
