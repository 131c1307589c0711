package layout

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/smilesdraw/pkg/geom"
	"github.com/matzehuels/smilesdraw/pkg/molecule"
	"github.com/matzehuels/smilesdraw/pkg/ring"
)

var (
	turn60 = geom.ToRad(60)
	turn30 = geom.ToRad(30)
)

type taskKind int

const (
	bondTask taskKind = iota
	ringTask
	substituentTask
)

// task is one unit of the positioning traversal: place vertex next to
// previous along dir, place ring around center starting at vertex, or place
// the substituents of ring member vertex once all its rings are down.
type task struct {
	kind     taskKind
	vertex   int
	previous int
	dir      float64
	turn     float64
	ring     int
	center   geom.Vector2
}

// position places every vertex. Components are laid out one after another
// and shifted so they sit side by side, the first one rooted at the origin.
func (d *Drawer) position() {
	g := d.graph
	for _, v := range g.Vertices {
		v.Positioned = false
		v.Angle = 0
	}
	for _, r := range d.rings {
		r.Positioned = false
	}

	d.mergeBridgedSystems()

	var right, midY float64
	for i, comp := range g.ConnectedComponents() {
		root := d.componentRoot(comp)
		if root < 0 {
			continue
		}
		d.placeComponent(root)

		minX, minY, maxX, maxY, ok := d.bounds(comp)
		if !ok {
			continue
		}
		if i > 0 {
			d.translate(comp, geom.V(right+2*d.opts.BondLength-minX, midY-(minY+maxY)/2))
			maxX += right + 2*d.opts.BondLength - minX
		} else {
			midY = (minY + maxY) / 2
		}
		right = maxX
	}
}

// componentRoot prefers a member of a bridged system so the Kamada–Kawai
// layout starts unconstrained, then the lowest drawn vertex id.
func (d *Drawer) componentRoot(comp []int) int {
	sorted := slices.Clone(comp)
	slices.Sort(sorted)
	root := -1
	for _, id := range sorted {
		a := d.graph.Vertices[id].Atom
		if !a.IsDrawn {
			continue
		}
		for _, r := range a.Rings {
			if d.rings[r].IsBridged && len(d.rings[r].Rings) > 0 {
				return id
			}
		}
		if root < 0 {
			root = id
		}
	}
	return root
}

func (d *Drawer) placeComponent(root int) {
	v := d.graph.Vertices[root]
	v.SetPosition(geom.Vector2{})

	var stack []task
	d.afterPlaced(root, -1, 0, &stack)
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch t.kind {
		case bondTask:
			d.placeBond(t, &stack)
		case ringTask:
			d.placeRing(t, &stack)
		case substituentTask:
			d.scheduleSubstituents(d.rings[t.ring], t.vertex, &stack)
		}
	}
}

func (d *Drawer) placeBond(t task, stack *[]task) {
	g := d.graph
	v := g.Vertices[t.vertex]
	if v.Positioned {
		return
	}
	prev := g.Vertices[t.previous]
	v.SetPosition(prev.Position.Add(geom.V(d.opts.BondLength, 0).Rotate(t.dir)))
	v.Angle = t.turn
	d.afterPlaced(t.vertex, t.previous, t.dir, stack)
}

// afterPlaced schedules what hangs off a freshly positioned vertex: its ring,
// or the chain continuing from it.
func (d *Drawer) afterPlaced(id, previous int, dir float64, stack *[]task) {
	g := d.graph
	v := g.Vertices[id]

	for _, rid := range v.Atom.Rings {
		r := d.rings[rid]
		if r.Positioned {
			continue
		}
		*stack = append(*stack, task{kind: ringTask, ring: rid, vertex: id, center: d.entryCenter(v, r, previous, dir)})
		return
	}
	if len(v.Atom.Rings) > 0 {
		return
	}

	var children []int
	for _, n := range v.Neighbours {
		if n != previous && !g.Vertices[n].Positioned {
			children = append(children, n)
		}
	}
	if len(children) == 0 {
		return
	}

	// Deeper subtrees first: they continue the zig-zag.
	sort.SliceStable(children, func(a, b int) bool {
		return g.TreeDepth(children[a], id) > g.TreeDepth(children[b], id)
	})

	dirs, turns := d.chainDirections(v, previous, dir, children)
	for i := len(children) - 1; i >= 0; i-- {
		*stack = append(*stack, task{kind: bondTask, vertex: children[i], previous: id, dir: dirs[i], turn: turns[i]})
	}
}

// entryCenter returns the center of ring r entered at v along dir. At a
// fusion atom the bond shared with the fused partner continues the incoming
// bond, so the partner falls away from it; that bond's far end is positioned
// here. With a second substituent on the entry atom the ring is turned by 30°
// so both substituents fan out symmetrically.
func (d *Drawer) entryCenter(v *molecule.Vertex, r *ring.Ring, previous int, dir float64) geom.Vector2 {
	radius := r.Radius(d.opts.BondLength)
	if previous >= 0 && !(r.IsBridged && len(r.Rings) > 0) {
		if s := d.fusionPartner(v, r); s >= 0 {
			end := v.Position.Add(geom.V(d.opts.BondLength, 0).Rotate(dir))
			d.graph.Vertices[s].SetPosition(end)
			half := d.opts.BondLength / 2
			apothem := math.Sqrt(math.Max(radius*radius-half*half, 0))
			return geom.Midpoint(v.Position, end).Add(geom.Normals(v.Position, end)[0].Scale(apothem))
		}
	}
	if d.externalDegree(v.ID) > 1 {
		dir += turn30
	}
	return v.Position.Add(geom.V(radius, 0).Rotate(dir))
}

// fusionPartner returns the unpositioned neighbour of v that shares both r
// and another unpositioned ring with v, or -1.
func (d *Drawer) fusionPartner(v *molecule.Vertex, r *ring.Ring) int {
	for _, n := range v.Neighbours {
		nv := d.graph.Vertices[n]
		if nv.Positioned || !nv.Atom.InRing(r.ID) {
			continue
		}
		for _, rid := range v.Atom.Rings {
			if rid != r.ID && !d.rings[rid].Positioned && nv.Atom.InRing(rid) {
				return n
			}
		}
	}
	return -1
}

// chainDirections returns the absolute bond direction and the turn recorded
// for each child of a chain vertex with incoming direction dir. Chains grow
// in a zig-zag of 120° bond angles; triple bonds and cumulated double bonds
// continue straight.
func (d *Drawer) chainDirections(v *molecule.Vertex, previous int, dir float64, children []int) ([]float64, []float64) {
	k := len(children)
	dirs := make([]float64, k)
	turns := make([]float64, k)

	alternate := func(i int) float64 {
		if i%2 == 0 {
			return -turn60
		}
		return turn60
	}

	if previous < 0 {
		switch k {
		case 1:
			dirs[0], turns[0] = -turn30, -turn60
		case 2:
			dirs[0], turns[0] = -turn30, -turn60
			dirs[1], turns[1] = math.Pi+turn30, turn60
		default:
			step := 2 * math.Pi / float64(k)
			for i := range k {
				dirs[i] = -turn30 + float64(i)*step
				turns[i] = alternate(i)
			}
		}
		return dirs, turns
	}

	zig := -v.Angle
	if zig == 0 {
		zig = turn60
	}

	switch k {
	case 1:
		if d.isLinear(v.ID, previous, children[0]) {
			dirs[0], turns[0] = dir, v.Angle
		} else {
			dirs[0], turns[0] = dir+zig, zig
		}
	case 2:
		dirs[0], turns[0] = dir+zig, zig
		dirs[1], turns[1] = dir-zig, -zig
	case 3:
		dirs[0], turns[0] = dir, v.Angle
		dirs[1], turns[1] = dir+math.Pi/2, zig
		dirs[2], turns[2] = dir-math.Pi/2, -zig
	default:
		step := 2 * math.Pi / float64(k+1)
		for i := range k {
			dirs[i] = dir + math.Pi - float64(i+1)*step
			turns[i] = alternate(i)
		}
	}
	return dirs, turns
}

// isLinear reports whether the chain through v continues straight: a triple
// bond on either side, or double bonds on both sides.
func (d *Drawer) isLinear(v, previous, next int) bool {
	in, out := d.graph.Edge(previous, v), d.graph.Edge(v, next)
	if in == nil || out == nil {
		return false
	}
	if in.BondType == "#" || out.BondType == "#" {
		return true
	}
	return in.BondType == "=" && out.BondType == "="
}

// placeRing positions the members of a ring, then schedules its neighbouring
// rings and the substituents of its members.
func (d *Drawer) placeRing(t task, stack *[]task) {
	g := d.graph
	r := d.rings[t.ring]
	if r.Positioned {
		return
	}

	if r.IsBridged && len(r.Rings) > 0 {
		d.kamadaKawai(r, t.center, t.vertex)
		r.UpdateCenter(g)
	} else {
		d.placePolygon(r, t.center, t.vertex)
		r.Center = t.center
	}
	r.Positioned = true

	// Substituents go on the stack first so neighbouring rings, which may
	// own some of those vertices, are placed before them.
	for _, m := range r.Members {
		*stack = append(*stack, task{kind: substituentTask, vertex: m, ring: r.ID})
	}

	neighbours := r.OrderedNeighbours(d.conns)
	for i := len(neighbours) - 1; i >= 0; i-- {
		n := d.rings[neighbours[i]]
		if n.Positioned {
			continue
		}
		shared := ring.SharedVertices(d.conns, r.ID, n.ID)
		if len(shared) == 0 {
			continue
		}
		center := d.neighbourCenter(r, n, shared)
		*stack = append(*stack, task{kind: ringTask, ring: n.ID, vertex: shared[0], center: center})
	}
}

// neighbourCenter returns where a ring sharing vertices with a positioned
// ring r goes: across the shared bond for fused rings, straight out from the
// shared vertex for spiro rings.
func (d *Drawer) neighbourCenter(r, n *ring.Ring, shared []int) geom.Vector2 {
	g := d.graph
	radius := n.Radius(d.opts.BondLength)

	if len(shared) == 2 {
		a, b := g.Vertices[shared[0]].Position, g.Vertices[shared[1]].Position
		mid := geom.Midpoint(a, b)
		half := a.Distance(b) / 2
		apothem := math.Sqrt(math.Max(radius*radius-half*half, 0))
		normals := geom.Normals(a, b)
		c1 := mid.Add(normals[0].Scale(apothem))
		c2 := mid.Add(normals[1].Scale(apothem))
		if c1.DistanceSq(r.Center) >= c2.DistanceSq(r.Center) {
			return c1
		}
		return c2
	}

	pts := make([]geom.Vector2, len(shared))
	for i, s := range shared {
		pts[i] = g.Vertices[s].Position
	}
	anchor := geom.Centroid(pts)
	out := anchor.Sub(r.Center).Normalize()
	if out.LengthSq() == 0 {
		out = geom.V(1, 0)
	}
	return anchor.Add(out.Scale(radius))
}

// placePolygon puts the unpositioned members of r on a regular polygon
// around center, starting at start and walking away from any member that is
// already positioned next to it.
func (d *Drawer) placePolygon(r *ring.Ring, center geom.Vector2, start int) {
	g := d.graph
	n := r.Size()
	idx := slices.Index(r.Members, start)
	if idx < 0 {
		idx, start = 0, r.Members[0]
	}

	seq := make([]int, n)
	for i := range n {
		seq[i] = r.Members[(idx+i)%n]
	}

	radius := r.Radius(d.opts.BondLength)
	startAngle := math.Pi
	if sv := g.Vertices[start]; sv.Positioned {
		startAngle = sv.Position.Sub(center).Angle()
	}

	sign := 1.0
	switch {
	case g.Vertices[seq[1]].Positioned:
		if normalizeAngle(g.Vertices[seq[1]].Position.Sub(center).Angle()-startAngle) < 0 {
			sign = -1
		}
	case g.Vertices[seq[n-1]].Positioned:
		if normalizeAngle(g.Vertices[seq[n-1]].Position.Sub(center).Angle()-startAngle) > 0 {
			sign = -1
		}
	}

	for i, m := range seq {
		v := g.Vertices[m]
		if v.Positioned {
			continue
		}
		a := startAngle + sign*float64(i)*r.CentralAngle
		v.SetPosition(center.Add(geom.V(radius, 0).Rotate(a)))
	}
}

// scheduleSubstituents queues the unpositioned neighbours of ring member m
// that do not belong to a ring shared with m. Nothing happens until every
// ring of m is positioned; the ring placed last schedules m again. All
// neighbours outside the ring system, placed or not, get slots 60° apart
// centred on the widest gap between the ring bonds of m; placed ones keep
// the slot nearest to them and the rest go to the new substituents.
func (d *Drawer) scheduleSubstituents(r *ring.Ring, m int, stack *[]task) {
	g := d.graph
	v := g.Vertices[m]
	for _, rid := range v.Atom.Rings {
		if !d.rings[rid].Positioned {
			return
		}
	}

	var subs []int
	var ringDirs []float64
	var placedDirs []float64
	for _, n := range v.Neighbours {
		nv := g.Vertices[n]
		switch {
		case sharesRing(v.Atom, nv.Atom):
			if nv.Positioned {
				ringDirs = append(ringDirs, nv.Position.Sub(v.Position).Angle())
			}
		case nv.Positioned:
			placedDirs = append(placedDirs, nv.Position.Sub(v.Position).Angle())
		default:
			subs = append(subs, n)
		}
	}
	if len(subs) == 0 {
		return
	}

	base := v.Position.Sub(r.Center).Angle()
	if len(ringDirs) > 0 {
		base = widestGap(ringDirs)
	}

	k := len(subs) + len(placedDirs)
	slots := make([]float64, k)
	for i := range k {
		slots[i] = base + (float64(i)-float64(k-1)/2)*turn60
	}
	taken := make([]bool, k)
	for _, p := range placedDirs {
		best := -1
		for i, s := range slots {
			if taken[i] {
				continue
			}
			if best < 0 || math.Abs(normalizeAngle(s-p)) < math.Abs(normalizeAngle(slots[best]-p)) {
				best = i
			}
		}
		taken[best] = true
	}

	var tasks []task
	j := 0
	for i, s := range slots {
		if taken[i] {
			continue
		}
		turn := turn60
		if j%2 == 1 {
			turn = -turn60
		}
		tasks = append(tasks, task{kind: bondTask, vertex: subs[j], previous: m, dir: s, turn: turn})
		j++
	}
	for i := len(tasks) - 1; i >= 0; i-- {
		*stack = append(*stack, tasks[i])
	}
}

// widestGap returns the direction bisecting the widest angle between
// consecutive directions in dirs. A single direction is reversed.
func widestGap(dirs []float64) float64 {
	sorted := make([]float64, len(dirs))
	for i, a := range dirs {
		sorted[i] = normalizeAngle(a)
	}
	slices.Sort(sorted)

	best, widest := 0.0, -1.0
	for i, a := range sorted {
		gap := sorted[(i+1)%len(sorted)] - a
		if gap <= 1e-9 {
			gap += 2 * math.Pi
		}
		if gap > widest {
			best, widest = a+gap/2, gap
		}
	}
	return best
}

// externalDegree counts the neighbours of id that share no ring with it.
func (d *Drawer) externalDegree(id int) int {
	v := d.graph.Vertices[id]
	n := 0
	for _, nb := range v.Neighbours {
		if !sharesRing(v.Atom, d.graph.Vertices[nb].Atom) {
			n++
		}
	}
	return n
}

func sharesRing(a, b *molecule.Atom) bool {
	for _, r := range a.Rings {
		if b.InRing(r) {
			return true
		}
	}
	return false
}

// normalizeAngle maps a to (-π, π].
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// bounds returns the bounding box of the positioned, drawn vertices of ids.
func (d *Drawer) bounds(ids []int) (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, id := range ids {
		v := d.graph.Vertices[id]
		if !v.Positioned || !v.Atom.IsDrawn {
			continue
		}
		ok = true
		minX, maxX = math.Min(minX, v.Position.X), math.Max(maxX, v.Position.X)
		minY, maxY = math.Min(minY, v.Position.Y), math.Max(maxY, v.Position.Y)
	}
	return minX, minY, maxX, maxY, ok
}

// translate moves the vertices of ids and the centers of rings among them.
func (d *Drawer) translate(ids []int, by geom.Vector2) {
	for _, id := range ids {
		d.graph.Vertices[id].Position = d.graph.Vertices[id].Position.Add(by)
	}
	for _, r := range d.rings {
		if len(r.Members) > 0 && slices.Contains(ids, r.Members[0]) {
			r.Center = r.Center.Add(by)
		}
	}
}
