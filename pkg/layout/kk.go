package layout

import (
	"math"

	"github.com/matzehuels/smilesdraw/pkg/geom"
	"github.com/matzehuels/smilesdraw/pkg/ring"
)

// minKKDistance keeps the spring terms finite when two vertices coincide.
const minKKDistance = 1e-6

// kamadaKawai lays out the members of a merged bridged ring by minimizing the
// Kamada–Kawai spring energy, with ideal distances of bondLength times the
// graph distance. Vertices that are already positioned stay fixed; the rest
// start on a circle around center, insiders on a smaller inner circle.
func (d *Drawer) kamadaKawai(r *ring.Ring, center geom.Vector2, start int) {
	g := d.graph
	ids := r.Members
	n := len(ids)
	if n == 0 {
		return
	}

	dist := g.SubgraphDistanceMatrix(ids)
	bl := d.opts.BondLength

	perimeter := n - len(r.Insiders)
	radius := geom.PolygonRadius(bl, max(perimeter, 3))
	startAngle := math.Pi
	if sv := g.Vertices[start]; sv.Positioned {
		startAngle = sv.Position.Sub(center).Angle()
	}

	x := make([]float64, n)
	y := make([]float64, n)
	fixed := make([]bool, n)
	step := 2 * math.Pi / float64(max(perimeter, 1))
	innerStep := 2 * math.Pi / float64(max(len(r.Insiders), 1))
	for i, id := range ids {
		v := g.Vertices[id]
		var p geom.Vector2
		switch {
		case v.Positioned:
			p = v.Position
			fixed[i] = true
		case i < perimeter:
			p = center.Add(geom.V(radius, 0).Rotate(startAngle + float64(i)*step))
		default:
			j := i - perimeter
			p = center.Add(geom.V(radius/2, 0).Rotate(startAngle + step/2 + float64(j)*innerStep))
		}
		x[i], y[i] = p.X, p.Y
	}

	// Ideal lengths and spring strengths. Unreachable pairs do not interact.
	l := make([][]float64, n)
	k := make([][]float64, n)
	for i := range n {
		l[i] = make([]float64, n)
		k[i] = make([]float64, n)
		for j := range n {
			if i == j || math.IsInf(dist[i][j], 1) || dist[i][j] == 0 {
				continue
			}
			l[i][j] = bl * dist[i][j]
			k[i][j] = 1 / (dist[i][j] * dist[i][j])
		}
	}

	gradient := func(m int) (ex, ey float64) {
		for i := range n {
			if i == m || k[m][i] == 0 {
				continue
			}
			dx, dy := x[m]-x[i], y[m]-y[i]
			dd := math.Max(math.Hypot(dx, dy), minKKDistance)
			ex += k[m][i] * (dx - l[m][i]*dx/dd)
			ey += k[m][i] * (dy - l[m][i]*dy/dd)
		}
		return ex, ey
	}

	delta := make([]float64, n)
	for iter := 0; iter < d.opts.KKMaxIteration; iter++ {
		m, maxDelta := -1, 0.0
		for i := range n {
			if fixed[i] {
				continue
			}
			ex, ey := gradient(i)
			delta[i] = math.Hypot(ex, ey)
			if delta[i] > maxDelta {
				m, maxDelta = i, delta[i]
			}
		}
		if m < 0 || maxDelta <= d.opts.KKThreshold || maxDelta > d.opts.KKMaxEnergy {
			break
		}

		ex, ey := gradient(m)
		for inner := 0; delta[m] > d.opts.KKInnerThreshold && inner < d.opts.KKMaxInnerIteration; inner++ {
			var dxx, dyy, dxy float64
			for i := range n {
				if i == m || k[m][i] == 0 {
					continue
				}
				dx, dy := x[m]-x[i], y[m]-y[i]
				dd := math.Max(math.Hypot(dx, dy), minKKDistance)
				cube := dd * dd * dd
				dxx += k[m][i] * (1 - l[m][i]*dy*dy/cube)
				dyy += k[m][i] * (1 - l[m][i]*dx*dx/cube)
				dxy += k[m][i] * l[m][i] * dx * dy / cube
			}
			det := dxx*dyy - dxy*dxy
			if det == 0 || math.IsNaN(det) {
				break
			}
			nx := x[m] + (-ex*dyy+ey*dxy)/det
			ny := y[m] + (-ey*dxx+ex*dxy)/det
			if math.IsNaN(nx) || math.IsNaN(ny) || math.IsInf(nx, 0) || math.IsInf(ny, 0) {
				break
			}
			x[m], y[m] = nx, ny

			ex, ey = gradient(m)
			delta[m] = math.Hypot(ex, ey)
		}
	}

	for i, id := range ids {
		if !fixed[i] {
			g.Vertices[id].SetPosition(geom.V(x[i], y[i]))
		}
	}
}
