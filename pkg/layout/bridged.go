package layout

import (
	"slices"

	"github.com/matzehuels/smilesdraw/pkg/ring"
)

// mergeBridgedSystems replaces every bridged ring system by one macro ring
// so it can be positioned as a unit. Ring membership of every affected atom
// is backed up first and restored by restoreRingInformation.
func (d *Drawer) mergeBridgedSystems() {
	for _, system := range ring.BridgedSystems(d.rings, d.conns, d.graph) {
		d.mergeBridgedSystem(system)
	}
	for _, r := range d.rings {
		r.Neighbours = ring.Neighbours(d.conns, r.ID)
	}
}

func (d *Drawer) mergeBridgedSystem(system []int) {
	g := d.graph
	inSystem := func(id int) bool { return slices.Contains(system, id) }

	var vertices []int
	sourceCount := make(map[int]int)
	for _, id := range system {
		for _, m := range d.rings[id].Members {
			if sourceCount[m] == 0 {
				vertices = append(vertices, m)
			}
			sourceCount[m]++
		}
	}

	// Atoms in a single source ring lie on the perimeter. Atoms in several
	// source rings are bridge nodes; those bonded only to other bridge nodes
	// are inside the macro ring.
	var perimeter, insiders []int
	for _, v := range vertices {
		if sourceCount[v] == 1 {
			perimeter = append(perimeter, v)
			continue
		}
		g.Vertices[v].Atom.IsBridgeNode = true
		onPerimeter := false
		for _, n := range g.Vertices[v].Neighbours {
			if sourceCount[n] == 1 {
				onPerimeter = true
				break
			}
		}
		if onPerimeter {
			perimeter = append(perimeter, v)
		} else {
			insiders = append(insiders, v)
			g.Vertices[v].Atom.IsBridge = true
		}
	}

	perimeter = d.orderPerimeter(perimeter)
	merged := ring.New(len(d.rings), append(perimeter, insiders...))
	merged.Insiders = insiders
	merged.Rings = slices.Clone(system)
	merged.IsBridged = true
	merged.CanFlip = false
	d.rings = append(d.rings, merged)

	for _, id := range system {
		d.rings[id].IsPartOfBridged = true
		d.rings[id].Positioned = true
	}

	for _, v := range vertices {
		a := g.Vertices[v].Atom
		if !slices.Contains(d.backedUp, v) {
			a.BackupRings()
			d.backedUp = append(d.backedUp, v)
		}
		a.Rings = slices.DeleteFunc(a.Rings, inSystem)
		a.AddRing(merged.ID)
	}

	// Connections inside the system disappear; connections to outer rings
	// are redirected to the macro ring, merging duplicates.
	var kept []*ring.Connection
	for _, c := range d.conns {
		first, second := inSystem(c.FirstRingID), inSystem(c.SecondRingID)
		switch {
		case first && second:
			continue
		case first || second:
			outer := c.FirstRingID
			if first {
				outer = c.SecondRingID
			}
			if existing := ring.Between(kept, merged.ID, outer); existing != nil {
				for _, v := range c.Vertices {
					existing.AddVertex(v)
				}
				continue
			}
			c.UpdateOther(merged.ID, outer)
		}
		kept = append(kept, c)
	}
	d.conns = kept
}

// orderPerimeter walks bonds between perimeter atoms so neighbours on the
// perimeter follow each other. Atoms the walk cannot reach keep their order
// at the end.
func (d *Drawer) orderPerimeter(perimeter []int) []int {
	if len(perimeter) < 3 {
		return perimeter
	}
	visited := make(map[int]bool, len(perimeter))
	out := []int{perimeter[0]}
	visited[perimeter[0]] = true
	for cur := perimeter[0]; ; {
		next := -1
		for _, p := range perimeter {
			if !visited[p] && d.graph.HasEdge(cur, p) {
				next = p
				break
			}
		}
		if next < 0 {
			break
		}
		visited[next] = true
		out = append(out, next)
		cur = next
	}
	for _, p := range perimeter {
		if !visited[p] {
			out = append(out, p)
		}
	}
	return out
}

// restoreRingInformation undoes the merge of bridged systems. Ring centers
// of the source rings are taken from the final member positions.
func (d *Drawer) restoreRingInformation() {
	for _, v := range d.backedUp {
		d.graph.Vertices[v].Atom.RestoreRings()
	}

	d.rings = slices.Clone(d.originalRings)
	d.conns = cloneConnections(d.originalConns)
	for _, r := range d.rings {
		r.Neighbours = ring.Neighbours(d.conns, r.ID)
		if r.IsPartOfBridged {
			r.UpdateCenter(d.graph)
		}
	}
}
