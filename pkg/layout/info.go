package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/smilesdraw/pkg/ring"
)

// MolecularFormula returns the formula of the molecule, or "" before Init.
func (d *Drawer) MolecularFormula() string {
	if d.graph == nil {
		return ""
	}
	return d.graph.Formula()
}

// RingCount returns the number of SSSR rings.
func (d *Drawer) RingCount() int { return len(d.rings) }

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (d *Drawer) HeavyAtomCount() int {
	if d.graph == nil {
		return 0
	}
	return d.graph.HeavyAtomCount()
}

// HasBridgedRing reports whether any ring is part of a bridged system.
func (d *Drawer) HasBridgedRing() bool { return d.bridged }

// BridgedRings returns the bridged rings.
func (d *Drawer) BridgedRings() []*ring.Ring {
	return d.filterRings(func(r *ring.Ring) bool { return r.IsBridged })
}

// FusedRings returns the fused rings.
func (d *Drawer) FusedRings() []*ring.Ring {
	return d.filterRings(func(r *ring.Ring) bool { return r.IsFused })
}

// SpiroRings returns the spiro rings.
func (d *Drawer) SpiroRings() []*ring.Ring {
	return d.filterRings(func(r *ring.Ring) bool { return r.IsSpiro })
}

func (d *Drawer) filterRings(keep func(*ring.Ring) bool) []*ring.Ring {
	var out []*ring.Ring
	for _, r := range d.rings {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// RingInfo returns one line per ring:
//
//	id;size;neighbours;spiro;fused;bridged;sourceRings;
func (d *Drawer) RingInfo() string {
	lines := make([]string, len(d.rings))
	for i, r := range d.rings {
		lines[i] = fmt.Sprintf("%d;%d;%d;%t;%t;%t;%d;",
			r.ID, r.Size(), len(r.Neighbours), r.IsSpiro, r.IsFused, r.IsBridged, len(r.Rings))
	}
	return strings.Join(lines, "\n")
}
