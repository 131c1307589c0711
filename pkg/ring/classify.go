package ring

import "github.com/matzehuels/smilesdraw/pkg/molecule"

// Classify sets the fused, spiro and bridged flags of every ring from its
// connections. Atom ring membership must already be recorded on g.
//
//   - fused: the ring shares exactly one bond with another ring;
//   - spiro: the ring shares a single vertex with exactly one other ring
//     and no bond with any ring;
//   - bridged: one of its connections is a bridge.
func Classify(rings []*Ring, conns []*Connection, g *molecule.Graph) {
	byID := make(map[int]*Ring, len(rings))
	for _, r := range rings {
		r.IsFused, r.IsSpiro, r.IsBridged = false, false, false
		byID[r.ID] = r
	}

	for _, r := range rings {
		sharesEdge, vertexPartners := false, 0
		for _, c := range conns {
			if !c.ContainsRing(r.ID) {
				continue
			}
			switch {
			case c.IsBridge(g):
				r.IsBridged = true
			case c.SharesEdge(g):
				r.IsFused = true
				sharesEdge = true
			case len(c.Vertices) == 1:
				vertexPartners++
			default:
				// Two shared vertices that are not bonded still rule out spiro.
				sharesEdge = sharesEdge || len(c.Vertices) > 1
			}
		}
		r.IsSpiro = vertexPartners == 1 && !sharesEdge && !r.IsBridged
	}
}

// BridgedSystems groups the ids of rings joined by bridge connections. Each
// group is one bridged ring system, in ascending ring id order of discovery.
func BridgedSystems(rings []*Ring, conns []*Connection, g *molecule.Graph) [][]int {
	seen := make(map[int]bool)
	var systems [][]int
	for _, r := range rings {
		if !r.IsBridged || seen[r.ID] {
			continue
		}
		var system []int
		stack := []int{r.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[id] {
				continue
			}
			seen[id] = true
			system = append(system, id)
			for _, c := range conns {
				if c.ContainsRing(id) && c.IsBridge(g) && !seen[c.Other(id)] {
					stack = append(stack, c.Other(id))
				}
			}
		}
		systems = append(systems, system)
	}
	return systems
}
