package sssr

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/smilesdraw/pkg/molecule"
)

// ExperimentalCap replaces the theoretical ring count in experimental mode,
// which effectively lets the candidate search run to completion.
const ExperimentalCap = 999

// Bond is a pair of row indices of a component adjacency matrix.
type Bond [2]int

func (b Bond) key() Bond {
	if b[0] > b[1] {
		return Bond{b[1], b[0]}
	}
	return b
}

// Path is a list of bonds.
type Path []Bond

// Candidate is a potential ring built from shortest (and next-shortest)
// paths between one vertex pair.
type Candidate struct {
	// Size is the ring size: 2d for two shortest paths, 2d+1 for a shortest
	// plus a next-shortest path.
	Size       int
	Paths      []Path
	PrimePaths []Path
}

// Rings returns the smallest set of smallest rings of g as lists of vertex
// ids in cyclic order.
//
// The graph is split into the connected components left after removing all
// bridges; components with fewer than three vertices cannot hold a ring and
// are skipped.
func Rings(g *molecule.Graph, experimental bool) [][]int {
	adj := g.ComponentsAdjacencyMatrix()
	if len(adj) == 0 {
		return nil
	}

	var rings [][]int
	for _, comp := range molecule.ComponentsOfMatrix(adj) {
		if len(comp) < 3 {
			continue
		}
		sub := g.SubgraphAdjacencyMatrix(comp)
		for _, ring := range ComponentRings(sub, experimental) {
			ids := make([]int, len(ring))
			for i, idx := range ring {
				ids[i] = comp[idx]
			}
			rings = append(rings, ids)
		}
	}
	return rings
}

// TheoreticalRingCount returns E − V + 1 for the component, or 2 + E − V
// when every vertex has exactly three bonds.
func TheoreticalRingCount(adj [][]int) int {
	n := len(adj)
	edges := 0
	allThree := n > 0
	for i := range n {
		deg := 0
		for j := range n {
			deg += adj[i][j]
			if j > i {
				edges += adj[i][j]
			}
		}
		if deg != 3 {
			allThree = false
		}
	}
	if allThree {
		return 2 + edges - n
	}
	return edges - n + 1
}

// ComponentRings computes the rings of one bridge-free connected component
// given as an adjacency matrix. Rings are returned as row indices in cyclic
// order.
func ComponentRings(adj [][]int, experimental bool) [][]int {
	n := len(adj)
	nSSSR := TheoreticalRingCount(adj)
	if nSSSR <= 0 {
		return nil
	}
	if nSSSR == 1 {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return [][]int{orderCycle(all, adj)}
	}
	if experimental {
		nSSSR = ExperimentalCap
	}

	bondCount := make([]int, n)
	for i := range n {
		for j := range n {
			bondCount[i] += adj[i][j]
		}
	}

	d, pe, pePrime := PathMatrices(adj)
	sets := selectRings(Candidates(d, pe, pePrime), adj, bondCount, nSSSR)

	out := make([][]int, len(sets))
	for i, s := range sets {
		out[i] = orderCycle(s, adj)
	}
	return out
}

// PathMatrices runs a path-included Floyd–Warshall over adj. It returns the
// distance matrix d, the shortest paths pe and the paths one bond longer than
// the shortest, pePrime. Unreachable pairs have d = +Inf and no paths.
func PathMatrices(adj [][]int) (d [][]float64, pe, pePrime [][][]Path) {
	n := len(adj)
	d = make([][]float64, n)
	pe = make([][][]Path, n)
	pePrime = make([][][]Path, n)
	for i := range n {
		d[i] = make([]float64, n)
		pe[i] = make([][]Path, n)
		pePrime[i] = make([][]Path, n)
		for j := range n {
			switch {
			case i == j:
				d[i][j] = 0
			case adj[i][j] == 1:
				d[i][j] = 1
				pe[i][j] = []Path{{{i, j}}}
			default:
				d[i][j] = math.Inf(1)
			}
		}
	}

	for k := range n {
		for i := range n {
			for j := range n {
				prev := d[i][j]
				next := d[i][k] + d[k][j]
				if math.IsInf(next, 1) {
					continue
				}
				reachable := len(pe[i][k]) > 0 && len(pe[k][j]) > 0

				switch {
				case prev > next:
					if prev == next+1 {
						pePrime[i][j] = clonePaths(pe[i][j])
					} else {
						pePrime[i][j] = nil
					}
					d[i][j] = next
					pe[i][j] = []Path{join(pe[i][k][0], pe[k][j][0])}
				case prev == next:
					if reachable {
						pe[i][j] = append(pe[i][j], join(pe[i][k][0], pe[k][j][0]))
					}
				case prev == next-1:
					if reachable {
						pePrime[i][j] = append(pePrime[i][j], join(pe[i][k][0], pe[k][j][0]))
					}
				}
			}
		}
	}
	return d, pe, pePrime
}

// Candidates lists ring candidates for every vertex pair, sorted by ring
// size. The sort is stable, so equal sizes keep row-major pair order.
func Candidates(d [][]float64, pe, pePrime [][][]Path) []Candidate {
	var out []Candidate
	for i := range d {
		for j := range d[i] {
			dist := d[i][j]
			if dist == 0 || math.IsInf(dist, 1) {
				continue
			}
			// A single shortest path without a next-shortest one closes nothing.
			if len(pePrime[i][j]) == 0 && len(pe[i][j]) < 2 {
				continue
			}
			size := 2 * int(dist)
			if len(pePrime[i][j]) > 0 {
				size++
			}
			out = append(out, Candidate{Size: size, Paths: pe[i][j], PrimePaths: pePrime[i][j]})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Size < out[b].Size })
	return out
}

type selection struct {
	adj       [][]int
	bondCount []int
	ringCount []int
	accepted  [][]int
	allBonds  map[Bond]bool
}

func selectRings(cands []Candidate, adj [][]int, bondCount []int, nSSSR int) [][]int {
	s := &selection{
		adj:       adj,
		bondCount: bondCount,
		ringCount: make([]int, len(adj)),
		allBonds:  make(map[Bond]bool),
	}

	for _, c := range cands {
		if c.Size%2 != 0 {
			for _, pp := range c.PrimePaths {
				s.try(join(c.Paths[0], pp))
				if len(s.accepted) >= nSSSR {
					return s.accepted
				}
			}
			continue
		}
		for j := 0; j < len(c.Paths)-1; j++ {
			s.try(join(c.Paths[j], c.Paths[j+1]))
			if len(s.accepted) >= nSSSR {
				return s.accepted
			}
		}
	}
	return s.accepted
}

func (s *selection) try(bonds Path) {
	atoms := BondsToAtoms(bonds)
	// A ring without chords has exactly as many bonds as atoms.
	if BondCount(atoms, s.adj) != len(atoms) {
		return
	}
	if s.contains(atoms, bonds) {
		return
	}
	s.accepted = append(s.accepted, atoms)
	for _, b := range bonds {
		s.allBonds[b.key()] = true
	}
}

// contains reports whether the candidate ring is redundant: a superset of
// (or equal to) an accepted ring, or made only of bonds already covered by
// accepted rings while every atom is already in as many rings as it has
// bonds. A candidate that is not redundant bumps the ring count of its atoms.
func (s *selection) contains(atoms []int, bonds Path) bool {
	for _, r := range s.accepted {
		if IsSupersetOf(atoms, r) {
			return true
		}
	}

	covered := true
	for _, b := range bonds {
		if !s.allBonds[b.key()] {
			covered = false
			break
		}
	}
	if covered {
		special := false
		for _, a := range atoms {
			if s.ringCount[a] < s.bondCount[a] {
				special = true
				break
			}
		}
		if !special {
			return true
		}
	}

	for _, a := range atoms {
		s.ringCount[a]++
	}
	return false
}

// BondsToAtoms returns the sorted set of atoms touched by bonds.
func BondsToAtoms(bonds Path) []int {
	seen := make(map[int]bool, len(bonds)*2)
	var out []int
	for _, b := range bonds {
		for _, a := range b {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	slices.Sort(out)
	return out
}

// BondCount returns the number of bonds among atoms.
func BondCount(atoms []int, adj [][]int) int {
	count := 0
	for i, u := range atoms {
		for _, v := range atoms[i+1:] {
			count += adj[u][v]
		}
	}
	return count
}

// IsSupersetOf reports whether every element of b is in a. Both slices must
// be sorted.
func IsSupersetOf(a, b []int) bool {
	i := 0
	for _, x := range b {
		for i < len(a) && a[i] < x {
			i++
		}
		if i == len(a) || a[i] != x {
			return false
		}
	}
	return true
}

// SetsEqual reports whether two sorted sets hold the same elements.
func SetsEqual(a, b []int) bool { return slices.Equal(a, b) }

func join(a, b Path) Path {
	out := make(Path, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func clonePaths(ps []Path) []Path {
	if ps == nil {
		return nil
	}
	out := make([]Path, len(ps))
	for i, p := range ps {
		out[i] = slices.Clone(p)
	}
	return out
}

// orderCycle walks the ring bonds starting from the smallest member so the
// result lists ring members in cyclic order. If members do not form a
// simple cycle they are returned sorted.
func orderCycle(members []int, adj [][]int) []int {
	sorted := slices.Clone(members)
	slices.Sort(sorted)
	if len(sorted) < 3 {
		return sorted
	}

	in := make(map[int]bool, len(sorted))
	for _, m := range sorted {
		in[m] = true
	}
	visited := make(map[int]bool, len(sorted))
	out := []int{sorted[0]}
	visited[sorted[0]] = true
	cur := sorted[0]
	for len(out) < len(sorted) {
		next := -1
		for _, m := range sorted {
			if !visited[m] && in[m] && adj[cur][m] == 1 {
				next = m
				break
			}
		}
		if next < 0 {
			return sorted
		}
		visited[next] = true
		out = append(out, next)
		cur = next
	}
	return out
}
