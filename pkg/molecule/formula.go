package molecule

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ElementCounts returns the number of atoms per element symbol, implicit
// hydrogens included.
//
// Hydrogens come from three places: hydrogen vertices, the hcount of bracket
// atoms whose hydrogens were not expanded into vertices, and the free valence
// (maxBonds − bondCount, never negative) of every other atom.
func (g *Graph) ElementCounts() map[string]int {
	counts := make(map[string]int)
	for _, v := range g.Vertices {
		a := v.Atom
		sym := a.Symbol()
		if sym == "*" {
			continue
		}
		counts[sym]++
		switch {
		case a.Bracket != nil:
			if !a.IsStereoCenter {
				counts["H"] += a.Bracket.HCount
			}
		case sym != "H":
			if free := a.MaxBonds() - a.BondCount; free > 0 {
				counts["H"] += free
			}
		}
	}
	for k, n := range counts {
		if n == 0 {
			delete(counts, k)
		}
	}
	return counts
}

// Formula returns the molecular formula: carbon, hydrogen,
// then the remaining elements alphabetically. A count of one is omitted.
func (g *Graph) Formula() string {
	return FormatFormula(g.ElementCounts())
}

// FormatFormula renders element counts in the order used by Formula.
func FormatFormula(counts map[string]int) string {
	var b strings.Builder
	write := func(el string) {
		n, ok := counts[el]
		if !ok || n <= 0 {
			return
		}
		b.WriteString(el)
		if n > 1 {
			b.WriteString(strconv.Itoa(n))
		}
	}

	write("C")
	write("H")
	for _, el := range slices.Sorted(maps.Keys(counts)) {
		if el != "C" && el != "H" {
			write(el)
		}
	}
	return b.String()
}
