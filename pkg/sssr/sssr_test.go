package sssr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/smilesdraw/pkg/molecule"
	"github.com/matzehuels/smilesdraw/pkg/smiles"
)

func graphOf(t *testing.T, s string) *molecule.Graph {
	t.Helper()
	g, err := molecule.Build(smiles.MustParse(s), false)
	require.NoError(t, err)
	return g
}

func sizes(rings [][]int) []int {
	out := make([]int, len(rings))
	for i, r := range rings {
		out[i] = len(r)
	}
	return out
}

func TestRingsAcyclic(t *testing.T) {
	for _, s := range []string{"C", "CC", "CCCCC(C)CC", "[Na+].[Cl-]", "CC(=O)OC"} {
		t.Run(s, func(t *testing.T) {
			assert.Empty(t, Rings(graphOf(t, s), false))
		})
	}
}

func TestRingsBenzene(t *testing.T) {
	rings := Rings(graphOf(t, "c1ccccc1"), false)
	require.Len(t, rings, 1)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, rings[0])
}

func TestRingsCycleOrder(t *testing.T) {
	g := graphOf(t, "C1CCCCC1")
	ring := Rings(g, false)[0]
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		assert.True(t, g.HasEdge(a, b), "%d-%d", a, b)
	}
}

func TestRingsKnownSystems(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
		sizes  []int
	}{
		{"naphthalene", "c1ccc2ccccc2c1", []int{6, 6}},
		{"anthracene", "c1ccc2cc3ccccc3cc2c1", []int{6, 6, 6}},
		{"spiro", "C1CCC2(CC1)CCCC2", []int{6, 5}},
		{"norbornane", "C1CC2CCC1C2", []int{5, 5}},
		{"cubane", "C12C3C4C1C5C2C3C45", []int{4, 4, 4, 4, 4, 4}},
		{"biphenyl", "c1ccccc1-c1ccccc1", []int{6, 6}},
		{"cyclopropylbenzene", "C1CC1c1ccccc1", []int{3, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rings := Rings(graphOf(t, tt.smiles), false)
			assert.ElementsMatch(t, tt.sizes, sizes(rings))
		})
	}
}

func TestRingCountMatchesCyclomaticNumber(t *testing.T) {
	for _, s := range []string{
		"c1ccc2ccccc2c1",
		"C1CCC2(CC1)CCCC2",
		"C1CC2CCC1C2",
		"c1ccc2cc3ccccc3cc2c1",
		"C12C3C4C1C5C2C3C45",
		"OC1CCC(CC1)c1ccc2ccccc2c1",
	} {
		t.Run(s, func(t *testing.T) {
			g := graphOf(t, s)
			adj := g.ComponentsAdjacencyMatrix()
			want := 0
			for _, comp := range molecule.ComponentsOfMatrix(adj) {
				if len(comp) < 3 {
					continue
				}
				want += TheoreticalRingCount(g.SubgraphAdjacencyMatrix(comp))
			}
			rings := Rings(g, false)
			assert.Len(t, rings, want)

			// No ring is a strict superset of another.
			for i, a := range rings {
				for j, b := range rings {
					if i == j {
						continue
					}
					sa, sb := BondsToAtoms(asPath(a)), BondsToAtoms(asPath(b))
					assert.False(t, len(sa) > len(sb) && IsSupersetOf(sa, sb), "ring %v contains %v", a, b)
				}
			}
		})
	}
}

func asPath(ring []int) Path {
	var p Path
	for i := range ring {
		p = append(p, Bond{ring[i], ring[(i+1)%len(ring)]})
	}
	return p
}

func TestExperimentalFindsAtLeastAsMany(t *testing.T) {
	g := graphOf(t, "c1ccc2cc3ccccc3cc2c1")
	assert.GreaterOrEqual(t, len(Rings(g, true)), len(Rings(g, false)))
}

func TestTheoreticalRingCount(t *testing.T) {
	triangle := [][]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}}
	assert.Equal(t, 1, TheoreticalRingCount(triangle))

	// K4: every vertex has three bonds.
	k4 := [][]int{{0, 1, 1, 1}, {1, 0, 1, 1}, {1, 1, 0, 1}, {1, 1, 1, 0}}
	assert.Equal(t, 4, TheoreticalRingCount(k4))
}

func TestPathMatrices(t *testing.T) {
	// Square 0-1-2-3-0.
	adj := [][]int{{0, 1, 0, 1}, {1, 0, 1, 0}, {0, 1, 0, 1}, {1, 0, 1, 0}}
	d, pe, _ := PathMatrices(adj)
	assert.Equal(t, 2.0, d[0][2])
	assert.Len(t, pe[0][2], 2)
	assert.Equal(t, 1.0, d[0][1])

	cands := Candidates(PathMatrices(adj))
	require.NotEmpty(t, cands)
	assert.Equal(t, 4, cands[0].Size)
	for i := 1; i < len(cands); i++ {
		assert.LessOrEqual(t, cands[i-1].Size, cands[i].Size)
	}
}

func TestSetHelpers(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, BondsToAtoms(Path{{3, 2}, {2, 1}, {1, 3}}))
	assert.True(t, IsSupersetOf([]int{1, 2, 3}, []int{1, 3}))
	assert.False(t, IsSupersetOf([]int{1, 2}, []int{1, 3}))
	assert.True(t, IsSupersetOf([]int{1, 2}, nil))
	assert.True(t, SetsEqual([]int{1, 2}, []int{1, 2}))
	assert.False(t, SetsEqual([]int{1, 2}, []int{1, 3}))

	square := [][]int{{0, 1, 0, 1}, {1, 0, 1, 0}, {0, 1, 0, 1}, {1, 0, 1, 0}}
	assert.Equal(t, 4, BondCount([]int{0, 1, 2, 3}, square))
	assert.Equal(t, 1, BondCount([]int{0, 1}, square))
}
