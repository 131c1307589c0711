package ring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/smilesdraw/pkg/molecule"
	"github.com/matzehuels/smilesdraw/pkg/smiles"
	"github.com/matzehuels/smilesdraw/pkg/sssr"
)

// setup builds rings and connections the way the layout engine does.
func setup(t *testing.T, s string) (*molecule.Graph, []*Ring, []*Connection) {
	t.Helper()
	g, err := molecule.Build(smiles.MustParse(s), false)
	require.NoError(t, err)

	var rings []*Ring
	for i, members := range sssr.Rings(g, false) {
		r := New(i, members)
		for _, m := range members {
			g.Vertices[m].Atom.AddRing(r.ID)
		}
		rings = append(rings, r)
	}
	conns := Connect(rings)
	Classify(rings, conns, g)
	return g, rings, conns
}

func TestBenzeneIsPlain(t *testing.T) {
	_, rings, conns := setup(t, "c1ccccc1")
	require.Len(t, rings, 1)
	assert.Empty(t, conns)

	r := rings[0]
	assert.Equal(t, 6, r.Size())
	assert.False(t, r.IsBridged)
	assert.False(t, r.IsFused)
	assert.False(t, r.IsSpiro)
	assert.InDelta(t, math.Pi/3, r.CentralAngle, 1e-12)
	assert.InDelta(t, 2*math.Pi/3, r.InteriorAngle(), 1e-12)
	assert.True(t, r.CanFlip)
}

func TestFused(t *testing.T) {
	g, rings, conns := setup(t, "c1ccc2ccccc2c1")
	require.Len(t, rings, 2)
	require.Len(t, conns, 1)
	assert.Len(t, conns[0].Vertices, 2)
	assert.True(t, conns[0].SharesEdge(g))
	assert.False(t, conns[0].IsBridge(g))
	for _, r := range rings {
		assert.True(t, r.IsFused)
		assert.False(t, r.IsSpiro)
		assert.False(t, r.IsBridged)
	}
	assert.Equal(t, []int{1}, rings[0].Neighbours)
	assert.Equal(t, []int{0}, Neighbours(conns, 1))
}

func TestSpiro(t *testing.T) {
	_, rings, conns := setup(t, "C1CCC2(CC1)CCCC2")
	require.Len(t, rings, 2)
	require.Len(t, conns, 1)
	assert.Len(t, conns[0].Vertices, 1)
	for _, r := range rings {
		assert.True(t, r.IsSpiro)
		assert.False(t, r.IsFused)
	}
}

func TestDispiroMiddleRingIsNotSpiro(t *testing.T) {
	_, rings, conns := setup(t, "C1CCC2(CC1)CCC1(CC2)CCCC1")
	require.Len(t, rings, 3)
	require.Len(t, conns, 2)
	for _, r := range rings {
		middle := r.Contains(3) && r.Contains(8)
		assert.Equal(t, !middle, r.IsSpiro, "ring %v", r.Members)
		assert.False(t, r.IsFused)
		assert.False(t, r.IsBridged)
	}
}

func TestBridged(t *testing.T) {
	g, rings, conns := setup(t, "C1CC2CCC1C2")
	require.Len(t, rings, 2)
	require.Len(t, conns, 1)
	assert.Len(t, conns[0].Vertices, 3)
	assert.True(t, IsBridgeBetween(conns, g, 0, 1))
	for _, r := range rings {
		assert.True(t, r.IsBridged)
		assert.False(t, r.IsSpiro)
	}
	assert.Equal(t, [][]int{{0, 1}}, BridgedSystems(rings, conns, g))
}

func TestUnconnectedRings(t *testing.T) {
	g, rings, conns := setup(t, "c1ccccc1-c1ccccc1")
	require.Len(t, rings, 2)
	assert.Empty(t, conns)
	assert.Empty(t, BridgedSystems(rings, conns, g))
	assert.Nil(t, SharedVertices(conns, 0, 1))
}

func TestConnectionUpdateOther(t *testing.T) {
	c := &Connection{ID: 0, FirstRingID: 1, SecondRingID: 2}
	c.UpdateOther(5, 1)
	assert.Equal(t, 1, c.FirstRingID)
	assert.Equal(t, 5, c.SecondRingID)

	c.UpdateOther(7, 5)
	assert.Equal(t, 7, c.FirstRingID)
	assert.True(t, c.ContainsRing(5))
	assert.False(t, c.ContainsRing(1))
	assert.Equal(t, 7, c.Other(5))
}

func TestOrderedNeighbours(t *testing.T) {
	a := New(0, []int{0, 1, 2, 3, 4, 5})
	b := New(1, []int{5, 6, 7})
	c := New(2, []int{3, 4, 8, 9})
	conns := Connect([]*Ring{a, b, c})
	assert.Equal(t, []int{2, 1}, a.OrderedNeighbours(conns))
}

func TestBenzeneLike(t *testing.T) {
	g, rings, _ := setup(t, "C1=CC=CC=C1")
	assert.Equal(t, 3, rings[0].DoubleBondCount(g))
	assert.True(t, rings[0].IsBenzeneLike(g))
	assert.False(t, rings[0].IsAromatic(g))

	g, rings, _ = setup(t, "C1CCCCC1")
	assert.False(t, rings[0].IsBenzeneLike(g))
}

func TestEachMember(t *testing.T) {
	g, rings, _ := setup(t, "C1CCCCC1")
	var seen []int
	rings[0].EachMember(g, 0, -1, func(id int) { seen = append(seen, id) })
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5}, seen)
	assert.Len(t, seen, 6)
}

func TestCloneIsDeep(t *testing.T) {
	r := New(3, []int{1, 2, 3})
	r.Rings = []int{0, 1}
	c := r.Clone()
	c.Members[0] = 99
	c.Rings[0] = 99
	assert.Equal(t, 1, r.Members[0])
	assert.Equal(t, 0, r.Rings[0])
}
