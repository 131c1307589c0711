package molecule

import (
	"errors"
	"slices"

	"github.com/matzehuels/smilesdraw/pkg/smiles"
)

// ErrEmptyTree is returned by [Build] for a nil parse tree.
var ErrEmptyTree = errors.New("molecule: empty parse tree")

type buildItem struct {
	node     *smiles.Node
	parent   int
	isBranch bool
}

var implicitHydrogen = &smiles.Node{Atom: smiles.Atom{Symbol: "H"}, Bond: "-"}

// Build constructs the molecular graph of a parse tree.
//
// Vertices are created in depth-first pre-order: an atom, the explicit
// hydrogens of a stereocentre (only when isomeric is set), its branches, then
// the rest of the chain. Ring-bond placeholders with exactly two occurrences
// become ring-closure edges. Finally every aromatic atom with free valence is
// charged one extra bond unit for its share of the aromatic system, which
// gives a benzene carbon a bond count of 3.
//
// The tree is assumed to come from [smiles.Parse]. Dangling ring bonds are
// ignored rather than reported.
func Build(tree *smiles.Node, isomeric bool) (*Graph, error) {
	if tree == nil {
		return nil, ErrEmptyTree
	}

	g := NewGraph()
	atomIdx := 0
	stack := []buildItem{{node: tree, parent: -1}}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := it.node

		parent := it.parent
		bond := "-"
		if parent >= 0 {
			if it.isBranch {
				bond = orSingle(node.BranchBond)
			} else {
				bond = orSingle(g.Vertices[parent].Atom.BondType)
			}
			// A dot starts a disconnected component.
			if bond == "." {
				parent = -1
			}
		}

		element := node.Atom.Element()
		atom := NewAtom(element, node.Bond)
		if atom.Element != "H" || (!node.HasNext() && parent < 0) {
			atom.Idx = atomIdx
			atomIdx++
		}
		atom.BranchBond = node.BranchBond
		atom.Ringbonds = slices.Clone(node.Ringbonds)
		if b := node.Atom.Bracket; b != nil {
			cp := *b
			atom.Bracket = &cp
			atom.Class = b.Class
		}

		v := NewVertex(atom)
		id := g.AddVertex(v)

		if parent >= 0 {
			pv := g.Vertices[parent]
			v.SetParent(parent)
			atom.AddNeighbouringElement(pv.Atom.Element)
			pv.AddChild(id)
			pv.Atom.AddNeighbouringElement(atom.Element)

			e := NewEdge(parent, id)
			e.SetBondType(bond)
			g.AddEdge(e)
		}

		if node.Next != nil {
			stack = append(stack, buildItem{node: node.Next, parent: id})
		}
		for i := len(node.Branches) - 1; i >= 0; i-- {
			stack = append(stack, buildItem{node: node.Branches[i], parent: id, isBranch: true})
		}
		if isomeric && atom.Chirality() != "" {
			atom.IsStereoCenter = true
			for range atom.Bracket.HCount {
				stack = append(stack, buildItem{node: implicitHydrogen, parent: id, isBranch: true})
			}
		}
	}

	g.closeRings()
	g.applyAromaticShare()
	return g, nil
}

func orSingle(bond string) string {
	if bond == "" {
		return "-"
	}
	return bond
}

// closeRings turns every ring-bond id seen exactly twice into an edge, in
// order of first appearance.
func (g *Graph) closeRings() {
	type closure struct {
		vertices []int
		bonds    []string
	}
	var order []int
	open := make(map[int]*closure)

	for _, v := range g.Vertices {
		for _, rb := range v.Atom.Ringbonds {
			c, ok := open[rb.ID]
			if !ok {
				c = &closure{}
				open[rb.ID] = c
				order = append(order, rb.ID)
			}
			c.vertices = append(c.vertices, v.ID)
			c.bonds = append(c.bonds, rb.Bond)
		}
	}

	for _, id := range order {
		c := open[id]
		if len(c.vertices) != 2 {
			continue
		}
		a, b := c.vertices[0], c.vertices[1]
		if a == b || g.HasEdge(a, b) {
			continue
		}

		bond := "-"
		for _, s := range c.bonds {
			if s != "" {
				bond = s
				break
			}
		}

		va, vb := g.Vertices[a], g.Vertices[b]
		va.AddRingbondChild(b)
		vb.AddRingbondChild(a)
		va.Atom.AddNeighbouringElement(vb.Atom.Element)
		vb.Atom.AddNeighbouringElement(va.Atom.Element)

		e := NewEdge(a, b)
		e.SetBondType(bond)
		e.IsRingClosure = true
		g.AddEdge(e)
	}
}

func (g *Graph) applyAromaticShare() {
	for _, v := range g.Vertices {
		a := v.Atom
		if !a.Aromatic {
			continue
		}
		if m := a.MaxBonds(); m == 0 || a.BondCount < m {
			a.BondCount++
		}
	}
}

// RingbondType returns the explicit bond symbol of the ring closure between
// a and b when one side specifies it, or "" when a and b share no ring bond
// or neither side specifies one.
func (g *Graph) RingbondType(a, b int) string {
	ra, rb := g.Vertices[a].Atom.Ringbonds, g.Vertices[b].Atom.Ringbonds
	for _, x := range ra {
		for _, y := range rb {
			if x.ID != y.ID {
				continue
			}
			if x.Bond != "" && x.Bond != "-" {
				return x.Bond
			}
			return y.Bond
		}
	}
	return ""
}

// AddImplicitHydrogens fills the free valence of every non-aromatic,
// non-bracket heavy atom with hydrogen vertices. The hydrogens are bonded by
// an edge only: they are not neighbours in the spanning tree and are not
// drawn. It returns the number of hydrogens added.
func (g *Graph) AddImplicitHydrogens() int {
	added := 0
	n := len(g.Vertices)
	for i := range n {
		a := g.Vertices[i].Atom
		if a.Aromatic || a.Bracket != nil || a.Symbol() == "H" {
			continue
		}
		free := a.MaxBonds() - a.BondCount
		for range free {
			h := NewVertex(NewAtom("H", ""))
			h.Atom.IsDrawn = false
			hid := g.AddVertex(h)
			g.AddEdge(NewEdge(i, hid))
			added++
		}
	}
	return added
}
