package smiles

// Bracket is the content of a bracket atom such as [13CH3+:1].
type Bracket struct {
	Element   string `json:"element"`
	HCount    int    `json:"hcount"`
	Charge    int    `json:"charge"`
	Isotope   int    `json:"isotope,omitempty"`
	Chirality string `json:"chirality,omitempty"`
	Class     int    `json:"class,omitempty"`
}

// Atom is either a plain organic-subset symbol or a bracket atom.
type Atom struct {
	Symbol  string   `json:"symbol,omitempty"`
	Bracket *Bracket `json:"bracket,omitempty"`
}

// Element returns the element symbol as written.
func (a Atom) Element() string {
	if a.Bracket != nil {
		return a.Bracket.Element
	}
	return a.Symbol
}

// Ringbond is a ring-bond placeholder attached to an atom.
type Ringbond struct {
	ID    int    `json:"id"`
	Label int    `json:"label"`
	Bond  string `json:"bond,omitempty"`
}

// Node is one atom of the parse tree.
type Node struct {
	Atom Atom `json:"atom"`

	// Bond is the bond symbol between this atom and Next. Empty means the
	// implicit single bond.
	Bond string `json:"bond,omitempty"`

	// BranchBond is the bond symbol that opened the branch starting at this
	// node, if any.
	BranchBond string `json:"branch_bond,omitempty"`

	Branches  []*Node    `json:"branches,omitempty"`
	Ringbonds []Ringbond `json:"ringbonds,omitempty"`
	Next      *Node      `json:"next,omitempty"`
}

// HasNext reports whether the chain continues after this node.
func (n *Node) HasNext() bool { return n.Next != nil }

// BranchCount returns the number of branches.
func (n *Node) BranchCount() int { return len(n.Branches) }

// RingbondCount returns the number of ring-bond placeholders.
func (n *Node) RingbondCount() int { return len(n.Ringbonds) }

// Walk visits every node of the tree in depth-first pre-order: the node,
// its branches, then the rest of the chain. Returning false from fn stops
// the walk.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			return
		}
		if cur.Next != nil {
			stack = append(stack, cur.Next)
		}
		for i := len(cur.Branches) - 1; i >= 0; i-- {
			stack = append(stack, cur.Branches[i])
		}
	}
}

// AtomCount returns the number of atoms written in the tree. Hydrogens that
// are only implied by a bracket hcount are not counted.
func (n *Node) AtomCount() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
