package molecule

import (
	"slices"

	"github.com/matzehuels/smilesdraw/pkg/smiles"
)

// maxBonds is the default valence used for implicit hydrogen filling.
var maxBonds = map[string]int{
	"H":  1,
	"C":  4,
	"N":  3,
	"O":  2,
	"P":  3,
	"S":  2,
	"B":  3,
	"F":  1,
	"I":  1,
	"Cl": 1,
	"Br": 1,
}

// MaxBonds returns the default valence of an element, or 0 when the element
// has no entry (metals, noble gases, the wildcard).
func MaxBonds(element string) int {
	return maxBonds[smiles.Normalize(element)]
}

// Atom is the chemical payload of a [Vertex].
type Atom struct {
	// Element is the symbol, uppercased when it is a single letter. Two-letter
	// symbols keep the case they were written with, so aromatic "se" stays "se".
	Element string `json:"element"`

	// Idx is the traversal index, or -1 for hydrogens that did not get one.
	Idx int `json:"idx"`

	BondType   string          `json:"bond_type,omitempty"`
	BranchBond string          `json:"branch_bond,omitempty"`
	Bracket    *smiles.Bracket `json:"bracket,omitempty"`
	Class      int             `json:"class,omitempty"`

	// Ringbonds are the ring-bond placeholders from the parse tree. They stay
	// attached after closure so RingbondType can resolve explicit bonds.
	Ringbonds []smiles.Ringbond `json:"-"`

	Rings         []int `json:"rings,omitempty"`
	OriginalRings []int `json:"-"`
	AnchoredRings []int `json:"-"`

	Aromatic       bool `json:"aromatic,omitempty"`
	BondCount      int  `json:"bond_count"`
	IsStereoCenter bool `json:"stereo_center,omitempty"`
	IsDrawn        bool `json:"drawn"`
	DrawExplicit   bool `json:"draw_explicit,omitempty"`

	// IsBridge marks atoms inside a bridged system that are not on the outer
	// perimeter of the merged ring.
	IsBridge     bool `json:"-"`
	IsBridgeNode bool `json:"-"`

	// Pseudo marks a ring carbon collapsed into a compact glyph.
	Pseudo bool `json:"pseudo,omitempty"`

	NeighbouringElements []string `json:"-"`

	backedUp bool
}

// NewAtom returns an atom for the given element and parent bond type.
func NewAtom(element, bondType string) *Atom {
	canonical := element
	if len(element) == 1 {
		canonical = smiles.Normalize(element)
	}
	if bondType == "" {
		bondType = "-"
	}
	return &Atom{
		Element:  canonical,
		Idx:      -1,
		BondType: bondType,
		Aromatic: smiles.IsAromatic(element),
		IsDrawn:  true,
	}
}

// Symbol returns the element in conventional capitalization ("se" → "Se").
func (a *Atom) Symbol() string { return smiles.Normalize(a.Element) }

// MaxBonds returns the default valence of the atom's element.
func (a *Atom) MaxBonds() int { return MaxBonds(a.Element) }

// AtomicNumber returns the atomic number, or 0 for unknown symbols.
func (a *Atom) AtomicNumber() int { return smiles.AtomicNumber(a.Element) }

// IsHeteroAtom reports whether the atom is neither carbon nor hydrogen.
func (a *Atom) IsHeteroAtom() bool {
	s := a.Symbol()
	return s != "C" && s != "H"
}

// Chirality returns the bracket chirality tag, or "".
func (a *Atom) Chirality() string {
	if a.Bracket == nil {
		return ""
	}
	return a.Bracket.Chirality
}

// RingbondCount returns the number of pending ring-bond placeholders.
func (a *Atom) RingbondCount() int { return len(a.Ringbonds) }

// InRing reports whether the atom belongs to ring id.
func (a *Atom) InRing(id int) bool { return slices.Contains(a.Rings, id) }

// AddRing records membership in ring id.
func (a *Atom) AddRing(id int) {
	if !a.InRing(id) {
		a.Rings = append(a.Rings, id)
	}
}

// AddAnchoredRing records that ring id is anchored at this atom.
func (a *Atom) AddAnchoredRing(id int) {
	if !slices.Contains(a.AnchoredRings, id) {
		a.AnchoredRings = append(a.AnchoredRings, id)
	}
}

// AddNeighbouringElement records the element of a bonded neighbour.
func (a *Atom) AddNeighbouringElement(element string) {
	a.NeighbouringElements = append(a.NeighbouringElements, element)
}

// BackupRings snapshots the ring membership. A later RestoreRings returns
// Rings to exactly this state.
func (a *Atom) BackupRings() {
	a.OriginalRings = slices.Clone(a.Rings)
	a.backedUp = true
}

// RestoreRings restores the ring membership saved by BackupRings. Without a
// prior backup it is a no-op.
func (a *Atom) RestoreRings() {
	if !a.backedUp {
		return
	}
	a.Rings = slices.Clone(a.OriginalRings)
}

// HaveCommonRingbond reports whether a and b share a pending ring-bond id.
func HaveCommonRingbond(a, b *Atom) bool {
	for _, ra := range a.Ringbonds {
		for _, rb := range b.Ringbonds {
			if ra.ID == rb.ID {
				return true
			}
		}
	}
	return false
}
