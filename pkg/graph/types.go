package graph

import "slices"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Output formats understood by the renderers.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// IsFormat reports whether f names a supported output format.
func IsFormat(f string) bool { return slices.Contains(Formats, f) }

// Wedge directions, mirrored from the molecule model.
const (
	WedgeUp   = "up"
	WedgeDown = "down"
)

// PseudoGlyph is drawn in place of a compacted carbon when pseudo elements
// are shown.
const PseudoGlyph = "∴"

// =============================================================================
// Layout - Depiction Wire Format
// =============================================================================

// Layout is the serialized result of laying out one molecule. It is the
// cache and transfer format between the layout engine and the renderers,
// which treat it as read-only.
//
// Coordinates are shifted so the drawn atoms start at Padding on both axes;
// Width and Height include the padding on both sides.
type Layout struct {
	SMILES  string `json:"smiles" bson:"smiles"`
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Formula string `json:"formula" bson:"formula"`

	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	Padding float64 `json:"padding" bson:"padding"`

	BondLength    float64 `json:"bond_length" bson:"bond_length"`
	BondSpacing   float64 `json:"bond_spacing" bson:"bond_spacing"`
	ShortBond     float64 `json:"short_bond" bson:"short_bond"`
	BondThickness float64 `json:"bond_thickness" bson:"bond_thickness"`
	FontSize      float64 `json:"font_size" bson:"font_size"`
	FontSizeSmall float64 `json:"font_size_small" bson:"font_size_small"`

	Atoms []Atom `json:"atoms" bson:"atoms"`
	Bonds []Bond `json:"bonds" bson:"bonds"`
	Rings []Ring `json:"rings,omitempty" bson:"rings,omitempty"`

	Meta map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Atom returns the atom with the given vertex id.
func (l *Layout) Atom(id int) (Atom, bool) {
	i := slices.IndexFunc(l.Atoms, func(a Atom) bool { return a.ID == id })
	if i < 0 {
		return Atom{}, false
	}
	return l.Atoms[i], true
}

// Ring returns the ring with the given id.
func (l *Layout) Ring(id int) (Ring, bool) {
	i := slices.IndexFunc(l.Rings, func(r Ring) bool { return r.ID == id })
	if i < 0 {
		return Ring{}, false
	}
	return l.Rings[i], true
}

// Atom is a drawn atom.
type Atom struct {
	ID       int     `json:"id" bson:"id"`
	Element  string  `json:"element" bson:"element"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Charge   int     `json:"charge,omitempty" bson:"charge,omitempty"`
	Isotope  int     `json:"isotope,omitempty" bson:"isotope,omitempty"`
	HCount   int     `json:"hcount,omitempty" bson:"hcount,omitempty"`
	Aromatic bool    `json:"aromatic,omitempty" bson:"aromatic,omitempty"`
	Pseudo   bool    `json:"pseudo,omitempty" bson:"pseudo,omitempty"`
	Rings    []int   `json:"rings,omitempty" bson:"rings,omitempty"`

	// Label is set when the atom shows its element symbol: every non-carbon,
	// charged or labelled carbons, and lone atoms.
	Label bool `json:"label,omitempty" bson:"label,omitempty"`
}

// Bond is a bond between two drawn atoms.
type Bond struct {
	ID          int    `json:"id" bson:"id"`
	From        int    `json:"from" bson:"from"`
	To          int    `json:"to" bson:"to"`
	Order       int    `json:"order" bson:"order"`
	Type        string `json:"type" bson:"type"`
	Aromatic    bool   `json:"aromatic,omitempty" bson:"aromatic,omitempty"`
	Wedge       string `json:"wedge,omitempty" bson:"wedge,omitempty"`
	WedgeOrigin int    `json:"wedge_origin,omitempty" bson:"wedge_origin,omitempty"`

	// Ring is the id of a ring containing both atoms, or -1. Double bonds
	// in a ring are offset towards its center.
	Ring int `json:"ring" bson:"ring"`
}

// Ring is one ring of the smallest set of smallest rings.
type Ring struct {
	ID       int     `json:"id" bson:"id"`
	Members  []int   `json:"members" bson:"members"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Aromatic bool    `json:"aromatic,omitempty" bson:"aromatic,omitempty"`
	Fused    bool    `json:"fused,omitempty" bson:"fused,omitempty"`
	Spiro    bool    `json:"spiro,omitempty" bson:"spiro,omitempty"`
	Bridged  bool    `json:"bridged,omitempty" bson:"bridged,omitempty"`
}

// Class names the ring's classification.
func (r Ring) Class() string {
	switch {
	case r.Bridged:
		return "bridged"
	case r.Fused:
		return "fused"
	case r.Spiro:
		return "spiro"
	default:
		return "isolated"
	}
}
