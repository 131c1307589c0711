package molecule

// Wedge directions for stereo bonds.
const (
	WedgeNone = ""
	WedgeUp   = "up"
	WedgeDown = "down"
)

// BondWeights maps SMILES bond symbols to bond orders. The component
// separator "." has weight 0; Build never creates an edge for it.
var BondWeights = map[string]int{
	".":  0,
	"-":  1,
	"/":  1,
	"\\": 1,
	":":  1,
	"=":  2,
	"#":  3,
	"$":  4,
}

// Edge is a bond between two vertices. Source and target keep parse order.
type Edge struct {
	ID       int    `json:"id"`
	SourceID int    `json:"source"`
	TargetID int    `json:"target"`
	BondType string `json:"bond_type"`
	Weight   int    `json:"weight"`

	IsRingClosure bool `json:"ring_closure,omitempty"`

	// Aromatic is set when both endpoints are aromatic.
	Aromatic bool `json:"aromatic,omitempty"`

	// Wedge is WedgeUp or WedgeDown for stereo bonds. WedgeOrigin is the
	// stereocentre the wedge starts at.
	Wedge       string `json:"wedge,omitempty"`
	WedgeOrigin int    `json:"wedge_origin,omitempty"`

	// Center marks a double bond drawn symmetrically around the bond axis.
	Center bool `json:"center,omitempty"`
}

// NewEdge returns an unattached single bond between source and target.
func NewEdge(source, target int) *Edge {
	return &Edge{ID: -1, SourceID: source, TargetID: target, BondType: "-", Weight: 1}
}

// SetBondType changes the bond symbol and its weight. Unknown symbols keep
// weight 1.
func (e *Edge) SetBondType(bond string) {
	if bond == "" {
		bond = "-"
	}
	e.BondType = bond
	if w, ok := BondWeights[bond]; ok {
		e.Weight = w
	} else {
		e.Weight = 1
	}
}

// Other returns the endpoint that is not id.
func (e *Edge) Other(id int) int {
	if e.SourceID == id {
		return e.TargetID
	}
	return e.SourceID
}

// Has reports whether id is an endpoint.
func (e *Edge) Has(id int) bool { return e.SourceID == id || e.TargetID == id }
