package cache

import "github.com/matzehuels/smilesdraw/pkg/layout"

// KeyVersion is part of every key. Bump it when the layout engine or the
// serialized layout changes shape, so stale entries are never read.
const KeyVersion = "v1"

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies the layout of a SMILES string under opts.
	LayoutKey(smiles string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendered format of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// RenderKey identifies a stored render handed out by id.
	RenderKey(id string) string
}

// LayoutKeyOpts are the inputs that change a layout.
type LayoutKeyOpts struct {
	Layout layout.Options `json:"layout"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Theme    string  `json:"theme"`
	Scale    float64 `json:"scale,omitempty"`
	Pseudo   bool    `json:"pseudo,omitempty"`
	Graphviz bool    `json:"graphviz,omitempty"`
}

// DefaultKeyer builds versioned, hashed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:v1:<sha256>".
func (DefaultKeyer) LayoutKey(smiles string, opts LayoutKeyOpts) string {
	return hashKey("layout:"+KeyVersion, smiles, opts)
}

// ArtifactKey returns "artifact:v1:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+KeyVersion, layoutHash, opts)
}

// RenderKey returns "render:<id>".
func (DefaultKeyer) RenderKey(id string) string {
	return "render:" + id
}
