// Package pipeline runs the parse → layout → render chain for one molecule.
//
// The same Runner serves the CLI and the HTTP API: both build an [Options]
// value, call [Runner.Execute] (or one of the stage methods), and get back a
// [Result] with the serialized layout and the rendered artifacts. Layouts
// and artifacts are cached under keys from [cache.Keyer], so repeated
// requests for the same SMILES skip the layout engine.
//
// # Stages
//
//   - Parse: the SMILES string becomes a syntax tree and then a molecular
//     graph with its smallest set of smallest rings.
//   - Layout: the drawer places every atom and resolves overlaps; the result
//     is exported as a [graph.Layout].
//   - Render: each requested format is produced from the layout.
//
// Parse and layout are cached together because the layout depends on nothing
// else. Render artifacts are cached per format, keyed by the layout hash.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/smilesdraw/pkg/cache"
	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/layout"
	"github.com/matzehuels/smilesdraw/pkg/render"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	DefaultTheme = "light"
	DefaultScale = 2.0
)

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{graph.FormatSVG}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. The zero value plus a SMILES string is
// valid once ValidateAndSetDefaults has filled in the rest.
type Options struct {
	// Input
	SMILES string `json:"smiles"`
	Name   string `json:"name,omitempty"`

	// Layout; nil means layout.DefaultOptions().
	Layout *layout.Options `json:"layout,omitempty"`

	// Render
	Formats  []string `json:"formats,omitempty"`
	Theme    string   `json:"theme,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Pseudo   bool     `json:"pseudo_elements,omitempty"`
	Graphviz bool     `json:"graphviz,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults validates everything and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills in the layout options.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == nil {
		def := layout.DefaultOptions()
		o.Layout = &def
	}
}

// SetRenderDefaults fills in formats, theme and scale.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
}

// ValidateForLayout checks what the parse and layout stages need. Syntax is
// checked by the parse stage itself, which reports the error position.
func (o *Options) ValidateForLayout() error {
	if o.SMILES == "" {
		return apperrors.New(apperrors.ErrCodeInvalidSMILES, "SMILES cannot be empty")
	}
	if len(o.SMILES) > apperrors.MaxSMILESLength {
		return apperrors.New(apperrors.ErrCodeInvalidSMILES, "SMILES too long (max %d characters)", apperrors.MaxSMILESLength)
	}
	o.SetLayoutDefaults()
	if err := o.Layout.Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidOption, err, "invalid layout options")
	}
	return nil
}

// ValidateForRender checks the render options.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := apperrors.ValidateFormats(o.Formats); err != nil {
		return err
	}
	return apperrors.ValidateTheme(o.Theme)
}

// LayoutKeyOpts returns the cache key inputs of the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	o.SetLayoutDefaults()
	return cache.LayoutKeyOpts{Layout: *o.Layout}
}

// ArtifactKeyOpts returns the cache key inputs for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Theme: o.Theme, Pseudo: o.Pseudo}
	switch format {
	case graph.FormatPNG:
		k.Scale = o.Scale
	case graph.FormatSVG:
		k.Graphviz = o.Graphviz
	}
	return k
}

// RenderOptions converts the render fields to renderer options.
func (o *Options) RenderOptions() ([]render.Option, error) {
	theme, err := render.LookupTheme(o.Theme)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidTheme, err, "unknown theme %q", o.Theme)
	}
	opts := []render.Option{render.WithTheme(theme)}
	if o.Scale > 0 {
		opts = append(opts, render.WithScale(o.Scale))
	}
	if o.Pseudo {
		opts = append(opts, render.WithPseudoElements())
	}
	if o.Graphviz {
		opts = append(opts, render.WithGraphviz())
	}
	return opts, nil
}

// =============================================================================
// Result
// =============================================================================

// Result holds everything one pipeline run produced.
type Result struct {
	Layout     graph.Layout
	LayoutHash string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats describes the molecule and the time spent per stage. ParseTime and
// LayoutTime are zero on a layout cache hit.
type Stats struct {
	Atoms int
	Bonds int
	Rings int

	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from the cache. RenderHit is
// true only if every requested format was cached.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
