package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/smilesdraw/pkg/graph"
)

// ErrUnknownFormat is returned by Render for unsupported output formats.
var ErrUnknownFormat = errors.New("render: unknown format")

// Option configures a renderer.
type Option func(*config)

type config struct {
	theme     Theme
	scale     float64
	embedFont bool
	pseudo    bool
	graphviz  bool
}

// WithTheme selects the color theme (default light).
func WithTheme(t Theme) Option { return func(c *config) { c.theme = t } }

// WithScale sets the raster scale factor for PNG output (default 2.0).
func WithScale(s float64) Option {
	return func(c *config) {
		if s > 0 {
			c.scale = s
		}
	}
}

// WithEmbeddedFont embeds the label font into SVG output.
func WithEmbeddedFont() Option { return func(c *config) { c.embedFont = true } }

// WithPseudoElements marks compacted carbons with a glyph.
func WithPseudoElements() Option { return func(c *config) { c.pseudo = true } }

// WithGraphviz renders SVG through Graphviz instead of the native writer.
func WithGraphviz() Option { return func(c *config) { c.graphviz = true } }

func newConfig(opts ...Option) config {
	light, _ := LookupTheme(DefaultTheme)
	c := config{theme: light, scale: 2.0}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Render produces the artifact for one format.
func Render(ctx context.Context, l graph.Layout, format string, opts ...Option) ([]byte, error) {
	c := newConfig(opts...)
	switch format {
	case graph.FormatSVG:
		if c.graphviz {
			return RenderGraphviz(ctx, ToDOT(l, opts...))
		}
		return RenderSVG(l, opts...), nil
	case graph.FormatPNG:
		return RenderPNG(l, opts...)
	case graph.FormatPDF:
		return RenderPDF(l, opts...)
	case graph.FormatJSON:
		return graph.MarshalLayout(l)
	case graph.FormatDOT:
		return []byte(ToDOT(l, opts...)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case graph.FormatSVG:
		return "image/svg+xml"
	case graph.FormatPNG:
		return "image/png"
	case graph.FormatPDF:
		return "application/pdf"
	case graph.FormatJSON:
		return "application/json"
	case graph.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension of a format, with the dot.
func Extension(format string) string {
	if format == graph.FormatDOT {
		return ".gv"
	}
	return "." + format
}
