package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/smilesdraw/pkg/graph"
)

// ToDOT converts a layout to an undirected Graphviz graph with every atom
// pinned at its layout position. Unlabelled carbons become invisible points,
// bond orders become parallel colored strokes.
func ToDOT(l graph.Layout, opts ...Option) string {
	c := newConfig(opts...)
	t := c.theme

	var buf bytes.Buffer
	buf.WriteString("graph molecule {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%q, splines=line, outputorder=edgesfirst, notranslate=true];\n", t.Background())
	fmt.Fprintf(&buf, "  node [shape=plaintext, fontname=\"Helvetica\", fontsize=%.1f, width=0, height=0, margin=0];\n", l.FontSize)
	fmt.Fprintf(&buf, "  edge [penwidth=%.2f];\n", l.BondThickness)
	buf.WriteString("\n")

	for _, a := range l.Atoms {
		// Positions are in points; Graphviz y grows upwards.
		pos := fmt.Sprintf("%.2f,%.2f!", a.X, l.Height-a.Y)
		switch {
		case a.Label:
			fmt.Fprintf(&buf, "  a%d [label=%q, fontcolor=%q, pos=%q];\n", a.ID, dotLabel(a), t.Color(a.Element), pos)
		case c.pseudo && a.Pseudo:
			fmt.Fprintf(&buf, "  a%d [label=%q, fontcolor=%q, pos=%q];\n", a.ID, graph.PseudoGlyph, t.Color("C"), pos)
		default:
			fmt.Fprintf(&buf, "  a%d [label=\"\", shape=point, width=0.01, color=%q, pos=%q];\n", a.ID, t.Color("C"), pos)
		}
	}

	buf.WriteString("\n")
	for _, b := range l.Bonds {
		col := t.Color("C")
		attrs := fmt.Sprintf("color=%q", col)
		switch {
		case b.Wedge == graph.WedgeUp:
			attrs += ", penwidth=3"
		case b.Wedge == graph.WedgeDown:
			attrs += ", style=dashed"
		case b.Order == 2:
			attrs = fmt.Sprintf("color=%q", col+":invis:"+col)
		case b.Order >= 3:
			attrs = fmt.Sprintf("color=%q", col+":"+col+":"+col)
		}
		fmt.Fprintf(&buf, "  a%d -- a%d [%s];\n", b.From, b.To, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(a graph.Atom) string {
	s := a.Element
	if a.HCount == 1 {
		s += "H"
	} else if a.HCount > 1 {
		s += fmt.Sprintf("H%d", a.HCount)
	}
	if a.Charge != 0 {
		s += chargeText(a.Charge)
	}
	return s
}

// RenderGraphviz renders a DOT graph to SVG with the neato engine, which
// keeps pinned node positions.
func RenderGraphviz(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
