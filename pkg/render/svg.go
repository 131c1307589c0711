package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/smilesdraw/pkg/fonts"
	"github.com/matzehuels/smilesdraw/pkg/graph"
)

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l graph.Layout, opts ...Option) []byte {
	c := newConfig(opts...)
	s := buildScene(l, c.theme, c.pseudo)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)

	renderStyle(&buf, c.embedFont)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.background)

	buf.WriteString(`  <g stroke-linecap="round">` + "\n")
	for _, sg := range s.segments {
		fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
			sg.from.X, sg.from.Y, sg.to.X, sg.to.Y, sg.color, sg.width)
	}
	buf.WriteString("  </g>\n")

	for _, p := range s.polygons {
		pts := make([]string, len(p.points))
		for i, pt := range p.points {
			pts[i] = fmt.Sprintf("%.2f,%.2f", pt.X, pt.Y)
		}
		fmt.Fprintf(&buf, `  <polygon points="%s" fill="%s"/>`+"\n", strings.Join(pts, " "), p.color)
	}
	for _, ci := range s.circles {
		fmt.Fprintf(&buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
			ci.center.X, ci.center.Y, ci.radius, ci.color, ci.width)
	}
	for _, lb := range s.labels {
		renderLabel(&buf, lb)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderStyle(buf *bytes.Buffer, embed bool) {
	buf.WriteString("  <style>\n")
	if embed {
		fmt.Fprintf(buf, "    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			fonts.FontFamily, fonts.RegularTTFBase64())
	}
	fmt.Fprintf(buf, "    text { font-family: %s; dominant-baseline: central; }\n", fonts.FallbackFontFamily)
	buf.WriteString("  </style>\n")
}

func renderLabel(buf *bytes.Buffer, lb label) {
	var text bytes.Buffer
	xml.EscapeText(&text, []byte(lb.text))
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" fill="%s" text-anchor="%s">%s</text>`+"\n",
		lb.at.X, lb.at.Y, lb.size, lb.color, textAnchor(lb.anchor), text.String())
}

func textAnchor(a anchor) string {
	switch a {
	case anchorStart:
		return "start"
	case anchorEnd:
		return "end"
	default:
		return "middle"
	}
}
