package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/smilesdraw/pkg/fonts"
	"github.com/matzehuels/smilesdraw/pkg/graph"
)

// RenderPNG rasterizes the layout natively; no external tools are needed.
// The image is Width×Height scaled by the scale option (default 2.0).
func RenderPNG(l graph.Layout, opts ...Option) ([]byte, error) {
	c := newConfig(opts...)
	s := buildScene(l, c.theme, c.pseudo)

	w := max(1, int(math.Ceil(s.width*c.scale)))
	h := max(1, int(math.Ceil(s.height*c.scale)))
	dc := gg.NewContext(w, h)
	dc.Scale(c.scale, c.scale)

	dc.SetHexColor(s.background)
	dc.Clear()

	dc.SetLineCapRound()
	for _, sg := range s.segments {
		dc.SetHexColor(sg.color)
		dc.SetLineWidth(sg.width)
		dc.DrawLine(sg.from.X, sg.from.Y, sg.to.X, sg.to.Y)
		dc.Stroke()
	}
	for _, p := range s.polygons {
		dc.SetHexColor(p.color)
		for i, pt := range p.points {
			if i == 0 {
				dc.MoveTo(pt.X, pt.Y)
			} else {
				dc.LineTo(pt.X, pt.Y)
			}
		}
		dc.ClosePath()
		dc.Fill()
	}
	for _, ci := range s.circles {
		dc.SetHexColor(ci.color)
		dc.SetLineWidth(ci.width)
		dc.DrawCircle(ci.center.X, ci.center.Y, ci.radius)
		dc.Stroke()
	}

	faces := make(map[float64]font.Face)
	for _, lb := range s.labels {
		face, ok := faces[lb.size]
		if !ok {
			var err error
			if face, err = fonts.Face(lb.size); err != nil {
				return nil, fmt.Errorf("png: %w", err)
			}
			faces[lb.size] = face
		}
		dc.SetFontFace(face)
		dc.SetHexColor(lb.color)
		dc.DrawStringAnchored(lb.text, lb.at.X, lb.at.Y, anchorX(lb.anchor), 0.35)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("png: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func anchorX(a anchor) float64 {
	switch a {
	case anchorStart:
		return 0
	case anchorEnd:
		return 1
	default:
		return 0.5
	}
}
