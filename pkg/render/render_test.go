package render

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/layout"
	"github.com/matzehuels/smilesdraw/pkg/smiles"
)

func layoutOf(t *testing.T, s string) graph.Layout {
	t.Helper()
	d := layout.New(layout.DefaultOptions())
	require.NoError(t, d.Draw(smiles.MustParse(s)))
	l, err := graph.FromDrawer(d, s)
	require.NoError(t, err)
	return l
}

func TestLookupTheme(t *testing.T) {
	light, err := LookupTheme("")
	require.NoError(t, err)
	assert.Equal(t, "light", light.Name)
	assert.Equal(t, "#fff", light.Background())

	dark, err := LookupTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, "#fff", dark.Color("C"))
	assert.Equal(t, "#16a085", dark.Color("Cl"))
	assert.Equal(t, "#16a085", dark.Color("cl"))
	assert.Equal(t, dark.Color("C"), dark.Color("Xe"), "unknown elements fall back to carbon")

	_, err = LookupTheme("neon")
	assert.ErrorIs(t, err, ErrUnknownTheme)

	names := ThemeNames()
	assert.Len(t, names, 11)
	assert.Contains(t, names, "gruvbox-dark")
	for _, n := range names {
		th, err := LookupTheme(n)
		require.NoError(t, err)
		assert.Len(t, th.Colors, 13, n)
	}
}

func TestRenderSVGAromatic(t *testing.T) {
	svg := string(RenderSVG(layoutOf(t, "c1ccccc1")))
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Equal(t, 1, strings.Count(svg, "<circle"))
	assert.Equal(t, 6, strings.Count(svg, "<line"))
	assert.NotContains(t, svg, "<text")
}

func TestRenderSVGKekule(t *testing.T) {
	l := layoutOf(t, "C1=CC=CC=C1")
	svg := string(RenderSVG(l))
	assert.Zero(t, strings.Count(svg, "<circle"))
	assert.Equal(t, 9, strings.Count(svg, "<line"))

	// The shortened second line of each double bond lies inside the ring.
	th, _ := LookupTheme("")
	s := buildScene(l, th, false)
	r := l.Rings[0]
	var inner int
	for _, sg := range s.segments {
		if sg.from.Distance(sg.to) > l.BondLength-1e-6 {
			continue
		}
		inner++
		mid := sg.from.Add(sg.to).Scale(0.5)
		assert.Less(t, math.Hypot(mid.X-r.X, mid.Y-r.Y), l.BondLength*math.Sqrt(3)/2)
	}
	assert.Equal(t, 3, inner)
}

func TestRenderSVGLabels(t *testing.T) {
	svg := string(RenderSVG(layoutOf(t, "CCO")))
	assert.Contains(t, svg, ">O</text>")
	assert.Contains(t, svg, ">H</text>")
	assert.Equal(t, 2, strings.Count(svg, "<text"))

	svg = string(RenderSVG(layoutOf(t, "[NH4+]")))
	assert.Contains(t, svg, ">N</text>")
	assert.Contains(t, svg, ">4</text>")
	assert.Contains(t, svg, ">+</text>")

	svg = string(RenderSVG(layoutOf(t, "[13CH4]")))
	assert.Contains(t, svg, ">13</text>")
}

func TestRenderSVGBondOrders(t *testing.T) {
	svg := string(RenderSVG(layoutOf(t, "CC#C")))
	assert.Equal(t, 4, strings.Count(svg, "<line"))

	svg = string(RenderSVG(layoutOf(t, "C[S@](=O)CC")))
	assert.Equal(t, 1, strings.Count(svg, "<polygon"))
}

func TestRenderSVGTheme(t *testing.T) {
	dark, _ := LookupTheme("dark")
	svg := string(RenderSVG(layoutOf(t, "CCO"), WithTheme(dark)))
	assert.Contains(t, svg, `fill="#141414"`)
	assert.Contains(t, svg, `fill="#e74c3c"`)
}

func TestRenderSVGEmbeddedFont(t *testing.T) {
	l := layoutOf(t, "CCO")
	assert.NotContains(t, string(RenderSVG(l)), "@font-face")
	assert.Contains(t, string(RenderSVG(l, WithEmbeddedFont())), "@font-face")
}

func TestPseudoElements(t *testing.T) {
	l := layoutOf(t, "CC1CCCCC1")
	assert.Zero(t, strings.Count(string(RenderSVG(l)), graph.PseudoGlyph))
	assert.Equal(t, 5, strings.Count(string(RenderSVG(l, WithPseudoElements())), graph.PseudoGlyph))
	assert.Equal(t, 5, strings.Count(ToDOT(l, WithPseudoElements()), graph.PseudoGlyph))
}

func TestRenderPNG(t *testing.T) {
	l := layoutOf(t, "OC(=O)c1ccccc1O")
	data, err := RenderPNG(l, WithScale(1.5))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int(math.Ceil(l.Width*1.5)), img.Bounds().Dx())
	assert.Equal(t, int(math.Ceil(l.Height*1.5)), img.Bounds().Dy())
}

func TestToDOT(t *testing.T) {
	l := layoutOf(t, "C=CC#N")
	dot := ToDOT(l)
	assert.True(t, strings.HasPrefix(dot, "graph molecule {"))
	assert.Contains(t, dot, "a0 -- a1")
	assert.Contains(t, dot, ":invis:")
	assert.Contains(t, dot, `label="N"`)
	assert.Equal(t, 3, strings.Count(dot, "shape=point"))
}

func TestRenderGraphviz(t *testing.T) {
	svg, err := RenderGraphviz(context.Background(), ToDOT(layoutOf(t, "CCO")))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	l := layoutOf(t, "CCO")

	for _, f := range []string{graph.FormatSVG, graph.FormatPNG, graph.FormatJSON, graph.FormatDOT} {
		t.Run(f, func(t *testing.T) {
			out, err := Render(ctx, l, f)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}

	out, err := Render(ctx, l, graph.FormatJSON)
	require.NoError(t, err)
	back, err := graph.UnmarshalLayout(out)
	require.NoError(t, err)
	assert.Equal(t, l.Formula, back.Formula)

	_, err = Render(ctx, l, "gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderPDF(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	out, err := RenderPDF(layoutOf(t, "CCO"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, "image/svg+xml", ContentType("svg"))
	assert.Equal(t, "image/png", ContentType("png"))
	assert.Equal(t, "application/pdf", ContentType("pdf"))
	assert.Equal(t, "application/json", ContentType("json"))
	assert.Equal(t, "application/octet-stream", ContentType("gif"))
	assert.Equal(t, ".svg", Extension("svg"))
	assert.Equal(t, ".gv", Extension("dot"))
}

func TestChargeText(t *testing.T) {
	assert.Equal(t, "+", chargeText(1))
	assert.Equal(t, "−", chargeText(-1))
	assert.Equal(t, "2+", chargeText(2))
	assert.Equal(t, "3−", chargeText(-3))
}
