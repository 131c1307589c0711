// Package render draws molecule layouts.
//
// Every renderer reads a [graph.Layout] and never modifies it. Bond geometry
// (double-bond offsets, wedges, label clearance, aromatic circles) is
// computed once per call and shared by the native writers:
//
//   - [RenderSVG]: standalone SVG, optionally with the label font embedded
//   - [RenderPNG]: native raster through fogleman/gg
//   - [ToDOT] and [RenderGraphviz]: Graphviz source and its neato SVG
//   - [RenderPDF]: the SVG converted by rsvg-convert
//
// [Render] dispatches on a format name and [ContentType] maps it to a MIME
// type:
//
//	theme, _ := render.LookupTheme("gruvbox-dark")
//	png, err := render.Render(ctx, layout, "png", render.WithTheme(theme), render.WithScale(3))
//
// Themes follow the classic palettes: light, dark, oldschool, solarized,
// solarized-dark, matrix, github, carbon, cyberpunk, gruvbox and
// gruvbox-dark.
//
// [graph.Layout]: github.com/matzehuels/smilesdraw/pkg/graph.Layout
package render
