// Package pkg holds the libraries behind smilesdraw, a 2D structure diagram
// generator for SMILES strings.
//
// # Overview
//
// A SMILES string goes through four stages before it becomes a drawing:
//
//	SMILES text
//	     ↓
//	[smiles] tokenizer and parser (atoms, bonds, ring closures, branches)
//	     ↓
//	[molecule] graph, with [sssr] ring perception and [ring] classification
//	     ↓
//	[layout] 2D coordinates, overlap resolution and stereo wedges
//	     ↓
//	[graph] serializable layout
//	     ↓
//	[render] SVG, PNG, PDF, JSON or Graphviz DOT
//
// [pipeline] runs the stages with caching and is shared by the CLI and the
// HTTP [server].
//
// # Quick Start
//
//	l, err := pipeline.GenerateLayout(ctx, pipeline.Options{SMILES: "c1ccccc1O"})
//	if err != nil {
//	    return err
//	}
//	dark, _ := render.LookupTheme("dark")
//	svg, err := render.Render(ctx, l, graph.FormatSVG, render.WithTheme(dark))
//
// # Supporting Packages
//
// [geom] - vectors, lines and the angle helpers the layout is written in.
//
// [cache] - file, Redis and MongoDB caches for layouts and rendered
// artifacts, with the key scheme in [cache.Keyer].
//
// [config] - TOML configuration for layout, rendering, cache and server.
//
// [errors] - coded errors and input validation.
//
// [io] - reading and writing .smi batch files.
//
// [observability] - hooks for pipeline, cache and HTTP events, with a
// Prometheus implementation in observability/metrics.
//
// [fonts] - the embedded font used for raster output.
//
// [buildinfo] - version information injected at build time.
//
// [smiles]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/smiles
// [molecule]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/molecule
// [sssr]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/sssr
// [ring]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/ring
// [layout]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/server
// [geom]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/geom
// [cache]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/cache
// [cache.Keyer]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/cache#Keyer
// [config]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/observability
// [fonts]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/buildinfo
package pkg
