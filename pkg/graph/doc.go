// Package graph provides the serialization format for molecule layouts.
//
// A [Layout] is what the layout engine hands to everything downstream: the
// pipeline caches it, the HTTP server returns it, and every renderer draws
// from it without touching the engine again.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - pkg/layout.Drawer: the engine and its mutable molecular graph
//   - [Layout], [Atom], [Bond], [Ring]: the wire format (this package)
//   - pkg/render: SVG, PNG, PDF, DOT and JSON output
//
// Use [FromDrawer] to convert a processed drawer.
//
// # Coordinates
//
// Only drawn atoms are exported. Coordinates are shifted so the drawing
// starts at Layout.Padding on both axes; y grows downwards as in SVG.
//
// # Serialization
//
//	l, _ := graph.FromDrawer(d, "c1ccccc1O")
//	data, _ := graph.MarshalLayout(l)
//	back, _ := graph.UnmarshalLayout(data)
//	graph.WriteLayoutFile(l, "phenol.json")
//
// Decoding rejects layouts without atoms and bonds that point at unknown
// atoms.
package graph
