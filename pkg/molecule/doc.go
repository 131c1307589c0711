// Package molecule provides the molecular graph that every layout and ring
// algorithm operates on.
//
// # Model
//
// A [Graph] owns dense arenas of [Vertex] and [Edge] values. Every cross
// reference (parent, children, neighbours, incident edges, ring ids) is an
// integer id into those arenas, never a pointer, so the graph has no
// ownership cycles and can be snapshotted cheaply.
//
// Each vertex wraps an [Atom], the chemical payload: element, bracket data,
// ring membership and bond bookkeeping. Each edge carries the bond symbol and
// its weight (bond order).
//
// # Construction
//
// [Build] turns a [smiles.Node] parse tree into a graph:
//
//	tree, _ := smiles.Parse("CC(=O)O")
//	g, _ := molecule.Build(tree, true)
//	g.Formula() // "C2H4O2"
//
// Construction mirrors the parse tree depth first, materializes ring closures
// and charges aromatic atoms for their aromatic bond share. Hydrogens for free
// valence are added later by the layout engine through
// [Graph.AddImplicitHydrogens].
//
// # Traversals
//
// Bridge detection, component decomposition, subtree extraction and subtree
// depth all run on explicit stacks, so long chains cannot exhaust the
// goroutine stack.
//
// [smiles.Node]: https://pkg.go.dev/github.com/matzehuels/smilesdraw/pkg/smiles#Node
package molecule
