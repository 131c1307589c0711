// Package layout computes 2D coordinates for a molecular graph.
//
// A [Drawer] owns one molecule. [Drawer.Init] builds the graph from a SMILES
// parse tree, finds the smallest set of smallest rings, connects and
// classifies them, and fills free valences with hydrogens. [Drawer.Process]
// then runs the layout:
//
//  1. Position. Rings become regular polygons whose circumradius matches the
//     bond length. Fused and spiro neighbours are attached recursively to
//     the shared bond or vertex. A bridged ring system is merged into one
//     macro ring and laid out by Kamada–Kawai energy minimization. Chains
//     grow in a zig-zag with 120° bond angles. Disconnected components are
//     placed side by side.
//  2. Restore the ring membership saved before bridged systems were merged.
//  3. Rotation search. For every rotatable bond the shallower side is
//     rotated 120° away from the other side when it is crowded. A rotation
//     survives only when the total overlap score goes down; otherwise the
//     positions are restored from a snapshot.
//  4. Push still-overlapping pairs apart to one bond length.
//  5. Wedges for stereocentres, pseudo elements for compact drawing, and a
//     final rotation in 30° steps towards a canonical orientation.
//
// The traversal runs on an explicit work stack and the engine never fails on
// degenerate input: a lone atom ends up at the origin.
//
//	d := layout.New(layout.DefaultOptions())
//	if err := d.Draw(smiles.MustParse("c1ccccc1O")); err != nil { ... }
//	for _, v := range d.Graph().Vertices { ... v.Position ... }
package layout
