// Package smiles parses SMILES strings into the parse tree consumed by
// [github.com/matzehuels/smilesdraw/pkg/molecule.Build].
//
// # Grammar
//
// The parser accepts the subset of OpenSMILES that matters for 2D depiction:
//
//   - Organic-subset atoms: B C N O P S F Cl Br I and the wildcard *
//   - Aromatic atoms: b c n o p s (and se, as inside brackets)
//   - Bracket atoms: [isotope? symbol chirality? hcount? charge? class?]
//   - Bonds: - = # $ : / \ and the component separator .
//   - Branches: ( bond? chain )
//   - Ring bonds: bond? digit or bond? %nn
//
// # Parse Tree
//
// Each [Node] holds one atom, the bond that follows it, its branches, its
// ring-bond placeholders and the next atom of the chain:
//
//	C(=O)C1CC1  →  C ─branch(=)→ O
//	               └─next→ C[1] ─next→ C ─next→ C[1]
//
// Ring-bond numbers may be reused once closed ("C1CC1C1CC1"). The parser
// assigns every open/close pair a unique [Ringbond.ID]; the number written in
// the input is kept in [Ringbond.Label]. A well-formed tree therefore has
// exactly two occurrences of every ring-bond ID.
//
// # Errors
//
// All syntax errors are returned as [*SyntaxError], which carries the byte
// offset of the problem and matches [ErrSyntax] with errors.Is.
package smiles
