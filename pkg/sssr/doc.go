// Package sssr computes the smallest set of smallest rings (SSSR) of a
// molecular graph.
//
// # Algorithm
//
// The graph is first cut into ring systems by removing every bridge. For
// each remaining component the expected ring count is E − V + 1, or 2 + E − V
// when every vertex has exactly three bonds. A component expecting a single
// ring is returned whole. Otherwise:
//
//  1. [PathMatrices] runs a Floyd–Warshall relaxation that tracks, per vertex
//     pair, the set of shortest paths (pe) and the set of paths exactly one
//     bond longer (pePrime).
//  2. [Candidates] turns each pair into a ring candidate of size 2d (two
//     shortest paths) or 2d+1 (a shortest plus a next-shortest path), sorted
//     ascending by size.
//  3. Candidates are accepted greedily. A candidate is skipped when it has a
//     chord, when it is a superset of an accepted ring, or when all its bonds
//     are already covered and no atom has fewer rings than bonds.
//
// The search stops as soon as the expected number of rings is accepted.
// Experimental mode replaces that number by [ExperimentalCap].
package sssr
