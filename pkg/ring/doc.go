// Package ring models the rings of a molecule and the connections between
// them.
//
// A [Ring] is created per SSSR ring and identified by a dense integer id.
// Atoms refer back to rings by id only. Rings that share vertices are joined
// by a [Connection] recording the shared vertex set; [Connect] builds all of
// them pairwise and [Classify] derives the fused, spiro and bridged flags the
// layout engine uses to choose a placement strategy.
package ring
