// Package geom provides the 2D vector and line primitives used by the layout
// engine and the renderers.
//
// Vectors are plain values. Every operation returns a new [Vector2] instead of
// mutating the receiver, which keeps position snapshots in the layout engine
// trivially correct.
package geom
