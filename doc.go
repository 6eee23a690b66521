// Package drawstream defines the instruction set for a replayable 2D vector
// canvas: a compact set of drawing operations that can be serialized to a
// dense textual wire format (package wire), applied to a stateful renderer
// (package render), and replayed deterministically to reconstruct the visible
// state of a canvas from scratch.
//
// The root package holds the pure data types shared by the codec and the
// renderer: the Instruction variants, color and line-style enums, sprite
// identifiers and transforms, and the 3x3 affine transform algebra.
// It performs no rendering and no I/O.
package drawstream
