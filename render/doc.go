// Package render executes drawstream instructions against CPU pixel
// buffers.
//
// A Canvas holds the full drawing state machine: the current path, colors
// and line styles, the canvas transform, the clip region, the layer set,
// sprites and the state stack. Instructions are applied one at a time with
// Apply and are simultaneously kept in a replay log, so the canvas can be
// re-rendered from scratch at a new size. The layers are flattened onto a
// Surface in ascending layer order with per-layer blend modes.
//
// Rendering is deterministic: pixel-center sampling with no antialiasing,
// so replaying the same instruction stream always produces identical
// pixels.
package render
