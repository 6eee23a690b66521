package drawstream

import "fmt"

// Op identifies the kind of an Instruction.
// Each op corresponds to one drawing operation in the wire protocol.
type Op uint8

const (
	OpNewPath           Op = iota // Begin a new path
	OpMove                        // Move to a point without drawing
	OpLine                        // Line to a point
	OpBezierCurve                 // Cubic bezier curve to a point
	OpClosePath                   // Close the current subpath
	OpFill                        // Fill the current path
	OpStroke                      // Stroke the current path
	OpLineWidth                   // Line width in canvas units
	OpLineWidthPixels             // Line width in device pixels
	OpLineJoin                    // Line join style
	OpLineCap                     // Line cap style
	OpWindingRule                 // Fill winding rule
	OpNewDashPattern              // Reset the dash pattern (solid line)
	OpDashLength                  // Append a dash length
	OpDashOffset                  // Set the dash offset
	OpFillColor                   // Set the fill color
	OpStrokeColor                 // Set the stroke color
	OpBlendMode                   // Set the drawing blend mode
	OpIdentityTransform           // Reset to the identity canvas transform
	OpCanvasHeight                // Reset the transform for a given canvas height
	OpCenterRegion                // Re-center the view on a region
	OpMultiplyTransform           // Compose a transform onto the current one
	OpUnclip                      // Remove the clipping path
	OpClip                        // Clip to the current path
	OpStore                       // Snapshot the current layer pixels
	OpRestore                     // Restore the last snapshot
	OpFreeStoredBuffer            // Release the snapshot buffer
	OpPushState                   // Push the canvas state
	OpPopState                    // Pop the canvas state
	OpClearCanvas                 // Clear the whole canvas
	OpLayer                       // Select a layer for drawing
	OpLayerBlend                  // Set a layer's compositing blend mode
	OpClearLayer                  // Clear the current layer
	OpSprite                      // Select a sprite for recording
	OpClearSprite                 // Clear the current sprite's instructions
	OpSpriteTransform             // Adjust the sprite rendering transform
	OpDrawSprite                  // Render a sprite
)

var opNames = [...]string{
	OpNewPath:           "NewPath",
	OpMove:              "Move",
	OpLine:              "Line",
	OpBezierCurve:       "BezierCurve",
	OpClosePath:         "ClosePath",
	OpFill:              "Fill",
	OpStroke:            "Stroke",
	OpLineWidth:         "LineWidth",
	OpLineWidthPixels:   "LineWidthPixels",
	OpLineJoin:          "LineJoin",
	OpLineCap:           "LineCap",
	OpWindingRule:       "WindingRule",
	OpNewDashPattern:    "NewDashPattern",
	OpDashLength:        "DashLength",
	OpDashOffset:        "DashOffset",
	OpFillColor:         "FillColor",
	OpStrokeColor:       "StrokeColor",
	OpBlendMode:         "BlendMode",
	OpIdentityTransform: "IdentityTransform",
	OpCanvasHeight:      "CanvasHeight",
	OpCenterRegion:      "CenterRegion",
	OpMultiplyTransform: "MultiplyTransform",
	OpUnclip:            "Unclip",
	OpClip:              "Clip",
	OpStore:             "Store",
	OpRestore:           "Restore",
	OpFreeStoredBuffer:  "FreeStoredBuffer",
	OpPushState:         "PushState",
	OpPopState:          "PopState",
	OpClearCanvas:       "ClearCanvas",
	OpLayer:             "Layer",
	OpLayerBlend:        "LayerBlend",
	OpClearLayer:        "ClearLayer",
	OpSprite:            "Sprite",
	OpClearSprite:       "ClearSprite",
	OpSpriteTransform:   "SpriteTransform",
	OpDrawSprite:        "DrawSprite",
}

// String returns the instruction name for the op.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Instruction is a single drawing operation. Instructions are immutable
// values: they have no identity beyond their fields, and an instruction
// stream can be compared, copied, stored and replayed freely.
type Instruction interface {
	// Op returns the operation kind for this instruction.
	Op() Op
}

// LineJoin specifies the shape of line joins.
type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// LineCap specifies the shape of line endpoints.
type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// WindingRule specifies how to determine which areas are inside a path.
type WindingRule uint8

const (
	NonZero WindingRule = iota
	EvenOdd
)

// BlendMode is the compositing operator used when drawing, and when
// flattening a layer onto the layers beneath it.
type BlendMode uint8

const (
	BlendSourceOver BlendMode = iota // default
	BlendSourceIn
	BlendSourceOut
	BlendDestinationOver
	BlendDestinationIn
	BlendDestinationOut
	BlendSourceAtop
	BlendDestinationAtop

	BlendMultiply
	BlendScreen
	BlendDarken
	BlendLighten
)

var blendNames = [...]string{
	BlendSourceOver:      "SourceOver",
	BlendSourceIn:        "SourceIn",
	BlendSourceOut:       "SourceOut",
	BlendDestinationOver: "DestinationOver",
	BlendDestinationIn:   "DestinationIn",
	BlendDestinationOut:  "DestinationOut",
	BlendSourceAtop:      "SourceAtop",
	BlendDestinationAtop: "DestinationAtop",
	BlendMultiply:        "Multiply",
	BlendScreen:          "Screen",
	BlendDarken:          "Darken",
	BlendLighten:         "Lighten",
}

// String returns a human-readable name for the blend mode.
func (b BlendMode) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return fmt.Sprintf("BlendMode(%d)", uint8(b))
}

// SpriteID identifies a canvas sprite.
//
// A sprite is a placeholder for a recorded set of drawing instructions,
// useful for drawings expected to repeat. Sprites survive layer and canvas
// clears so they can be re-used repeatedly, and only need to cross the wire
// once before being re-rendered as often as necessary.
type SpriteID uint64

// SpriteTransformKind tags the variants of a sprite transform adjustment.
type SpriteTransformKind uint8

const (
	SpriteIdentity  SpriteTransformKind = iota // reset to identity
	SpriteTranslate                            // move by (X, Y)
	SpriteScale                                // scale by (X, Y) about the origin
	SpriteRotate                               // rotate by Degrees about the origin
	SpriteMatrix                               // arbitrary 2D transform
)

// --------------------------------------------------------------------------
// Path instructions
// --------------------------------------------------------------------------

// NewPath begins a new path, discarding the current one.
type NewPath struct{}

func (NewPath) Op() Op { return OpNewPath }

// Move moves the current point without drawing.
type Move struct{ X, Y float32 }

func (Move) Op() Op { return OpMove }

// Line adds a line from the current point to (X, Y).
type Line struct{ X, Y float32 }

func (Line) Op() Op { return OpLine }

// BezierCurve adds a cubic bezier from the current point to (X, Y) with
// control points (CX1, CY1) and (CX2, CY2). The end point comes first,
// matching the order the canvas encoding uses on the wire.
type BezierCurve struct {
	X, Y     float32
	CX1, CY1 float32
	CX2, CY2 float32
}

func (BezierCurve) Op() Op { return OpBezierCurve }

// ClosePath closes the current subpath.
type ClosePath struct{}

func (ClosePath) Op() Op { return OpClosePath }

// --------------------------------------------------------------------------
// Paint instructions
// --------------------------------------------------------------------------

// Fill fills the current path.
type Fill struct{}

func (Fill) Op() Op { return OpFill }

// Stroke draws a line around the current path.
type Stroke struct{}

func (Stroke) Op() Op { return OpStroke }

// LineWidth sets the stroke width in canvas units.
type LineWidth struct{ Width float32 }

func (LineWidth) Op() Op { return OpLineWidth }

// LineWidthPixels sets the stroke width in device pixels, independent of the
// current canvas transform.
type LineWidthPixels struct{ Width float32 }

func (LineWidthPixels) Op() Op { return OpLineWidthPixels }

// SetLineJoin sets the line join style.
type SetLineJoin struct{ Join LineJoin }

func (SetLineJoin) Op() Op { return OpLineJoin }

// SetLineCap sets the line cap style.
type SetLineCap struct{ Cap LineCap }

func (SetLineCap) Op() Op { return OpLineCap }

// SetWindingRule sets the fill winding rule.
type SetWindingRule struct{ Rule WindingRule }

func (SetWindingRule) Op() Op { return OpWindingRule }

// NewDashPattern resets the dash pattern to empty, which is a solid line.
type NewDashPattern struct{}

func (NewDashPattern) Op() Op { return OpNewDashPattern }

// DashLength appends a dash to the current dash pattern.
type DashLength struct{ Length float32 }

func (DashLength) Op() Op { return OpDashLength }

// DashOffset sets the starting offset into the dash pattern.
type DashOffset struct{ Offset float32 }

func (DashOffset) Op() Op { return OpDashOffset }

// FillColor sets the fill color.
type FillColor struct{ Color Color }

func (FillColor) Op() Op { return OpFillColor }

// StrokeColor sets the stroke color.
type StrokeColor struct{ Color Color }

func (StrokeColor) Op() Op { return OpStrokeColor }

// SetBlendMode sets how future drawing is blended with the current layer.
type SetBlendMode struct{ Mode BlendMode }

func (SetBlendMode) Op() Op { return OpBlendMode }

// --------------------------------------------------------------------------
// Transform instructions
// --------------------------------------------------------------------------

// IdentityTransform resets the canvas transform to the identity mapping,
// which is defined as CanvasHeight(2): origin centered, square pixels,
// y increasing upward, vertical extent of 2 canvas units.
type IdentityTransform struct{}

func (IdentityTransform) Op() Op { return OpIdentityTransform }

// CanvasHeight resets the transform so that (0,0) is the center of the
// canvas and the vertical extent is Height canvas units. The sign of Height
// flips the vertical direction only, never the horizontal. Pixels stay
// square.
type CanvasHeight struct{ Height float32 }

func (CanvasHeight) Op() Op { return OpCanvasHeight }

// CenterRegion moves the bounding box (MinX, MinY)-(MaxX, MaxY) to the
// center of the canvas without changing the scale.
type CenterRegion struct{ MinX, MinY, MaxX, MaxY float32 }

func (CenterRegion) Op() Op { return OpCenterRegion }

// MultiplyTransform composes a 2D transform onto the current canvas
// transform (current x new; the order is not commutative).
type MultiplyTransform struct{ Transform Transform2D }

func (MultiplyTransform) Op() Op { return OpMultiplyTransform }

// --------------------------------------------------------------------------
// State instructions
// --------------------------------------------------------------------------

// Unclip removes the clipping path entirely (the whole clip stack, not just
// the most recent clip).
type Unclip struct{}

func (Unclip) Op() Op { return OpUnclip }

// Clip intersects the clipping region with the current path.
type Clip struct{}

func (Clip) Op() Op { return OpClip }

// Store snapshots the pixels of the current layer into a background buffer.
type Store struct{}

func (Store) Op() Op { return OpStore }

// Restore copies the stored snapshot back over the current layer. The buffer
// is left intact so it can be restored again.
type Restore struct{}

func (Restore) Op() Op { return OpRestore }

// FreeStoredBuffer releases the buffer created by the last Store. Restore is
// no longer valid afterwards.
type FreeStoredBuffer struct{}

func (FreeStoredBuffer) Op() Op { return OpFreeStoredBuffer }

// PushState pushes the current canvas state: clip path, dash pattern, stored
// buffer reference, selected layer, transform and sprite transform.
type PushState struct{}

func (PushState) Op() Op { return OpPushState }

// PopState restores a state previously pushed.
type PopState struct{}

func (PopState) Op() Op { return OpPopState }

// --------------------------------------------------------------------------
// Layer instructions
// --------------------------------------------------------------------------

// ClearCanvas clears the canvas entirely: all layers, all drawing state and
// the replay log. Sprite definitions survive.
type ClearCanvas struct{}

func (ClearCanvas) Op() Op { return OpClearCanvas }

// Layer selects a layer for drawing. Layer 0 is selected initially. Layers
// are composited in ascending ID order; IDs don't have to be sequential.
type Layer struct{ ID uint32 }

func (Layer) Op() Op { return OpLayer }

// LayerBlend sets how a layer is blended with the layers underneath it,
// without selecting it for drawing.
type LayerBlend struct {
	ID   uint32
	Mode BlendMode
}

func (LayerBlend) Op() Op { return OpLayerBlend }

// ClearLayer clears the contents of the current layer.
type ClearLayer struct{}

func (ClearLayer) Op() Op { return OpClearLayer }

// --------------------------------------------------------------------------
// Sprite instructions
// --------------------------------------------------------------------------

// Sprite selects a sprite for recording. Future drawing instructions are
// recorded into the sprite instead of being rendered; select a layer (for
// example Layer(0)) to resume drawing normally.
type Sprite struct{ ID SpriteID }

func (Sprite) Op() Op { return OpSprite }

// ClearSprite discards the instructions recorded into the current sprite.
type ClearSprite struct{}

func (ClearSprite) Op() Op { return OpClearSprite }

// SetSpriteTransform adjusts the transform applied when sprites are drawn.
// Kind selects the variant; Translate/Scale use (X, Y), Rotate uses Degrees,
// Matrix uses Transform.
type SetSpriteTransform struct {
	Kind      SpriteTransformKind
	X, Y      float32
	Degrees   float32
	Transform Transform2D
}

func (SetSpriteTransform) Op() Op { return OpSpriteTransform }

// Matrix2D returns the transform adjustment as a concrete matrix to compose
// onto a sprite transform. For SpriteIdentity the identity matrix is
// returned; the caller resets rather than composes in that case.
func (t SetSpriteTransform) Matrix2D() Transform2D {
	switch t.Kind {
	case SpriteTranslate:
		return Translate(t.X, t.Y)
	case SpriteScale:
		return Scale(t.X, t.Y)
	case SpriteRotate:
		return RotateDegrees(t.Degrees)
	case SpriteMatrix:
		return t.Transform
	default:
		return Identity()
	}
}

// DrawSprite renders the recorded instructions of a sprite through the
// current sprite transform onto the current layer.
type DrawSprite struct{ ID SpriteID }

func (DrawSprite) Op() Op { return OpDrawSprite }
