package wire

import (
	"fmt"

	"github.com/gogpu/drawstream"
)

// blendTags maps blend modes to their two-character wire tags. The first
// character groups the mode: 'S' source operators, 'D' destination
// operators, 'E' extended (separable) modes.
var blendTags = [...]string{
	drawstream.BlendSourceOver:      "SV",
	drawstream.BlendSourceIn:        "SI",
	drawstream.BlendSourceOut:       "SO",
	drawstream.BlendDestinationOver: "DV",
	drawstream.BlendDestinationIn:   "DI",
	drawstream.BlendDestinationOut:  "DO",
	drawstream.BlendSourceAtop:      "SA",
	drawstream.BlendDestinationAtop: "DA",
	drawstream.BlendMultiply:        "EM",
	drawstream.BlendScreen:          "ES",
	drawstream.BlendDarken:          "ED",
	drawstream.BlendLighten:         "EL",
}

// Encoder serializes instructions into the wire format. The zero value is
// ready to use. Each appended instruction is followed by a newline, which
// the decoder skips; the breaks keep long streams diffable and make
// truncated transfers fail at an instruction boundary.
type Encoder struct {
	buf []byte
}

// Append encodes a single instruction onto the end of the stream.
func (e *Encoder) Append(inst drawstream.Instruction) {
	e.buf = appendInstruction(e.buf, inst)
	e.buf = append(e.buf, '\n')
}

// AppendAll encodes each instruction in order.
func (e *Encoder) AppendAll(instrs []drawstream.Instruction) {
	for _, inst := range instrs {
		e.Append(inst)
	}
}

// Bytes returns the encoded stream. The slice is owned by the encoder and
// valid until the next Append or Reset.
func (e *Encoder) Bytes() []byte { return e.buf }

// String returns the encoded stream as a string.
func (e *Encoder) String() string { return string(e.buf) }

// Reset discards the encoded stream, retaining the buffer for reuse.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// EncodeInstruction encodes a single instruction without a trailing
// newline.
func EncodeInstruction(inst drawstream.Instruction) string {
	return string(appendInstruction(nil, inst))
}

// EncodeAll encodes a slice of instructions, one per line.
func EncodeAll(instrs []drawstream.Instruction) string {
	var e Encoder
	e.AppendAll(instrs)
	return e.String()
}

func appendInstruction(dst []byte, inst drawstream.Instruction) []byte {
	switch i := inst.(type) {
	case drawstream.NewPath:
		return append(dst, 'N', 'p')
	case drawstream.Move:
		dst = append(dst, 'm')
		dst = appendFloat32(dst, i.X)
		return appendFloat32(dst, i.Y)
	case drawstream.Line:
		dst = append(dst, 'l')
		dst = appendFloat32(dst, i.X)
		return appendFloat32(dst, i.Y)
	case drawstream.BezierCurve:
		dst = append(dst, 'c')
		dst = appendFloat32(dst, i.X)
		dst = appendFloat32(dst, i.Y)
		dst = appendFloat32(dst, i.CX1)
		dst = appendFloat32(dst, i.CY1)
		dst = appendFloat32(dst, i.CX2)
		return appendFloat32(dst, i.CY2)
	case drawstream.ClosePath:
		return append(dst, '.')
	case drawstream.Fill:
		return append(dst, 'F')
	case drawstream.Stroke:
		return append(dst, 'S')
	case drawstream.LineWidth:
		return appendFloat32(append(dst, 'L', 'w'), i.Width)
	case drawstream.LineWidthPixels:
		return appendFloat32(append(dst, 'L', 'p'), i.Width)
	case drawstream.SetLineJoin:
		return append(dst, 'L', 'j', joinTag(i.Join))
	case drawstream.SetLineCap:
		return append(dst, 'L', 'c', capTag(i.Cap))
	case drawstream.SetWindingRule:
		if i.Rule == drawstream.EvenOdd {
			return append(dst, 'W', 'e')
		}
		return append(dst, 'W', 'n')
	case drawstream.NewDashPattern:
		return append(dst, 'D', 'n')
	case drawstream.DashLength:
		return appendFloat32(append(dst, 'D', 'l'), i.Length)
	case drawstream.DashOffset:
		return appendFloat32(append(dst, 'D', 'o'), i.Offset)
	case drawstream.FillColor:
		return appendColor(append(dst, 'C', 'f'), i.Color)
	case drawstream.StrokeColor:
		return appendColor(append(dst, 'C', 's'), i.Color)
	case drawstream.SetBlendMode:
		return append(dst, 'M', blendTags[i.Mode][0], blendTags[i.Mode][1])
	case drawstream.IdentityTransform:
		return append(dst, 'T', 'i')
	case drawstream.CanvasHeight:
		return appendFloat32(append(dst, 'T', 'h'), i.Height)
	case drawstream.CenterRegion:
		dst = append(dst, 'T', 'c')
		dst = appendFloat32(dst, i.MinX)
		dst = appendFloat32(dst, i.MinY)
		dst = appendFloat32(dst, i.MaxX)
		return appendFloat32(dst, i.MaxY)
	case drawstream.MultiplyTransform:
		return appendTransform(append(dst, 'T', 'm'), i.Transform)
	case drawstream.Unclip:
		return append(dst, 'Z', 'n')
	case drawstream.Clip:
		return append(dst, 'Z', 'c')
	case drawstream.Store:
		return append(dst, 'Z', 's')
	case drawstream.Restore:
		return append(dst, 'Z', 'r')
	case drawstream.FreeStoredBuffer:
		return append(dst, 'Z', 'f')
	case drawstream.PushState:
		return append(dst, 'P')
	case drawstream.PopState:
		return append(dst, 'p')
	case drawstream.ClearCanvas:
		return append(dst, 'N', 'A')
	case drawstream.Layer:
		return appendUint32(append(dst, 'N', 'l'), i.ID)
	case drawstream.LayerBlend:
		dst = appendUint32(append(dst, 'N', 'b'), i.ID)
		return append(dst, blendTags[i.Mode][0], blendTags[i.Mode][1])
	case drawstream.ClearLayer:
		return append(dst, 'N', 'C')
	case drawstream.Sprite:
		return appendUint64Truncated(append(dst, 'N', 's'), uint64(i.ID))
	case drawstream.ClearSprite:
		return append(dst, 's', 'C')
	case drawstream.SetSpriteTransform:
		return appendSpriteTransform(append(dst, 's', 'T'), i)
	case drawstream.DrawSprite:
		return appendUint64Truncated(append(dst, 's', 'D'), uint64(i.ID))
	default:
		panic(fmt.Sprintf("wire: cannot encode instruction %T", inst))
	}
}

func appendColor(dst []byte, c drawstream.Color) []byte {
	// 'R' tags the color space. RGBA is the only one defined so far.
	dst = append(dst, 'R')
	dst = appendFloat32(dst, c.R)
	dst = appendFloat32(dst, c.G)
	dst = appendFloat32(dst, c.B)
	return appendFloat32(dst, c.A)
}

func appendTransform(dst []byte, t drawstream.Transform2D) []byte {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			dst = appendFloat32(dst, t[row][col])
		}
	}
	return dst
}

func appendSpriteTransform(dst []byte, t drawstream.SetSpriteTransform) []byte {
	switch t.Kind {
	case drawstream.SpriteTranslate:
		dst = appendFloat32(append(dst, 't'), t.X)
		return appendFloat32(dst, t.Y)
	case drawstream.SpriteScale:
		dst = appendFloat32(append(dst, 's'), t.X)
		return appendFloat32(dst, t.Y)
	case drawstream.SpriteRotate:
		return appendFloat32(append(dst, 'r'), t.Degrees)
	case drawstream.SpriteMatrix:
		return appendTransform(append(dst, 'T'), t.Transform)
	default:
		return append(dst, 'i')
	}
}

func joinTag(j drawstream.LineJoin) byte {
	switch j {
	case drawstream.JoinRound:
		return 'R'
	case drawstream.JoinBevel:
		return 'B'
	default:
		return 'M'
	}
}

func capTag(c drawstream.LineCap) byte {
	switch c {
	case drawstream.CapRound:
		return 'R'
	case drawstream.CapSquare:
		return 'S'
	default:
		return 'B'
	}
}
