package wire

import (
	"fmt"
	"io"

	"github.com/gogpu/drawstream"
)

// DecodeError reports a byte that does not match the wire grammar. Decoding
// stops at the first error: the stream has no framing to resynchronize on,
// so everything after the offending character is unreachable. Instructions
// completed before the error remain valid.
type DecodeError struct {
	Pos  int    // byte offset in the stream
	Char byte   // the offending byte
	Msg  string // what was expected
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: invalid character %q at offset %d: %s", e.Char, e.Pos, e.Msg)
}

type decodeState uint8

const (
	stTop             decodeState = iota // expecting an opcode
	stNew                                // after 'N'
	stLineStyle                          // after 'L'
	stDash                               // after 'D'
	stColor                              // after 'C'
	stColorTag                           // after 'Cs' or 'Cf', expecting the color space tag
	stWinding                            // after 'W'
	stJoin                               // after 'Lj'
	stCap                                // after 'Lc'
	stTransform                          // after 'T'
	stStateGroup                         // after 'Z'
	stSprite                             // after 's'
	stSpriteTransform                    // after 'sT'
	stCollect                            // collecting a fixed number of operand symbols
	stCollectID                          // collecting a truncated 64-bit integer
)

// pending identifies which instruction the collected operands belong to.
type pending uint8

const (
	pMove pending = iota
	pLine
	pBezier
	pLineWidth
	pLineWidthPixels
	pDashLength
	pDashOffset
	pFillColor
	pStrokeColor
	pBlend
	pCanvasHeight
	pCenterRegion
	pMultiplyTransform
	pLayer
	pLayerBlend
	pSpriteTranslate
	pSpriteScale
	pSpriteRotate
	pSpriteMatrix
	pSpriteID
	pDrawSpriteID
)

// blendModes is the reverse of blendTags.
var blendModes = func() map[string]drawstream.BlendMode {
	m := make(map[string]drawstream.BlendMode, len(blendTags))
	for mode, tag := range blendTags {
		m[tag] = drawstream.BlendMode(mode)
	}
	return m
}()

// Decoder is a push-style decoder for the wire format. Feed it bytes in any
// chunking; instructions are returned as soon as their last byte arrives.
// A Decoder must not be copied while in use.
//
// Errors are sticky: once a byte fails to decode, every further call
// returns the same error.
type Decoder struct {
	state decodeState
	p     pending
	need  int    // operand symbols still expected in stCollect
	arg   []byte // collected operand symbols
	id    uint64 // truncated integer accumulator
	shift uint

	pos   int // offset of the next byte
	start int // offset of the current instruction's opcode
	err   error
}

// NewDecoder returns a decoder positioned at stream offset 0.
func NewDecoder() *Decoder {
	return &Decoder{arg: make([]byte, 0, 54)}
}

// Decode feeds a chunk of the stream to the decoder and returns the
// instructions completed by it. A non-nil error means the stream is
// unusable from the reported offset onward; the returned instructions were
// completed before the error and remain valid.
func (d *Decoder) Decode(data []byte) ([]drawstream.Instruction, error) {
	var out []drawstream.Instruction
	for _, b := range data {
		inst, ok, err := d.DecodeByte(b)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, inst)
		}
	}
	return out, nil
}

// DecodeByte feeds a single byte. ok reports whether an instruction was
// completed by this byte.
func (d *Decoder) DecodeByte(b byte) (inst drawstream.Instruction, ok bool, err error) {
	if d.err != nil {
		return nil, false, d.err
	}
	inst, err = d.decode(b)
	d.pos++
	if err != nil {
		d.err = err
		return nil, false, err
	}
	return inst, inst != nil, nil
}

// Close signals the end of the stream. It returns an error if the stream
// ended in the middle of an instruction.
func (d *Decoder) Close() error {
	if d.err != nil {
		return d.err
	}
	if d.state != stTop {
		d.err = fmt.Errorf("wire: stream ended inside the instruction starting at offset %d: %w",
			d.start, io.ErrUnexpectedEOF)
		return d.err
	}
	return nil
}

// Pos returns the offset of the next byte to be decoded.
func (d *Decoder) Pos() int { return d.pos }

// Decode decodes a complete stream.
func Decode(s string) ([]drawstream.Instruction, error) {
	d := NewDecoder()
	out, err := d.Decode([]byte(s))
	if err != nil {
		return out, err
	}
	return out, d.Close()
}

// DecodeEach decodes a complete stream, calling fn for each instruction as
// it completes. Decoding stops at the first decode error or the first
// error returned by fn.
func DecodeEach(s string, fn func(drawstream.Instruction) error) error {
	d := NewDecoder()
	for i := 0; i < len(s); i++ {
		inst, ok, err := d.DecodeByte(s[i])
		if err != nil {
			return err
		}
		if ok {
			if err := fn(inst); err != nil {
				return err
			}
		}
	}
	return d.Close()
}

func (d *Decoder) decode(b byte) (drawstream.Instruction, error) {
	switch d.state {
	case stTop:
		return d.decodeOpcode(b)

	case stNew:
		d.state = stTop
		switch b {
		case 'p':
			return drawstream.NewPath{}, nil
		case 'A':
			return drawstream.ClearCanvas{}, nil
		case 'C':
			return drawstream.ClearLayer{}, nil
		case 'l':
			d.collect(pLayer, 6)
			return nil, nil
		case 'b':
			d.collect(pLayerBlend, 8)
			return nil, nil
		case 's':
			d.collectID(pSpriteID)
			return nil, nil
		}
		return nil, d.fail(b, "expected p, A, C, l, b or s after N")

	case stLineStyle:
		d.state = stTop
		switch b {
		case 'w':
			d.collect(pLineWidth, 6)
		case 'p':
			d.collect(pLineWidthPixels, 6)
		case 'j':
			d.state = stJoin
		case 'c':
			d.state = stCap
		default:
			return nil, d.fail(b, "expected w, p, j or c after L")
		}
		return nil, nil

	case stDash:
		d.state = stTop
		switch b {
		case 'n':
			return drawstream.NewDashPattern{}, nil
		case 'l':
			d.collect(pDashLength, 6)
			return nil, nil
		case 'o':
			d.collect(pDashOffset, 6)
			return nil, nil
		}
		return nil, d.fail(b, "expected n, l or o after D")

	case stColor:
		switch b {
		case 's':
			d.p = pStrokeColor
		case 'f':
			d.p = pFillColor
		default:
			d.state = stTop
			return nil, d.fail(b, "expected s or f after C")
		}
		d.state = stColorTag
		return nil, nil

	case stColorTag:
		if b != 'R' {
			d.state = stTop
			return nil, d.fail(b, "unknown color space (expected R)")
		}
		d.collect(d.p, 24)
		return nil, nil

	case stWinding:
		d.state = stTop
		switch b {
		case 'n':
			return drawstream.SetWindingRule{Rule: drawstream.NonZero}, nil
		case 'e':
			return drawstream.SetWindingRule{Rule: drawstream.EvenOdd}, nil
		}
		return nil, d.fail(b, "expected winding rule n or e")

	case stJoin:
		d.state = stTop
		switch b {
		case 'M':
			return drawstream.SetLineJoin{Join: drawstream.JoinMiter}, nil
		case 'R':
			return drawstream.SetLineJoin{Join: drawstream.JoinRound}, nil
		case 'B':
			return drawstream.SetLineJoin{Join: drawstream.JoinBevel}, nil
		}
		return nil, d.fail(b, "expected line join M, R or B")

	case stCap:
		d.state = stTop
		switch b {
		case 'B':
			return drawstream.SetLineCap{Cap: drawstream.CapButt}, nil
		case 'R':
			return drawstream.SetLineCap{Cap: drawstream.CapRound}, nil
		case 'S':
			return drawstream.SetLineCap{Cap: drawstream.CapSquare}, nil
		}
		return nil, d.fail(b, "expected line cap B, R or S")

	case stTransform:
		d.state = stTop
		switch b {
		case 'i':
			return drawstream.IdentityTransform{}, nil
		case 'h':
			d.collect(pCanvasHeight, 6)
			return nil, nil
		case 'c':
			d.collect(pCenterRegion, 24)
			return nil, nil
		case 'm':
			d.collect(pMultiplyTransform, 54)
			return nil, nil
		}
		return nil, d.fail(b, "expected i, h, c or m after T")

	case stStateGroup:
		d.state = stTop
		switch b {
		case 'n':
			return drawstream.Unclip{}, nil
		case 'c':
			return drawstream.Clip{}, nil
		case 's':
			return drawstream.Store{}, nil
		case 'r':
			return drawstream.Restore{}, nil
		case 'f':
			return drawstream.FreeStoredBuffer{}, nil
		}
		return nil, d.fail(b, "expected n, c, s, r or f after Z")

	case stSprite:
		d.state = stTop
		switch b {
		case 'C':
			return drawstream.ClearSprite{}, nil
		case 'D':
			d.collectID(pDrawSpriteID)
			return nil, nil
		case 'T':
			d.state = stSpriteTransform
			return nil, nil
		}
		return nil, d.fail(b, "expected C, D or T after s")

	case stSpriteTransform:
		d.state = stTop
		switch b {
		case 'i':
			return drawstream.SetSpriteTransform{Kind: drawstream.SpriteIdentity}, nil
		case 't':
			d.collect(pSpriteTranslate, 12)
			return nil, nil
		case 's':
			d.collect(pSpriteScale, 12)
			return nil, nil
		case 'r':
			d.collect(pSpriteRotate, 6)
			return nil, nil
		case 'T':
			d.collect(pSpriteMatrix, 54)
			return nil, nil
		}
		return nil, d.fail(b, "expected sprite transform i, t, s, r or T")

	case stCollect:
		if symbolValues[b] == 0xFF {
			d.state = stTop
			return nil, d.fail(b, "expected an operand symbol")
		}
		d.arg = append(d.arg, b)
		if len(d.arg) < d.need {
			return nil, nil
		}
		d.state = stTop
		return d.finish()

	case stCollectID:
		v := symbolValues[b]
		if v == 0xFF {
			d.state = stTop
			return nil, d.fail(b, "expected an operand symbol")
		}
		d.id |= uint64(v&0x1f) << d.shift
		d.shift += 5
		if v&0x20 != 0 {
			if d.shift >= 65 {
				d.state = stTop
				return nil, d.fail(b, "sprite id longer than 64 bits")
			}
			return nil, nil
		}
		d.state = stTop
		id := drawstream.SpriteID(d.id)
		if d.p == pDrawSpriteID {
			return drawstream.DrawSprite{ID: id}, nil
		}
		return drawstream.Sprite{ID: id}, nil
	}
	panic("wire: unreachable decoder state")
}

func (d *Decoder) decodeOpcode(b byte) (drawstream.Instruction, error) {
	// Only space and newline separate instructions; any other control
	// character is malformed.
	switch b {
	case ' ', '\n':
		return nil, nil
	}
	d.start = d.pos
	switch b {
	case 'N':
		d.state = stNew
	case 'm':
		d.collect(pMove, 12)
	case 'l':
		d.collect(pLine, 12)
	case 'c':
		d.collect(pBezier, 36)
	case '.':
		return drawstream.ClosePath{}, nil
	case 'F':
		return drawstream.Fill{}, nil
	case 'S':
		return drawstream.Stroke{}, nil
	case 'L':
		d.state = stLineStyle
	case 'W':
		d.state = stWinding
	case 'D':
		d.state = stDash
	case 'C':
		d.state = stColor
	case 'M':
		d.collect(pBlend, 2)
	case 'T':
		d.state = stTransform
	case 'Z':
		d.state = stStateGroup
	case 'P':
		return drawstream.PushState{}, nil
	case 'p':
		return drawstream.PopState{}, nil
	case 's':
		d.state = stSprite
	default:
		return nil, d.fail(b, "expected an opcode")
	}
	return nil, nil
}

// collect switches the decoder into operand collection for n symbols.
func (d *Decoder) collect(p pending, n int) {
	d.state = stCollect
	d.p = p
	d.need = n
	d.arg = d.arg[:0]
}

// collectID switches the decoder into truncated-integer collection.
func (d *Decoder) collectID(p pending) {
	d.state = stCollectID
	d.p = p
	d.id = 0
	d.shift = 0
}

// finish assembles the instruction once all operand symbols are in. A bad
// blend tag is reported at the tag's first symbol, matching how sub-opcode
// errors cite the start of what failed to parse.
func (d *Decoder) finish() (drawstream.Instruction, error) {
	a := d.arg
	switch d.p {
	case pMove:
		return drawstream.Move{X: float32FromSymbols(a), Y: float32FromSymbols(a[6:])}, nil
	case pLine:
		return drawstream.Line{X: float32FromSymbols(a), Y: float32FromSymbols(a[6:])}, nil
	case pBezier:
		return drawstream.BezierCurve{
			X: float32FromSymbols(a), Y: float32FromSymbols(a[6:]),
			CX1: float32FromSymbols(a[12:]), CY1: float32FromSymbols(a[18:]),
			CX2: float32FromSymbols(a[24:]), CY2: float32FromSymbols(a[30:]),
		}, nil
	case pLineWidth:
		return drawstream.LineWidth{Width: float32FromSymbols(a)}, nil
	case pLineWidthPixels:
		return drawstream.LineWidthPixels{Width: float32FromSymbols(a)}, nil
	case pDashLength:
		return drawstream.DashLength{Length: float32FromSymbols(a)}, nil
	case pDashOffset:
		return drawstream.DashOffset{Offset: float32FromSymbols(a)}, nil
	case pFillColor:
		return drawstream.FillColor{Color: colorFromSymbols(a)}, nil
	case pStrokeColor:
		return drawstream.StrokeColor{Color: colorFromSymbols(a)}, nil
	case pBlend:
		mode, ok := blendModes[string(a)]
		if !ok {
			return nil, d.failAt(d.pos-1, a[0], "unknown blend mode "+string(a))
		}
		return drawstream.SetBlendMode{Mode: mode}, nil
	case pCanvasHeight:
		return drawstream.CanvasHeight{Height: float32FromSymbols(a)}, nil
	case pCenterRegion:
		return drawstream.CenterRegion{
			MinX: float32FromSymbols(a), MinY: float32FromSymbols(a[6:]),
			MaxX: float32FromSymbols(a[12:]), MaxY: float32FromSymbols(a[18:]),
		}, nil
	case pMultiplyTransform:
		return drawstream.MultiplyTransform{Transform: transformFromSymbols(a)}, nil
	case pLayer:
		return drawstream.Layer{ID: uint32FromSymbols(a)}, nil
	case pLayerBlend:
		mode, ok := blendModes[string(a[6:8])]
		if !ok {
			return nil, d.failAt(d.pos-1, a[6], "unknown blend mode "+string(a[6:8]))
		}
		return drawstream.LayerBlend{ID: uint32FromSymbols(a), Mode: mode}, nil
	case pSpriteTranslate:
		return drawstream.SetSpriteTransform{
			Kind: drawstream.SpriteTranslate,
			X:    float32FromSymbols(a), Y: float32FromSymbols(a[6:]),
		}, nil
	case pSpriteScale:
		return drawstream.SetSpriteTransform{
			Kind: drawstream.SpriteScale,
			X:    float32FromSymbols(a), Y: float32FromSymbols(a[6:]),
		}, nil
	case pSpriteRotate:
		return drawstream.SetSpriteTransform{
			Kind:    drawstream.SpriteRotate,
			Degrees: float32FromSymbols(a),
		}, nil
	case pSpriteMatrix:
		return drawstream.SetSpriteTransform{
			Kind:      drawstream.SpriteMatrix,
			Transform: transformFromSymbols(a),
		}, nil
	}
	panic("wire: unreachable operand kind")
}

func (d *Decoder) fail(b byte, msg string) error {
	return d.failAt(d.pos, b, msg)
}

func (d *Decoder) failAt(pos int, b byte, msg string) error {
	return &DecodeError{Pos: pos, Char: b, Msg: msg}
}

func colorFromSymbols(sym []byte) drawstream.Color {
	return drawstream.Color{
		R: float32FromSymbols(sym),
		G: float32FromSymbols(sym[6:]),
		B: float32FromSymbols(sym[12:]),
		A: float32FromSymbols(sym[18:]),
	}
}

func transformFromSymbols(sym []byte) drawstream.Transform2D {
	var t drawstream.Transform2D
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			t[row][col] = float32FromSymbols(sym[(row*3+col)*6:])
		}
	}
	return t
}
