package wire

import (
	"math"
	"testing"

	"github.com/gogpu/drawstream"
)

func TestAppendUint32(t *testing.T) {
	tests := []struct {
		name string
		v    uint32
		want string
	}{
		{"zero", 0, "AAAAAA"},
		{"one", 1, "BAAAAA"},
		{"mixed bits", 0xabcd1234, "0IRzrC"},
		{"max", 0xffffffff, "/////D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(appendUint32(nil, tt.v))
			if got != tt.want {
				t.Errorf("appendUint32(%#x) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestAppendFloat32(t *testing.T) {
	tests := []struct {
		name string
		f    float32
		want string
	}{
		{"pi-ish", 3.141, "lYQSAB"},
		{"twenty", 20.0, "AAAoBB"},
		{"zero", 0, "AAAAAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(appendFloat32(nil, tt.f))
			if got != tt.want {
				t.Errorf("appendFloat32(%v) = %q, want %q", tt.f, got, tt.want)
			}
		})
	}
}

func TestAppendUint64Truncated(t *testing.T) {
	tests := []struct {
		name string
		v    uint64
		want string
	}{
		{"zero", 0, "A"},
		{"one", 1, "B"},
		{"five bits", 31, "f"},
		{"six bits", 32, "gB"},
		{"large", 0x1234567890abcdef, "vvz3qoiv2itkB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(appendUint64Truncated(nil, tt.v))
			if got != tt.want {
				t.Errorf("appendUint64Truncated(%#x) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestEncodeInstruction(t *testing.T) {
	tests := []struct {
		name string
		inst drawstream.Instruction
		want string
	}{
		{"new path", drawstream.NewPath{}, "Np"},
		{"close path", drawstream.ClosePath{}, "."},
		{"fill", drawstream.Fill{}, "F"},
		{"stroke", drawstream.Stroke{}, "S"},
		{"move", drawstream.Move{X: 20, Y: 20}, "mAAAoBBAAAoBB"},
		{"layer 2", drawstream.Layer{ID: 2}, "NlCAAAAA"},
		{"clear canvas", drawstream.ClearCanvas{}, "NA"},
		{"clear layer", drawstream.ClearLayer{}, "NC"},
		{"push state", drawstream.PushState{}, "P"},
		{"pop state", drawstream.PopState{}, "p"},
		{"winding non-zero", drawstream.SetWindingRule{Rule: drawstream.NonZero}, "Wn"},
		{"winding even-odd", drawstream.SetWindingRule{Rule: drawstream.EvenOdd}, "We"},
		{"join bevel", drawstream.SetLineJoin{Join: drawstream.JoinBevel}, "LjB"},
		{"cap square", drawstream.SetLineCap{Cap: drawstream.CapSquare}, "LcS"},
		{"blend multiply", drawstream.SetBlendMode{Mode: drawstream.BlendMultiply}, "MEM"},
		{"identity transform", drawstream.IdentityTransform{}, "Ti"},
		{"clip", drawstream.Clip{}, "Zc"},
		{"unclip", drawstream.Unclip{}, "Zn"},
		{"store", drawstream.Store{}, "Zs"},
		{"restore", drawstream.Restore{}, "Zr"},
		{"free stored buffer", drawstream.FreeStoredBuffer{}, "Zf"},
		{"sprite 0", drawstream.Sprite{ID: 0}, "NsA"},
		{"clear sprite", drawstream.ClearSprite{}, "sC"},
		{"draw sprite 0", drawstream.DrawSprite{ID: 0}, "sDA"},
		{"sprite transform identity",
			drawstream.SetSpriteTransform{Kind: drawstream.SpriteIdentity}, "sTi"},
		{"new dash pattern", drawstream.NewDashPattern{}, "Dn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeInstruction(tt.inst)
			if got != tt.want {
				t.Errorf("EncodeInstruction(%v) = %q, want %q", tt.inst.Op(), got, tt.want)
			}
		})
	}
}

func TestEncoderNewlines(t *testing.T) {
	var e Encoder
	e.Append(drawstream.NewPath{})
	e.Append(drawstream.Fill{})
	if got, want := e.String(), "Np\nF\n"; got != want {
		t.Errorf("encoded stream = %q, want %q", got, want)
	}
	e.Reset()
	if got := e.String(); got != "" {
		t.Errorf("after Reset, stream = %q, want empty", got)
	}
}

func TestRoundTrip(t *testing.T) {
	instrs := []drawstream.Instruction{
		drawstream.ClearCanvas{},
		drawstream.Layer{ID: 7},
		drawstream.LayerBlend{ID: 7, Mode: drawstream.BlendScreen},
		drawstream.NewPath{},
		drawstream.Move{X: -1.5, Y: 0.25},
		drawstream.Line{X: 100, Y: -200},
		drawstream.BezierCurve{X: 1, Y: 2, CX1: 3, CY1: 4, CX2: 5, CY2: 6},
		drawstream.ClosePath{},
		drawstream.LineWidth{Width: 2.5},
		drawstream.LineWidthPixels{Width: 1},
		drawstream.SetLineJoin{Join: drawstream.JoinRound},
		drawstream.SetLineCap{Cap: drawstream.CapButt},
		drawstream.SetWindingRule{Rule: drawstream.EvenOdd},
		drawstream.NewDashPattern{},
		drawstream.DashLength{Length: 4},
		drawstream.DashOffset{Offset: 0.5},
		drawstream.FillColor{Color: drawstream.RGBA(0.25, 0.5, 0.75, 1)},
		drawstream.StrokeColor{Color: drawstream.Black},
		drawstream.SetBlendMode{Mode: drawstream.BlendDestinationAtop},
		drawstream.IdentityTransform{},
		drawstream.CanvasHeight{Height: 1080},
		drawstream.CenterRegion{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1},
		drawstream.MultiplyTransform{Transform: drawstream.Rotate(float32(math.Pi / 3))},
		drawstream.Clip{},
		drawstream.Unclip{},
		drawstream.Store{},
		drawstream.Restore{},
		drawstream.FreeStoredBuffer{},
		drawstream.PushState{},
		drawstream.PopState{},
		drawstream.ClearLayer{},
		drawstream.Sprite{ID: 42},
		drawstream.ClearSprite{},
		drawstream.SetSpriteTransform{Kind: drawstream.SpriteTranslate, X: 10, Y: 10},
		drawstream.SetSpriteTransform{Kind: drawstream.SpriteScale, X: 2, Y: 0.5},
		drawstream.SetSpriteTransform{Kind: drawstream.SpriteRotate, Degrees: 45},
		drawstream.SetSpriteTransform{Kind: drawstream.SpriteMatrix,
			Transform: drawstream.Translate(3, 4)},
		drawstream.DrawSprite{ID: 42},
		drawstream.Sprite{ID: 1<<40 + 12345},
		drawstream.DrawSprite{ID: 1<<40 + 12345},
		drawstream.Fill{},
		drawstream.Stroke{},
	}

	got, err := Decode(EncodeAll(instrs))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(instrs) {
		t.Fatalf("decoded %d instructions, want %d", len(got), len(instrs))
	}
	for i := range instrs {
		if got[i] != instrs[i] {
			t.Errorf("instruction %d: got %#v, want %#v", i, got[i], instrs[i])
		}
	}
}
