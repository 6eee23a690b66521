package wire

import (
	"errors"
	"io"
	"testing"

	"github.com/gogpu/drawstream"
)

func TestDecodeReferenceStream(t *testing.T) {
	// A small hand-assembled stream: clear, pick a layer, draw a square.
	stream := "NA NlCAAAAA Np mAAAoBBAAAoBB lAAAoBBAAA/BB . F"
	want := []drawstream.Instruction{
		drawstream.ClearCanvas{},
		drawstream.Layer{ID: 2},
		drawstream.NewPath{},
		drawstream.Move{X: 20, Y: 20},
		drawstream.Line{X: 20, Y: 31.5},
		drawstream.ClosePath{},
		drawstream.Fill{},
	}
	got, err := Decode(stream)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("decoded %d instructions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instruction %d: got %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		stream  string
		wantPos int
		wantCh  byte
	}{
		{"bad opcode", "!", 0, '!'},
		{"bad sub-opcode", "Nz", 1, 'z'},
		{"bad state op", "Zx", 1, 'x'},
		{"bad winding rule", "Wq", 1, 'q'},
		{"bad line join", "Ljz", 2, 'z'},
		{"bad color space", "CsQ", 2, 'Q'},
		{"bad operand symbol", "Lw!AAAAA", 2, '!'},
		{"whitespace inside operand", "Lw AAAAAA", 2, ' '},
		{"bad blend tag", "MXX", 1, 'X'},
		{"bad layer blend tag", "NbCAAAAAXY", 8, 'X'},
		{"tab between instructions", "Np\tF", 2, '\t'},
		{"carriage return between instructions", "F\rS", 1, '\r'},
		{"error after valid prefix", "NpF!", 3, '!'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.stream)
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("Decode(%q) error = %v, want *DecodeError", tt.stream, err)
			}
			if derr.Pos != tt.wantPos {
				t.Errorf("error position = %d, want %d", derr.Pos, tt.wantPos)
			}
			if derr.Char != tt.wantCh {
				t.Errorf("error char = %q, want %q", derr.Char, tt.wantCh)
			}
		})
	}
}

func TestDecodeErrorKeepsPrefix(t *testing.T) {
	got, err := Decode("NpF!")
	if err == nil {
		t.Fatal("Decode: expected an error")
	}
	if len(got) != 2 {
		t.Fatalf("decoded %d instructions before the error, want 2", len(got))
	}
	if got[0] != (drawstream.NewPath{}) || got[1] != (drawstream.Fill{}) {
		t.Errorf("prefix = %#v, want NewPath, Fill", got)
	}
}

func TestDecodeTruncatedStream(t *testing.T) {
	tests := []string{
		"N",        // sub-opcode missing
		"mAAAoBB",  // second coordinate missing
		"LwAAA",    // operand cut short
		"CsR",      // color components missing
		"Ns",       // sprite id missing
		"Nsg",      // sprite id continuation without final symbol
		"sT",       // sprite transform variant missing
		"NbCAAAAA", // layer blend tag missing
	}
	for _, stream := range tests {
		t.Run(stream, func(t *testing.T) {
			_, err := Decode(stream)
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("Decode(%q) error = %v, want io.ErrUnexpectedEOF", stream, err)
			}
		})
	}
}

func TestDecodeErrorSticky(t *testing.T) {
	d := NewDecoder()
	if _, _, err := d.DecodeByte('!'); err == nil {
		t.Fatal("DecodeByte('!'): expected an error")
	}
	_, _, err := d.DecodeByte('F')
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("after error, DecodeByte = %v, want the original *DecodeError", err)
	}
	if derr.Pos != 0 || derr.Char != '!' {
		t.Errorf("sticky error = %v, want the position 0 error", derr)
	}
}

func TestDecodeChunked(t *testing.T) {
	// Instruction boundaries must not matter: feed one byte at a time.
	stream := EncodeAll([]drawstream.Instruction{
		drawstream.Move{X: 1, Y: 2},
		drawstream.FillColor{Color: drawstream.RGB(1, 0, 0)},
		drawstream.Sprite{ID: 1000},
	})
	d := NewDecoder()
	var got []drawstream.Instruction
	for i := 0; i < len(stream); i++ {
		inst, ok, err := d.DecodeByte(stream[i])
		if err != nil {
			t.Fatalf("DecodeByte at %d: %v", i, err)
		}
		if ok {
			got = append(got, inst)
		}
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("decoded %d instructions, want 3", len(got))
	}
	if got[2] != (drawstream.Sprite{ID: 1000}) {
		t.Errorf("instruction 2 = %#v, want Sprite{ID: 1000}", got[2])
	}
}

func TestDecodeEach(t *testing.T) {
	var ops []drawstream.Op
	err := DecodeEach("NpF.S", func(inst drawstream.Instruction) error {
		ops = append(ops, inst.Op())
		return nil
	})
	if err != nil {
		t.Fatalf("DecodeEach: %v", err)
	}
	want := []drawstream.Op{
		drawstream.OpNewPath, drawstream.OpFill,
		drawstream.OpClosePath, drawstream.OpStroke,
	}
	if len(ops) != len(want) {
		t.Fatalf("saw %d instructions, want %d", len(ops), len(want))
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("instruction %d: op = %v, want %v", i, ops[i], want[i])
		}
	}

	stop := errors.New("stop")
	err = DecodeEach("NpF", func(drawstream.Instruction) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("DecodeEach with failing callback: err = %v, want %v", err, stop)
	}
}

func TestDecodeWhitespace(t *testing.T) {
	got, err := Decode("  Np\nF  \n S\n")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("decoded %d instructions, want 3", len(got))
	}
}
