package drawstream

import (
	"math"
	"testing"
)

const epsilon = 1e-5

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a)-float64(b)) < epsilon
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if !m.IsIdentity() {
		t.Error("Identity() should report IsIdentity")
	}
	x, y := m.Apply(3, -7)
	if x != 3 || y != -7 {
		t.Errorf("Identity().Apply(3, -7) = (%v, %v), want (3, -7)", x, y)
	}
}

func TestTranslate(t *testing.T) {
	x, y := Translate(10, -5).Apply(1, 2)
	if x != 11 || y != -3 {
		t.Errorf("Translate(10, -5).Apply(1, 2) = (%v, %v), want (11, -3)", x, y)
	}
}

func TestScale(t *testing.T) {
	x, y := Scale(2, 3).Apply(4, 5)
	if x != 8 || y != 15 {
		t.Errorf("Scale(2, 3).Apply(4, 5) = (%v, %v), want (8, 15)", x, y)
	}
}

func TestRotate(t *testing.T) {
	// Quarter turn counter-clockwise maps (1, 0) to (0, 1).
	x, y := Rotate(math.Pi / 2).Apply(1, 0)
	if !almostEqual(x, 0) || !almostEqual(y, 1) {
		t.Errorf("Rotate(pi/2).Apply(1, 0) = (%v, %v), want (0, 1)", x, y)
	}

	x, y = RotateDegrees(180).Apply(1, 2)
	if !almostEqual(x, -1) || !almostEqual(y, -2) {
		t.Errorf("RotateDegrees(180).Apply(1, 2) = (%v, %v), want (-1, -2)", x, y)
	}
}

func TestMultiplyOrder(t *testing.T) {
	// current.Multiply(new) applies the new transform first. Scaling after
	// translating is not the same as translating after scaling.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	x, y := m.Apply(1, 1)
	if x != 12 || y != 2 {
		t.Errorf("translate*scale applied to (1, 1) = (%v, %v), want (12, 2)", x, y)
	}

	m = Scale(2, 2).Multiply(Translate(10, 0))
	x, y = m.Apply(1, 1)
	if x != 22 || y != 2 {
		t.Errorf("scale*translate applied to (1, 1) = (%v, %v), want (22, 2)", x, y)
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name string
		m    Transform2D
	}{
		{"identity", Identity()},
		{"translate", Translate(12, -7)},
		{"scale", Scale(3, 0.5)},
		{"rotate", Rotate(1.1)},
		{"composite", Translate(100, 50).Multiply(Scale(2, -2)).Multiply(Rotate(0.3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if !ok {
				t.Fatal("Invert reported a singular matrix")
			}
			// A point through the transform and back lands within 1e-5.
			px, py := tt.m.Apply(3.5, -1.25)
			rx, ry := inv.Apply(px, py)
			if !almostEqual(rx, 3.5) || !almostEqual(ry, -1.25) {
				t.Errorf("round trip of (3.5, -1.25) = (%v, %v)", rx, ry)
			}
		})
	}
}

func TestInvertSingular(t *testing.T) {
	_, ok := Scale(0, 0).Invert()
	if ok {
		t.Error("Invert of a zero scale should report singular")
	}
	_, ok = (Transform2D{}).Invert()
	if ok {
		t.Error("Invert of the zero matrix should report singular")
	}
}

func TestScaleFactors(t *testing.T) {
	sx, sy := Scale(3, 4).ScaleFactors()
	if !almostEqual(sx, 3) || !almostEqual(sy, 4) {
		t.Errorf("ScaleFactors of Scale(3, 4) = (%v, %v)", sx, sy)
	}

	// Rotation does not change the scale factors.
	sx, sy = Rotate(0.7).Multiply(Scale(2, 5)).ScaleFactors()
	if !almostEqual(sx, 2) || !almostEqual(sy, 5) {
		t.Errorf("ScaleFactors of rotate*scale = (%v, %v), want (2, 5)", sx, sy)
	}

	// Degenerate axes report 1 so division stays safe.
	sx, sy = Scale(0, 0).ScaleFactors()
	if sx != 1 || sy != 1 {
		t.Errorf("ScaleFactors of Scale(0, 0) = (%v, %v), want (1, 1)", sx, sy)
	}
}
