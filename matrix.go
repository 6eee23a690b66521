package drawstream

import "math"

// Transform2D is a 2D affine transformation as a full 3x3 matrix in
// row-major order:
//
//	| m[0][0]  m[0][1]  m[0][2] |
//	| m[1][0]  m[1][1]  m[1][2] |
//	| m[2][0]  m[2][1]  m[2][2] |
//
// Points transform as column vectors (x, y, 1). Affine transforms keep the
// last row at (0, 0, 1), but the wire format carries all nine values, so the
// full matrix is retained here.
type Transform2D [3][3]float32

// Identity returns the identity transform.
func Identity() Transform2D {
	return Transform2D{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Translate returns a transform that moves points by (x, y).
func Translate(x, y float32) Transform2D {
	return Transform2D{
		{1, 0, x},
		{0, 1, y},
		{0, 0, 1},
	}
}

// Scale returns a transform that scales about the origin.
func Scale(x, y float32) Transform2D {
	return Transform2D{
		{x, 0, 0},
		{0, y, 0},
		{0, 0, 1},
	}
}

// Rotate returns a transform that rotates about the origin by an angle in
// radians.
func Rotate(radians float32) Transform2D {
	sin := float32(math.Sin(float64(radians)))
	cos := float32(math.Cos(float64(radians)))
	return Transform2D{
		{cos, -sin, 0},
		{sin, cos, 0},
		{0, 0, 1},
	}
}

// RotateDegrees returns a transform that rotates about the origin by an
// angle in degrees. Sprite transforms carry rotation in degrees on the wire.
func RotateDegrees(degrees float32) Transform2D {
	return Rotate(degrees * (math.Pi / 180))
}

// Multiply returns m x other: the transform that applies other first and
// then m. Composing a new transform onto a canvas is current.Multiply(new).
func (m Transform2D) Multiply(other Transform2D) Transform2D {
	var r Transform2D
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row][col] = m[row][0]*other[0][col] +
				m[row][1]*other[1][col] +
				m[row][2]*other[2][col]
		}
	}
	return r
}

// Apply transforms the point (x, y).
func (m Transform2D) Apply(x, y float32) (float32, float32) {
	tx := m[0][0]*x + m[0][1]*y + m[0][2]
	ty := m[1][0]*x + m[1][1]*y + m[1][2]
	return tx, ty
}

// Invert returns the inverse transform. The second result is false if the
// matrix is singular (determinant too close to zero), in which case the
// identity transform is returned.
func (m Transform2D) Invert() (Transform2D, bool) {
	// Cofactor expansion in float64 keeps the precision of the result well
	// inside the float32 representation.
	var a [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a[i][j] = float64(m[i][j])
		}
	}

	det := a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	if math.Abs(det) < 1e-10 {
		return Identity(), false
	}

	inv := 1.0 / det
	var r Transform2D
	r[0][0] = float32((a[1][1]*a[2][2] - a[1][2]*a[2][1]) * inv)
	r[0][1] = float32((a[0][2]*a[2][1] - a[0][1]*a[2][2]) * inv)
	r[0][2] = float32((a[0][1]*a[1][2] - a[0][2]*a[1][1]) * inv)
	r[1][0] = float32((a[1][2]*a[2][0] - a[1][0]*a[2][2]) * inv)
	r[1][1] = float32((a[0][0]*a[2][2] - a[0][2]*a[2][0]) * inv)
	r[1][2] = float32((a[0][2]*a[1][0] - a[0][0]*a[1][2]) * inv)
	r[2][0] = float32((a[1][0]*a[2][1] - a[1][1]*a[2][0]) * inv)
	r[2][1] = float32((a[0][1]*a[2][0] - a[0][0]*a[2][1]) * inv)
	r[2][2] = float32((a[0][0]*a[1][1] - a[0][1]*a[1][0]) * inv)
	return r, true
}

// IsIdentity returns true if the matrix is exactly the identity matrix.
func (m Transform2D) IsIdentity() bool {
	return m == Identity()
}

// ScaleFactors returns the horizontal and vertical scale factors of the
// transform (the lengths of the transformed basis vectors). Zero factors are
// reported as 1 so callers can divide by them safely.
func (m Transform2D) ScaleFactors() (sx, sy float32) {
	sx = float32(math.Hypot(float64(m[0][0]), float64(m[1][0])))
	sy = float32(math.Hypot(float64(m[0][1]), float64(m[1][1])))
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}
