package drawstream

import "image/color"

// Color is an RGBA color with components in the range 0-1.
// Components are not premultiplied by alpha.
type Color struct {
	R, G, B, A float32
}

// RGB returns an opaque color from red, green and blue components in 0-1.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA returns a color from red, green, blue and alpha components in 0-1.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Common colors.
var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{0, 0, 0, 0}
)

// NRGBA converts the color to 8-bit non-premultiplied RGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: clamp255(c.R),
		G: clamp255(c.G),
		B: clamp255(c.B),
		A: clamp255(c.A),
	}
}

// Premultiplied converts the color to 8-bit premultiplied RGBA.
func (c Color) Premultiplied() color.RGBA {
	a := c.A
	return color.RGBA{
		R: clamp255(c.R * a),
		G: clamp255(c.G * a),
		B: clamp255(c.B * a),
		A: clamp255(a),
	}
}

func clamp255(v float32) uint8 {
	v *= 255
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
