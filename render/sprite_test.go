package render

import (
	"image/color"
	"testing"

	"github.com/gogpu/drawstream"
)

// recordSquareSprite records a 10x10 red square centered on the origin
// into sprite id and returns to live drawing on layer 0.
func recordSquareSprite(c *Canvas, id drawstream.SpriteID) {
	c.Apply(drawstream.Sprite{ID: id})
	c.Apply(drawstream.FillColor{Color: red})
	rect(c, -5, -5, 5, 5)
	c.Apply(drawstream.Fill{})
	c.Apply(drawstream.Layer{ID: 0})
}

func TestSpriteRecordAndDraw(t *testing.T) {
	c := testCanvas(t)
	recordSquareSprite(c, 1)

	// Recording must not render anything.
	s := flattenPixels(c)
	if got := pixel(s, 50, 50); got.A != 0 {
		t.Errorf("pixel after recording = %v, want transparent", got)
	}

	c.Apply(drawstream.DrawSprite{ID: 1})
	s = flattenPixels(c)
	if got := pixel(s, 50, 50); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel after DrawSprite = %v, want red", got)
	}
}

func TestSpriteTransformComposition(t *testing.T) {
	c := testCanvas(t)
	recordSquareSprite(c, 1)

	// Two translations compose.
	c.Apply(drawstream.SetSpriteTransform{Kind: drawstream.SpriteTranslate, X: 10, Y: 10})
	c.Apply(drawstream.SetSpriteTransform{Kind: drawstream.SpriteTranslate, X: 10, Y: 10})
	x, y := c.SpriteTransform().Apply(0, 0)
	if x != 20 || y != 20 {
		t.Errorf("composed sprite transform maps origin to (%v, %v), want (20, 20)", x, y)
	}

	c.Apply(drawstream.DrawSprite{ID: 1})
	s := flattenPixels(c)
	// Canvas (20, 20) is device (70, 30).
	if got := pixel(s, 70, 30); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("translated sprite pixel = %v, want red", got)
	}
	if got := pixel(s, 50, 50); got.A != 0 {
		t.Errorf("origin pixel = %v, want transparent", got)
	}

	// Identity resets the accumulated transform.
	c.Apply(drawstream.SetSpriteTransform{Kind: drawstream.SpriteIdentity})
	if !c.SpriteTransform().IsIdentity() {
		t.Error("identity sprite transform should reset composition")
	}
}

func TestSpriteStateIsolation(t *testing.T) {
	c := testCanvas(t)
	c.Apply(drawstream.FillColor{Color: blue})
	recordSquareSprite(c, 1)
	transform := c.Transform()

	c.Apply(drawstream.DrawSprite{ID: 1})

	// The sprite sets its own fill color and builds its own path; neither
	// leaks into the live state.
	if c.state.fill != blue {
		t.Errorf("fill color after DrawSprite = %v, want blue", c.state.fill)
	}
	if c.Transform() != transform {
		t.Error("canvas transform changed during DrawSprite")
	}
	if len(c.path) != 0 {
		t.Error("sprite drawing leaked path segments")
	}
}

func TestSpriteSurvivesClearCanvas(t *testing.T) {
	c := testCanvas(t)
	recordSquareSprite(c, 7)
	c.Apply(drawstream.ClearCanvas{})
	c.Apply(drawstream.CanvasHeight{Height: 100})

	c.Apply(drawstream.DrawSprite{ID: 7})
	s := flattenPixels(c)
	if got := pixel(s, 50, 50); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("sprite after ClearCanvas = %v, want red", got)
	}
}

func TestSpriteSurvivesResize(t *testing.T) {
	c := testCanvas(t)
	recordSquareSprite(c, 3)
	c.Apply(drawstream.DrawSprite{ID: 3})

	c.Resize(200, 200)
	s := flattenPixels(c)
	// CanvasHeight(100) on 200x200 doubles the scale: the square spans
	// device 90..110 on both axes.
	if got := pixel(s, 100, 100); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("sprite after resize = %v, want red", got)
	}
	if got := pixel(s, 120, 100); got.A != 0 {
		t.Errorf("pixel outside the resized sprite = %v, want transparent", got)
	}
}

func TestClearSprite(t *testing.T) {
	c := testCanvas(t)
	c.Apply(drawstream.Sprite{ID: 1})
	c.Apply(drawstream.FillColor{Color: red})
	rect(c, -5, -5, 5, 5)
	c.Apply(drawstream.Fill{})
	c.Apply(drawstream.ClearSprite{})
	c.Apply(drawstream.Layer{ID: 0})

	c.Apply(drawstream.DrawSprite{ID: 1})
	s := flattenPixels(c)
	if got := pixel(s, 50, 50); got.A != 0 {
		t.Errorf("cleared sprite drew pixel %v, want nothing", got)
	}
}

func TestDrawUndefinedSprite(t *testing.T) {
	c := testCanvas(t)
	c.Apply(drawstream.DrawSprite{ID: 99}) // warns, draws nothing
	s := flattenPixels(c)
	if got := pixel(s, 50, 50); got.A != 0 {
		t.Errorf("undefined sprite drew pixel %v", got)
	}
}

func TestSpriteRecordingSwitch(t *testing.T) {
	c := testCanvas(t)
	c.Apply(drawstream.Sprite{ID: 1})
	c.Apply(drawstream.FillColor{Color: red})
	// Selecting another sprite mid-recording redirects the recording.
	c.Apply(drawstream.Sprite{ID: 2})
	rect(c, -5, -5, 5, 5)
	c.Apply(drawstream.Fill{})
	c.Apply(drawstream.Layer{ID: 0})

	// Sprite 2 has the square but not the color; sprite 1 has the color
	// only. Drawing sprite 2 uses the live fill color.
	c.Apply(drawstream.FillColor{Color: green})
	c.Apply(drawstream.DrawSprite{ID: 2})
	s := flattenPixels(c)
	if got := pixel(s, 50, 50); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("sprite 2 pixel = %v, want the live green", got)
	}
}
