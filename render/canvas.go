package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/drawstream"
)

// Canvas is the drawing state machine. It applies instructions to a set of
// CPU layers and keeps a replay log so the drawing can be reproduced from
// scratch, for example after a resize.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	width, height int

	state   drawState
	stack   []savedState
	layers  map[uint32]*layer
	sprites map[drawstream.SpriteID]*sprite
	stored  *image.RGBA

	// recording is non-nil while instructions are being recorded into a
	// sprite instead of rendered.
	recording *sprite

	log replayLog

	path        []subpath
	spriteDepth int
}

// layer is one independently-cleared drawing plane.
type layer struct {
	img   *image.RGBA
	blend drawstream.BlendMode
}

type subpath struct {
	pts    []point
	closed bool
}

// drawState is the mutable drawing state the instructions operate on.
type drawState struct {
	transform drawstream.Transform2D
	inverse   *drawstream.Transform2D // lazy, cleared when transform changes

	fill          drawstream.Color
	stroke        drawstream.Color
	lineWidth     float64
	widthInPixels bool
	join          drawstream.LineJoin
	lineCap       drawstream.LineCap
	winding       drawstream.WindingRule
	dash          []float64
	dashOffset    float64
	blend         drawstream.BlendMode

	layerID uint32
	clip    *image.Alpha // nil when unclipped

	spriteTransform drawstream.Transform2D
}

// savedState is what PushState preserves. Colors and line styles are
// deliberately not included; only the positional and region state is.
type savedState struct {
	transform       drawstream.Transform2D
	clip            *image.Alpha
	dash            []float64
	dashOffset      float64
	stored          *image.RGBA
	layerID         uint32
	spriteTransform drawstream.Transform2D
}

// New creates a blank canvas of the given pixel size with layer 0 selected.
// The replay log starts with a ClearCanvas, matching what replaying an
// empty canvas should do.
func New(width, height int) *Canvas {
	c := &Canvas{
		width:   width,
		height:  height,
		sprites: map[drawstream.SpriteID]*sprite{},
	}
	c.reset()
	c.log.seed()
	return c
}

// reset restores the blank-canvas state. Sprite definitions and the replay
// log are left alone; ClearCanvas wants the former kept and the log is
// owned by the bookkeeping in apply.
func (c *Canvas) reset() {
	c.state = newDrawState(c.width, c.height)
	c.stack = nil
	c.stored = nil
	c.path = nil
	c.layers = map[uint32]*layer{0: c.newLayer()}
}

func newDrawState(width, height int) drawState {
	return drawState{
		transform:       canvasHeightTransform(2, width, height),
		fill:            drawstream.Black,
		stroke:          drawstream.Black,
		lineWidth:       1,
		spriteTransform: drawstream.Identity(),
	}
}

func (c *Canvas) newLayer() *layer {
	return &layer{img: image.NewRGBA(image.Rect(0, 0, c.width, c.height))}
}

// currentLayer returns the selected layer, creating it on first use.
func (c *Canvas) currentLayer() *layer {
	l := c.layers[c.state.layerID]
	if l == nil {
		l = c.newLayer()
		c.layers[c.state.layerID] = l
	}
	return l
}

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (width, height int) { return c.width, c.height }

// Transform returns the current canvas-to-device transform.
func (c *Canvas) Transform() drawstream.Transform2D { return c.state.transform }

// SpriteTransform returns the transform applied when sprites are drawn.
func (c *Canvas) SpriteTransform() drawstream.Transform2D { return c.state.spriteTransform }

// CanvasToDevice maps a point in canvas units to device pixels.
func (c *Canvas) CanvasToDevice(x, y float32) (float32, float32) {
	return c.state.transform.Apply(x, y)
}

// DeviceToCanvas maps a device pixel position back to canvas units. ok is
// false when the current transform is singular. The inverse is computed
// once and cached until the transform changes.
func (c *Canvas) DeviceToCanvas(x, y float32) (dx, dy float32, ok bool) {
	inv, ok := c.state.inverseTransform()
	if !ok {
		return 0, 0, false
	}
	dx, dy = inv.Apply(x, y)
	return dx, dy, true
}

func (s *drawState) inverseTransform() (drawstream.Transform2D, bool) {
	if s.inverse == nil {
		inv, ok := s.transform.Invert()
		if !ok {
			return drawstream.Transform2D{}, false
		}
		s.inverse = &inv
	}
	return *s.inverse, true
}

func (s *drawState) setTransform(t drawstream.Transform2D) {
	s.transform = t
	s.inverse = nil
}

// Apply executes a single instruction. Sprite selection redirects drawing
// into the sprite's recording; selecting a layer (or clearing the canvas)
// resumes live rendering.
func (c *Canvas) Apply(inst drawstream.Instruction) {
	if c.recording != nil {
		switch i := inst.(type) {
		case drawstream.Sprite:
			c.recording = c.spriteFor(i.ID)
			return
		case drawstream.ClearSprite:
			c.recording.instrs = c.recording.instrs[:0]
			return
		case drawstream.Layer, drawstream.LayerBlend, drawstream.ClearCanvas:
			c.recording = nil
			// handled below as a live instruction
		default:
			c.recording.instrs = append(c.recording.instrs, inst)
			return
		}
	}

	switch i := inst.(type) {
	case drawstream.Sprite:
		c.recording = c.spriteFor(i.ID)
		return
	case drawstream.ClearSprite:
		drawstream.Logger().Warn("ClearSprite outside sprite recording")
		return
	}

	c.render(inst)
	c.log.record(inst, c.state.layerID)
}

// ApplyAll executes a sequence of instructions.
func (c *Canvas) ApplyAll(instrs []drawstream.Instruction) {
	for _, inst := range instrs {
		c.Apply(inst)
	}
}

// render executes the pixel and state effect of one live instruction. It
// never touches the replay log, so it doubles as the replay engine.
func (c *Canvas) render(inst drawstream.Instruction) {
	switch i := inst.(type) {
	// Paths
	case drawstream.NewPath:
		c.path = nil
	case drawstream.Move:
		c.moveTo(c.devicePoint(i.X, i.Y))
	case drawstream.Line:
		c.lineTo(c.devicePoint(i.X, i.Y))
	case drawstream.BezierCurve:
		c.curveTo(c.devicePoint(i.CX1, i.CY1), c.devicePoint(i.CX2, i.CY2), c.devicePoint(i.X, i.Y))
	case drawstream.ClosePath:
		if n := len(c.path); n > 0 {
			c.path[n-1].closed = true
		}

	// Painting
	case drawstream.Fill:
		c.fill()
	case drawstream.Stroke:
		c.stroke()

	// Styles
	case drawstream.LineWidth:
		c.state.lineWidth = float64(i.Width)
		c.state.widthInPixels = false
	case drawstream.LineWidthPixels:
		c.state.lineWidth = float64(i.Width)
		c.state.widthInPixels = true
	case drawstream.SetLineJoin:
		c.state.join = i.Join
	case drawstream.SetLineCap:
		c.state.lineCap = i.Cap
	case drawstream.SetWindingRule:
		c.state.winding = i.Rule
	case drawstream.NewDashPattern:
		c.state.dash = nil
		c.state.dashOffset = 0
	case drawstream.DashLength:
		c.state.dash = append(c.state.dash, float64(i.Length))
	case drawstream.DashOffset:
		c.state.dashOffset = float64(i.Offset)
	case drawstream.FillColor:
		c.state.fill = i.Color
	case drawstream.StrokeColor:
		c.state.stroke = i.Color
	case drawstream.SetBlendMode:
		c.state.blend = i.Mode

	// Transforms
	case drawstream.IdentityTransform:
		c.state.setTransform(canvasHeightTransform(2, c.width, c.height))
	case drawstream.CanvasHeight:
		c.state.setTransform(canvasHeightTransform(i.Height, c.width, c.height))
	case drawstream.CenterRegion:
		c.centerRegion(i)
	case drawstream.MultiplyTransform:
		c.state.setTransform(c.state.transform.Multiply(i.Transform))

	// Clipping and stored pixels
	case drawstream.Clip:
		c.clipToPath()
	case drawstream.Unclip:
		c.state.clip = nil
	case drawstream.Store:
		c.stored = cloneImage(c.currentLayer().img)
	case drawstream.Restore:
		if c.stored == nil {
			drawstream.Logger().Warn("restore without a stored buffer")
			return
		}
		dst := c.currentLayer().img
		draw.Draw(dst, dst.Bounds(), c.stored, image.Point{}, draw.Src)
	case drawstream.FreeStoredBuffer:
		c.stored = nil

	// State stack
	case drawstream.PushState:
		c.pushState()
	case drawstream.PopState:
		c.popState()

	// Layers
	case drawstream.ClearCanvas:
		c.reset()
	case drawstream.Layer:
		c.state.layerID = i.ID
		c.currentLayer()
	case drawstream.LayerBlend:
		l := c.layers[i.ID]
		if l == nil {
			l = c.newLayer()
			c.layers[i.ID] = l
		}
		l.blend = i.Mode
	case drawstream.ClearLayer:
		l := c.currentLayer()
		clearImage(l.img)
		l.blend = drawstream.BlendSourceOver

	// Sprites
	case drawstream.SetSpriteTransform:
		if i.Kind == drawstream.SpriteIdentity {
			c.state.spriteTransform = drawstream.Identity()
		} else {
			c.state.spriteTransform = c.state.spriteTransform.Multiply(i.Matrix2D())
		}
	case drawstream.DrawSprite:
		c.drawSprite(i.ID)
	}
}

func (c *Canvas) pushState() {
	c.stack = append(c.stack, savedState{
		transform:       c.state.transform,
		clip:            c.state.clip,
		dash:            append([]float64(nil), c.state.dash...),
		dashOffset:      c.state.dashOffset,
		stored:          c.stored,
		layerID:         c.state.layerID,
		spriteTransform: c.state.spriteTransform,
	})
}

func (c *Canvas) popState() {
	if len(c.stack) == 0 {
		drawstream.Logger().Warn("pop of an empty state stack")
		return
	}
	s := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.state.setTransform(s.transform)
	c.state.clip = s.clip
	c.state.dash = s.dash
	c.state.dashOffset = s.dashOffset
	c.state.layerID = s.layerID
	c.state.spriteTransform = s.spriteTransform
	c.stored = s.stored
}

// devicePoint maps a canvas-space coordinate through the current transform.
func (c *Canvas) devicePoint(x, y float32) point {
	dx, dy := c.state.transform.Apply(x, y)
	return point{float64(dx), float64(dy)}
}

func (c *Canvas) moveTo(p point) {
	c.path = append(c.path, subpath{pts: []point{p}})
}

func (c *Canvas) lineTo(p point) {
	if len(c.path) == 0 {
		c.moveTo(p)
		return
	}
	sp := &c.path[len(c.path)-1]
	sp.pts = append(sp.pts, p)
}

func (c *Canvas) curveTo(cp1, cp2, end point) {
	if len(c.path) == 0 {
		c.moveTo(end)
		return
	}
	sp := &c.path[len(c.path)-1]
	from := sp.pts[len(sp.pts)-1]
	sp.pts = flattenBezier(sp.pts, from, cp1, cp2, end)
}

func (c *Canvas) fill() {
	polys := c.fillPolygons()
	if len(polys) == 0 {
		return
	}
	col := c.state.fill.Premultiplied()
	fillPath(c.currentLayer().img, polys, c.state.winding,
		col.R, col.G, col.B, col.A, c.state.clip, blendFuncFor(c.state.blend))
}

func (c *Canvas) fillPolygons() [][]point {
	var polys [][]point
	for _, sp := range c.path {
		if len(sp.pts) >= 3 {
			polys = append(polys, sp.pts)
		}
	}
	return polys
}

func (c *Canvas) stroke() {
	if len(c.path) == 0 {
		return
	}
	scale := c.deviceScale()
	width := c.state.lineWidth
	if !c.state.widthInPixels {
		width *= scale
	}
	if width <= 0 {
		return
	}

	var lines [][]point
	for _, sp := range c.path {
		if len(sp.pts) < 2 {
			continue
		}
		line := sp.pts
		if sp.closed {
			line = append(append([]point(nil), line...), line[0])
		}
		if len(c.state.dash) > 0 {
			pattern := make([]float64, len(c.state.dash))
			for i, d := range c.state.dash {
				pattern[i] = d * scale
			}
			lines = append(lines, dashPolyline(line, pattern, c.state.dashOffset*scale)...)
		} else {
			lines = append(lines, line)
		}
	}

	outline := strokeOutline(lines, width, c.state.join, c.state.lineCap)
	if len(outline) == 0 {
		return
	}
	col := c.state.stroke.Premultiplied()
	fillPath(c.currentLayer().img, outline, drawstream.NonZero,
		col.R, col.G, col.B, col.A, c.state.clip, blendFuncFor(c.state.blend))
}

// deviceScale is the canvas-unit-to-pixel factor used for stroke widths
// and dash lengths.
func (c *Canvas) deviceScale() float64 {
	sx, sy := c.state.transform.ScaleFactors()
	return (math.Abs(float64(sx)) + math.Abs(float64(sy))) / 2
}

// clipToPath intersects the clip region with the current path.
func (c *Canvas) clipToPath() {
	polys := c.fillPolygons()
	mask := image.NewAlpha(image.Rect(0, 0, c.width, c.height))
	fillMask(mask, polys, c.state.winding)
	if prev := c.state.clip; prev != nil {
		for i, a := range prev.Pix {
			if a < mask.Pix[i] {
				mask.Pix[i] = a
			}
		}
	}
	c.state.clip = mask
}

func (c *Canvas) centerRegion(r drawstream.CenterRegion) {
	cx := (r.MinX + r.MaxX) / 2
	cy := (r.MinY + r.MaxY) / 2
	px, py := c.state.transform.Apply(cx, cy)
	dx := float32(c.width)/2 - px
	dy := float32(c.height)/2 - py
	c.state.setTransform(drawstream.Translate(dx, dy).Multiply(c.state.transform))
}

// canvasHeightTransform maps canvas units to device pixels so that (0,0)
// is the center of the canvas, y increases upward, pixels are square and
// the vertical extent is height units. A negative height flips the
// vertical axis only.
func canvasHeightTransform(height float32, pxWidth, pxHeight int) drawstream.Transform2D {
	if height == 0 {
		height = 2
	}
	ph := float32(pxHeight)
	sx := ph / float32(math.Abs(float64(height)))
	sy := -ph / height
	return drawstream.Translate(float32(pxWidth)/2, ph/2).Multiply(drawstream.Scale(sx, sy))
}

func cloneImage(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func clearImage(img *image.RGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}
