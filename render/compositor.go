package render

import (
	"image"
	"image/draw"
	"sort"

	"github.com/gogpu/drawstream"
)

// LayerIDs returns the ids of all layers in compositing order.
func (c *Canvas) LayerIDs() []uint32 {
	ids := make([]uint32, 0, len(c.layers))
	for id := range c.layers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LayerBlendMode returns the compositing mode of a layer. Layers default
// to source-over.
func (c *Canvas) LayerBlendMode(id uint32) drawstream.BlendMode {
	if l := c.layers[id]; l != nil {
		return l.blend
	}
	return drawstream.BlendSourceOver
}

// Flatten composites the layers onto a surface in ascending layer order,
// applying each layer's blend mode. The surface is cleared first, and the
// layers are read-only here, so flattening twice gives the same pixels.
func (c *Canvas) Flatten(dst *Surface) {
	img := dst.Image()
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	bounds := img.Bounds()
	for _, id := range c.LayerIDs() {
		l := c.layers[id]
		if l.blend == drawstream.BlendSourceOver {
			draw.Draw(img, bounds, l.img, image.Point{}, draw.Over)
			continue
		}
		blendImage(img, l.img, blendFuncFor(l.blend))
	}
}

// blendImage composites src onto dst pixel by pixel over their shared
// area.
func blendImage(dst, src *image.RGBA, blend blendFunc) {
	area := dst.Bounds().Intersect(src.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		do := dst.PixOffset(area.Min.X, y)
		so := src.PixOffset(area.Min.X, y)
		for x := area.Min.X; x < area.Max.X; x++ {
			d := dst.Pix[do : do+4 : do+4]
			s := src.Pix[so : so+4 : so+4]
			r, g, b, a := blend(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3])
			d[0], d[1], d[2], d[3] = r, g, b, a
			do += 4
			so += 4
		}
	}
}
