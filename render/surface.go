package render

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Surface is a CPU-backed destination for flattened canvas output.
//
// The pixel data is premultiplied RGBA, matching what a GPU upload of
// TextureFormatRGBA8Unorm expects, so a Surface can back either a software
// pipeline or a staging buffer.
type Surface struct {
	img *image.RGBA
}

// NewSurface creates a surface of the given size in pixels.
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// NewSurfaceFromImage wraps an existing *image.RGBA without copying.
func NewSurfaceFromImage(img *image.RGBA) *Surface {
	return &Surface{img: img}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Format returns the pixel format of the surface.
func (s *Surface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Image returns the backing image. The canvas draws into it in place.
func (s *Surface) Image() *image.RGBA { return s.img }

// Pixels returns the raw pixel data, 4 bytes per pixel.
func (s *Surface) Pixels() []byte { return s.img.Pix }

// Stride returns the number of bytes per pixel row.
func (s *Surface) Stride() int { return s.img.Stride }
