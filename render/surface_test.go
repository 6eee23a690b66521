package render

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestSurfaceFormat(t *testing.T) {
	s := NewSurface(16, 8)
	if got := s.Format(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want TextureFormatRGBA8Unorm", got)
	}
	if s.Width() != 16 || s.Height() != 8 {
		t.Errorf("size = %dx%d, want 16x8", s.Width(), s.Height())
	}
	if s.Stride() != 16*4 {
		t.Errorf("stride = %d, want %d", s.Stride(), 16*4)
	}
	if len(s.Pixels()) != 16*8*4 {
		t.Errorf("pixel buffer is %d bytes, want %d", len(s.Pixels()), 16*8*4)
	}
}
