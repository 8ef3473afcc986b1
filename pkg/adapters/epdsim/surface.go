// Package epdsim provides an in-memory 4-level grayscale surface that
// stands in for the e-paper framebuffer: host-side harness and tests draw
// into it instead of panel hardware.
package epdsim

import (
	"image"
	"image/color"

	"github.com/user/epdimage/pkg/ports"
)

// RenderMode is the surface's pixel-write policy. The pipeline treats it
// as opaque.
type RenderMode int

const (
	// ModeNormal writes levels as given.
	ModeNormal RenderMode = iota
	// ModeInverted writes 3-level, for inverted (night) rendering.
	ModeInverted
)

// levelShade maps a 2-bit level to its 8-bit shade.
var levelShade = [4]uint8{0x00, 0x55, 0xAA, 0xFF}

// Surface is a width x height framebuffer of 2-bit levels.
type Surface struct {
	width  int
	height int
	mode   RenderMode
	levels []uint8
	writes int
}

// New creates a surface cleared to white (level 3).
func New(width, height int) *Surface {
	s := &Surface{
		width:  width,
		height: height,
		levels: make([]uint8, width*height),
	}
	for i := range s.levels {
		s.levels[i] = 3
	}
	return s
}

// SetMode selects the render mode applied to subsequent writes.
func (s *Surface) SetMode(mode RenderMode) {
	s.mode = mode
}

// Width returns the screen width.
func (s *Surface) Width() int { return s.width }

// Height returns the screen height.
func (s *Surface) Height() int { return s.height }

// DrawPixel writes a 2-bit level at (x, y) under the current render mode.
// Out-of-bounds writes are dropped.
func (s *Surface) DrawPixel(x, y int, level ports.GrayLevel) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	if s.mode == ModeInverted {
		level = 3 - level&3
	}
	s.levels[y*s.width+x] = level & 3
	s.writes++
}

// LevelAt returns the stored level at (x, y).
func (s *Surface) LevelAt(x, y int) ports.GrayLevel {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0
	}
	return s.levels[y*s.width+x]
}

// Writes returns the number of DrawPixel calls that landed in bounds.
func (s *Surface) Writes() int { return s.writes }

// ToImage renders the framebuffer as a grayscale image.
func (s *Surface) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			img.SetGray(x, y, color.Gray{Y: levelShade[s.levels[y*s.width+x]]})
		}
	}
	return img
}

var _ ports.RenderSurface = (*Surface)(nil)
