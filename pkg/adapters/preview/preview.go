// Package preview renders a simulated surface into an annotated PNG so a
// decode result can be inspected on the host: the framebuffer, optionally
// zoomed, above a caption bar naming the source and timing.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/epdimage/pkg/ports"
)

// captionHeight is the height of the caption bar in pixels.
const captionHeight = 24

// Writer produces annotated snapshots.
type Writer struct {
	fs ports.FileSystem

	// Zoom is an integer magnification factor; values below 1 mean 1.
	Zoom int
}

// New creates a Writer persisting through fs.
func New(fs ports.FileSystem) *Writer {
	return &Writer{fs: fs, Zoom: 1}
}

// Save writes img with caption text to a PNG at path.
func (w *Writer) Save(path string, img image.Image, caption string) error {
	zoom := w.Zoom
	if zoom < 1 {
		zoom = 1
	}

	b := img.Bounds()
	fw, fh := b.Dx()*zoom, b.Dy()*zoom
	if zoom > 1 {
		// Nearest neighbor keeps the dither pattern legible.
		zoomed := image.NewGray(image.Rect(0, 0, fw, fh))
		draw.NearestNeighbor.Scale(zoomed, zoomed.Bounds(), img, b, draw.Src, nil)
		img = zoomed
	}

	dc := gg.NewContext(fw, fh+captionHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(img, 0, 0)

	dc.SetRGB(0.12, 0.12, 0.12)
	dc.DrawRectangle(0, float64(fh), float64(fw), captionHeight)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(caption, 6, float64(fh)+captionHeight/2, 0, 0.35)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return w.fs.WriteFile(path, buf.Bytes())
}
