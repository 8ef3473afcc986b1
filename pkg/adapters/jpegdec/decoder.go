// Package jpegdec implements ports.BlockDecoder for JPEG sources using
// the jpegn decoder, bridged to the host storage abstraction.
//
// This is a host-side adapter: it buffers the compressed stream and the
// full decoded plane, then emits strips from it. The device's streaming
// decoder holds only a strip-sized scratch buffer; that budget is a
// property of the BlockDecoder implementation behind the port, not of
// the pipeline, which sees transient blocks either way.
package jpegdec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/gen2brain/jpegn"

	"github.com/user/epdimage/pkg/ports"
)

// stripRows is the height of the strips handed to the draw callback, the
// MCU row height of a non-subsampled grayscale scan.
const stripRows = 8

// ErrBadScale is returned for a scale denominator outside {1, 2, 4, 8}.
var ErrBadScale = errors.New("jpegdec: scale denominator must be 1, 2, 4 or 8")

// Decoder decodes one JPEG from storage and emits grayscale blocks. One
// Decoder serves one image: Open, then Decode, then Close.
type Decoder struct {
	storage ports.Storage

	f           ports.File
	data        []byte
	width       int
	height      int
	progressive bool
}

// New creates a Decoder reading through the given storage.
func New(storage ports.Storage) *Decoder {
	return &Decoder{storage: storage}
}

// NewFactory returns a factory producing fresh Decoders over storage, one
// per decode call.
func NewFactory(storage ports.Storage) func() ports.BlockDecoder {
	return func() ports.BlockDecoder { return New(storage) }
}

// Open opens the file, reads the compressed stream and parses the header.
func (d *Decoder) Open(path string) error {
	f, err := d.storage.OpenForRead(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	d.f = f

	s := newStream(f)
	data := make([]byte, 0, s.Remaining())
	buf := bytes.NewBuffer(data)
	if _, err := io.Copy(buf, s); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	d.data = buf.Bytes()

	cfg, err := jpegn.DecodeConfig(bytes.NewReader(d.data))
	if err != nil {
		return fmt.Errorf("parse header %s: %w", path, err)
	}
	d.width = cfg.Width
	d.height = cfg.Height
	d.progressive = sniffProgressive(d.data)
	return nil
}

// Width returns the full-resolution source width.
func (d *Decoder) Width() int { return d.width }

// Height returns the full-resolution source height.
func (d *Decoder) Height() int { return d.height }

// IsProgressive reports whether the source uses progressive encoding.
func (d *Decoder) IsProgressive() bool { return d.progressive }

// Decode decodes at the given coarse scale denominator and hands the
// grayscale plane to draw as full-width strips, top to bottom, exactly
// once each. Block storage is a view into the decoded plane and is only
// valid during the callback.
func (d *Decoder) Decode(scaleDenom int, draw ports.DrawFunc) error {
	if d.data == nil {
		return errors.New("jpegdec: decode before open")
	}
	switch scaleDenom {
	case 1, 2, 4, 8:
	default:
		return ErrBadScale
	}

	img, err := jpegn.Decode(bytes.NewReader(d.data), &jpegn.Options{ScaleDenom: scaleDenom})
	if err != nil {
		return fmt.Errorf("jpegn: %w", err)
	}

	plane, stride, w, h := grayPlane(img)
	for y := 0; y < h; y += stripRows {
		bh := stripRows
		if h-y < bh {
			bh = h - y
		}
		block := ports.Block{
			Pixels:     plane[y*stride : (y+bh-1)*stride+w],
			Stride:     stride,
			ValidWidth: w,
			Height:     bh,
			X:          0,
			Y:          y,
		}
		if !draw(&block) {
			break
		}
	}
	return nil
}

// Close releases the storage handle. Safe to call after a failed Open and
// idempotent.
func (d *Decoder) Close() {
	if d.f != nil {
		d.f.Close()
		d.f = nil
	}
	d.data = nil
}

// grayPlane extracts an 8-bit grayscale plane from the decoded image. For
// YCbCr the luma plane is used as-is; anything else goes through a
// per-pixel luminance conversion.
func grayPlane(img image.Image) (plane []byte, stride, w, h int) {
	switch src := img.(type) {
	case *image.Gray:
		b := src.Bounds()
		return src.Pix, src.Stride, b.Dx(), b.Dy()
	case *image.YCbCr:
		b := src.Bounds()
		return src.Y, src.YStride, b.Dx(), b.Dy()
	default:
		b := img.Bounds()
		w, h = b.Dx(), b.Dy()
		gray := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				gray.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
		return gray.Pix, gray.Stride, w, h
	}
}

var _ ports.BlockDecoder = (*Decoder)(nil)
