package jpegdec

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/epdimage/pkg/adapters/osstorage"
	"github.com/user/epdimage/pkg/ports"
)

// writeTestJPEG encodes a uniform mid-gray image to a temp file and
// returns its path.
func writeTestJPEG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	path := filepath.Join(t.TempDir(), "gray.jpg")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write test jpeg: %v", err)
	}
	return path
}

func TestDecoderOpenReportsDimensions(t *testing.T) {
	path := writeTestJPEG(t, 96, 64)
	dec := New(osstorage.New(""))
	defer dec.Close()

	if err := dec.Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	if dec.Width() != 96 || dec.Height() != 64 {
		t.Errorf("dimensions %dx%d, expected 96x64", dec.Width(), dec.Height())
	}
	if dec.IsProgressive() {
		t.Error("baseline encoder output reported progressive")
	}
}

func TestDecoderOpenMissingFile(t *testing.T) {
	dec := New(osstorage.New(""))
	defer dec.Close()
	if err := dec.Open(filepath.Join(t.TempDir(), "absent.jpg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecoderEmitsOrderedStrips(t *testing.T) {
	path := writeTestJPEG(t, 96, 60)
	dec := New(osstorage.New(""))
	defer dec.Close()
	if err := dec.Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}

	nextY := 0
	rows := 0
	err := dec.Decode(1, func(b *ports.Block) bool {
		if b.Y != nextY {
			t.Errorf("block at y=%d, expected %d (row-major, no overlap)", b.Y, nextY)
		}
		if b.X != 0 || b.ValidWidth != 96 {
			t.Errorf("block x=%d width=%d, expected full-width strip", b.X, b.ValidWidth)
		}
		if b.Height <= 0 || len(b.Pixels) < (b.Height-1)*b.Stride+b.ValidWidth {
			t.Errorf("block storage too small for %d rows", b.Height)
		}
		// Uniform mid-gray source decodes to samples near 128.
		s := b.Pixels[0]
		if s < 120 || s > 136 {
			t.Errorf("sample %d, expected near 128", s)
		}
		nextY += b.Height
		rows += b.Height
		return true
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rows != 60 {
		t.Errorf("blocks covered %d rows, expected 60", rows)
	}
}

func TestDecoderCoarseScaleHalvesOutput(t *testing.T) {
	path := writeTestJPEG(t, 96, 64)
	dec := New(osstorage.New(""))
	defer dec.Close()
	if err := dec.Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}

	maxX, rows := 0, 0
	err := dec.Decode(2, func(b *ports.Block) bool {
		if b.X+b.ValidWidth > maxX {
			maxX = b.X + b.ValidWidth
		}
		rows += b.Height
		return true
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if maxX != 48 {
		t.Errorf("coarse-scaled width %d, expected 48", maxX)
	}
	if rows != 32 {
		t.Errorf("coarse-scaled height %d, expected 32", rows)
	}
}

func TestDecoderRejectsBadScale(t *testing.T) {
	path := writeTestJPEG(t, 16, 16)
	dec := New(osstorage.New(""))
	defer dec.Close()
	if err := dec.Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, denom := range []int{0, 3, 5, 16, -1} {
		if err := dec.Decode(denom, func(*ports.Block) bool { return true }); err == nil {
			t.Errorf("denominator %d accepted, expected error", denom)
		}
	}
}

func TestDecoderDrawAbortStopsEmission(t *testing.T) {
	path := writeTestJPEG(t, 32, 64)
	dec := New(osstorage.New(""))
	defer dec.Close()
	if err := dec.Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}

	calls := 0
	err := dec.Decode(1, func(*ports.Block) bool {
		calls++
		return false
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if calls != 1 {
		t.Errorf("draw called %d times after abort, expected 1", calls)
	}
}

func TestGrayPlaneVariants(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range gray.Pix {
		gray.Pix[i] = byte(i)
	}
	plane, stride, w, h := grayPlane(gray)
	if w != 4 || h != 3 || stride != gray.Stride || &plane[0] != &gray.Pix[0] {
		t.Error("gray plane should alias the image buffer")
	}

	ycc := image.NewYCbCr(image.Rect(0, 0, 4, 2), image.YCbCrSubsampleRatio420)
	for i := range ycc.Y {
		ycc.Y[i] = 77
	}
	plane, stride, w, h = grayPlane(ycc)
	if w != 4 || h != 2 || stride != ycc.YStride || plane[0] != 77 {
		t.Error("ycbcr plane should alias the luma plane")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rgba.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	plane, _, w, h = grayPlane(rgba)
	if w != 2 || h != 2 {
		t.Errorf("rgba fallback dimensions %dx%d, expected 2x2", w, h)
	}
	if plane[0] < 250 {
		t.Errorf("white pixel converted to %d, expected near 255", plane[0])
	}
}
