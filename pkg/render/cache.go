package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/user/epdimage/pkg/ports"
)

// cacheMagic identifies a render-cache file.
const cacheMagic = "EPC1"

// maxCachePixels caps cache allocations; anything larger than this is not
// a plausible panel region.
const maxCachePixels = 2048 * 2048

// PixelCache mirrors the 2-bit levels drawn for one destination region so
// the region can be redrawn later without decoding again. Pixels are
// packed four per byte.
type PixelCache struct {
	width   int
	height  int
	originX int
	originY int
	pixels  []byte
	dirty   bool
}

// Allocate sizes the cache for a width x height region whose top-left is
// at (originX, originY) in screen coordinates. Returns false when the
// region is degenerate or too large; the caller then proceeds uncached.
func (c *PixelCache) Allocate(width, height, originX, originY int) bool {
	if width <= 0 || height <= 0 || width*height > maxCachePixels {
		return false
	}
	c.width = width
	c.height = height
	c.originX = originX
	c.originY = originY
	c.pixels = make([]byte, (width*height+3)/4)
	c.dirty = false
	return true
}

// Allocated reports whether Allocate has succeeded.
func (c *PixelCache) Allocated() bool {
	return c.pixels != nil
}

// Width returns the cached region width.
func (c *PixelCache) Width() int { return c.width }

// Height returns the cached region height.
func (c *PixelCache) Height() int { return c.height }

// Origin returns the screen coordinates of the cached region's top-left.
func (c *PixelCache) Origin() (int, int) { return c.originX, c.originY }

// SetPixel records a 2-bit level at screen coordinates (x, y). Writes
// outside the cached region are ignored.
func (c *PixelCache) SetPixel(x, y int, level ports.GrayLevel) {
	lx := x - c.originX
	ly := y - c.originY
	if lx < 0 || lx >= c.width || ly < 0 || ly >= c.height {
		return
	}
	idx := ly*c.width + lx
	shift := uint(idx&3) * 2
	c.pixels[idx>>2] = c.pixels[idx>>2]&^(3<<shift) | (byte(level)&3)<<shift
	c.dirty = true
}

// PixelAt returns the recorded level at screen coordinates (x, y).
func (c *PixelCache) PixelAt(x, y int) ports.GrayLevel {
	lx := x - c.originX
	ly := y - c.originY
	if lx < 0 || lx >= c.width || ly < 0 || ly >= c.height {
		return 0
	}
	idx := ly*c.width + lx
	return ports.GrayLevel(c.pixels[idx>>2] >> (uint(idx&3) * 2) & 3)
}

// Dirty reports whether any pixel has been recorded since Allocate.
func (c *PixelCache) Dirty() bool {
	return c.dirty
}

// Replay writes every cached pixel back to the surface, clipped against
// the physical bounds.
func (c *PixelCache) Replay(surface ports.RenderSurface) {
	sw, sh := surface.Width(), surface.Height()
	for ly := 0; ly < c.height; ly++ {
		y := c.originY + ly
		if y < 0 || y >= sh {
			continue
		}
		for lx := 0; lx < c.width; lx++ {
			x := c.originX + lx
			if x < 0 || x >= sw {
				continue
			}
			idx := ly*c.width + lx
			surface.DrawPixel(x, y, ports.GrayLevel(c.pixels[idx>>2]>>(uint(idx&3)*2)&3))
		}
	}
}

// WriteTo persists the cache as a zstd-compressed container:
// magic, width, height, origin, raw payload length, zstd frame.
func (c *PixelCache) WriteTo(fs ports.FileSystem, path string) error {
	if !c.Allocated() {
		return fmt.Errorf("pixel cache not allocated")
	}

	var buf bytes.Buffer
	buf.WriteString(cacheMagic)
	binary.Write(&buf, binary.BigEndian, uint16(c.width))
	binary.Write(&buf, binary.BigEndian, uint16(c.height))
	binary.Write(&buf, binary.BigEndian, int32(c.originX))
	binary.Write(&buf, binary.BigEndian, int32(c.originY))
	binary.Write(&buf, binary.BigEndian, uint32(len(c.pixels)))

	enc, err := zstd.NewWriter(&buf,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := enc.Write(c.pixels); err != nil {
		enc.Close()
		return fmt.Errorf("compress cache: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("compress cache: %w", err)
	}

	return fs.WriteFile(path, buf.Bytes())
}

// LoadPixelCache reads a cache file written by WriteTo, so a previously
// rendered region can be replayed without decoding the source again.
func LoadPixelCache(fs ports.FileSystem, path string) (*PixelCache, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}
	if len(data) < len(cacheMagic)+12 || string(data[:len(cacheMagic)]) != cacheMagic {
		return nil, fmt.Errorf("cache %s: bad header", path)
	}

	r := bytes.NewReader(data[len(cacheMagic):])
	var width, height uint16
	var originX, originY int32
	var rawLen uint32
	binary.Read(r, binary.BigEndian, &width)
	binary.Read(r, binary.BigEndian, &height)
	binary.Read(r, binary.BigEndian, &originX)
	binary.Read(r, binary.BigEndian, &originY)
	binary.Read(r, binary.BigEndian, &rawLen)

	c := &PixelCache{}
	if !c.Allocate(int(width), int(height), int(originX), int(originY)) {
		return nil, fmt.Errorf("cache %s: bad dimensions %dx%d", path, width, height)
	}
	if int(rawLen) != len(c.pixels) {
		return nil, fmt.Errorf("cache %s: payload length %d, expected %d", path, rawLen, len(c.pixels))
	}

	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	if _, err := io.ReadFull(dec, c.pixels); err != nil {
		return nil, fmt.Errorf("decompress cache %s: %w", path, err)
	}
	c.dirty = true
	return c, nil
}
