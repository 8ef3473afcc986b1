package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/epdimage/pkg/ports"
)

const (
	// DecoderWorkingSetBytes approximates the decoder's internal buffers.
	DecoderWorkingSetBytes = 20 * 1024
	// MinFreeBytesDefault is the free-heap floor required before a decode
	// is attempted: the decoder working set plus a safety margin.
	MinFreeBytesDefault = DecoderWorkingSetBytes + 16*1024
	// MaxPixelsDefault rejects sources beyond this pixel count.
	MaxPixelsDefault = 4096 * 4096
)

// Options bound what the converter is willing to decode.
type Options struct {
	// MinFreeBytes is the free-heap floor checked before any resource is
	// allocated.
	MinFreeBytes int
	// MaxPixels is the largest source pixel count accepted.
	MaxPixels int
}

// DefaultOptions returns the converter's default resource bounds.
func DefaultOptions() Options {
	return Options{
		MinFreeBytes: MinFreeBytesDefault,
		MaxPixels:    MaxPixelsDefault,
	}
}

// DecoderFactory produces a fresh decoder. The converter allocates one
// decoder per call and closes it on every exit path; no decode resource
// outlives the call.
type DecoderFactory func() ports.BlockDecoder

// Converter runs the decode-to-surface pipeline. It is synchronous and
// takes no locks: the caller owns the destination surface and the cache
// target for the duration of each call and must serialize calls that
// would share either.
type Converter struct {
	decoders DecoderFactory
	fs       ports.FileSystem
	mem      ports.MemoryProber
	log      ports.Logger
	opts     Options
}

// New creates a Converter.
func New(decoders DecoderFactory, fs ports.FileSystem, mem ports.MemoryProber, log ports.Logger, opts Options) *Converter {
	if opts.MinFreeBytes <= 0 {
		opts.MinFreeBytes = MinFreeBytesDefault
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = MaxPixelsDefault
	}
	return &Converter{
		decoders: decoders,
		fs:       fs,
		mem:      mem,
		log:      log.WithComponent("render"),
		opts:     opts,
	}
}

// SupportsFormat reports whether the file extension names a supported
// source format.
func SupportsFormat(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// checkMemory fails a call before any stream or decoder exists.
func (c *Converter) checkMemory() error {
	free := c.mem.FreeBytes()
	if free < c.opts.MinFreeBytes {
		c.log.Error("not enough heap for decoder (%d free, need %d)", free, c.opts.MinFreeBytes)
		return fmt.Errorf("%w: %d free, need %d", ErrInsufficientMemory, free, c.opts.MinFreeBytes)
	}
	return nil
}

// ProbeDimensions opens the image, reads its header dimensions and closes
// it again without decoding any pixel data.
func (c *Converter) ProbeDimensions(path string) (ImageDimensions, error) {
	c.log.Debug("probing %s", path)

	if err := c.checkMemory(); err != nil {
		return ImageDimensions{}, err
	}

	dec := c.decoders()
	defer dec.Close()

	if err := dec.Open(path); err != nil {
		c.log.Error("failed to open image for dimensions: %s (%v)", path, err)
		return ImageDimensions{}, fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
	}

	dims := ImageDimensions{Width: dec.Width(), Height: dec.Height()}
	c.log.Debug("image dimensions: %dx%d", dims.Width, dims.Height)
	return dims, nil
}

// Render decodes the image at path onto the surface according to cfg.
//
// On failure, pixels already drawn remain on the surface (the panel has
// no cheap region erase) and no cache file is written.
func (c *Converter) Render(path string, surface ports.RenderSurface, cfg RenderConfig) error {
	c.log.Debug("decoding image: %s", path)

	if err := c.checkMemory(); err != nil {
		return err
	}

	dec := c.decoders()
	defer dec.Close()

	if err := dec.Open(path); err != nil {
		c.log.Error("failed to open image: %s (%v)", path, err)
		return fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
	}

	srcWidth, srcHeight := dec.Width(), dec.Height()
	progressive := dec.IsProgressive()
	if progressive {
		c.log.Info("progressive source detected, decoding DC coefficients only (lower quality)")
	}

	plan, err := PlanScale(srcWidth, srcHeight, cfg, progressive, c.opts.MaxPixels)
	if err != nil {
		c.log.Error("unusable source %s: %dx%d (%v)", path, srcWidth, srcHeight, err)
		return err
	}

	c.log.Debug("scale plan: %dx%d -> %dx%d (coarse 1/%d, fine %d/65536)",
		srcWidth, srcHeight, plan.DstWidth, plan.DstHeight, plan.ScaleDenom, plan.FineScale)

	// Cache allocation failure is non-fatal: the decode proceeds
	// uncached.
	var cache *PixelCache
	if cfg.CachePath != "" {
		cache = &PixelCache{}
		if !cache.Allocate(plan.DstWidth, plan.DstHeight, cfg.X, cfg.Y) {
			c.log.Warn("failed to allocate cache buffer, continuing without caching")
			cache = nil
		}
	}

	rs := NewResampler(surface, cfg, plan, cache)

	start := time.Now()
	if err := dec.Decode(plan.ScaleDenom, rs.DrawBlock); err != nil {
		c.log.Error("decode failed: %s (%v)", path, err)
		return fmt.Errorf("%w: %s: %v", ErrDecodeFailed, path, err)
	}
	c.log.Debug("decode complete, render time: %s", time.Since(start).Round(time.Millisecond))

	if cache != nil && cache.Dirty() {
		if err := cache.WriteTo(c.fs, cfg.CachePath); err != nil {
			c.log.Warn("failed to write cache file %s: %v", cfg.CachePath, err)
		}
	}

	return nil
}
