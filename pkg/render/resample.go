package render

import (
	"github.com/user/epdimage/pkg/fixedpoint"
	"github.com/user/epdimage/pkg/ports"
)

// Resampler consumes decoded blocks and produces dithered destination
// pixels. The resampling policy is selected from the plan's fine scale:
// identity copy at exactly 1.0, bilinear interpolation above, nearest
// neighbor below. One Resampler serves exactly one decode.
type Resampler struct {
	surface ports.RenderSurface
	cache   *PixelCache // nil when caching is off
	plan    ScalePlan

	originX, originY int
	dither           bool
	screenW, screenH int
}

// NewResampler prepares a resampler for one decode with the given plan.
// cache may be nil.
func NewResampler(surface ports.RenderSurface, cfg RenderConfig, plan ScalePlan, cache *PixelCache) *Resampler {
	return &Resampler{
		surface: surface,
		cache:   cache,
		plan:    plan,
		originX: cfg.X,
		originY: cfg.Y,
		dither:  cfg.UseDithering,
		screenW: surface.Width(),
		screenH: surface.Height(),
	}
}

// emit pushes one grayscale sample through the ditherer, the surface and
// the cache.
func (r *Resampler) emit(outX, outY int, gray uint8) {
	var level ports.GrayLevel
	if r.dither {
		level = OrderedDither4(gray, outX, outY)
	} else {
		level = Quantize4(gray)
	}
	r.surface.DrawPixel(outX, outY, level)
	if r.cache != nil {
		r.cache.SetPixel(outX, outY, level)
	}
}

// DrawBlock resamples one decoded block into the destination. It is the
// per-block decode callback; the block is only valid for this call.
// Returning false would abort the decode, but resampling itself cannot
// fail, so it always returns true.
func (r *Resampler) DrawBlock(b *ports.Block) bool {
	if b.Stride <= 0 || b.Height <= 0 || b.ValidWidth <= 0 {
		return true
	}

	fine := r.plan.FineScale
	blockX, blockY := b.X, b.Y
	validW, blockH := b.ValidWidth, b.Height
	srcXEnd := blockX + validW
	srcYEnd := blockY + blockH

	// Destination pixel range covered by this source block. The last
	// block in each direction extends to the destination edge so that
	// ceil-rounded source ranges cannot leave a seam.
	dstYStart := fine.MulInt(blockY)
	dstYEnd := r.plan.DstHeight
	if srcYEnd < r.plan.ScaledSrcHeight {
		dstYEnd = fine.MulInt(srcYEnd)
	}
	dstXStart := fine.MulInt(blockX)
	dstXEnd := r.plan.DstWidth
	if srcXEnd < r.plan.ScaledSrcWidth {
		dstXEnd = fine.MulInt(srcXEnd)
	}

	// Clip once per block against the logical destination bounds and the
	// origin-adjusted physical screen bounds.
	clampYMax := r.plan.DstHeight
	if r.screenH-r.originY < clampYMax {
		clampYMax = r.screenH - r.originY
	}
	if dstYStart < -r.originY {
		dstYStart = -r.originY
	}
	if dstYEnd > clampYMax {
		dstYEnd = clampYMax
	}

	clampXMax := r.plan.DstWidth
	if r.screenW-r.originX < clampXMax {
		clampXMax = r.screenW - r.originX
	}
	if dstXStart < -r.originX {
		dstXStart = -r.originX
	}
	if dstXEnd > clampXMax {
		dstXEnd = clampXMax
	}

	if dstYStart >= dstYEnd || dstXStart >= dstXEnd {
		return true
	}

	switch {
	case fine == fixedpoint.One:
		r.drawIdentity(b, dstXStart, dstXEnd, dstYStart, dstYEnd)
	case fine > fixedpoint.One:
		r.drawBilinear(b, dstXStart, dstXEnd, dstYStart, dstYEnd)
	default:
		r.drawNearest(b, dstXStart, dstXEnd, dstYStart, dstYEnd)
	}
	return true
}

// drawIdentity copies samples 1:1, no scaling math in the inner loop.
// Exact-dimensions plans can stretch the destination past the
// coarse-scaled source even at fine scale 1.0, and the last block's
// destination range extends to the destination edge, so indices still
// clamp to the block extents. The clamped rows replicate the edge
// sample.
func (r *Resampler) drawIdentity(b *ports.Block, dstXStart, dstXEnd, dstYStart, dstYEnd int) {
	for dstY := dstYStart; dstY < dstYEnd; dstY++ {
		outY := r.originY + dstY
		ly := dstY - b.Y
		if ly < 0 {
			ly = 0
		}
		if ly >= b.Height {
			ly = b.Height - 1
		}
		row := b.Pixels[ly*b.Stride:]
		for dstX := dstXStart; dstX < dstXEnd; dstX++ {
			lx := dstX - b.X
			if lx < 0 {
				lx = 0
			}
			if lx >= b.ValidWidth {
				lx = b.ValidWidth - 1
			}
			r.emit(r.originX+dstX, outY, row[lx])
		}
	}
}

// bilerp interpolates between the four neighbors (lx0, lx1) on row0/row1
// with fractional weights fx and fy.
func bilerp(row0, row1 []byte, lx0, lx1 int, fx, fy fixedpoint.Value) uint8 {
	fxInv := fixedpoint.One - fx
	fyInv := fixedpoint.One - fy
	top := (int(row0[lx0])*int(fxInv) + int(row0[lx1])*int(fx)) >> fixedpoint.Shift
	bot := (int(row1[lx0])*int(fxInv) + int(row1[lx1])*int(fx)) >> fixedpoint.Shift
	return uint8((top*int(fyInv) + bot*int(fy)) >> fixedpoint.Shift)
}

// drawBilinear upscales with 4-neighbor interpolation. Bilinear smoothing
// matters most for progressive sources, where the DC-only 1/8 decode
// would otherwise show hard block edges.
//
// The horizontal range is split into a left edge, an interior and a right
// edge. Only the edges clamp neighbor indices against the block's valid
// width; in the interior both lx0 and lx0+1 are in bounds by
// construction, so the checks are skipped. Output is identical to a
// fully-clamped run.
func (r *Resampler) drawBilinear(b *ports.Block, dstXStart, dstXEnd, dstYStart, dstYEnd int) {
	fine := r.plan.FineScale
	inv := r.plan.InvScale

	// Destination range where lx0 and lx0+1 both fall inside the block.
	safeXStart := fine.MulIntCeil(b.X)
	safeXEnd := fine.MulInt(b.X + b.ValidWidth - 1)
	if safeXStart < dstXStart {
		safeXStart = dstXStart
	}
	if safeXEnd > dstXEnd {
		safeXEnd = dstXEnd
	}
	if safeXStart > safeXEnd {
		safeXEnd = safeXStart
	}

	for dstY := dstYStart; dstY < dstYEnd; dstY++ {
		outY := r.originY + dstY
		srcFy := inv.TimesInt(dstY)
		fy := srcFy.Frac()
		ly0 := srcFy.Floor() - b.Y
		ly1 := ly0 + 1
		if ly0 < 0 {
			ly0 = 0
		}
		if ly0 >= b.Height {
			ly0 = b.Height - 1
		}
		if ly1 >= b.Height {
			ly1 = b.Height - 1
		}
		row0 := b.Pixels[ly0*b.Stride:]
		row1 := b.Pixels[ly1*b.Stride:]

		// Left edge, neighbor indices clamped.
		for dstX := dstXStart; dstX < safeXStart; dstX++ {
			srcFx := inv.TimesInt(dstX)
			lx0 := srcFx.Floor() - b.X
			lx1 := lx0 + 1
			if lx0 < 0 {
				lx0 = 0
			}
			if lx1 < 0 {
				lx1 = 0
			}
			if lx0 >= b.ValidWidth {
				lx0 = b.ValidWidth - 1
			}
			if lx1 >= b.ValidWidth {
				lx1 = b.ValidWidth - 1
			}
			r.emit(r.originX+dstX, outY, bilerp(row0, row1, lx0, lx1, srcFx.Frac(), fy))
		}

		// Interior, no neighbor clamping.
		for dstX := safeXStart; dstX < safeXEnd; dstX++ {
			srcFx := inv.TimesInt(dstX)
			lx0 := srcFx.Floor() - b.X
			r.emit(r.originX+dstX, outY, bilerp(row0, row1, lx0, lx0+1, srcFx.Frac(), fy))
		}

		// Right edge, neighbor indices clamped.
		for dstX := safeXEnd; dstX < dstXEnd; dstX++ {
			srcFx := inv.TimesInt(dstX)
			lx0 := srcFx.Floor() - b.X
			lx1 := lx0 + 1
			if lx0 >= b.ValidWidth {
				lx0 = b.ValidWidth - 1
			}
			if lx1 >= b.ValidWidth {
				lx1 = b.ValidWidth - 1
			}
			r.emit(r.originX+dstX, outY, bilerp(row0, row1, lx0, lx1, srcFx.Frac(), fy))
		}
	}
}

// drawNearest downscales by mapping each destination pixel to exactly one
// source sample through the inverse scale, indices clamped to the block.
func (r *Resampler) drawNearest(b *ports.Block, dstXStart, dstXEnd, dstYStart, dstYEnd int) {
	inv := r.plan.InvScale
	for dstY := dstYStart; dstY < dstYEnd; dstY++ {
		outY := r.originY + dstY
		ly := inv.TimesInt(dstY).Floor() - b.Y
		if ly < 0 {
			ly = 0
		}
		if ly >= b.Height {
			ly = b.Height - 1
		}
		row := b.Pixels[ly*b.Stride:]

		for dstX := dstXStart; dstX < dstXEnd; dstX++ {
			lx := inv.TimesInt(dstX).Floor() - b.X
			if lx < 0 {
				lx = 0
			}
			if lx >= b.ValidWidth {
				lx = b.ValidWidth - 1
			}
			r.emit(r.originX+dstX, outY, row[lx])
		}
	}
}
