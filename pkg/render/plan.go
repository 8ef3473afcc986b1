package render

import (
	"fmt"

	"github.com/user/epdimage/pkg/fixedpoint"
)

// ScalePlan is the two-stage scaling plan for one decode: the coarse
// power-of-two denominator the decoder applies natively, and the fine
// fixed-point factor the resampler applies on top of it.
type ScalePlan struct {
	// DstWidth, DstHeight are the final destination dimensions.
	DstWidth, DstHeight int

	// ScaleDenom is the decoder-native scale denominator: 1, 2, 4 or 8.
	ScaleDenom int

	// ScaledSrcWidth, ScaledSrcHeight are the source dimensions after
	// coarse scaling, ceil(src/ScaleDenom).
	ScaledSrcWidth, ScaledSrcHeight int

	// FineScale maps coarse-scaled source coordinates to destination
	// coordinates. One means the identity copy path.
	FineScale fixedpoint.Value

	// InvScale maps destination coordinates back to coarse-scaled source
	// coordinates.
	InvScale fixedpoint.Value

	// TargetScale is the overall dst/src ratio, kept for logging.
	TargetScale fixedpoint.Value
}

// chooseScaleDenom picks the decoder-native denominator so the fine scale
// the resampler must apply stays close to 1.
func chooseScaleDenom(targetScale fixedpoint.Value) int {
	switch {
	case targetScale <= fixedpoint.One/8:
		return 8
	case targetScale <= fixedpoint.One/4:
		return 4
	case targetScale <= fixedpoint.One/2:
		return 2
	default:
		return 1
	}
}

// PlanScale computes the scaling plan for a source of srcWidth x srcHeight
// under cfg. Progressive sources always decode at 1/8 resolution (the
// decoder produces DC coefficients only), so progressive forces the
// denominator to 8 regardless of the requested box.
//
// maxPixels, when positive, rejects sources above that pixel count before
// any decode resource is allocated.
func PlanScale(srcWidth, srcHeight int, cfg RenderConfig, progressive bool, maxPixels int) (ScalePlan, error) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return ScalePlan{}, fmt.Errorf("%w: source %dx%d", ErrInvalidDimensions, srcWidth, srcHeight)
	}
	if maxPixels > 0 && srcWidth*srcHeight > maxPixels {
		return ScalePlan{}, fmt.Errorf("%w: source %dx%d exceeds %d pixels", ErrInvalidDimensions, srcWidth, srcHeight, maxPixels)
	}

	var plan ScalePlan
	if cfg.UseExactDimensions && cfg.MaxWidth > 0 && cfg.MaxHeight > 0 {
		// Forced destination size. Aspect ratio is the caller's problem;
		// the resampler still needs one scalar factor, taken from width.
		plan.DstWidth = cfg.MaxWidth
		plan.DstHeight = cfg.MaxHeight
		plan.TargetScale = fixedpoint.FromRatio(plan.DstWidth, srcWidth)
	} else {
		scaleX := fixedpoint.One
		if cfg.MaxWidth > 0 && srcWidth > cfg.MaxWidth {
			scaleX = fixedpoint.FromRatio(cfg.MaxWidth, srcWidth)
		}
		scaleY := fixedpoint.One
		if cfg.MaxHeight > 0 && srcHeight > cfg.MaxHeight {
			scaleY = fixedpoint.FromRatio(cfg.MaxHeight, srcHeight)
		}
		target := scaleX
		if scaleY < target {
			target = scaleY
		}
		// Fit mode never upscales.
		if target > fixedpoint.One {
			target = fixedpoint.One
		}
		plan.TargetScale = target
		plan.DstWidth = target.MulInt(srcWidth)
		plan.DstHeight = target.MulInt(srcHeight)
	}

	if plan.DstWidth <= 0 || plan.DstHeight <= 0 {
		return ScalePlan{}, fmt.Errorf("%w: destination %dx%d", ErrInvalidDimensions, plan.DstWidth, plan.DstHeight)
	}

	if progressive {
		plan.ScaleDenom = 8
	} else {
		plan.ScaleDenom = chooseScaleDenom(plan.TargetScale)
	}

	plan.ScaledSrcWidth = (srcWidth + plan.ScaleDenom - 1) / plan.ScaleDenom
	plan.ScaledSrcHeight = (srcHeight + plan.ScaleDenom - 1) / plan.ScaleDenom
	plan.FineScale = fixedpoint.FromRatio(plan.DstWidth, plan.ScaledSrcWidth)
	plan.InvScale = fixedpoint.FromRatio(plan.ScaledSrcWidth, plan.DstWidth)

	return plan, nil
}
