package render

import (
	"testing"

	"github.com/user/epdimage/pkg/adapters/epdsim"
	"github.com/user/epdimage/pkg/fixedpoint"
	"github.com/user/epdimage/pkg/ports"
)

// identityPlan builds a 1:1 plan for a w x h source.
func identityPlan(w, h int) ScalePlan {
	return ScalePlan{
		DstWidth: w, DstHeight: h,
		ScaleDenom:      1,
		ScaledSrcWidth:  w,
		ScaledSrcHeight: h,
		FineScale:       fixedpoint.One,
		InvScale:        fixedpoint.One,
		TargetScale:     fixedpoint.One,
	}
}

// gradientPlane fills a w x h plane with a deterministic sample pattern.
func gradientPlane(w, h, stride int) []byte {
	plane := make([]byte, h*stride)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			plane[y*stride+x] = byte((x*31 + y*17) % 256)
		}
	}
	return plane
}

// feedStrips emits the plane to the resampler as full-width strips, the
// way the decoder does.
func feedStrips(t *testing.T, rs *Resampler, plane []byte, stride, w, h, stripH int) {
	t.Helper()
	for y := 0; y < h; y += stripH {
		bh := stripH
		if h-y < bh {
			bh = h - y
		}
		b := ports.Block{
			Pixels:     plane[y*stride : (y+bh-1)*stride+w],
			Stride:     stride,
			ValidWidth: w,
			Height:     bh,
			X:          0,
			Y:          y,
		}
		if !rs.DrawBlock(&b) {
			t.Fatal("DrawBlock aborted")
		}
	}
}

func TestIdentityMatchesQuantizedSource(t *testing.T) {
	const w, h = 16, 12
	plane := gradientPlane(w, h, w)
	surface := epdsim.New(32, 32)
	plan := identityPlan(w, h)

	rs := NewResampler(surface, RenderConfig{X: 3, Y: 5}, plan, nil)
	feedStrips(t, rs, plane, w, w, h, 8)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := Quantize4(plane[y*w+x])
			got := surface.LevelAt(3+x, 5+y)
			if got != want {
				t.Errorf("(%d,%d): level %d, expected quantized source %d", x, y, got, want)
			}
		}
	}
}

func TestIdentityExactDimensionsTallerThanSource(t *testing.T) {
	// Exact dimensions with the fine scale computed from width alone: a
	// destination taller than the source keeps fine scale 1.0, and the
	// last strip's destination range runs to the bottom edge. Rows past
	// the source must replicate the edge row instead of reading past the
	// strip.
	const srcW, srcH = 16, 16
	cfg := RenderConfig{MaxWidth: srcW, MaxHeight: 2 * srcH, UseExactDimensions: true}
	plan, err := PlanScale(srcW, srcH, cfg, false, 0)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.FineScale != fixedpoint.One || plan.DstHeight != 2*srcH {
		t.Fatalf("plan fine=%d dst=%dx%d, expected identity fine and %dx%d",
			plan.FineScale, plan.DstWidth, plan.DstHeight, srcW, 2*srcH)
	}

	plane := gradientPlane(srcW, srcH, srcW)
	surface := epdsim.New(srcW, 2*srcH)
	rs := NewResampler(surface, cfg, plan, nil)
	feedStrips(t, rs, plane, srcW, srcW, srcH, 8)

	for y := 0; y < srcH; y++ {
		for x := 0; x < srcW; x++ {
			want := Quantize4(plane[y*srcW+x])
			if got := surface.LevelAt(x, y); got != want {
				t.Errorf("(%d,%d): level %d, expected quantized source %d", x, y, got, want)
			}
		}
	}
	for y := srcH; y < 2*srcH; y++ {
		for x := 0; x < srcW; x++ {
			want := Quantize4(plane[(srcH-1)*srcW+x])
			if got := surface.LevelAt(x, y); got != want {
				t.Errorf("(%d,%d): level %d, expected replicated edge row %d", x, y, got, want)
			}
		}
	}
}

func TestIdentityDitheredDeterministic(t *testing.T) {
	const w, h = 16, 16
	plane := gradientPlane(w, h, w)
	plan := identityPlan(w, h)
	cfg := RenderConfig{UseDithering: true}

	s1 := epdsim.New(w, h)
	feedStrips(t, NewResampler(s1, cfg, plan, nil), plane, w, w, h, 8)
	s2 := epdsim.New(w, h)
	feedStrips(t, NewResampler(s2, cfg, plan, nil), plane, w, w, h, 4)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if s1.LevelAt(x, y) != s2.LevelAt(x, y) {
				t.Fatalf("(%d,%d): %d vs %d across runs with different strip heights", x, y, s1.LevelAt(x, y), s2.LevelAt(x, y))
			}
			want := OrderedDither4(plane[y*w+x], x, y)
			if s1.LevelAt(x, y) != want {
				t.Errorf("(%d,%d): level %d, expected dithered source %d", x, y, s1.LevelAt(x, y), want)
			}
		}
	}
}

// refBilinear is a fully-clamped bilinear sample at one destination
// pixel, with no edge/interior split.
func refBilinear(plane []byte, stride, validW, blockH, blockX, blockY int, inv fixedpoint.Value, dstX, dstY int) uint8 {
	srcFy := inv.TimesInt(dstY)
	fy := srcFy.Frac()
	ly0 := srcFy.Floor() - blockY
	ly1 := ly0 + 1
	if ly0 < 0 {
		ly0 = 0
	}
	if ly0 >= blockH {
		ly0 = blockH - 1
	}
	if ly1 >= blockH {
		ly1 = blockH - 1
	}

	srcFx := inv.TimesInt(dstX)
	lx0 := srcFx.Floor() - blockX
	lx1 := lx0 + 1
	if lx0 < 0 {
		lx0 = 0
	}
	if lx1 < 0 {
		lx1 = 0
	}
	if lx0 >= validW {
		lx0 = validW - 1
	}
	if lx1 >= validW {
		lx1 = validW - 1
	}
	return bilerp(plane[ly0*stride:], plane[ly1*stride:], lx0, lx1, srcFx.Frac(), fy)
}

func TestBilinearInteriorMatchesClamped(t *testing.T) {
	// 2x upscale of a 16x16 source; the interior fast path must produce
	// exactly what a fully-clamped computation produces.
	const srcW, srcH = 16, 16
	const dstW, dstH = 32, 32
	plane := gradientPlane(srcW, srcH, srcW)
	plan := ScalePlan{
		DstWidth: dstW, DstHeight: dstH,
		ScaleDenom:      1,
		ScaledSrcWidth:  srcW,
		ScaledSrcHeight: srcH,
		FineScale:       2 * fixedpoint.One,
		InvScale:        fixedpoint.One / 2,
		TargetScale:     2 * fixedpoint.One,
	}

	surface := epdsim.New(dstW, dstH)
	rs := NewResampler(surface, RenderConfig{}, plan, nil)
	feedStrips(t, rs, plane, srcW, srcW, srcH, 8)

	// Reference pass over whole blocks, mirroring strip boundaries.
	for stripY := 0; stripY < srcH; stripY += 8 {
		dstYStart := plan.FineScale.MulInt(stripY)
		dstYEnd := dstH
		if stripY+8 < srcH {
			dstYEnd = plan.FineScale.MulInt(stripY + 8)
		}
		for dstY := dstYStart; dstY < dstYEnd; dstY++ {
			for dstX := 0; dstX < dstW; dstX++ {
				gray := refBilinear(plane[stripY*srcW:], srcW, srcW, 8, 0, stripY, plan.InvScale, dstX, dstY)
				want := Quantize4(gray)
				if got := surface.LevelAt(dstX, dstY); got != want {
					t.Errorf("(%d,%d): level %d, clamped reference %d", dstX, dstY, got, want)
				}
			}
		}
	}
}

func TestNearestDownscaleStaysInValidRange(t *testing.T) {
	// Half-scale downscale where the block's stride exceeds its valid
	// width. Padding samples would quantize to a different level, so any
	// out-of-range read shows up in the output.
	const stride, validW, blockH = 16, 10, 8
	const srcW, srcH = validW, blockH
	plane := make([]byte, blockH*stride)
	for y := 0; y < blockH; y++ {
		for x := 0; x < stride; x++ {
			if x < validW {
				plane[y*stride+x] = 100 // level 1
			} else {
				plane[y*stride+x] = 200 // level 2
			}
		}
	}

	plan := ScalePlan{
		DstWidth: 5, DstHeight: 4,
		ScaleDenom:      1,
		ScaledSrcWidth:  srcW,
		ScaledSrcHeight: srcH,
		FineScale:       fixedpoint.One / 2,
		InvScale:        2 * fixedpoint.One,
		TargetScale:     fixedpoint.One / 2,
	}
	surface := epdsim.New(16, 16)
	rs := NewResampler(surface, RenderConfig{}, plan, nil)

	b := ports.Block{
		Pixels:     plane,
		Stride:     stride,
		ValidWidth: validW,
		Height:     blockH,
	}
	rs.DrawBlock(&b)

	for y := 0; y < plan.DstHeight; y++ {
		for x := 0; x < plan.DstWidth; x++ {
			if got := surface.LevelAt(x, y); got != 1 {
				t.Errorf("(%d,%d): level %d, expected 1; a padding sample leaked in", x, y, got)
			}
		}
	}
}

func TestDrawBlockClipsToSurface(t *testing.T) {
	// Destination hangs off the right/bottom edge; only the on-screen
	// part may be written.
	const w, h = 8, 8
	plane := gradientPlane(w, h, w)
	surface := epdsim.New(10, 10)
	plan := identityPlan(w, h)

	rs := NewResampler(surface, RenderConfig{X: 6, Y: 7}, plan, nil)
	feedStrips(t, rs, plane, w, w, h, 8)

	if got, want := surface.Writes(), 4*3; got != want {
		t.Errorf("in-bounds writes: %d, expected %d", got, want)
	}
}

func TestDrawBlockNegativeOriginClips(t *testing.T) {
	const w, h = 8, 8
	plane := gradientPlane(w, h, w)
	surface := epdsim.New(10, 10)
	plan := identityPlan(w, h)

	rs := NewResampler(surface, RenderConfig{X: -3, Y: -2}, plan, nil)
	feedStrips(t, rs, plane, w, w, h, 8)

	if got, want := surface.Writes(), 5*6; got != want {
		t.Errorf("in-bounds writes: %d, expected %d", got, want)
	}
	// The top-left visible pixel is source sample (3,2).
	want := Quantize4(plane[2*w+3])
	if got := surface.LevelAt(0, 0); got != want {
		t.Errorf("(0,0): level %d, expected %d", got, want)
	}
}

func TestResamplerMirrorsIntoCache(t *testing.T) {
	const w, h = 12, 10
	plane := gradientPlane(w, h, w)
	surface := epdsim.New(32, 32)
	plan := identityPlan(w, h)

	cache := &PixelCache{}
	if !cache.Allocate(w, h, 4, 6) {
		t.Fatal("cache allocation failed")
	}
	rs := NewResampler(surface, RenderConfig{X: 4, Y: 6, UseDithering: true}, plan, cache)
	feedStrips(t, rs, plane, w, w, h, 8)

	if !cache.Dirty() {
		t.Fatal("cache not marked dirty after drawing")
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := 4+x, 6+y
			if cache.PixelAt(sx, sy) != surface.LevelAt(sx, sy) {
				t.Errorf("(%d,%d): cache %d, surface %d", sx, sy, cache.PixelAt(sx, sy), surface.LevelAt(sx, sy))
			}
		}
	}
}
