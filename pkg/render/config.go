// Package render implements the decode-and-render pipeline that turns a
// compressed image on external storage into dithered pixels on a 4-level
// grayscale e-paper surface: scale planning, block resampling, ordered
// dithering and optional render caching.
package render

// RenderConfig describes how to fit an image onto the surface. All fields
// except the destination origin are optional.
type RenderConfig struct {
	// X, Y is the destination origin on the surface.
	X, Y int

	// MaxWidth, MaxHeight bound the destination box. 0 = unconstrained.
	MaxWidth, MaxHeight int

	// UseExactDimensions forces the destination to exactly
	// (MaxWidth, MaxHeight) instead of fitting with aspect preserved.
	// The fine scale is computed from width alone, so any height
	// distortion is the caller's responsibility.
	UseExactDimensions bool

	// UseDithering selects ordered dithering instead of direct
	// quantization.
	UseDithering bool

	// CachePath, when non-empty, enables the render cache and names the
	// file it is persisted to after a successful decode.
	CachePath string
}

// ImageDimensions is the result of a dimensions-only probe.
type ImageDimensions struct {
	Width  int
	Height int
}
