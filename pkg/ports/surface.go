package ports

// GrayLevel is a 2-bit output value for the 4-level grayscale panel.
// 0 is black, 3 is white.
type GrayLevel = uint8

// RenderSurface abstracts the e-paper framebuffer the pipeline draws into.
// The surface applies its own render-mode policy (inversion, partial-update
// tracking) inside DrawPixel; the pipeline treats that policy as opaque.
type RenderSurface interface {
	// Width returns the physical screen width in pixels.
	Width() int

	// Height returns the physical screen height in pixels.
	Height() int

	// DrawPixel writes a 2-bit gray level at screen coordinates (x, y).
	// The pipeline clips to the physical bounds before drawing, so
	// implementations may treat coordinates as in-bounds.
	DrawPixel(x, y int, level GrayLevel)
}
