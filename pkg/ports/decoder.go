package ports

// Block is a decoder-emitted rectangular strip of 8-bit grayscale samples.
// The backing slice is owned by the decoder and reused between callbacks;
// it is valid only for the duration of one DrawFunc invocation and must not
// be retained past it.
type Block struct {
	// Pixels holds Height rows of Stride samples each. Only the first
	// ValidWidth samples of each row carry image data.
	Pixels []byte

	// Stride is the number of samples from one row to the next.
	Stride int

	// ValidWidth is the number of valid samples per row (<= Stride).
	ValidWidth int

	// Height is the number of rows in the strip.
	Height int

	// X, Y are the strip's origin in coarse-scaled source coordinates.
	X, Y int
}

// DrawFunc consumes one decoded block. Returning false aborts the decode.
type DrawFunc func(b *Block) bool

// BlockDecoder abstracts the third-party image decoder. Blocks are emitted
// in row-major top-to-bottom, left-to-right order, exactly once each.
type BlockDecoder interface {
	// Open parses the image header. Width, Height and IsProgressive are
	// valid after a successful Open.
	Open(path string) error

	// Width returns the full-resolution source width.
	Width() int

	// Height returns the full-resolution source height.
	Height() int

	// IsProgressive reports whether the source uses progressive encoding.
	IsProgressive() bool

	// Decode runs the decode to completion at the given coarse scale
	// denominator (1, 2, 4 or 8), invoking draw once per block.
	Decode(scaleDenom int, draw DrawFunc) error

	// Close releases the stream and any decoder state. Safe to call after
	// a failed Open.
	Close()
}
