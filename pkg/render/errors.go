package render

import "errors"

var (
	// ErrInsufficientMemory is returned when the free-heap precheck fails
	// before a decode. No storage or decoder resource has been touched.
	ErrInsufficientMemory = errors.New("render: insufficient memory for decoder")

	// ErrOpenFailed is returned when the source cannot be opened or its
	// header cannot be parsed.
	ErrOpenFailed = errors.New("render: open failed")

	// ErrInvalidDimensions is returned for zero, negative or over-limit
	// source dimensions, or a zero-area destination.
	ErrInvalidDimensions = errors.New("render: invalid dimensions")

	// ErrDecodeFailed is returned when the decoder reports an internal
	// error mid-stream. Pixels drawn before the failure stay on the
	// surface.
	ErrDecodeFailed = errors.New("render: decode failed")
)
