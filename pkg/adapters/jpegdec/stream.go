package jpegdec

import (
	"fmt"
	"io"

	"github.com/user/epdimage/pkg/ports"
)

// stream bridges a ports.File to the io.ReadSeeker the decoder consumes.
//
// It mirrors the stream position in pos and keeps the mirror synchronized
// with every successful read and seek. The decoder's "more data
// available" check compares position against size; letting the mirror
// drift truncates multi-segment reads, which shows up first on images
// whose metadata occupies a large leading segment.
type stream struct {
	f    ports.File
	pos  int64
	size int64
}

func newStream(f ports.File) *stream {
	return &stream{f: f, size: f.Size()}
}

// Read reads up to len(p) bytes and advances the position mirror.
func (s *stream) Read(p []byte) (int, error) {
	n, err := s.f.Read(p)
	s.pos += int64(n)
	return n, err
}

// Seek implements io.Seeker on top of the storage file's absolute seek.
func (s *stream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		abs = s.size + offset
	default:
		return 0, fmt.Errorf("jpegdec: invalid whence %d", whence)
	}
	got, err := s.f.Seek(abs)
	if err != nil {
		return s.pos, err
	}
	s.pos = got
	return got, nil
}

// Remaining returns how many bytes are left before end of stream.
func (s *stream) Remaining() int64 {
	return s.size - s.pos
}

var _ io.ReadSeeker = (*stream)(nil)
