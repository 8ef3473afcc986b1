// Package osstorage provides a ports.Storage implementation over the host
// filesystem, standing in for the device's external storage.
package osstorage

import (
	"fmt"
	"io"
	"os"

	"github.com/user/epdimage/pkg/ports"
)

// Storage implements ports.Storage using the os package.
type Storage struct {
	// Root, when non-empty, is prepended to every path.
	root string
}

// New creates a Storage rooted at root. An empty root uses paths as
// given.
func New(root string) *Storage {
	return &Storage{root: root}
}

// OpenForRead opens the named file for random-access reading.
func (s *Storage) OpenForRead(path string) (ports.File, error) {
	full := path
	if s.root != "" {
		full = s.root + string(os.PathSeparator) + path
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", full, err)
	}
	return &file{f: f, size: st.Size()}, nil
}

// file wraps an os.File with the absolute-seek contract of ports.File.
type file struct {
	f    *os.File
	size int64
}

func (f *file) Read(p []byte) (int, error) {
	return f.f.Read(p)
}

func (f *file) Seek(offset int64) (int64, error) {
	return f.f.Seek(offset, io.SeekStart)
}

func (f *file) Size() int64 {
	return f.size
}

func (f *file) Close() error {
	return f.f.Close()
}

var (
	_ ports.Storage = (*Storage)(nil)
	_ ports.File    = (*file)(nil)
)
