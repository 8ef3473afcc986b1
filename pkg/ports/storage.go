package ports

// Storage abstracts the external storage the device keeps images on.
type Storage interface {
	// OpenForRead opens the named file for random-access reading.
	OpenForRead(path string) (File, error)
}

// File is an open storage stream. Implementations own exactly one
// underlying handle, which Close releases; Close must be called exactly
// once, including on every error path of a decode.
type File interface {
	// Read reads up to len(p) bytes. It returns 0, io.EOF at end of stream.
	Read(p []byte) (int, error)

	// Seek moves the stream to the given absolute offset and returns the
	// new offset.
	Seek(offset int64) (int64, error)

	// Size returns the total size of the file in bytes.
	Size() int64

	// Close releases the underlying handle.
	Close() error
}
