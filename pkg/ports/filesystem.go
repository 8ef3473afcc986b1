package ports

// FileSystem abstracts writable host filesystem operations. The decode
// pipeline itself only reads through Storage; FileSystem is what cache
// persistence and snapshot output go through.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating parent directories as
	// needed.
	WriteFile(path string, data []byte) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error
}
