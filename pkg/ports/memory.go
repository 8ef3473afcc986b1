package ports

// MemoryProber reports how much heap is available for a decode. The
// pipeline checks it before allocating any decoder state so that a decode
// which cannot complete is rejected before it opens a stream.
type MemoryProber interface {
	// FreeBytes returns an estimate of the currently available heap.
	FreeBytes() int
}
