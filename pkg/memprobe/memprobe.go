// Package memprobe provides ports.MemoryProber implementations. The
// device firmware asks its allocator for free heap before a decode; on
// the host the same precheck runs against a configured budget.
package memprobe

import (
	"runtime"

	"github.com/user/epdimage/pkg/ports"
)

// Fixed reports a constant free-byte figure. Tests use it to simulate
// low-memory conditions.
type Fixed struct {
	Free int
}

// FreeBytes returns the configured figure.
func (f Fixed) FreeBytes() int { return f.Free }

// Budget models a device heap: a fixed budget minus the heap currently in
// use by the runtime.
type Budget struct {
	budgetBytes int
}

// NewBudget creates a Budget prober for the given heap size in bytes.
func NewBudget(budgetBytes int) *Budget {
	return &Budget{budgetBytes: budgetBytes}
}

// FreeBytes returns budget minus heap in use, floored at zero.
func (b *Budget) FreeBytes() int {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	free := b.budgetBytes - int(ms.HeapInuse)
	if free < 0 {
		free = 0
	}
	return free
}

var (
	_ ports.MemoryProber = Fixed{}
	_ ports.MemoryProber = (*Budget)(nil)
)
