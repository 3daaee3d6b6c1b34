package arena

import (
	"fmt"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/jointbuf/internal/arith"
)

// baseAlign is the alignment guaranteed for an Arena's first byte, and so
// the largest request alignment an Arena can honor.
const baseAlign = 64

// Arena hands out memory from one fixed buffer by advancing a cursor.
// Individual Free is a no-op; Reset reclaims the whole buffer at once.
// Request alignments above 64 are rejected.
type Arena struct {
	mu      sync.Mutex
	backing []byte
	pad     uintptr // bytes before the first 64-aligned address in backing
	cap     uint64
	off     uint64
}

// New creates an arena with the given capacity in bytes.
func New(capacity int) *Arena {
	if capacity < 0 {
		capacity = 0
	}
	backing := make([]byte, capacity+baseAlign)
	addr := uintptr(unsafe.Pointer(&backing[0]))
	return &Arena{
		backing: backing,
		pad:     (baseAlign - addr%baseAlign) % baseAlign,
		cap:     uint64(capacity),
	}
}

// Alloc reserves size bytes at the given alignment and returns their
// address. It fails when the arena is exhausted or align exceeds 64.
func (a *Arena) Alloc(size, align uint64) (unsafe.Pointer, error) {
	if !arith.IsPowerOfTwo(align) {
		return nil, fmt.Errorf("arena: alignment %d is not a power of two", align)
	}
	if align > baseAlign {
		return nil, fmt.Errorf("arena: alignment %d exceeds arena base alignment %d", align, baseAlign)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	off := arith.AlignTo(a.off, align)
	end, ok := arith.SafeAdd(off, size)
	if !ok || end > a.cap {
		return nil, fmt.Errorf("arena: out of space: need %d bytes at offset %d, capacity %d", size, off, a.cap)
	}
	a.off = end

	p := unsafe.Pointer(&a.backing[a.pad+uintptr(off)])
	Logger().Debug("arena alloc",
		zap.Uint64("size", size),
		zap.Uint64("align", align),
		zap.Uint64("offset", off),
	)
	return p, nil
}

// Free is a no-op; arena memory is reclaimed only by Reset.
func (a *Arena) Free(ptr unsafe.Pointer, size, align uint64) {}

// Reset discards every allocation and rewinds the arena to empty. Pointers
// handed out before the reset must no longer be used.
func (a *Arena) Reset() {
	a.mu.Lock()
	a.off = 0
	a.mu.Unlock()
}

// Used returns the number of bytes currently consumed, padding included.
func (a *Arena) Used() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.off
}

// Cap returns the arena's capacity in bytes.
func (a *Arena) Cap() uint64 {
	return a.cap
}
