// Package pool implements the append-only arena backing the post store: a
// single huge virtual reservation that individual pushes commit into
// lazily, handing back stable integer indices that are valid for the life
// of the process.
//
// Grounded on the same idea as the teacher's buffer pools (src/buffer.go)
// taken to its logical extreme: instead of pooling fixed-size byte slices
// and returning them, reserve the whole arena once up front so indices
// never need to be recycled or bounds-checked against a moving backing
// array.
package pool

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// ReserveBytes is the size of the virtual memory reservation: 2^35 bytes
// (~34 GB). Reserving this much address space costs nothing up front — the
// OS commits pages only as Push touches them — and it is large enough that
// the pool never needs to relocate records to grow.
const ReserveBytes = 1 << 35

// ErrOutOfBounds is returned by Get when the index has not been published
// yet. Spec: this names a programmer error (a torn chain link), not a
// recoverable runtime condition — TimelineFetcher panics rather than
// propagating it, per spec.md §7.
type ErrOutOfBounds struct {
	Index, Len uint64
}

func (e ErrOutOfBounds) Error() string {
	return fmt.Sprintf("pool: index %d out of bounds for length %d", e.Index, e.Len)
}

// SharedPool is an append-only arena of fixed-size T records. Push may
// block briefly on a writer mutex; Get is wait-free, bounded only by an
// atomic length load, and is safe to call concurrently with Push (I1, I6).
//
// A single SharedPool is expected to have one writer goroutine and many
// reader goroutines, the same "one writer, many readers" shape as the rest
// of this benchmark.
type SharedPool[T any] struct {
	mu  sync.Mutex // serializes Push; readers never take this lock
	len atomic.Uint64

	raw []byte // the full reservation, mmap-backed
	buf []T    // raw reinterpreted as a slice of T, same length as cap(raw)/sizeof(T)
}

// New reserves the arena and returns a ready-to-use pool. Construction
// fails only if the kernel refuses the initial reservation (MapFailed in
// spec terms) — this is a caller-visible error, not a panic, per spec.md §7.
func New[T any]() (*SharedPool[T], error) {
	raw, err := reserve(ReserveBytes)
	if err != nil {
		return nil, fmt.Errorf("pool: reserve %d bytes: %w", ReserveBytes, err)
	}

	var zero T
	elemSize := unsafe.Sizeof(zero)
	capacity := uintptr(len(raw)) / elemSize

	buf := unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), capacity)

	return &SharedPool[T]{raw: raw, buf: buf}, nil
}

// Push appends value and returns its stable, zero-based index. Cannot fail
// at the algorithmic level (spec.md §4.1); it only panics if the arena's
// reserved capacity (ReserveBytes / sizeof(T) records, about 107 million
// 320-byte ChainedPosts) is exhausted.
func (p *SharedPool[T]) Push(value T) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.len.Load()
	if i >= uint64(len(p.buf)) {
		panic(fmt.Sprintf("pool: arena exhausted at index %d (capacity %d)", i, len(p.buf)))
	}

	p.buf[i] = value

	// Publication fence: readers that observe this new length (or a
	// chain head pointing at this index) are guaranteed to see the fully
	// written record, because the write above happens-before this store.
	p.len.Store(i + 1)

	return i
}

// Get borrows the record at index. Returns ErrOutOfBounds if index has not
// been published yet (index >= current length).
func (p *SharedPool[T]) Get(index uint64) (*T, error) {
	length := p.len.Load()
	if index >= length {
		return nil, ErrOutOfBounds{Index: index, Len: length}
	}
	return &p.buf[index], nil
}

// MustGet is Get but panics instead of returning an error — used on hot
// paths (TimelineFetcher) where an out-of-bounds index means a torn chain
// link, a programmer error per spec.md §7, not a recoverable condition.
func (p *SharedPool[T]) MustGet(index uint64) *T {
	v, err := p.Get(index)
	if err != nil {
		panic(err)
	}
	return v
}

// Len returns the number of published records. Sequentially consistent
// with respect to Push's publication store.
func (p *SharedPool[T]) Len() uint64 {
	return p.len.Load()
}

// Close unmaps the reservation. Safe to call once at process shutdown;
// the pool must not be used afterwards.
func (p *SharedPool[T]) Close() error {
	return release(p.raw)
}
