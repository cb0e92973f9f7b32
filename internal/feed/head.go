// Package feed implements the per-author "feed chain" head: a single
// packed 64-bit atomic cell naming an author's most recent post, mutated
// by a writer and sampled lock-free by readers fanning out across many
// authors at once.
package feed

import (
	"sync/atomic"

	"github.com/trishume/twitterperf/internal/model"
)

// AtomicChainHead is a single 64-bit cell interpreted as
// {timestamp:32, post-index:32}. A zero timestamp encodes "none". Packing
// both fields into one word is what makes concurrent Store/Load safe
// without torn reads: a fetcher sampling the heads of a few hundred
// followees can never observe a half-written link.
//
// The encoding deliberately puts the timestamp in the high 32 bits, so the
// raw uint64 value is already ordered the same way ChainLink is ordered —
// (timestamp, post-index) ascending. TimelineFetcher's heap exploits this
// to compare links as plain uint64s instead of decoding on every push/pop.
type AtomicChainHead struct {
	raw atomic.Uint64
}

func pack(l model.ChainLink) uint64 {
	return uint64(l.Timestamp)<<32 | uint64(l.Index)
}

func unpack(raw uint64) model.ChainLink {
	if raw == 0 {
		return model.ChainLink{}
	}
	return model.ChainLink{
		Timestamp: uint32(raw >> 32),
		Index:     uint32(raw),
	}
}

// Store publishes a new head, overwriting whatever was there. Sequentially
// consistent: readers using Load observe either the old or the new link,
// never a mix of the two.
func (h *AtomicChainHead) Store(l model.ChainLink) {
	h.raw.Store(pack(l))
}

// StoreNone clears the head back to "no posts yet".
func (h *AtomicChainHead) StoreNone() {
	h.raw.Store(0)
}

// Load samples the current head. The zero value of the returned ChainLink
// (Timestamp == 0) means "none" — callers should check Valid().
func (h *AtomicChainHead) Load() model.ChainLink {
	return unpack(h.raw.Load())
}

// CompareAndSwapStore installs next only if the head still holds old,
// giving strict linearizability per author for callers that need it (spec
// open question (a)). The single-writer LoadDriver does not use this path;
// Store is the documented default and is what makes concurrent writers to
// the same author merely clobber (I5) instead of blocking each other.
func (h *AtomicChainHead) CompareAndSwapStore(old, next model.ChainLink) bool {
	return h.raw.CompareAndSwap(pack(old), pack(next))
}

// Raw returns the packed 64-bit representation of the current head, in the
// same encoding EncodeLink produces and TimelineFetcher's heap compares.
func (h *AtomicChainHead) Raw() uint64 {
	return h.raw.Load()
}

// DecodeLink exposes the packing scheme to callers (the heap) that carry
// raw uint64s around instead of decoded ChainLinks for most of their life.
func DecodeLink(raw uint64) model.ChainLink { return unpack(raw) }

// EncodeLink exposes the packing scheme for building raw heap entries.
func EncodeLink(l model.ChainLink) uint64 { return pack(l) }
