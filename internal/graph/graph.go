// Package graph provides a read-only, zero-copy view over a packed
// CSR-style follow graph, plus the loader that memory-maps it from the two
// binary files described in spec.md §6.
package graph

import "fmt"

// UserRecord is the packed, 16-byte on-disk/in-memory representation of a
// single user: where their follow list starts in the shared follows array,
// how long it is, and how many followers they have. Field order matches
// the little-endian on-disk layout bit-exactly (§6): u64 offset, u32
// count, u32 followers.
type UserRecord struct {
	FollowsOffset uint64
	FollowsCount  uint32
	FollowersCount uint32
}

// UserRecordSize is the exact on-disk/in-memory size of one UserRecord.
const UserRecordSize = 16

// UserIndex is a 32-bit handle into the user table.
type UserIndex = uint32

// View is an immutable, borrowed view over the follow graph: a slice of
// per-user records and the flat array of follow targets they index into.
// View never owns the memory it points at — see Loader, which keeps the
// backing mmaps alive for at least as long as any View derived from them.
type View struct {
	Users   []UserRecord
	Follows []UserIndex
}

// NumUsers returns the number of users in the graph.
func (v View) NumUsers() int { return len(v.Users) }

// FollowsOf returns the slice of user indices that user u follows. Panics
// if u is out of range or the record's follow slice runs past the end of
// Follows — the latter indicates a malformed graph file (GraphMalformed,
// spec.md §7), a construction-time bug, not a recoverable condition once
// a View has been handed out.
func (v View) FollowsOf(u UserIndex) []UserIndex {
	rec := v.Users[u]
	start := rec.FollowsOffset
	end := start + uint64(rec.FollowsCount)
	if end > uint64(len(v.Follows)) {
		panic(fmt.Sprintf("graph: user %d follow slice [%d:%d] exceeds follows table of length %d",
			u, start, end, len(v.Follows)))
	}
	return v.Follows[start:end]
}
