// Package model holds the plain data shapes shared by the post store, the
// feed chains and the timeline fetcher: posts, the chained records the pool
// stores, and the packed link that names a position in a chain.
package model

// ContentBytes is sized to hold a full 280 Unicode-scalar-value tweet plus
// a few multi-byte accents or emoji, the way the original Rust crate's
// TWEET_BYTES constant was chosen.
const ContentBytes = 284

// Timestamp is a non-zero monotonic counter. Zero is reserved as the "none"
// sentinel so a ChainLink can pack into a single 64-bit cell.
type Timestamp = uint32

// PostIndex is the stable 32-bit handle a SharedPool hands back from Push.
type PostIndex = uint32

// Post is the unit of content. Likes/quotes/retweets are carried for parity
// with a production schema but are not read by the merge core.
type Post struct {
	Content   [ContentBytes]byte
	Timestamp Timestamp
	Likes     uint32
	Quotes    uint32
	Retweets  uint32
}

// ChainLink names a single post in an author's feed chain: its timestamp
// (for ordering) and its index into the pool. The zero value (Timestamp==0)
// represents "no link" — see AtomicChainHead in package feed.
type ChainLink struct {
	Timestamp Timestamp
	Index     PostIndex
}

// Valid reports whether the link names a real post rather than "none".
func (l ChainLink) Valid() bool { return l.Timestamp != 0 }

// ChainedPost is what the pool actually stores: a Post plus the link to the
// author's previous post. The field layout is chosen so the struct is
// exactly 320 bytes — five 64-byte cache lines — with no compiler padding,
// so that consecutive records in the pool's contiguous backing array start
// on cache-line boundaries without needing an explicit alignment directive.
type ChainedPost struct {
	Post Post
	Prev ChainLink
	_    [12]byte // pad 300+8 -> 320 (5 cache lines); keeps records line-aligned
}

// PostSize is the exact wire/memory size of a ChainedPost record.
const PostSize = 320
