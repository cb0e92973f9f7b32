package graph

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Loader memory-maps the two graph files produced offline by cmd/ingest
// (spec.md §6) and owns those mappings for as long as any View derived
// from it is in use. Mirrors the original's LoadGraph: two read-only,
// file-backed mmaps that stay alive for the process lifetime.
type Loader struct {
	users   []byte
	follows []byte
}

// Load opens and memory-maps users.bin and follows.bin under dir. I/O or
// mmap failures are surfaced to the caller (IoFailure, spec.md §7) rather
// than panicking, since they happen at a system boundary before any
// invariant of the hot path is in play.
func Load(dir string) (*Loader, error) {
	usersPath := dir + "/users.bin"
	followsPath := dir + "/follows.bin"

	users, err := mmapFile(usersPath)
	if err != nil {
		return nil, fmt.Errorf("graph: mapping %s: %w", usersPath, err)
	}

	follows, err := mmapFile(followsPath)
	if err != nil {
		_ = unix.Munmap(users)
		return nil, fmt.Errorf("graph: mapping %s: %w", followsPath, err)
	}

	l := &Loader{users: users, follows: follows}
	l.validate()

	return l, nil
}

func mmapFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		// unix.Mmap rejects zero-length mappings; an empty graph file is
		// a legitimate (if degenerate) input, so hand back an empty slice.
		return []byte{}, nil
	}

	return unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
}

// View reinterprets the mapped bytes as the typed slices GraphView
// exposes. Zero-copy: View.Users and View.Follows point directly into the
// mmap'd pages.
func (l *Loader) View() View {
	return View{
		Users:   castUsers(l.users),
		Follows: castFollows(l.follows),
	}
}

func castUsers(b []byte) []UserRecord {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*UserRecord)(unsafe.Pointer(&b[0])), len(b)/UserRecordSize)
}

func castFollows(b []byte) []UserIndex {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*UserIndex)(unsafe.Pointer(&b[0])), len(b)/4)
}

// validate performs the one-time bounds check described in spec.md §7:
// every user's follow slice must land entirely inside the follows table.
// A violation panics (GraphMalformed is a programmer/data-pipeline bug,
// not a recoverable runtime condition) once detected here, before any
// View is handed to a caller.
func (l *Loader) validate() {
	view := l.View()
	followsLen := uint64(len(view.Follows))
	for i, u := range view.Users {
		end := u.FollowsOffset + uint64(u.FollowsCount)
		if end > followsLen {
			panic(fmt.Sprintf(
				"graph: malformed input: user %d follow slice [%d:%d] exceeds follows table of length %d",
				i, u.FollowsOffset, end, followsLen))
		}
	}
}

// Close unmaps both files. Safe to call once; the Loader (and any View
// derived from it) must not be used afterwards.
func (l *Loader) Close() {
	if len(l.users) > 0 {
		_ = unix.Munmap(l.users)
	}
	if len(l.follows) > 0 {
		_ = unix.Munmap(l.follows)
	}
}
