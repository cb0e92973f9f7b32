package timeline

import (
	"testing"

	"github.com/trishume/twitterperf/internal/graph"
	"github.com/trishume/twitterperf/internal/model"
	"github.com/trishume/twitterperf/internal/store"
)

// threeUserGraph mirrors the tiny deterministic scenario used to
// hand-verify the merge: user 0 follows users 1 and 2, who post nobody
// follows back.
func threeUserGraph() graph.View {
	return graph.View{
		Users: []graph.UserRecord{
			{FollowsOffset: 0, FollowsCount: 2, FollowersCount: 0},
			{FollowsOffset: 2, FollowsCount: 0, FollowersCount: 1},
			{FollowsOffset: 2, FollowsCount: 0, FollowersCount: 1},
		},
		Follows: []graph.UserIndex{1, 2},
	}
}

func newStore(t *testing.T, g graph.View) *store.PostStore {
	t.Helper()
	s, err := store.New(g)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFetchMergesFolloweesInDescendingTimestampOrder(t *testing.T) {
	s := newStore(t, threeUserGraph())

	// user 1 posts at t=1, t=4; user 2 posts at t=2, t=3.
	s.Append(model.Post{Timestamp: 1}, 1)
	p2 := s.Append(model.Post{Timestamp: 2}, 2)
	p3 := s.Append(model.Post{Timestamp: 3}, 2)
	p4 := s.Append(model.Post{Timestamp: 4}, 1)
	_ = p2

	f := New()
	got := f.Fetch(s, 0, 200, 1)

	wantTimestamps := []model.Timestamp{4, 3, 2, 1}
	if len(got) != len(wantTimestamps) {
		t.Fatalf("Fetch returned %d posts, want %d", len(got), len(wantTimestamps))
	}
	for i, want := range wantTimestamps {
		if got[i].Timestamp != want {
			t.Fatalf("Fetch()[%d].Timestamp = %d, want %d", i, got[i].Timestamp, want)
		}
	}
	_ = p3
	_ = p4
}

func TestFetchBoundsResultToMaxLen(t *testing.T) {
	s := newStore(t, threeUserGraph())

	for ts := model.Timestamp(1); ts <= 5; ts++ {
		s.Append(model.Post{Timestamp: ts}, 1)
	}

	f := New()
	got := f.Fetch(s, 0, 2, 1)
	if len(got) != 2 {
		t.Fatalf("Fetch with maxLen=2 returned %d posts, want 2", len(got))
	}
	if got[0].Timestamp != 5 || got[1].Timestamp != 4 {
		t.Fatalf("Fetch()[:2] = %v, want timestamps [5 4]", got)
	}
}

func TestFetchExcludesPostsBelowFloor(t *testing.T) {
	s := newStore(t, threeUserGraph())

	s.Append(model.Post{Timestamp: 1}, 1)
	s.Append(model.Post{Timestamp: 2}, 1)
	s.Append(model.Post{Timestamp: 3}, 2)

	f := New()
	got := f.Fetch(s, 0, 200, 3)
	if len(got) != 1 || got[0].Timestamp != 3 {
		t.Fatalf("Fetch with floor=3 = %v, want a single post with Timestamp=3", got)
	}
}

func TestFetchOnViewerWithNoFolloweeActivityReturnsEmpty(t *testing.T) {
	s := newStore(t, threeUserGraph())

	f := New()
	got := f.Fetch(s, 0, 200, 1)
	if len(got) != 0 {
		t.Fatalf("Fetch on an empty store returned %d posts, want 0", len(got))
	}
}

// TestFetchReusesScratchAcrossCalls exercises the documented aliasing
// behavior: a second Fetch call is safe to issue on the same Fetcher and
// produces an independently correct result, even though the first call's
// returned slice is invalidated by the second.
func TestFetchReusesScratchAcrossCalls(t *testing.T) {
	s := newStore(t, threeUserGraph())
	s.Append(model.Post{Timestamp: 1}, 1)
	s.Append(model.Post{Timestamp: 2}, 2)

	f := New()
	first := f.Fetch(s, 0, 200, 1)
	firstLen := len(first)

	s.Append(model.Post{Timestamp: 3}, 1)
	second := f.Fetch(s, 0, 200, 1)

	if firstLen != 2 {
		t.Fatalf("first Fetch returned %d posts, want 2", firstLen)
	}
	if len(second) != 3 {
		t.Fatalf("second Fetch returned %d posts, want 3", len(second))
	}
	if second[0].Timestamp != 3 {
		t.Fatalf("second Fetch()[0].Timestamp = %d, want 3", second[0].Timestamp)
	}
}
