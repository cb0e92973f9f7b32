package store

import (
	"testing"

	"github.com/trishume/twitterperf/internal/graph"
	"github.com/trishume/twitterperf/internal/model"
)

func threeUserGraph() graph.View {
	// User 0 follows users 1 and 2; users 1 and 2 follow nobody.
	return graph.View{
		Users: []graph.UserRecord{
			{FollowsOffset: 0, FollowsCount: 2, FollowersCount: 0},
			{FollowsOffset: 2, FollowsCount: 0, FollowersCount: 1},
			{FollowsOffset: 2, FollowsCount: 0, FollowersCount: 1},
		},
		Follows: []graph.UserIndex{1, 2},
	}
}

func TestAppendPublishesRetrievableHead(t *testing.T) {
	s, err := New(threeUserGraph())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if s.Head(1).Valid() {
		t.Fatal("a user with no posts should have an invalid head")
	}

	idx := s.Append(model.Post{Timestamp: 10}, 1)
	head := s.Head(1)
	if !head.Valid() || head.Index != idx || head.Timestamp != 10 {
		t.Fatalf("Head(1) = %+v, want {Timestamp:10 Index:%d}", head, idx)
	}

	rec := s.Index(idx)
	if rec.Post.Timestamp != 10 {
		t.Fatalf("Index(%d).Post.Timestamp = %d, want 10", idx, rec.Post.Timestamp)
	}
	if rec.Prev.Valid() {
		t.Fatal("the first post by a user should have no Prev link")
	}
}

func TestAppendChainsPreviousPostsPerAuthor(t *testing.T) {
	s, err := New(threeUserGraph())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	first := s.Append(model.Post{Timestamp: 1}, 1)
	second := s.Append(model.Post{Timestamp: 2}, 1)
	third := s.Append(model.Post{Timestamp: 3}, 1)

	head := s.Head(1)
	if head.Index != third || head.Timestamp != 3 {
		t.Fatalf("Head(1) = %+v, want to name the third post", head)
	}

	rec3 := s.Index(third)
	if rec3.Prev.Index != second {
		t.Fatalf("third post's Prev.Index = %d, want %d", rec3.Prev.Index, second)
	}
	rec2 := s.Index(second)
	if rec2.Prev.Index != first {
		t.Fatalf("second post's Prev.Index = %d, want %d", rec2.Prev.Index, first)
	}
	rec1 := s.Index(first)
	if rec1.Prev.Valid() {
		t.Fatal("first post should have no Prev link")
	}
}

func TestDistinctAuthorsDoNotInterfere(t *testing.T) {
	s, err := New(threeUserGraph())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	a := s.Append(model.Post{Timestamp: 5}, 1)
	b := s.Append(model.Post{Timestamp: 6}, 2)

	if head := s.Head(1); head.Index != a {
		t.Fatalf("Head(1) = %+v, want to name %d", head, a)
	}
	if head := s.Head(2); head.Index != b {
		t.Fatalf("Head(2) = %+v, want to name %d", head, b)
	}
}

func TestIndexPanicsOnTornLink(t *testing.T) {
	s, err := New(threeUserGraph())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("Index on an unpublished index should panic")
		}
	}()
	s.Index(999)
}
