package graph

import "testing"

func TestFollowsOfSlicesCorrectly(t *testing.T) {
	v := View{
		Users: []UserRecord{
			{FollowsOffset: 0, FollowsCount: 2, FollowersCount: 0},
			{FollowsOffset: 2, FollowsCount: 1, FollowersCount: 1},
			{FollowsOffset: 3, FollowsCount: 0, FollowersCount: 1},
		},
		Follows: []UserIndex{1, 2, 2},
	}

	if got := v.FollowsOf(0); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("FollowsOf(0) = %v, want [1 2]", got)
	}
	if got := v.FollowsOf(1); len(got) != 1 || got[0] != 2 {
		t.Fatalf("FollowsOf(1) = %v, want [2]", got)
	}
	if got := v.FollowsOf(2); len(got) != 0 {
		t.Fatalf("FollowsOf(2) = %v, want []", got)
	}
	if v.NumUsers() != 3 {
		t.Fatalf("NumUsers() = %d, want 3", v.NumUsers())
	}
}

func TestFollowsOfPanicsOnMalformedRecord(t *testing.T) {
	v := View{
		Users:   []UserRecord{{FollowsOffset: 0, FollowsCount: 5}},
		Follows: []UserIndex{1, 2},
	}

	defer func() {
		if recover() == nil {
			t.Fatal("FollowsOf should panic when the follow slice exceeds the follows table")
		}
	}()
	v.FollowsOf(0)
}
