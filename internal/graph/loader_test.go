package graph

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeTestGraph(t *testing.T, dir string, users []UserRecord, follows []UserIndex) {
	t.Helper()

	usersBuf := make([]byte, 0, len(users)*UserRecordSize)
	for _, u := range users {
		b := make([]byte, UserRecordSize)
		binary.LittleEndian.PutUint64(b[0:8], u.FollowsOffset)
		binary.LittleEndian.PutUint32(b[8:12], u.FollowsCount)
		binary.LittleEndian.PutUint32(b[12:16], u.FollowersCount)
		usersBuf = append(usersBuf, b...)
	}
	if err := os.WriteFile(filepath.Join(dir, "users.bin"), usersBuf, 0o644); err != nil {
		t.Fatalf("writing users.bin: %v", err)
	}

	followsBuf := make([]byte, 0, len(follows)*4)
	for _, f := range follows {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, f)
		followsBuf = append(followsBuf, b...)
	}
	if err := os.WriteFile(filepath.Join(dir, "follows.bin"), followsBuf, 0o644); err != nil {
		t.Fatalf("writing follows.bin: %v", err)
	}
}

func TestLoadRoundTripsABitExactSmallGraph(t *testing.T) {
	dir := t.TempDir()
	users := []UserRecord{
		{FollowsOffset: 0, FollowsCount: 2, FollowersCount: 1},
		{FollowsOffset: 2, FollowsCount: 1, FollowersCount: 1},
		{FollowsOffset: 3, FollowsCount: 0, FollowersCount: 1},
	}
	follows := []UserIndex{1, 2, 2}
	writeTestGraph(t, dir, users, follows)

	loader, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer loader.Close()

	view := loader.View()
	if view.NumUsers() != len(users) {
		t.Fatalf("NumUsers() = %d, want %d", view.NumUsers(), len(users))
	}
	for i, want := range users {
		if view.Users[i] != want {
			t.Fatalf("Users[%d] = %+v, want %+v", i, view.Users[i], want)
		}
	}
	if len(view.Follows) != len(follows) {
		t.Fatalf("len(Follows) = %d, want %d", len(view.Follows), len(follows))
	}
	for i, want := range follows {
		if view.Follows[i] != want {
			t.Fatalf("Follows[%d] = %d, want %d", i, view.Follows[i], want)
		}
	}
}

func TestLoadOnMalformedGraphPanics(t *testing.T) {
	dir := t.TempDir()
	users := []UserRecord{{FollowsOffset: 0, FollowsCount: 5}}
	follows := []UserIndex{1, 2}
	writeTestGraph(t, dir, users, follows)

	defer func() {
		if recover() == nil {
			t.Fatal("Load should panic validating a user whose follow slice exceeds the follows table")
		}
	}()
	Load(dir)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatal("Load over a directory with no graph files should return an error")
	}
}
