// Command ingest is the offline edge-list -> binary ingest utility named
// as an external collaborator in spec.md §1/§6: it consumes "<src> <dst>"
// lines (the Twitter-2010 SNAP dataset convention, where an edge src->dst
// means dst is a follower of src) on stdin and emits the two bit-exact
// binary files the rest of this repo treats as an opaque input format.
//
// Grounded on the original implementation's three-pass algorithm
// (original_source/examples/load_graph.rs): bucket edges by follower,
// flatten into one offset/count table plus one flat follows array, then
// sweep the flat array once more to fill in follower counts.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type user struct {
	followsOffset  uint64
	followsCount   uint32
	followersCount uint32
}

func main() {
	outDir := flag.String("out", "data", "output directory for users.bin and follows.bin")
	numUsers := flag.Int("num-users", 41_652_230, "number of users in the graph (Twitter-2010 default)")
	flag.Parse()

	if err := run(*outDir, *numUsers, os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, "ingest:", err)
		os.Exit(1)
	}
}

func run(outDir string, numUsers int, edges io.Reader) error {
	adjacency := make([][]uint32, numUsers)

	totalFollows, err := readEdges(edges, adjacency)
	if err != nil {
		return fmt.Errorf("reading edge list: %w", err)
	}
	fmt.Fprintf(os.Stderr, "ingest: phase 1 done (%d edges)\n", totalFollows)

	users := make([]user, numUsers)
	follows := make([]uint32, 0, totalFollows)
	for i, list := range adjacency {
		users[i].followsOffset = uint64(len(follows))
		users[i].followsCount = uint32(len(list))
		follows = append(follows, list...)
		adjacency[i] = nil // release as we go; this table is the largest allocation
	}
	fmt.Fprintln(os.Stderr, "ingest: phase 2 done (offsets laid out)")

	for _, f := range follows {
		users[f].followersCount++
	}
	fmt.Fprintln(os.Stderr, "ingest: phase 3 done (follower counts)")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := writeUsers(filepath.Join(outDir, "users.bin"), users); err != nil {
		return fmt.Errorf("writing users.bin: %w", err)
	}
	if err := writeFollows(filepath.Join(outDir, "follows.bin"), follows); err != nil {
		return fmt.Errorf("writing follows.bin: %w", err)
	}

	return nil
}

// readEdges parses "<src> <dst>\n" lines and buckets each src under
// adjacency[dst], since dst following src is what the line means.
func readEdges(r io.Reader, adjacency [][]uint32) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	total := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return total, fmt.Errorf("malformed line %q: expected \"<src> <dst>\"", line)
		}

		src, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return total, fmt.Errorf("parsing src %q: %w", fields[0], err)
		}
		dst, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return total, fmt.Errorf("parsing dst %q: %w", fields[1], err)
		}
		if int(dst) >= len(adjacency) {
			return total, fmt.Errorf("dst %d exceeds --num-users=%d", dst, len(adjacency))
		}

		adjacency[dst] = append(adjacency[dst], uint32(src))
		total++
	}
	return total, scanner.Err()
}

// writeUsers emits the bit-exact little-endian {offset:u64, count:u32,
// followers:u32} records of spec.md §6.
func writeUsers(path string, users []user) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	buf := make([]byte, 16)
	for _, u := range users {
		binary.LittleEndian.PutUint64(buf[0:8], u.followsOffset)
		binary.LittleEndian.PutUint32(buf[8:12], u.followsCount)
		binary.LittleEndian.PutUint32(buf[12:16], u.followersCount)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return w.Flush()
}

// writeFollows emits the bit-exact little-endian u32 follow-target array.
func writeFollows(path string, follows []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	buf := make([]byte, 4)
	for _, x := range follows {
		binary.LittleEndian.PutUint32(buf, x)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return w.Flush()
}
