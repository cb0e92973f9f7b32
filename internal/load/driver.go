// Package load implements the generator / load driver (spec.md §4.5):
// deterministic tweeter/viewer cohort selection from the follow graph, and
// the post/view generation that drives both the write and the read side
// of the benchmark.
package load

import (
	"math"

	"github.com/trishume/twitterperf/internal/graph"
	"github.com/trishume/twitterperf/internal/model"
)

// Config parameterizes cohort selection. Defaults match the reference
// implementation's TweetGeneratorConfig.
type Config struct {
	Seed                     uint64
	TweeterFollowerThreshold uint32
	ViewerFollowThreshold    uint32
}

// DefaultConfig returns the reference implementation's defaults: seed 123,
// both cohort thresholds at 20 followers/follows.
func DefaultConfig() Config {
	return Config{
		Seed:                     123,
		TweeterFollowerThreshold: 20,
		ViewerFollowThreshold:    20,
	}
}

// Driver selects tweeter and viewer cohorts from a graph and generates
// synthetic posts and viewer picks from them, all seeded from one 64-bit
// seed so a run's numbers reproduce exactly given the same graph and seed.
type Driver struct {
	tweeters []graph.UserIndex
	viewers  []graph.UserIndex
	rng      *wyrand
	ts       model.Timestamp
}

// New selects and shuffles the tweeter and viewer cohorts from g. Tweeters
// are users with FollowersCount > cfg.TweeterFollowerThreshold; viewers
// are users with FollowsCount > cfg.ViewerFollowThreshold (both strict,
// per spec.md §4.5 and the literal scenario in spec.md §8.2).
func New(cfg Config, g graph.View) *Driver {
	rng := newWyrand(cfg.Seed)

	var tweeters []graph.UserIndex
	for i, u := range g.Users {
		if u.FollowersCount > cfg.TweeterFollowerThreshold {
			tweeters = append(tweeters, graph.UserIndex(i))
		}
	}
	shuffle(rng, tweeters)

	var viewers []graph.UserIndex
	for i, u := range g.Users {
		if u.FollowsCount > cfg.ViewerFollowThreshold {
			viewers = append(viewers, graph.UserIndex(i))
		}
	}
	shuffle(rng, viewers)

	return &Driver{
		tweeters: tweeters,
		viewers:  viewers,
		rng:      rng,
		ts:       1, // START_TIME: 0 is reserved as the "none" sentinel
	}
}

// Tweeters returns the selected tweeter cohort (read-only; do not mutate).
func (d *Driver) Tweeters() []graph.UserIndex { return d.tweeters }

// Viewers returns the selected viewer cohort (read-only; do not mutate).
func (d *Driver) Viewers() []graph.UserIndex { return d.viewers }

// GenPost picks a uniform-random tweeter and assembles a placeholder post
// with the next monotonic timestamp. The content payload is left zeroed —
// spec.md §1 explicitly puts realistic post text out of scope for the
// core — and cmd/bench appends the post with that zeroed payload as is.
func (d *Driver) GenPost() (graph.UserIndex, model.Post) {
	author := d.tweeters[d.rng.intn(len(d.tweeters))]

	post := model.Post{Timestamp: d.ts}

	if d.ts < math.MaxUint32 {
		d.ts++
	} // else: saturate, never wrap back through the zero sentinel

	return author, post
}

// GenViewer picks a uniform-random viewer to fetch a timeline for.
func (d *Driver) GenViewer() graph.UserIndex {
	return d.viewers[d.rng.intn(len(d.viewers))]
}

// ForkSeed derives a child seed from the driver's RNG stream so a reader
// thread can get its own independent but reproducible viewer stream
// without sharing (and contending on) the writer's RNG state.
func (d *Driver) ForkSeed() uint64 {
	return d.rng.next()
}

// NewViewerStream builds an independent viewer-selection stream over the
// same viewer cohort, seeded from seed (typically produced by ForkSeed).
// Used so each reader thread can draw viewers concurrently without
// synchronizing on the main Driver.
func (d *Driver) NewViewerStream(seed uint64) *ViewerStream {
	return &ViewerStream{viewers: d.viewers, rng: newWyrand(seed)}
}

// ViewerStream is a per-thread, reproducible source of viewer picks over a
// fixed cohort. Safe for use by exactly one goroutine.
type ViewerStream struct {
	viewers []graph.UserIndex
	rng     *wyrand
}

// Next picks a uniform-random viewer.
func (v *ViewerStream) Next() graph.UserIndex {
	return v.viewers[v.rng.intn(len(v.viewers))]
}
