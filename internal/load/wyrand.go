package load

import "math/bits"

// wyrand is a small, fast, seedable PRNG (the same "wyrand class"
// generator spec.md §4.5 calls for): one add and one 64x64->128 multiply
// per draw, no locks, no allocation. Not cryptographically secure — it
// exists purely so cohort selection and post generation are deterministic
// and reproducible across runs given the same seed.
type wyrand struct {
	state uint64
}

func newWyrand(seed uint64) *wyrand {
	return &wyrand{state: seed}
}

const (
	wyP0 = 0xa0761d6478bd642f
	wyP1 = 0xe7037ed1a0b428db
)

// next draws the next 64-bit value and advances the generator's state.
func (w *wyrand) next() uint64 {
	w.state += wyP0
	hi, lo := bits.Mul64(w.state, w.state^wyP1)
	return hi ^ lo
}

// intn returns a uniform value in [0, n). n must be > 0.
func (w *wyrand) intn(n int) int {
	return int(w.next() % uint64(n))
}

// shuffle performs an in-place Fisher-Yates shuffle of s using w.
func shuffle[T any](w *wyrand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := w.intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
