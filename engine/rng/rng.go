// Package rng wraps math/rand.Rand with deterministic position tracking.
// Position increments with every call, enabling save/restore, and the whole
// type is the injection seam that lets tests drive outcome selection.
package rng

import "math/rand"

// RNG is a seeded random source with call-position tracking.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Intn returns a random integer in [0, n). Every draw consumes exactly
// one source value, so Restore can replay the stream by position.
func (r *RNG) Intn(n int) int {
	r.pos++
	return int(r.src.Int63() % int64(n))
}

// Range returns a random integer in [lo, hi] inclusive.
func (r *RNG) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Chance returns true with probability p (clamped to [0,1]). The
// boundary cases consume no draw.
func (r *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	r.pos++
	return float64(r.src.Int63())/float64(1<<63) < p
}

// Pick returns a random element of lines. Empty input returns "".
func (r *RNG) Pick(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[r.Intn(len(lines))]
}

// Restore creates an RNG and advances it to the given position. One
// source value per position is the contract every draw above keeps, so
// the restored stream continues exactly where the saved one stopped.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.src.Int63()
	}
	r.pos = position
	return r
}
