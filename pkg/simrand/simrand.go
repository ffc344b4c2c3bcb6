// Package simrand provides deterministic per-entity random draws. Every
// draw is keyed by the entity it belongs to (product, product+month,
// country, item), so a fixed seed reproduces identical output no matter
// what order entities are visited in.
package simrand

import (
	"hash/fnv"
	"math/rand/v2"
)

type Source struct {
	seed uint64
}

func New(seed int64) *Source {
	return &Source{seed: uint64(seed)}
}

func (s *Source) rng(key string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(key))
	return rand.New(rand.NewPCG(s.seed, h.Sum64()))
}

// Uniform returns a draw from U(lo, hi) for the given entity key.
func (s *Source) Uniform(key string, lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng(key).Float64()
}

// Float64 returns a draw from U(0, 1) for the given entity key.
func (s *Source) Float64(key string) float64 {
	return s.rng(key).Float64()
}

// IntN returns a draw from {0, ..., n-1} for the given entity key.
func (s *Source) IntN(key string, n int) int {
	return s.rng(key).IntN(n)
}
