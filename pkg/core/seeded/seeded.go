// Package seeded derives reproducible random streams from an explicit seed.
//
// Every policy decision in the allocation and scheduling engine draws from a
// stream returned by Rand, keyed by what the decision is about (a client id,
// a contract id and leave category, ...). The same seed and keys always yield
// the same sequence, so a run can be replayed exactly.
package seeded

import (
	"hash/fnv"
	"math/rand/v2"
)

// Rand returns a PCG-backed generator for the seed and keys
func Rand(seed int64, keys ...string) *rand.Rand {
	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
	}
	return rand.New(rand.NewPCG(uint64(seed), h.Sum64()))
}

// IntBetween returns a uniform integer in [lo, hi]. If hi < lo it returns lo.
func IntBetween(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Shuffle returns a shuffled copy of items
func Shuffle[T any](r *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
