package seeded

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRand_SameSeedAndKeysRepeat(t *testing.T) {
	a := Rand(42, "contract-1", "vacation")
	b := Rand(42, "contract-1", "vacation")

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestRand_KeysSeparateStreams(t *testing.T) {
	a := Rand(42, "ab", "c")
	b := Rand(42, "a", "bc")

	same := true
	for i := 0; i < 10; i++ {
		if a.IntN(1_000_000) != b.IntN(1_000_000) {
			same = false
		}
	}
	assert.False(t, same, "key boundaries should be part of the stream identity")
}

func TestIntBetween(t *testing.T) {
	r := Rand(7)
	for i := 0; i < 100; i++ {
		v := IntBetween(r, 3, 5)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 5)
	}
	assert.Equal(t, 4, IntBetween(r, 4, 2))
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	out := Shuffle(Rand(1), in)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, in)
	assert.ElementsMatch(t, in, out)
}
