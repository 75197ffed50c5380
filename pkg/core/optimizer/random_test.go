package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededRandom_Reproducible(t *testing.T) {
	a := NewSeededRandom(42)
	b := NewSeededRandom(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestSeededRandom_DifferentSeedsDiverge(t *testing.T) {
	a := NewSeededRandom(1)
	b := NewSeededRandom(2)

	diverged := false
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			diverged = true
			break
		}
	}
	assert.True(t, diverged)
}

func TestSeededRandom_NextInUnitInterval(t *testing.T) {
	r := NewSeededRandom(7)
	for i := 0; i < 1000; i++ {
		v := r.Next()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededRandom_Range(t *testing.T) {
	r := NewSeededRandom(7)
	for i := 0; i < 1000; i++ {
		v := r.Range(0.85, 1.15)
		assert.GreaterOrEqual(t, v, 0.85)
		assert.Less(t, v, 1.15)
	}
}

func TestSeededRandom_Intn(t *testing.T) {
	r := NewSeededRandom(7)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := r.Intn(5)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
		seen[v] = true
	}
	// All buckets should be hit over 1000 draws
	assert.Len(t, seen, 5)
}

func TestShuffle_DeterministicPerSeed(t *testing.T) {
	first := []int{1, 2, 3, 4, 5, 6, 7, 8}
	second := []int{1, 2, 3, 4, 5, 6, 7, 8}

	Shuffle(NewSeededRandom(99), first)
	Shuffle(NewSeededRandom(99), second)

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, first)
}

func TestPick(t *testing.T) {
	r := NewSeededRandom(3)
	items := []string{"a", "b", "c"}

	picked := Pick(r, items)
	assert.Contains(t, items, picked)
}

func TestPickN(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	picked := PickN(NewSeededRandom(3), items, 3)
	require.Len(t, picked, 3)
	for _, v := range picked {
		assert.Contains(t, items, v)
	}

	// n beyond the input returns everything
	all := PickN(NewSeededRandom(3), items, 10)
	assert.ElementsMatch(t, items, all)

	// Input is untouched
	assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
}
