package optimizer

import "math"

// SeededRandom is a deterministic pseudo-random generator: given the same
// integer seed, two instances produce identical sequences. It exists for
// reproducible variety between optimizer runs, not for anything
// cryptographic.
type SeededRandom struct {
	state float64
}

// NewSeededRandom creates a generator from an integer seed.
func NewSeededRandom(seed int64) *SeededRandom {
	return &SeededRandom{state: float64(seed)}
}

// Next returns the next value in [0, 1): the fractional part of
// sin(state) * 10000, advancing state by one per call.
func (r *SeededRandom) Next() float64 {
	x := math.Sin(r.state) * 10000
	r.state++
	return x - math.Floor(x)
}

// Range returns a value in [min, max).
func (r *SeededRandom) Range(min, max float64) float64 {
	return min + r.Next()*(max-min)
}

// Intn returns an integer in [0, n). n must be positive.
func (r *SeededRandom) Intn(n int) int {
	return int(r.Next() * float64(n))
}

// Shuffle permutes items in place using Fisher-Yates.
func Shuffle[T any](r *SeededRandom, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Pick returns a uniformly chosen element. Panics on empty input.
func Pick[T any](r *SeededRandom, items []T) T {
	return items[r.Intn(len(items))]
}

// PickN returns n distinct elements in shuffled order (all elements when
// n >= len(items)). The input slice is not modified.
func PickN[T any](r *SeededRandom, items []T, n int) []T {
	copied := make([]T, len(items))
	copy(copied, items)
	Shuffle(r, copied)
	if n > len(copied) {
		n = len(copied)
	}
	return copied[:n]
}
