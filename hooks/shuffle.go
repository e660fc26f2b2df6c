package hooks

// Rand is the part of *math/rand.Rand the shuffle needs.
type Rand interface {
	Intn(n int) int
}

// Shuffle returns a Fisher-Yates permutation of items, leaving items as is:
// for i from the last index down to 1, swap i with j = r.Intn(i+1).
func Shuffle[T any](items []T, r Rand) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
