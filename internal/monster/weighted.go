package monster

import "math/rand"

// PickWeighted returns an index drawn by cumulative weight. Negative weights
// count as zero. When every weight is zero the pick is uniform. An empty
// slice yields -1.
func PickWeighted(rng *rand.Rand, weights []int) int {
	if len(weights) == 0 {
		return -1
	}
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return rng.Intn(len(weights))
	}
	r := rng.Intn(total)
	acc := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}
