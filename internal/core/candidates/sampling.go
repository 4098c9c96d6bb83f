package candidates

import "math/rand"

// weightedSampleWithoutReplacement draws n ids from ids without
// replacement, with selection probability at each step proportional to the
// remaining non-negative weight. Falls back to uniform sampling once the
// remaining weight sums to zero, per spec.md §4.5's VMP generator.
func weightedSampleWithoutReplacement(ids []uint, weights []float64, n int, rng *rand.Rand) []uint {
	if n >= len(ids) {
		out := make([]uint, len(ids))
		copy(out, ids)
		return out
	}

	remainingIDs := make([]uint, len(ids))
	copy(remainingIDs, ids)
	remainingWeights := make([]float64, len(weights))
	copy(remainingWeights, weights)

	out := make([]uint, 0, n)
	for len(out) < n && len(remainingIDs) > 0 {
		var total float64
		for _, w := range remainingWeights {
			total += w
		}

		var idx int
		if total <= 0 {
			idx = rng.Intn(len(remainingIDs))
		} else {
			target := rng.Float64() * total
			var cumulative float64
			idx = len(remainingIDs) - 1
			for i, w := range remainingWeights {
				cumulative += w
				if target <= cumulative {
					idx = i
					break
				}
			}
		}

		out = append(out, remainingIDs[idx])
		remainingIDs = append(remainingIDs[:idx], remainingIDs[idx+1:]...)
		remainingWeights = append(remainingWeights[:idx], remainingWeights[idx+1:]...)
	}
	return out
}

// uniformSample draws n distinct ids uniformly at random from ids without
// replacement.
func uniformSample(ids []uint, n int, rng *rand.Rand) []uint {
	if n >= len(ids) {
		out := make([]uint, len(ids))
		copy(out, ids)
		return out
	}
	shuffled := make([]uint, len(ids))
	copy(shuffled, ids)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
