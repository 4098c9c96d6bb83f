package candidates

import (
	"math/rand"
	"testing"
)

func TestWeightedSampleReturnsAllWhenNExceedsPoolSize(t *testing.T) {
	ids := []uint{1, 2, 3}
	weights := []float64{1, 1, 1}
	rng := rand.New(rand.NewSource(1))

	got := weightedSampleWithoutReplacement(ids, weights, 10, rng)
	if len(got) != 3 {
		t.Fatalf("expected all 3 ids returned, got %d", len(got))
	}
}

func TestWeightedSampleReturnsDistinctIDsWithoutReplacement(t *testing.T) {
	ids := []uint{1, 2, 3, 4, 5}
	weights := []float64{5, 4, 3, 2, 1}
	rng := rand.New(rand.NewSource(2))

	got := weightedSampleWithoutReplacement(ids, weights, 3, rng)
	if len(got) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(got))
	}
	seen := map[uint]bool{}
	for _, id := range got {
		if seen[id] {
			t.Fatalf("expected distinct ids, got a repeat: %v", got)
		}
		seen[id] = true
	}
}

func TestWeightedSampleFallsBackToUniformWhenAllWeightsAreZero(t *testing.T) {
	ids := []uint{1, 2, 3}
	weights := []float64{0, 0, 0}
	rng := rand.New(rand.NewSource(3))

	got := weightedSampleWithoutReplacement(ids, weights, 2, rng)
	if len(got) != 2 {
		t.Fatalf("expected 2 ids even with all-zero weights, got %d", len(got))
	}
}

func TestUniformSampleReturnsAllWhenNExceedsPoolSize(t *testing.T) {
	ids := []uint{1, 2, 3}
	rng := rand.New(rand.NewSource(4))

	got := uniformSample(ids, 10, rng)
	if len(got) != 3 {
		t.Fatalf("expected all 3 ids returned, got %d", len(got))
	}
}

func TestUniformSampleReturnsDistinctSubset(t *testing.T) {
	ids := []uint{1, 2, 3, 4, 5}
	rng := rand.New(rand.NewSource(5))

	got := uniformSample(ids, 2, rng)
	if len(got) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(got))
	}
	if got[0] == got[1] {
		t.Fatalf("expected distinct ids, got %v", got)
	}
}
