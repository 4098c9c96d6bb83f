package bandit

import (
	"math/rand"
	"testing"
)

func TestUpdateIncreasesScoreAlongRewardedDirection(t *testing.T) {
	bd := New(Config{Dimension: 18, Alpha: 1.5, Beta: 0.8})

	e0 := make([]float64, 18)
	e0[0] = 1

	// The predicted term x·theta, not the full UCB: the cold-start bonus and
	// the exploration term both shrink as rewards accumulate.
	before := dot(e0, bd.theta)

	for i := 0; i < 50; i++ {
		bd.Update(e0, 1.0)
	}

	after := dot(e0, bd.theta)

	if after <= before {
		t.Fatalf("expected score to increase after positive-reward updates: before=%f after=%f", before, after)
	}
	if bd.theta[0] <= 0 {
		t.Fatalf("expected theta[0] > 0 after positive updates, got %f", bd.theta[0])
	}
}

func TestHistoryBoundedAt500AfterExceeding1000(t *testing.T) {
	bd := New(Config{Dimension: 18, Alpha: 1.3, Beta: 0.7})
	x := make([]float64, 18)
	x[1] = 1

	for i := 0; i < historyCap+1; i++ {
		bd.Update(x, 0.5)
	}

	if len(bd.rewardHistory) != historyTrimTo {
		t.Fatalf("expected history trimmed to %d, got %d", historyTrimTo, len(bd.rewardHistory))
	}
}

func TestScoreDimensionMatchesContextCount(t *testing.T) {
	bd := New(Config{Dimension: 18, Alpha: 1.8, Beta: 0.9})
	rng := rand.New(rand.NewSource(2))

	contexts := make([][]float64, 5)
	for i := range contexts {
		contexts[i] = make([]float64, 18)
	}

	scores := bd.Score(contexts, rng)
	if len(scores) != 5 {
		t.Fatalf("expected 5 scores, got %d", len(scores))
	}
}

func TestInvertIdentityIsIdentity(t *testing.T) {
	inv, ok := invert(identity(4))
	if !ok {
		t.Fatal("expected identity matrix to be invertible")
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if diff := inv[i][j] - want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("inv[%d][%d] = %f, want %f", i, j, inv[i][j], want)
			}
		}
	}
}
