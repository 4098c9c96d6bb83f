// Package bandit implements the LinUCB contextual bandit with an adaptive
// exploration bonus, grounded on recommendation.py's
// BanditContextualAdaptativo. One instance per scoring category (VMP, AU,
// NU); d=18 is small enough for a dense hand-rolled matrix kernel, which
// spec.md §9 explicitly sanctions in place of a linear-algebra dependency.
package bandit

import (
	"math"
	"math/rand"
	"sync"
)

const (
	ridgeLambda       = 1e-3
	historyCap        = 1000
	historyTrimTo     = 500
	coldStartRewards  = 10
	coldStartBonus    = 0.7
	varianceWindow    = 50
	varianceBonusMult = 1.3
)

// Config carries the per-category tuning.
type Config struct {
	Dimension int
	Alpha     float64
	Beta      float64
}

// Bandit is one LinUCB instance. All state mutation is serialized by mu, as
// recommended by spec.md §5 ("one lock per category, short critical
// sections").
type Bandit struct {
	mu sync.Mutex

	d     int
	alpha float64
	beta  float64

	a       [][]float64 // ridge matrix A, d x d
	aInv    [][]float64 // cached inverse of (A + lambda*I)
	b       []float64   // b vector
	theta   []float64   // theta = A^-1 b

	rewardHistory  []float64
	contextHistory [][]float64

	degenerate bool
}

// New constructs a fresh bandit with A = I_d, b = 0.
func New(cfg Config) *Bandit {
	d := cfg.Dimension
	bd := &Bandit{
		d:     d,
		alpha: cfg.Alpha,
		beta:  cfg.Beta,
		a:     identity(d),
		aInv:  identity(d),
		b:     make([]float64, d),
		theta: make([]float64, d),
	}
	return bd
}

func identity(d int) [][]float64 {
	m := make([][]float64, d)
	for i := range m {
		m[i] = make([]float64, d)
		m[i][i] = 1
	}
	return m
}

// Score computes the UCB score for a batch of contexts X (n x d):
// ucb = X*theta + alpha*sqrt(rowwise(X*Ainv*Xt)) + adaptiveBonus(n).
// When the bandit has been marked degenerate by a failed inversion, the
// bandit term is dropped and only the raw dot product with theta is used,
// per spec.md §4.6's downgrade-to-score-only behavior.
func (bd *Bandit) Score(contexts [][]float64, rng *rand.Rand) []float64 {
	bd.mu.Lock()
	theta := append([]float64(nil), bd.theta...)
	aInv := bd.aInv
	degenerate := bd.degenerate
	n := len(bd.rewardHistory)
	var recentVar float64
	if n > 0 {
		recentVar = variance(lastWindow(bd.rewardHistory, varianceWindow))
	}
	bd.mu.Unlock()

	scores := make([]float64, len(contexts))
	for i, x := range contexts {
		scores[i] = dot(x, theta)
		if !degenerate {
			quad := quadForm(x, aInv)
			if quad < 0 {
				quad = 0
			}
			scores[i] += bd.alpha * math.Sqrt(quad)
		}
	}

	if n < coldStartRewards {
		for i := range scores {
			scores[i] += coldStartBonus
		}
	} else {
		for i := range scores {
			scores[i] += bd.beta * recentVar * varianceBonusMult * rng.Float64()
		}
	}

	return scores
}

// Update mutates A, b and the cached inverse in place given one observed
// (context, reward) pair, then appends to history and trims if needed.
func (bd *Bandit) Update(x []float64, reward float64) {
	bd.mu.Lock()
	defer bd.mu.Unlock()

	for i := 0; i < bd.d; i++ {
		for j := 0; j < bd.d; j++ {
			bd.a[i][j] += x[i] * x[j]
		}
		bd.b[i] += reward * x[i]
	}

	regularized := addScaledIdentity(bd.a, ridgeLambda)
	inv, ok := invert(regularized)
	if !ok {
		bd.degenerate = true
	} else {
		bd.aInv = inv
		bd.degenerate = false
		bd.theta = matVec(bd.aInv, bd.b)
	}

	bd.rewardHistory = append(bd.rewardHistory, reward)
	bd.contextHistory = append(bd.contextHistory, append([]float64(nil), x...))
	if len(bd.rewardHistory) > historyCap {
		bd.rewardHistory = append([]float64(nil), bd.rewardHistory[len(bd.rewardHistory)-historyTrimTo:]...)
		bd.contextHistory = append([][]float64(nil), bd.contextHistory[len(bd.contextHistory)-historyTrimTo:]...)
	}
}

// Stats reports mean reward overall and over the last 50 observations, for
// the assembler's metrics block.
type Stats struct {
	HistoryLength int
	MeanReward    float64
	MeanRewardN50 float64
}

func (bd *Bandit) Stats() Stats {
	bd.mu.Lock()
	defer bd.mu.Unlock()

	return Stats{
		HistoryLength: len(bd.rewardHistory),
		MeanReward:    mean(bd.rewardHistory),
		MeanRewardN50: mean(lastWindow(bd.rewardHistory, varianceWindow)),
	}
}

func (bd *Bandit) IsDegenerate() bool {
	bd.mu.Lock()
	defer bd.mu.Unlock()
	return bd.degenerate
}

func lastWindow(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func quadForm(x []float64, m [][]float64) float64 {
	d := len(x)
	tmp := make([]float64, d)
	for i := 0; i < d; i++ {
		var sum float64
		for j := 0; j < d; j++ {
			sum += m[i][j] * x[j]
		}
		tmp[i] = sum
	}
	return dot(x, tmp)
}

func matVec(m [][]float64, v []float64) []float64 {
	out := make([]float64, len(m))
	for i := range m {
		var sum float64
		for j := range v {
			sum += m[i][j] * v[j]
		}
		out[i] = sum
	}
	return out
}

func addScaledIdentity(m [][]float64, lambda float64) [][]float64 {
	d := len(m)
	out := make([][]float64, d)
	for i := range m {
		out[i] = append([]float64(nil), m[i]...)
		out[i][i] += lambda
	}
	return out
}

// invert computes the matrix inverse via Gauss-Jordan elimination with
// partial pivoting. Returns ok=false if the matrix is singular to working
// precision, which the caller treats as a BanditDegenerate condition.
func invert(m [][]float64) ([][]float64, bool) {
	d := len(m)
	aug := make([][]float64, d)
	for i := range m {
		aug[i] = make([]float64, 2*d)
		copy(aug[i], m[i])
		aug[i][d+i] = 1
	}

	for col := 0; col < d; col++ {
		pivotRow := col
		maxAbs := math.Abs(aug[col][col])
		for row := col + 1; row < d; row++ {
			if abs := math.Abs(aug[row][col]); abs > maxAbs {
				pivotRow, maxAbs = row, abs
			}
		}
		if maxAbs < 1e-12 {
			return nil, false
		}
		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]

		pivot := aug[col][col]
		for j := range aug[col] {
			aug[col][j] /= pivot
		}
		for row := 0; row < d; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			if factor == 0 {
				continue
			}
			for j := range aug[row] {
				aug[row][j] -= factor * aug[col][j]
			}
		}
	}

	inv := make([][]float64, d)
	for i := range inv {
		inv[i] = append([]float64(nil), aug[i][d:]...)
	}
	return inv, true
}
