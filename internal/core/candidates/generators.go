package candidates

import (
	"math/rand"
	"sort"
	"time"

	"feedcore/internal/core/bandit"
	"feedcore/internal/core/catalog"
	"feedcore/internal/core/preference"
)

const (
	daysSinceCreationFreshWindow = 45
	vmpBonusEngagement           = 2.2
	vmpBonusPopularity           = 1.6
	vmpBonusQuality              = 1.8
	vmpBonusFresh                = 1.4

	auBonusSkillSim   = 3.5
	auBonusExtended   = 3.0
	auBonusPopularity = 1.1
	auBonusQuality    = 1.4
	auBonusTemporal   = 0.9
	auBonusRarity     = 0.9
	auBonusFresh      = 0.9

	nuBonusTemporal  = 2.5
	nuBonusDiversity = 1.8
	nuBonusRarity    = 1.4
	nuBonusNewNoise  = 0.6
	nuMaxDays        = 45
)

type scoredItem struct {
	id    uint
	score float64
}

func sortDescending(scored []scoredItem) {
	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
}

func contextFor(snapshot *catalog.Snapshot, item *catalog.Item, view *preference.View, rng *rand.Rand) []float64 {
	return ExtractFeatures(item, view, snapshot.SkillEmbedding(),
		snapshot.MaxRatingCount(), snapshot.MaxLikeCount(), snapshot.MaxExhibitedCount(), rng)
}

func daysBetween(now, createdAt time.Time) int {
	return int(now.Sub(createdAt).Hours() / 24)
}

// VMP generates the "high-quality popular" candidate pool. If the
// quality-gated candidate set is empty, the quality gate filter is dropped
// and the whole eligible item set is retried, per spec.md §4.5.
func VMP(snapshot *catalog.Snapshot, view *preference.View, excludedItems, excludedCreators map[uint]bool, bd *bandit.Bandit, n int, rng *rand.Rand) []uint {
	pool := eligibleItems(snapshot, excludedItems, excludedCreators, func(item *catalog.Item) bool {
		return item.QualityGate
	})
	if len(pool) == 0 {
		pool = eligibleItems(snapshot, excludedItems, excludedCreators, nil)
	}
	if len(pool) == 0 {
		return nil
	}

	contexts := make([][]float64, len(pool))
	for i, item := range pool {
		contexts[i] = contextFor(snapshot, item, view, rng)
	}
	ucb := bd.Score(contexts, rng)

	scored := make([]scoredItem, len(pool))
	for i, item := range pool {
		isFresh := 0.0
		if daysBetween(snapshot.BuiltAt, item.CreatedAt) <= daysSinceCreationFreshWindow {
			isFresh = 1
		}
		scored[i] = scoredItem{
			id: item.ID,
			score: ucb[i] + vmpBonusEngagement*item.ScoreEngagement +
				vmpBonusPopularity*item.ScorePopularity + vmpBonusQuality*item.ScoreQuality +
				vmpBonusFresh*isFresh,
		}
	}
	sortDescending(scored)

	topN := 2 * n
	if topN > len(scored) {
		topN = len(scored)
	}
	top := scored[:topN]

	ids := make([]uint, len(top))
	weights := make([]float64, len(top))
	for i, s := range top {
		ids[i] = s.id
		w := s.score
		if w < 0 {
			w = 0
		}
		weights[i] = w
	}
	return weightedSampleWithoutReplacement(ids, weights, n, rng)
}

// AU generates the "affinity to user" candidate pool: no quality gate, top
// n by score, no sampling.
func AU(snapshot *catalog.Snapshot, view *preference.View, excludedItems, excludedCreators map[uint]bool, bd *bandit.Bandit, n int, rng *rand.Rand) []uint {
	pool := eligibleItems(snapshot, excludedItems, excludedCreators, nil)
	if len(pool) == 0 {
		return nil
	}

	contexts := make([][]float64, len(pool))
	for i, item := range pool {
		contexts[i] = contextFor(snapshot, item, view, rng)
	}
	ucb := bd.Score(contexts, rng)

	scored := make([]scoredItem, len(pool))
	for i, item := range pool {
		isFresh := 0.0
		if daysBetween(snapshot.BuiltAt, item.CreatedAt) <= daysSinceCreationFreshWindow {
			isFresh = 1
		}
		f := contexts[i]
		scored[i] = scoredItem{
			id: item.ID,
			score: ucb[i] + auBonusSkillSim*f[5] + auBonusExtended*f[6] +
				auBonusPopularity*item.ScorePopularity + auBonusQuality*item.ScoreQuality +
				auBonusTemporal*item.ScoreTemporal + auBonusRarity*(item.RaritySkills/100) +
				auBonusFresh*isFresh,
		}
	}
	sortDescending(scored)

	topN := n
	if topN > len(scored) {
		topN = len(scored)
	}
	ids := make([]uint, topN)
	for i := 0; i < topN; i++ {
		ids[i] = scored[i].id
	}
	return ids
}

// NU generates the "new content" candidate pool, restricted to items no
// older than 45 days, taking the top 2n by score and then uniform-sampling
// n when the pool exceeds n.
func NU(snapshot *catalog.Snapshot, view *preference.View, excludedItems, excludedCreators map[uint]bool, bd *bandit.Bandit, n int, rng *rand.Rand) []uint {
	pool := eligibleItems(snapshot, excludedItems, excludedCreators, func(item *catalog.Item) bool {
		return daysBetween(snapshot.BuiltAt, item.CreatedAt) <= nuMaxDays
	})
	if len(pool) == 0 {
		return nil
	}

	contexts := make([][]float64, len(pool))
	for i, item := range pool {
		contexts[i] = contextFor(snapshot, item, view, rng)
	}
	ucb := bd.Score(contexts, rng)

	scored := make([]scoredItem, len(pool))
	for i, item := range pool {
		scored[i] = scoredItem{
			id: item.ID,
			score: ucb[i] + nuBonusTemporal*item.ScoreTemporal + nuBonusDiversity*item.DiversitySkills +
				nuBonusRarity*(item.RaritySkills/100) + 0.8*item.BoostNew + rng.Float64()*nuBonusNewNoise,
		}
	}
	sortDescending(scored)

	topN := 2 * n
	if topN > len(scored) {
		topN = len(scored)
	}
	top := scored[:topN]
	ids := make([]uint, len(top))
	for i, s := range top {
		ids[i] = s.id
	}
	return uniformSample(ids, n, rng)
}

// FW generates the flow candidate pool: score is uniform noise plus a
// recency component, top n by score.
func FW(snapshot *catalog.Snapshot, excludedFlows map[uint]bool, n int, rng *rand.Rand) []uint {
	var scored []scoredItem
	for _, flow := range snapshot.Flows() {
		if excludedFlows[flow.ID] {
			continue
		}
		days := float64(daysBetween(snapshot.BuiltAt, flow.CreatedAt))
		score := rng.Float64()*40 + (60-days)/60*60
		scored = append(scored, scoredItem{id: flow.ID, score: score})
	}
	sortDescending(scored)

	topN := n
	if topN > len(scored) {
		topN = len(scored)
	}
	ids := make([]uint, topN)
	for i := 0; i < topN; i++ {
		ids[i] = scored[i].id
	}
	return ids
}

// Explore generates the uniform-random fallback pool from the remainder
// after excluding items already seen or already placed in another pool.
func Explore(snapshot *catalog.Snapshot, excludedItems, excludedCreators map[uint]bool, n int, rng *rand.Rand) []uint {
	pool := eligibleItems(snapshot, excludedItems, excludedCreators, nil)
	if len(pool) == 0 {
		return nil
	}
	ids := make([]uint, len(pool))
	for i, item := range pool {
		ids[i] = item.ID
	}
	return uniformSample(ids, n, rng)
}

func eligibleItems(snapshot *catalog.Snapshot, excludedItems, excludedCreators map[uint]bool, extra func(*catalog.Item) bool) []*catalog.Item {
	var out []*catalog.Item
	for _, item := range snapshot.Items() {
		if excludedItems[item.ID] || excludedCreators[item.CreatorID] {
			continue
		}
		if extra != nil && !extra(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}
