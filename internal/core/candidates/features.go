// Package candidates implements the per-slot candidate generators (VMP, AU,
// NU, FW, EXPLORE) and the 18-dimensional feature extraction they share,
// grounded on recommendation.py's _extraer_features_contexto_vectorizado
// and the five _seleccionar_* methods.
package candidates

import (
	"math"
	"math/rand"

	"feedcore/internal/core/catalog"
	"feedcore/internal/core/preference"
	"feedcore/internal/core/skills"
)

// FeatureDimension is the fixed context dimension d=18 the bandits operate
// over, per spec.md §3's Bandit state invariant.
const FeatureDimension = 18

// ExtractFeatures builds the 18-dim context vector for a single item given
// the user's preference view and the snapshot-wide maxima needed for
// features 14-16, per spec.md §4.5's feature table.
func ExtractFeatures(item *catalog.Item, view *preference.View, embedding *skills.Embedding, maxRatingCount, maxLikeCount, maxExhibitedCount int64, rng *rand.Rand) []float64 {
	f := make([]float64, FeatureDimension)

	f[0] = item.ScoreEngagement
	f[1] = item.ScoreTemporal * item.BoostNew
	f[2] = item.ScoreQuality
	f[3] = item.ScorePopularity
	f[4] = item.DiversitySkills
	f[5] = skillSimilarity(view, item, embedding)
	f[6] = extendedMatch(view, item) / 100
	if view.Cities[item.City] {
		f[7] = 1
	}
	if view.SocialNeighborhood[item.CreatorID] {
		f[8] = 1
	}
	f[9] = math.Log(1+float64(item.ViewCount)) / 10
	f[10] = item.AvgRating / 5
	f[11] = item.RaritySkills / 100
	if item.QualityGate {
		f[12] = 1
	}
	f[13] = view.SocialInfluence
	f[14] = float64(item.RatingCount) / float64(maxRatingCount+1)
	f[15] = float64(item.LikeCount) / float64(maxLikeCount+1)
	f[16] = float64(item.ExhibitedCount) / float64(maxExhibitedCount+1)
	f[17] = rng.Float64() * 0.3

	return f
}

// skillSimilarity combines cosine similarity of the user/item skill
// vectors with the user's weighted skill histogram over the item's skills,
// per spec.md §4.5: 0.6*cosine + 0.4*sum(skillWeights), clamped to [0,1],
// with documented defaults when either side lacks skill data.
func skillSimilarity(view *preference.View, item *catalog.Item, embedding *skills.Embedding) float64 {
	if view.SkillVector == nil {
		return 0.5
	}
	if len(item.Skills) == 0 {
		return 0.3
	}

	itemVector := embedding.ItemVector(item.ID)
	cosine := skills.CosineSimilarity(view.SkillVector, itemVector)

	var weightSum float64
	for _, s := range item.Skills {
		weightSum += view.SkillWeights[s]
	}

	similarity := 0.6*cosine + 0.4*weightSum
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

// extendedMatch scores overlap across all four skill-like attribute sets,
// capped at 100, per spec.md §4.5.
func extendedMatch(view *preference.View, item *catalog.Item) float64 {
	score := 15*countIn(view.Skills, item.Skills) +
		12*countIn(view.Knowledges, item.Knowledges) +
		10*countIn(view.Tools, item.Tools) +
		8*countIn(view.Languages, item.Languages)
	if score > 100 {
		return 100
	}
	return score
}

func countIn(set map[string]bool, values []string) float64 {
	var count float64
	for _, v := range values {
		if set[v] {
			count++
		}
	}
	return count
}
