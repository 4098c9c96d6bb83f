// Package preference extracts the transient, per-request PreferenceView
// summarizing a user's past interactions, grounded on recommendation.py's
// _obtener_preferencias_usuario_rapido.
package preference

import (
	"feedcore/internal/core/catalog"
	"feedcore/internal/core/social"
)

const sampleSize = 80

// View is the request-scoped preference snapshot for one user.
type View struct {
	UserID uint

	SeenItemIDs map[uint]bool

	Skills     map[string]bool
	Knowledges map[string]bool
	Tools      map[string]bool
	Languages  map[string]bool

	// SkillWeights is the normalized skill occurrence histogram across the
	// sampled interaction history (sums to 1).
	SkillWeights map[string]float64
	// SkillVector is the L2-normalized user skill vector over the
	// snapshot's skill universe.
	SkillVector []float64

	Cities map[string]bool

	SocialNeighborhood map[uint]bool
	SocialInfluence    float64
}

// Empty returns a zero-value view for users with no recorded interactions.
func Empty(userID uint) *View {
	return &View{
		UserID:             userID,
		SeenItemIDs:        map[uint]bool{},
		Skills:             map[string]bool{},
		Knowledges:         map[string]bool{},
		Tools:              map[string]bool{},
		Languages:          map[string]bool{},
		SkillWeights:       map[string]float64{},
		Cities:             map[string]bool{},
		SocialNeighborhood: map[uint]bool{},
	}
}

// Build extracts the PreferenceView for u from the snapshot's interaction
// history, per spec.md §4.4.
func Build(snapshot *catalog.Snapshot, userID uint) *View {
	interactions := snapshot.InteractionsForUser(userID)
	if len(interactions) == 0 {
		view := Empty(userID)
		view.SocialNeighborhood = neighborhoodOf(snapshot, userID)
		view.SocialInfluence = social.InfluenceForSize(len(view.SocialNeighborhood))
		return view
	}

	view := Empty(userID)
	for _, interaction := range interactions {
		view.SeenItemIDs[interaction.ItemID] = true
	}

	sampled := interactions
	if len(sampled) > sampleSize {
		sampled = sampled[:sampleSize]
	}

	skillCounts := map[string]float64{}
	var totalSkillCount float64

	for _, interaction := range sampled {
		item, ok := snapshot.Item(interaction.ItemID)
		if !ok {
			continue
		}
		for _, s := range item.Skills {
			view.Skills[s] = true
			skillCounts[s]++
			totalSkillCount++
		}
		for _, k := range item.Knowledges {
			view.Knowledges[k] = true
		}
		for _, t := range item.Tools {
			view.Tools[t] = true
		}
		for _, l := range item.Languages {
			view.Languages[l] = true
		}
		if item.City != "" && item.City != "Unknown" {
			view.Cities[item.City] = true
		}
	}

	view.SkillWeights = normalizeWeights(skillCounts, totalSkillCount)
	if embedding := snapshot.SkillEmbedding(); embedding != nil && len(skillCounts) > 0 {
		view.SkillVector = embedding.VectorForSkills(skillCounts)
	}

	view.SocialNeighborhood = neighborhoodOf(snapshot, userID)
	view.SocialInfluence = social.InfluenceForSize(len(view.SocialNeighborhood))

	return view
}

func neighborhoodOf(snapshot *catalog.Snapshot, userID uint) map[uint]bool {
	graph := snapshot.SocialGraph()
	if graph == nil {
		return map[uint]bool{}
	}
	neighbors := graph.Neighborhood(userID)
	if neighbors == nil {
		return map[uint]bool{}
	}
	out := make(map[uint]bool, len(neighbors))
	for id := range neighbors {
		out[id] = true
	}
	return out
}

func normalizeWeights(counts map[string]float64, total float64) map[string]float64 {
	weights := make(map[string]float64, len(counts))
	if total == 0 {
		return weights
	}
	for skill, count := range counts {
		weights[skill] = count / total
	}
	return weights
}
