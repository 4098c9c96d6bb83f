package catalog

import (
	"fmt"
	"time"

	"feedcore/internal/core/skills"
	"feedcore/internal/core/social"
	"feedcore/internal/data"
)

// LoaderConfig carries the tunables the loader needs from configuration,
// kept separate from config.Config to avoid a dependency from core onto
// the config package.
type LoaderConfig struct {
	ItemRecencyWindowDays int
	FlowRecencyWindowDays int
	BlacklistPath         string
}

const implicitViewCap = 50

// Load builds a brand new Snapshot from the relational source, in the
// fixed order mandated by spec.md §4.1: Users -> Items -> Interactions ->
// Connections -> Flows. Any step failing aborts the whole load; no partial
// snapshot is ever returned.
func Load(repo data.CatalogRepository, cfg LoaderConfig) (*Snapshot, error) {
	blacklist, err := data.LoadBlacklist(cfg.BlacklistPath)
	if err != nil {
		return nil, fmt.Errorf("load blacklist: %w", err)
	}
	blacklisted := func(url string) bool { return blacklist[url] }

	creatorRows, err := repo.LoadCreators()
	if err != nil {
		return nil, fmt.Errorf("load creators: %w", err)
	}
	creators := make(map[uint]*Creator, len(creatorRows))
	for _, row := range creatorRows {
		creators[row.ID] = &Creator{
			ID:          row.ID,
			DisplayName: row.Name,
			Username:    row.Username,
			City:        NormalizeCity(row.City, row.Country),
			Country:     row.Country,
			CreatedAt:   row.CreatedAt,
		}
	}

	itemRows, err := repo.LoadItems(cfg.ItemRecencyWindowDays, blacklisted)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	itemIDs := make([]uint, 0, len(itemRows))
	for _, row := range itemRows {
		itemIDs = append(itemIDs, row.ID)
	}
	engagement, err := repo.LoadItemEngagement(itemIDs)
	if err != nil {
		return nil, fmt.Errorf("load item engagement: %w", err)
	}

	items := make([]*Item, 0, len(itemRows))
	for _, row := range itemRows {
		agg := engagement[row.ID]
		avgRating := agg.AvgRating
		if avgRating > 5 {
			avgRating = 5
		}

		creatorCountry := ""
		if creator, ok := creators[row.CreatorID]; ok {
			creatorCountry = creator.Country
		}

		item := &Item{
			ID:             row.ID,
			CreatorID:      row.CreatorID,
			VideoURL:       row.VideoURL,
			Name:           row.Name,
			Description:    row.Description,
			CreatedAt:      row.CreatedAt,
			City:           NormalizeCity(row.City, creatorCountry),
			ViewCount:      agg.ActualViews,
			AvgRating:      avgRating,
			RatingCount:    agg.RatingCount,
			LikeCount:      agg.LikeCount,
			MatchCount:     agg.MatchCount,
			ExhibitedCount: agg.ExhibitedCount,
			Skills:         capStrings(row.Skills, 5),
			Knowledges:     capStrings(row.Knowledges, 3),
			Tools:          capStrings(row.Tools, 3),
			Languages:      capStrings(row.Languages, 3),
		}
		items = append(items, item)
	}

	interactionRows, err := repo.LoadInteractions()
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	if len(interactionRows) == 0 {
		interactionRows = synthesizeImplicitInteractions(items)
	}
	interactions := make([]Interaction, 0, len(interactionRows))
	for _, row := range interactionRows {
		interactions = append(interactions, Interaction{
			UserID:    row.UserID,
			ItemID:    row.ItemID,
			Rating:    row.Rating,
			Kind:      InteractionKind(row.Kind),
			CreatedAt: row.CreatedAt,
		})
	}

	connectionRows, err := repo.LoadConnections()
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	edges := make([]social.Edge, 0, len(connectionRows))
	for _, c := range connectionRows {
		edges = append(edges, social.Edge{FromUserID: c.FromUserID, ToUserID: c.ToUserID})
	}
	socialGraph := social.Build(edges)

	flowRows, err := repo.LoadFlows(cfg.FlowRecencyWindowDays, blacklisted)
	if err != nil {
		return nil, fmt.Errorf("load flows: %w", err)
	}
	flows := make([]*Flow, 0, len(flowRows))
	for _, row := range flowRows {
		flow := &Flow{
			ID:          row.ID,
			CreatorID:   row.CreatorID,
			VideoURL:    row.VideoURL,
			Name:        row.Name,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
			City:        NormalizeCity(row.City, ""),
		}
		flows = append(flows, flow)
	}

	skillEmbedding := buildSkillEmbedding(items)

	applyFeaturePrecompute(items, skillEmbedding)

	return NewSnapshot(items, flows, creators, interactions, blacklist, skillEmbedding, socialGraph), nil
}

func capStrings(values []string, max int) []string {
	if len(values) <= max {
		return values
	}
	return values[:max]
}

// synthesizeImplicitInteractions bootstraps an implicit interaction matrix
// from item view counts when the relational source has no direct
// interactions, per spec.md §4.1's fallback.
func synthesizeImplicitInteractions(items []*Item) []data.InteractionRow {
	var rows []data.InteractionRow
	for _, item := range items {
		count := int(item.ViewCount)
		if count > implicitViewCap {
			count = implicitViewCap
		}
		for i := 0; i < count; i++ {
			rows = append(rows, data.InteractionRow{
				UserID:    0,
				ItemID:    item.ID,
				Rating:    3.0,
				Kind:      data.InteractionKindViewImplicit,
				CreatedAt: item.CreatedAt,
			})
		}
	}
	return rows
}

func buildSkillEmbedding(items []*Item) *skills.Embedding {
	inputs := make([]skills.ItemSkills, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, skills.ItemSkills{ItemID: item.ID, Skills: item.Skills})
	}
	return skills.Build(inputs)
}

func applyFeaturePrecompute(items []*Item, embedding *skills.Embedding) {
	views := make([]float64, len(items))
	matches := make([]float64, len(items))
	for i, item := range items {
		views[i] = float64(item.ViewCount)
		matches[i] = float64(item.MatchCount)
	}
	viewsRange := newNormLogRange(views)
	matchRange := newNormLogRange(matches)

	rarity := func(skillSet []string) float64 {
		return embedding.RaritySkills(skillSet)
	}

	for _, item := range items {
		computeItemFeatures(item, viewsRange, matchRange, rarity, time.Now)
	}
}
