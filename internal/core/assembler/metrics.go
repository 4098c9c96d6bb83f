package assembler

import (
	"time"

	"feedcore/internal/core/bandit"
	"feedcore/internal/core/catalog"
	"feedcore/internal/core/preference"
)

// computeMetrics builds the feed's metrics block exactly as recommendation.py's
// generar_scroll_infinito constructs its metricas dict: coverage and ratio
// figures are percentages (0-100), not fractions.
func computeMetrics(snapshot *catalog.Snapshot, feed []Entry, view *preference.View, excludedIDsInput map[uint]bool,
	poolVMP, poolNU, poolAU, poolFW, poolExplore []uint,
	usedCreators map[uint]bool, skillDiversitySet map[string]bool,
	bandits Bandits, start time.Time) Metrics {

	typeDistribution := map[string]int{}
	uniqueCreators := map[uint]bool{}
	var viewSum, ratingSum float64
	var nonFlowCount int
	var newContentCount int
	var exploreFallbacks int

	for _, entry := range feed {
		if entry.ExploreFallback {
			exploreFallbacks++
		}
		if entry.IsFlow {
			typeDistribution["challenge"]++
			if flow, ok := snapshot.Flow(entry.ItemID); ok {
				uniqueCreators[flow.CreatorID] = true
			}
			continue
		}

		typeDistribution["resume"]++
		item, ok := snapshot.Item(entry.ItemID)
		if !ok {
			continue
		}
		uniqueCreators[item.CreatorID] = true
		viewSum += float64(item.ViewCount)
		ratingSum += item.AvgRating
		nonFlowCount++
		if daysBetween(snapshot.BuiltAt, item.CreatedAt) <= daysSinceCreationFreshWindow {
			newContentCount++
		}
	}

	var avgViews, avgRating float64
	if nonFlowCount > 0 {
		avgViews = viewSum / float64(nonFlowCount)
		avgRating = ratingSum / float64(nonFlowCount)
	}

	var newContentRatio float64
	if len(feed) > 0 {
		newContentRatio = float64(newContentCount) / float64(len(feed)) * 100
	}

	totalCatalog := snapshot.ItemCount()
	available := totalCatalog
	for id := range excludedIDsInput {
		if _, ok := snapshot.Item(id); ok && !view.SeenItemIDs[id] {
			available--
		}
	}
	for id := range view.SeenItemIDs {
		if _, ok := snapshot.Item(id); ok {
			available--
		}
	}

	allPools := map[uint]bool{}
	for _, ids := range [][]uint{poolVMP, poolNU, poolAU, poolFW, poolExplore} {
		for _, id := range ids {
			allPools[id] = true
		}
	}
	availableFloor := available
	if availableFloor < 1 {
		availableFloor = 1
	}
	catalogCoverage := float64(len(allPools)) / float64(availableFloor) * 100

	var feedCoverage float64
	if requestedCount > 0 {
		feedCoverage = float64(len(feed)) / float64(requestedCount) * 100
	}

	var skillDiversity float64
	if dim := snapshot.SkillEmbedding(); dim != nil && dim.Dimension() > 0 && len(feed) > 0 {
		skillDiversity = float64(len(skillDiversitySet)) / float64(2*len(feed)) * 100
	}

	var creatorDiversity float64
	if nonFlowCount > 0 {
		creatorDiversity = float64(len(uniqueCreators)) / float64(nonFlowCount) * 100
	}

	poolSizes := map[string]int{
		"VMP":     len(poolVMP),
		"NU":      len(poolNU),
		"AU":      len(poolAU),
		"FW":      len(poolFW),
		"EXPLORE": len(poolExplore),
	}

	return Metrics{
		TotalItems:       len(feed),
		TypeDistribution: typeDistribution,
		UniqueCreators:   len(uniqueCreators),
		AvgViews:         avgViews,
		AvgRating:        avgRating,
		ExecutionTime:    time.Since(start),
		CatalogCoverage:  catalogCoverage,
		FeedCoverage:     feedCoverage,
		NewContentRatio:  newContentRatio,
		SkillDiversity:   skillDiversity,
		CreatorDiversity: creatorDiversity,
		TotalCatalog:     totalCatalog,
		AvailableCatalog: available,
		PoolSizes:        poolSizes,
		ExploreFallbacks: exploreFallbacks,
		BanditStatsVMP:   bandits.VMP.Stats(),
		BanditStatsAU:    bandits.AU.Stats(),
		BanditStatsNU:    bandits.NU.Stats(),
	}
}
