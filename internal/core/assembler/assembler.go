// Package assembler walks the fixed 6-slot pattern over the per-category
// candidate pools, enforcing exclusion, diversity and fallback rules, and
// emits the final ordered feed with metrics. Grounded on
// recommendation.py's generar_scroll_infinito and generar_feed_flows_only.
package assembler

import (
	"math/rand"
	"time"

	"feedcore/internal/core/bandit"
	"feedcore/internal/core/candidates"
	"feedcore/internal/core/catalog"
	"feedcore/internal/core/preference"
)

const (
	requestedCount     = 24
	slidingWindowSize  = 12
	maxSlotAttempts    = 150
	minUsedSkillsGuard = 3

	poolSizeVMP     = 110
	poolSizeNU      = 95
	poolSizeAU      = 170
	poolSizeFW      = 40
	poolSizeExplore = 75

	daysSinceCreationFreshWindow = 45
)

// daysBetween mirrors candidates.daysBetween: days elapsed are computed
// against the snapshot's frozen BuiltAt time, never the live wall clock, so
// every request served from the same snapshot agrees on an item's age.
func daysBetween(now, createdAt time.Time) int {
	return int(now.Sub(createdAt).Hours() / 24)
}

// SlotType identifies the category a feed entry was filled from.
type SlotType string

const (
	SlotVMP SlotType = "VMP"
	SlotAU  SlotType = "AU"
	SlotNU  SlotType = "NU"
	SlotFW  SlotType = "FW"
)

// slotPattern is the fixed 6-cell template repeated to produce 24
// positions, per spec.md §4.6.
var slotPattern = []SlotType{SlotVMP, SlotAU, SlotAU, SlotVMP, SlotNU, SlotFW}

// Entry is one assembled feed position.
type Entry struct {
	Position        int
	ItemID          uint
	IsFlow          bool
	SlotType        SlotType
	ExploreFallback bool
}

// Bandits groups the three per-category LinUCB instances the assembler
// scores candidate pools with.
type Bandits struct {
	VMP *bandit.Bandit
	AU  *bandit.Bandit
	NU  *bandit.Bandit
}

// Metrics is the required telemetry block produced by every assembly,
// per spec.md §4.6.
type Metrics struct {
	TotalItems        int
	TypeDistribution  map[string]int
	UniqueCreators    int
	AvgViews          float64
	AvgRating         float64
	ExecutionTime     time.Duration
	CatalogCoverage   float64
	FeedCoverage      float64
	NewContentRatio   float64
	SkillDiversity    float64
	CreatorDiversity  float64
	TotalCatalog      int
	AvailableCatalog  int
	PoolSizes         map[string]int
	ExploreFallbacks  int
	BanditStatsVMP    bandit.Stats
	BanditStatsAU     bandit.Stats
	BanditStatsNU     bandit.Stats
}

// Assemble builds the 24-slot mixed feed for user u, per spec.md §4.6's
// algorithm. includeFlows controls whether FW slots are populated; when
// false, FW slots are simply left empty (no fallback substitution).
func Assemble(snapshot *catalog.Snapshot, bandits Bandits, userID uint, excludedIDsInput map[uint]bool, includeFlows bool, rng *rand.Rand) ([]Entry, Metrics) {
	start := time.Now()

	view := preference.Build(snapshot, userID)

	excludedIDs := make(map[uint]bool, len(view.SeenItemIDs)+len(excludedIDsInput))
	for id := range view.SeenItemIDs {
		excludedIDs[id] = true
	}
	for id := range excludedIDsInput {
		excludedIDs[id] = true
	}

	noCreatorExclusion := map[uint]bool{}

	poolVMP := candidates.VMP(snapshot, view, excludedIDs, noCreatorExclusion, bandits.VMP, poolSizeVMP, rng)
	poolNU := candidates.NU(snapshot, view, excludedIDs, noCreatorExclusion, bandits.NU, poolSizeNU, rng)

	excludeForAU := unionWithIDs(excludedIDs, poolVMP, poolNU)
	poolAU := candidates.AU(snapshot, view, excludeForAU, noCreatorExclusion, bandits.AU, poolSizeAU, rng)

	var poolFW []uint
	if includeFlows {
		poolFW = candidates.FW(snapshot, map[uint]bool{}, poolSizeFW, rng)
	}

	excludeForExplore := unionWithIDs(excludeForAU, poolAU)
	poolExplore := candidates.Explore(snapshot, excludeForExplore, noCreatorExclusion, poolSizeExplore, rng)

	feed, usedCreators, skillDiversitySet := walkSlots(snapshot, poolVMP, poolAU, poolNU, poolFW, poolExplore)

	metrics := computeMetrics(snapshot, feed, view, excludedIDsInput, poolVMP, poolNU, poolAU, poolFW, poolExplore,
		usedCreators, skillDiversitySet, bandits, start)

	return feed, metrics
}

func unionWithIDs(base map[uint]bool, groups ...[]uint) map[uint]bool {
	out := make(map[uint]bool, len(base))
	for id := range base {
		out[id] = true
	}
	for _, group := range groups {
		for _, id := range group {
			out[id] = true
		}
	}
	return out
}

type walkCursors struct {
	vmp, au, nu, fw, explore int
}

func walkSlots(snapshot *catalog.Snapshot, poolVMP, poolAU, poolNU, poolFW, poolExplore []uint) ([]Entry, map[uint]bool, map[string]bool) {
	var feed []Entry
	usedItemIDs := make(map[uint]bool)
	usedSkills := make(map[string]bool)
	usedCreatorsCurrent := make(map[uint]bool)
	var creatorWindowQueue []uint
	skillDiversitySet := make(map[string]bool)

	cursors := walkCursors{}

	cycles := requestedCount/len(slotPattern) + 1
	for cycle := 0; cycle < cycles; cycle++ {
		for pos := 0; pos < len(slotPattern); pos++ {
			if len(feed) >= requestedCount {
				break
			}

			if len(feed) > 0 && len(feed)%slidingWindowSize == 0 && len(creatorWindowQueue) >= slidingWindowSize {
				expiring := creatorWindowQueue[:slidingWindowSize]
				creatorWindowQueue = creatorWindowQueue[slidingWindowSize:]
				expiringSet := make(map[uint]bool, len(expiring))
				for _, id := range expiring {
					expiringSet[id] = true
				}
				for id := range usedCreatorsCurrent {
					if expiringSet[id] {
						delete(usedCreatorsCurrent, id)
					}
				}
			}

			slot := slotPattern[pos]

			var itemID uint
			var found, isFlow, fromExplore bool

			switch slot {
			case SlotFW:
				itemID, found = walkFlowPool(snapshot, poolFW, &cursors.fw, usedItemIDs, usedCreatorsCurrent)
				isFlow = found
			case SlotVMP:
				itemID, found = walkItemPool(snapshot, poolVMP, &cursors.vmp, usedItemIDs, usedCreatorsCurrent, usedSkills, false)
				if !found {
					itemID, found = walkExplorePool(snapshot, poolExplore, &cursors.explore, usedItemIDs, usedCreatorsCurrent)
					fromExplore = found
				}
			case SlotAU:
				itemID, found = walkItemPool(snapshot, poolAU, &cursors.au, usedItemIDs, usedCreatorsCurrent, usedSkills, true)
				if !found {
					itemID, found = walkExplorePool(snapshot, poolExplore, &cursors.explore, usedItemIDs, usedCreatorsCurrent)
					fromExplore = found
				}
			case SlotNU:
				itemID, found = walkItemPool(snapshot, poolNU, &cursors.nu, usedItemIDs, usedCreatorsCurrent, usedSkills, true)
				if !found {
					itemID, found = walkExplorePool(snapshot, poolExplore, &cursors.explore, usedItemIDs, usedCreatorsCurrent)
					fromExplore = found
				}
			}

			if !found {
				continue
			}

			var creatorID uint
			if isFlow {
				if flow, ok := snapshot.Flow(itemID); ok {
					creatorID = flow.CreatorID
				}
			} else {
				if item, ok := snapshot.Item(itemID); ok {
					creatorID = item.CreatorID
					for _, s := range item.Skills {
						usedSkills[s] = true
						skillDiversitySet[s] = true
					}
				}
			}

			feed = append(feed, Entry{
				Position:        len(feed) + 1,
				ItemID:          itemID,
				IsFlow:          isFlow,
				SlotType:        slot,
				ExploreFallback: fromExplore,
			})
			usedItemIDs[itemID] = true
			usedCreatorsCurrent[creatorID] = true
			creatorWindowQueue = append(creatorWindowQueue, creatorID)
		}
		if len(feed) >= requestedCount {
			break
		}
	}

	return feed, usedCreatorsCurrent, skillDiversitySet
}

// walkItemPool walks an item candidate pool (AU/NU/VMP), applying the
// creator-novelty rule always, the skill-novelty rule always, and the
// blacklist recheck only for AU/NU per spec.md §4.6 step 7.
func walkItemPool(snapshot *catalog.Snapshot, pool []uint, cursor *int, usedItemIDs, usedCreatorsCurrent map[uint]bool, usedSkills map[string]bool, checkBlacklist bool) (uint, bool) {
	attempts := 0
	for *cursor < len(pool) && attempts < maxSlotAttempts {
		candidateID := pool[*cursor]
		*cursor++
		attempts++

		if usedItemIDs[candidateID] {
			continue
		}
		item, ok := snapshot.Item(candidateID)
		if !ok {
			continue
		}
		if checkBlacklist && snapshot.IsBlacklisted(item.VideoURL) {
			continue
		}
		if usedCreatorsCurrent[item.CreatorID] {
			continue
		}

		newSkill := false
		for _, s := range item.Skills {
			if !usedSkills[s] {
				newSkill = true
				break
			}
		}
		if !newSkill && len(usedSkills) >= minUsedSkillsGuard {
			continue
		}

		return candidateID, true
	}
	return 0, false
}

// walkExplorePool walks the EXPLORE fallback pool under the creator-novelty
// rule only, with no skill-novelty rule and no blacklist recheck, per
// spec.md §9's documented open question about the source's fallback
// behavior.
func walkExplorePool(snapshot *catalog.Snapshot, pool []uint, cursor *int, usedItemIDs, usedCreatorsCurrent map[uint]bool) (uint, bool) {
	for *cursor < len(pool) {
		candidateID := pool[*cursor]
		*cursor++

		if usedItemIDs[candidateID] {
			continue
		}
		item, ok := snapshot.Item(candidateID)
		if !ok {
			continue
		}
		if usedCreatorsCurrent[item.CreatorID] {
			continue
		}
		return candidateID, true
	}
	return 0, false
}

func walkFlowPool(snapshot *catalog.Snapshot, pool []uint, cursor *int, usedItemIDs, usedCreatorsCurrent map[uint]bool) (uint, bool) {
	for *cursor < len(pool) {
		candidateID := pool[*cursor]
		*cursor++

		if usedItemIDs[candidateID] {
			continue
		}
		flow, ok := snapshot.Flow(candidateID)
		if !ok {
			continue
		}
		if usedCreatorsCurrent[flow.CreatorID] {
			continue
		}
		return candidateID, true
	}
	return 0, false
}
