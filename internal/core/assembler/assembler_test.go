package assembler

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"feedcore/internal/core/bandit"
	"feedcore/internal/core/catalog"
	"feedcore/internal/core/skills"
)

func fixtureSnapshot(itemCount int) *catalog.Snapshot {
	now := time.Now()
	items := make([]*catalog.Item, 0, itemCount)
	skillInputs := make([]skills.ItemSkills, 0, itemCount)

	skillPool := []string{"go", "react", "postgres", "kubernetes", "python"}

	for i := 0; i < itemCount; i++ {
		id := uint(i + 1)
		creatorID := uint(i%30 + 1)
		itemSkills := []string{skillPool[i%len(skillPool)], skillPool[(i+1)%len(skillPool)]}

		item := &catalog.Item{
			ID:              id,
			CreatorID:       creatorID,
			VideoURL:        "https://example.test/video",
			CreatedAt:       now.Add(-time.Duration(i) * time.Hour),
			City:            "Bogotá",
			ViewCount:       int64(100 + i),
			AvgRating:       3.5,
			RatingCount:     int64(i % 10),
			LikeCount:       int64(i % 20),
			ExhibitedCount:  int64(i % 5),
			Skills:          itemSkills,
			ScoreEngagement: 0.5,
			ScoreTemporal:   0.5,
			BoostNew:        1,
			ScoreQuality:    0.5,
			ScorePopularity: 0.5,
			DiversitySkills: 0.5,
			RaritySkills:    10,
			QualityGate:     true,
		}
		items = append(items, item)
		skillInputs = append(skillInputs, skills.ItemSkills{ItemID: id, Skills: itemSkills})
	}

	flows := []*catalog.Flow{
		{ID: 1, CreatorID: 1, VideoURL: "https://example.test/flow1", CreatedAt: now.Add(-24 * time.Hour)},
		{ID: 2, CreatorID: 2, VideoURL: "https://example.test/flow2", CreatedAt: now.Add(-48 * time.Hour)},
		{ID: 3, CreatorID: 3, VideoURL: "https://example.test/flow3", CreatedAt: now.Add(-72 * time.Hour)},
	}

	embedding := skills.Build(skillInputs)
	return catalog.NewSnapshot(items, flows, map[uint]*catalog.Creator{}, nil, nil, embedding, nil)
}

func fixtureBandits() Bandits {
	return Bandits{
		VMP: bandit.New(bandit.Config{Dimension: 18, Alpha: 1.5, Beta: 0.8}),
		AU:  bandit.New(bandit.Config{Dimension: 18, Alpha: 1.3, Beta: 0.7}),
		NU:  bandit.New(bandit.Config{Dimension: 18, Alpha: 1.8, Beta: 0.9}),
	}
}

func TestAssembleProducesUpToRequestedCount(t *testing.T) {
	snapshot := fixtureSnapshot(200)
	rng := rand.New(rand.NewSource(1))

	feed, metrics := Assemble(snapshot, fixtureBandits(), 999, map[uint]bool{}, true, rng)

	if len(feed) == 0 {
		t.Fatal("expected a non-empty feed")
	}
	if len(feed) > requestedCount {
		t.Fatalf("feed exceeded requested count: got %d", len(feed))
	}
	if metrics.TotalItems != len(feed) {
		t.Fatalf("metrics.TotalItems = %d, want %d", metrics.TotalItems, len(feed))
	}
}

func TestAssembleNoDuplicateItems(t *testing.T) {
	snapshot := fixtureSnapshot(200)
	rng := rand.New(rand.NewSource(2))

	feed, _ := Assemble(snapshot, fixtureBandits(), 999, map[uint]bool{}, true, rng)

	seen := map[string]bool{}
	for _, entry := range feed {
		key := fmt.Sprintf("item:%d", entry.ItemID)
		if entry.IsFlow {
			key = fmt.Sprintf("flow:%d", entry.ItemID)
		}
		if seen[key] {
			t.Fatalf("duplicate entry in feed: %+v", entry)
		}
		seen[key] = true
	}
}

func TestAssembleHonorsCallerExclusion(t *testing.T) {
	snapshot := fixtureSnapshot(200)
	rng := rand.New(rand.NewSource(3))

	excluded := map[uint]bool{}
	for i := uint(1); i <= 150; i++ {
		excluded[i] = true
	}

	feed, _ := Assemble(snapshot, fixtureBandits(), 999, excluded, true, rng)
	for _, entry := range feed {
		if !entry.IsFlow && excluded[entry.ItemID] {
			t.Fatalf("excluded item %d appeared in feed", entry.ItemID)
		}
	}
}

func TestAssembleSlotPatternRepeatsTemplate(t *testing.T) {
	snapshot := fixtureSnapshot(300)
	rng := rand.New(rand.NewSource(4))

	feed, _ := Assemble(snapshot, fixtureBandits(), 999, map[uint]bool{}, true, rng)

	// Skipped slots are allowed, so the slot types must form a subsequence
	// of the template repeated over walkSlots' cycles.
	limit := (requestedCount/len(slotPattern) + 1) * len(slotPattern)
	j := 0
	for i, entry := range feed {
		for j < limit && slotPattern[j%len(slotPattern)] != entry.SlotType {
			j++
		}
		if j >= limit {
			t.Fatalf("slot type %q at position %d breaks the repeated template order", entry.SlotType, i)
		}
		j++
	}
}

func TestAssembleExploreFallbacksCountedInMetrics(t *testing.T) {
	snapshot := fixtureSnapshot(200)
	rng := rand.New(rand.NewSource(6))

	feed, metrics := Assemble(snapshot, fixtureBandits(), 999, map[uint]bool{}, true, rng)

	var counted int
	for _, entry := range feed {
		if entry.ExploreFallback {
			counted++
		}
	}
	if metrics.ExploreFallbacks != counted {
		t.Fatalf("metrics.ExploreFallbacks = %d, want %d", metrics.ExploreFallbacks, counted)
	}
}

func TestAssembleFlowsDeterministicLength(t *testing.T) {
	snapshot := fixtureSnapshot(50)
	rng := rand.New(rand.NewSource(5))

	entries, metrics := AssembleFlows(snapshot, 1, map[uint]bool{}, 2, rng)
	if len(entries) != 2 {
		t.Fatalf("expected exactly 2 flow entries, got %d", len(entries))
	}
	if metrics.TotalFlows != len(entries) {
		t.Fatalf("metrics.TotalFlows = %d, want %d", metrics.TotalFlows, len(entries))
	}
}
