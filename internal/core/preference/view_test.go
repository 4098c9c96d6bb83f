package preference

import (
	"testing"
	"time"

	"feedcore/internal/core/catalog"
	"feedcore/internal/core/skills"
	"feedcore/internal/core/social"
)

func fixtureSnapshot(items []*catalog.Item, interactions []catalog.Interaction, edges []social.Edge) *catalog.Snapshot {
	inputs := make([]skills.ItemSkills, len(items))
	for i, item := range items {
		inputs[i] = skills.ItemSkills{ItemID: item.ID, Skills: item.Skills}
	}
	embedding := skills.Build(inputs)
	graph := social.Build(edges)
	return catalog.NewSnapshot(items, nil, map[uint]*catalog.Creator{}, interactions, map[string]bool{}, embedding, graph)
}

func TestBuildWithNoInteractionsReturnsEmptyView(t *testing.T) {
	snap := fixtureSnapshot(nil, nil, nil)
	view := Build(snap, 1)

	if len(view.SeenItemIDs) != 0 {
		t.Fatal("expected no seen items for a user with no interactions")
	}
	if view.SkillVector != nil {
		t.Fatal("expected a nil skill vector for a user with no interactions")
	}
}

func TestBuildWithSkilledHistoryPopulatesSkillVector(t *testing.T) {
	items := []*catalog.Item{
		{ID: 1, Skills: []string{"go", "design"}},
	}
	interactions := []catalog.Interaction{
		{UserID: 1, ItemID: 1, CreatedAt: time.Unix(1, 0)},
	}
	snap := fixtureSnapshot(items, interactions, nil)

	view := Build(snap, 1)
	if view.SkillVector == nil {
		t.Fatal("expected a non-nil skill vector for a user whose history carries skills")
	}
	if !view.Skills["go"] || !view.Skills["design"] {
		t.Fatalf("expected both skills recorded, got %+v", view.Skills)
	}
}

func TestBuildWithSkillLessHistoryLeavesSkillVectorNil(t *testing.T) {
	items := []*catalog.Item{
		{ID: 1, Skills: nil, City: "Bogotá"},
	}
	interactions := []catalog.Interaction{
		{UserID: 1, ItemID: 1, CreatedAt: time.Unix(1, 0)},
	}
	snap := fixtureSnapshot(items, interactions, nil)

	view := Build(snap, 1)
	if view.SkillVector != nil {
		t.Fatalf("expected a nil skill vector when no sampled interaction carries skills, got %v", view.SkillVector)
	}
	if !view.Cities["Bogotá"] {
		t.Fatal("expected the item's city to still be recorded")
	}
}

func TestBuildSamplesAtMostEightyInteractions(t *testing.T) {
	items := make([]*catalog.Item, 0, 100)
	interactions := make([]catalog.Interaction, 0, 100)
	for i := 1; i <= 100; i++ {
		skill := "go"
		if i > 80 {
			skill = "rust"
		}
		items = append(items, &catalog.Item{ID: uint(i), Skills: []string{skill}})
		interactions = append(interactions, catalog.Interaction{
			UserID: 1, ItemID: uint(i), CreatedAt: time.Unix(int64(i), 0),
		})
	}
	snap := fixtureSnapshot(items, interactions, nil)

	view := Build(snap, 1)
	if len(view.SeenItemIDs) != 100 {
		t.Fatalf("expected all 100 interactions counted as seen, got %d", len(view.SeenItemIDs))
	}
	if view.SkillWeights["go"] != 1 {
		t.Fatalf("expected go to be the sole weighted skill, got %+v", view.SkillWeights)
	}
	if view.Skills["rust"] {
		t.Fatal("expected skills of interactions beyond the first 80 to be left out of the sample")
	}
}

func TestBuildPopulatesSocialNeighborhoodAndInfluence(t *testing.T) {
	snap := fixtureSnapshot(nil, nil, []social.Edge{{FromUserID: 1, ToUserID: 2}})
	view := Build(snap, 1)

	if !view.SocialNeighborhood[2] {
		t.Fatal("expected user 2 in user 1's social neighborhood")
	}
	if view.SocialInfluence <= 0 {
		t.Fatalf("expected a positive social influence score, got %f", view.SocialInfluence)
	}
}
