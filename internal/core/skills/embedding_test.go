package skills

import "testing"

func TestBuildAssignsSharedIndexToOverlappingSkills(t *testing.T) {
	e := Build([]ItemSkills{
		{ItemID: 1, Skills: []string{"go", "kubernetes"}},
		{ItemID: 2, Skills: []string{"go", "design"}},
	})

	if e.Dimension() != 3 {
		t.Fatalf("expected dimension 3, got %d", e.Dimension())
	}
	if e.Frequency("go") != 2 {
		t.Fatalf("expected go to appear in 2 items, got %d", e.Frequency("go"))
	}
	if e.Frequency("kubernetes") != 1 {
		t.Fatalf("expected kubernetes to appear in 1 item, got %d", e.Frequency("kubernetes"))
	}
	if e.Frequency("unknown") != 0 {
		t.Fatalf("expected unseen skill to have frequency 0, got %d", e.Frequency("unknown"))
	}
}

func TestBuildCapsSkillsPerItemAtFive(t *testing.T) {
	e := Build([]ItemSkills{
		{ItemID: 1, Skills: []string{"a", "b", "c", "d", "e", "f", "g"}},
	})

	if e.Dimension() != maxSkillsPerItem {
		t.Fatalf("expected only the first %d skills indexed, got dimension %d", maxSkillsPerItem, e.Dimension())
	}
}

func TestItemVectorIsL2Normalized(t *testing.T) {
	e := Build([]ItemSkills{
		{ItemID: 1, Skills: []string{"go", "design"}},
	})

	vec := e.ItemVector(1)
	var sumSquares float64
	for _, v := range vec {
		sumSquares += v * v
	}
	if diff := sumSquares - 1; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected unit-norm vector, got sum of squares %f", sumSquares)
	}
}

func TestItemVectorUnknownItemIsNil(t *testing.T) {
	e := Build([]ItemSkills{{ItemID: 1, Skills: []string{"go"}}})
	if v := e.ItemVector(99); v != nil {
		t.Fatalf("expected nil vector for unknown item, got %v", v)
	}
}

func TestVectorForSkillsReturnsZeroVectorOnEmptyInput(t *testing.T) {
	e := Build([]ItemSkills{{ItemID: 1, Skills: []string{"go", "design"}}})

	vec := e.VectorForSkills(map[string]float64{})
	if vec == nil {
		t.Fatal("expected VectorForSkills to return a non-nil zero vector, not nil")
	}
	for _, v := range vec {
		if v != 0 {
			t.Fatalf("expected all-zero vector on empty input, got %v", vec)
		}
	}
}

func TestVectorForSkillsIgnoresUnknownSkills(t *testing.T) {
	e := Build([]ItemSkills{{ItemID: 1, Skills: []string{"go"}}})

	vec := e.VectorForSkills(map[string]float64{"go": 3, "cobol": 5})
	idx := e.skillToIndex["go"]
	if vec[idx] == 0 {
		t.Fatal("expected known skill weight to be set")
	}
	if len(vec) != e.Dimension() {
		t.Fatalf("expected vector length %d, got %d", e.Dimension(), len(vec))
	}
}

func TestRaritySkillsIsZeroForEmptySet(t *testing.T) {
	e := Build([]ItemSkills{{ItemID: 1, Skills: []string{"go"}}})
	if got := e.RaritySkills(nil); got != 0 {
		t.Fatalf("expected 0 for empty skill set, got %f", got)
	}
}

func TestRaritySkillsFavorsLessCommonSkills(t *testing.T) {
	e := Build([]ItemSkills{
		{ItemID: 1, Skills: []string{"go"}},
		{ItemID: 2, Skills: []string{"go"}},
		{ItemID: 3, Skills: []string{"go"}},
		{ItemID: 4, Skills: []string{"rust"}},
	})

	common := e.RaritySkills([]string{"go"})
	rare := e.RaritySkills([]string{"rust"})
	if rare <= common {
		t.Fatalf("expected rust (freq 1) to score rarer than go (freq 3): rare=%f common=%f", rare, common)
	}
}

func TestCosineSimilarityOfIdenticalUnitVectorsIsOne(t *testing.T) {
	e := Build([]ItemSkills{{ItemID: 1, Skills: []string{"go", "design"}}})
	vec := e.ItemVector(1)

	got := CosineSimilarity(vec, vec)
	if diff := got - 1; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected cosine similarity 1 for identical vectors, got %f", got)
	}
}

func TestCosineSimilarityOfEmptyVectorsIsZero(t *testing.T) {
	if got := CosineSimilarity(nil, []float64{1, 2}); got != 0 {
		t.Fatalf("expected 0 for a nil vector, got %f", got)
	}
}
