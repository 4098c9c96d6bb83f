package social

import "testing"

func TestBuildRecordsBothDirectionsOfAnEdge(t *testing.T) {
	g := Build([]Edge{{FromUserID: 1, ToUserID: 2}})

	if !g.Neighborhood(1)[2] {
		t.Fatal("expected user 1 to see user 2 as a neighbor")
	}
	if !g.Neighborhood(2)[1] {
		t.Fatal("expected user 2 to see user 1 as a neighbor (mutual)")
	}
}

func TestNeighborhoodOfUnconnectedUserIsNil(t *testing.T) {
	g := Build([]Edge{{FromUserID: 1, ToUserID: 2}})
	if n := g.Neighborhood(99); n != nil {
		t.Fatalf("expected nil neighborhood for an unconnected user, got %v", n)
	}
}

func TestInfluenceIncreasesWithNeighborhoodSize(t *testing.T) {
	g := Build([]Edge{
		{FromUserID: 1, ToUserID: 2},
		{FromUserID: 1, ToUserID: 3},
		{FromUserID: 1, ToUserID: 4},
	})

	small := InfluenceForSize(1)
	large := g.Influence(1)
	if large <= small {
		t.Fatalf("expected influence to grow with neighborhood size: small=%f large=%f", small, large)
	}
}

func TestInfluenceForSizeZeroIsZero(t *testing.T) {
	if got := InfluenceForSize(0); got != 0 {
		t.Fatalf("expected 0 influence for an empty neighborhood, got %f", got)
	}
}

func TestInfluenceOfUnknownUserIsZero(t *testing.T) {
	g := Build(nil)
	if got := g.Influence(42); got != 0 {
		t.Fatalf("expected 0 influence for an unknown user, got %f", got)
	}
}
