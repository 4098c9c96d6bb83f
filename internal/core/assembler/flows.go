package assembler

import (
	"math/rand"
	"sort"
	"time"

	"feedcore/internal/core/catalog"
)

const (
	flowFreshWindowDays   = 90
	flowFreshScoreWeight  = 30.0
	flowConnectedBonus    = 30.0
	flowUnconnectedJitter = 20.0
)

// FlowEntry is one position in the flows-only feed.
type FlowEntry struct {
	Position int
	FlowID   uint
}

// FlowMetrics is the minimal metrics block recorded for the flows-only feed,
// per recommendation.py's generar_feed_flows_only.
type FlowMetrics struct {
	TotalFlows    int
	ExecutionTime time.Duration
}

// AssembleFlows builds the flows-only feed for user u: each candidate's
// relevance score rewards recency and, independently, either direct social
// connection to the flow's creator or a small random jitter for
// unconnected creators, per spec.md §4.6's flows-only variant.
func AssembleFlows(snapshot *catalog.Snapshot, userID uint, viewedFlowIDs map[uint]bool, n int, rng *rand.Rand) ([]FlowEntry, FlowMetrics) {
	start := time.Now()

	neighborhood := map[uint]bool{}
	if graph := snapshot.SocialGraph(); graph != nil {
		if neighbors := graph.Neighborhood(userID); neighbors != nil {
			neighborhood = neighbors
		}
	}

	candidates := selectFlowsForUser(snapshot, neighborhood, viewedFlowIDs, n, rng)
	if len(candidates) == 0 {
		candidates = selectFlowsForUser(snapshot, neighborhood, map[uint]bool{}, n, rng)
	}

	entries := make([]FlowEntry, len(candidates))
	for i, flowID := range candidates {
		entries[i] = FlowEntry{Position: i + 1, FlowID: flowID}
	}

	return entries, FlowMetrics{
		TotalFlows:    len(entries),
		ExecutionTime: time.Since(start),
	}
}

func selectFlowsForUser(snapshot *catalog.Snapshot, neighborhood, excludedFlows map[uint]bool, n int, rng *rand.Rand) []uint {
	type scored struct {
		id    uint
		score float64
	}
	var candidates []scored

	for _, flow := range snapshot.Flows() {
		if excludedFlows[flow.ID] {
			continue
		}
		days := float64(daysBetween(snapshot.BuiltAt, flow.CreatedAt))
		recency := (flowFreshWindowDays - days) / flowFreshWindowDays * flowFreshScoreWeight
		if recency < 0 {
			recency = 0
		}

		var relational float64
		if neighborhood[flow.CreatorID] {
			relational = flowConnectedBonus
		} else {
			relational = rng.Float64() * flowUnconnectedJitter
		}

		candidates = append(candidates, scored{id: flow.ID, score: recency + relational})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	topN := n
	if topN > len(candidates) {
		topN = len(candidates)
	}
	ids := make([]uint, topN)
	for i := 0; i < topN; i++ {
		ids[i] = candidates[i].id
	}
	return ids
}
