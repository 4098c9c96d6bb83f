package catalog

import (
	"time"

	"feedcore/internal/core/skills"
	"feedcore/internal/core/social"
)

// Snapshot is the immutable, process-wide view produced by a single Load.
// Readers never mutate it; a reload builds a brand new Snapshot and the
// holder swaps the pointer atomically.
type Snapshot struct {
	BuiltAt time.Time

	items       []*Item
	itemsByID   map[uint]*Item
	flows       []*Flow
	flowsByID   map[uint]*Flow
	creators    map[uint]*Creator
	interactions []Interaction
	// interactionsByUser indexes interactions by user id in stored order,
	// matching PreferenceView's "first 80 as stored" sampling rule.
	interactionsByUser map[uint][]Interaction

	blacklist map[string]bool

	skillEmbedding *skills.Embedding
	socialGraph    *social.Graph

	maxRatingCount    int64
	maxLikeCount      int64
	maxExhibitedCount int64
}

// NewSnapshot builds a Snapshot directly from its constituent parts,
// computing the derived rating/like/exhibited maxima. Used by Load and by
// tests that need a fixture snapshot without a relational source.
func NewSnapshot(items []*Item, flows []*Flow, creators map[uint]*Creator, interactions []Interaction, blacklist map[string]bool, embedding *skills.Embedding, graph *social.Graph) *Snapshot {
	itemsByID := make(map[uint]*Item, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}
	flowsByID := make(map[uint]*Flow, len(flows))
	for _, flow := range flows {
		flowsByID[flow.ID] = flow
	}
	interactionsByUser := make(map[uint][]Interaction)
	for _, interaction := range interactions {
		interactionsByUser[interaction.UserID] = append(interactionsByUser[interaction.UserID], interaction)
	}
	if blacklist == nil {
		blacklist = map[string]bool{}
	}

	snapshot := &Snapshot{
		BuiltAt:            time.Now(),
		items:              items,
		itemsByID:          itemsByID,
		flows:              flows,
		flowsByID:          flowsByID,
		creators:           creators,
		interactions:       interactions,
		interactionsByUser: interactionsByUser,
		blacklist:          blacklist,
		skillEmbedding:     embedding,
		socialGraph:        graph,
	}
	for _, item := range items {
		if item.RatingCount > snapshot.maxRatingCount {
			snapshot.maxRatingCount = item.RatingCount
		}
		if item.LikeCount > snapshot.maxLikeCount {
			snapshot.maxLikeCount = item.LikeCount
		}
		if item.ExhibitedCount > snapshot.maxExhibitedCount {
			snapshot.maxExhibitedCount = item.ExhibitedCount
		}
	}
	return snapshot
}

func (s *Snapshot) Items() []*Item { return s.items }
func (s *Snapshot) Flows() []*Flow { return s.flows }

func (s *Snapshot) Item(id uint) (*Item, bool) {
	item, ok := s.itemsByID[id]
	return item, ok
}

func (s *Snapshot) Flow(id uint) (*Flow, bool) {
	flow, ok := s.flowsByID[id]
	return flow, ok
}

func (s *Snapshot) Creator(id uint) (*Creator, bool) {
	creator, ok := s.creators[id]
	return creator, ok
}

func (s *Snapshot) InteractionsForUser(userID uint) []Interaction {
	return s.interactionsByUser[userID]
}

func (s *Snapshot) IsBlacklisted(videoURL string) bool {
	return s.blacklist[videoURL]
}

func (s *Snapshot) SkillEmbedding() *skills.Embedding { return s.skillEmbedding }
func (s *Snapshot) SocialGraph() *social.Graph        { return s.socialGraph }

func (s *Snapshot) MaxRatingCount() int64    { return s.maxRatingCount }
func (s *Snapshot) MaxLikeCount() int64      { return s.maxLikeCount }
func (s *Snapshot) MaxExhibitedCount() int64 { return s.maxExhibitedCount }

// ItemCount and FlowCount support cheap health/metrics reporting without
// exposing the underlying slices.
func (s *Snapshot) ItemCount() int { return len(s.items) }
func (s *Snapshot) FlowCount() int { return len(s.flows) }
