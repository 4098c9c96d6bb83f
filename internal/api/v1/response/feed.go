package response

import (
	"fmt"
	"strings"
	"time"

	"feedcore/internal/core/assembler"
	"feedcore/internal/core/catalog"
)

// ResumeItem is a FeedItem of type "resume", the wire shape the original
// client integrations expect for a short-form creator video.
type ResumeItem struct {
	Type           string   `json:"type"`
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Video          string   `json:"video"`
	Image          string   `json:"image"`
	UserID         uint     `json:"user_id"`
	UserName       string   `json:"user_name"`
	UserSlug       string   `json:"user_slug"`
	Avatar         string   `json:"avatar"`
	MainObjective  string   `json:"main_objective"`
	TypeAudience   string   `json:"type_audience"`
	TypeAudiences  []string `json:"type_audiences"`
	InterestAreas  []string `json:"interest_areas"`
	RoleObjectives []string `json:"role_objectives"`
	Connected      string   `json:"connected"`
}

// ChallengeItem is a FeedItem of type "challenge", the wire shape for a
// creator-posted campaign ("flow").
type ChallengeItem struct {
	Type           string   `json:"type"`
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	VideoURL       string   `json:"video_url"`
	Image          string   `json:"image"`
	UserID         uint     `json:"user_id"`
	UserName       string   `json:"user_name"`
	UserSlug       string   `json:"user_slug"`
	UserAvatar     string   `json:"user_avatar"`
	TalentType     string   `json:"talent_type"`
	InterestAreas  []string `json:"interest_areas"`
	TypeObjectives []string `json:"type_objectives"`
	Top            bool     `json:"top"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	StatusAt       string   `json:"status_at,omitempty"`
}

// FeedItem is a resume or a challenge item, assembled in feed order; gin's
// JSON marshaler renders whichever concrete type was assigned.
type FeedItem = any

func slugify(name string, id uint) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = "creator"
	}
	return fmt.Sprintf("%s-%d", name, id)
}

func avatarURL(userID uint) string {
	return fmt.Sprintf("https://media.talentpitch.co/users/%d/avatar-100.png", userID)
}

func creatorDisplay(snapshot *catalog.Snapshot, creatorID uint) (name, username string) {
	if creator, ok := snapshot.Creator(creatorID); ok {
		return creator.DisplayName, creator.Username
	}
	return "", ""
}

// ToResumeItem builds the resume FeedItem for one assembled item entry.
func ToResumeItem(snapshot *catalog.Snapshot, item *catalog.Item) ResumeItem {
	creatorName, creatorUsername := creatorDisplay(snapshot, item.CreatorID)
	return ResumeItem{
		Type:           "resume",
		ID:             item.ID,
		Name:           item.Name,
		Slug:           slugify(creatorName, item.ID),
		Description:    item.Description,
		Video:          item.VideoURL,
		Image:          "",
		UserID:         item.CreatorID,
		UserName:       creatorName,
		UserSlug:       creatorUsername,
		Avatar:         avatarURL(item.CreatorID),
		MainObjective:  "be_discovered",
		TypeAudience:   "innovators",
		TypeAudiences:  []string{"innovators"},
		InterestAreas:  []string{},
		RoleObjectives: []string{},
		Connected:      "",
	}
}

// ToChallengeItem builds the challenge FeedItem for one assembled flow entry.
func ToChallengeItem(snapshot *catalog.Snapshot, flow *catalog.Flow) ChallengeItem {
	creatorName, creatorUsername := creatorDisplay(snapshot, flow.CreatorID)
	now := time.Now().UTC().Format(time.RFC3339)
	return ChallengeItem{
		Type:           "challenge",
		ID:             flow.ID,
		Name:           flow.Name,
		Slug:           slugify(creatorName, flow.ID),
		Description:    flow.Description,
		VideoURL:       flow.VideoURL,
		Image:          "",
		UserID:         flow.CreatorID,
		UserName:       creatorName,
		UserSlug:       creatorUsername,
		UserAvatar:     avatarURL(flow.CreatorID),
		TalentType:     "innovators",
		InterestAreas:  []string{},
		TypeObjectives: []string{"hire"},
		Top:            true,
		CreatedAt:      flow.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      now,
	}
}

// FeedItemsFromEntries renders assembler entries into wire FeedItems and
// collects their ids in feed order, for the mix_ids/resume_ids/challenge_ids
// response keys.
func FeedItemsFromEntries(snapshot *catalog.Snapshot, entries []assembler.Entry) ([]FeedItem, []uint) {
	items := make([]FeedItem, 0, len(entries))
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		if entry.IsFlow {
			flow, ok := snapshot.Flow(entry.ItemID)
			if !ok {
				continue
			}
			items = append(items, ToChallengeItem(snapshot, flow))
		} else {
			item, ok := snapshot.Item(entry.ItemID)
			if !ok {
				continue
			}
			items = append(items, ToResumeItem(snapshot, item))
		}
		ids = append(ids, entry.ItemID)
	}
	return items, ids
}

// FeedItemsFromFlowEntries renders flows-only entries the same way, for
// the /flow endpoint which has no mixed resume/challenge slots.
func FeedItemsFromFlowEntries(snapshot *catalog.Snapshot, entries []assembler.FlowEntry) ([]FeedItem, []uint) {
	items := make([]FeedItem, 0, len(entries))
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		flow, ok := snapshot.Flow(entry.FlowID)
		if !ok {
			continue
		}
		items = append(items, ToChallengeItem(snapshot, flow))
		ids = append(ids, entry.FlowID)
	}
	return items, ids
}

// TotalBody is the body of the /total response.
type TotalBody struct {
	MixIDs []uint     `json:"mix_ids"`
	Items  []FeedItem `json:"items"`
}

// TotalResponse wraps TotalBody with the status-code envelope the original
// client integrations expect instead of relying on the HTTP status alone.
type TotalResponse struct {
	StatusCode int       `json:"statusCode"`
	Body       TotalBody `json:"body"`
}

func NewTotalResponse(mixIDs []uint, items []FeedItem) TotalResponse {
	if mixIDs == nil {
		mixIDs = []uint{}
	}
	if items == nil {
		items = []FeedItem{}
	}
	return TotalResponse{StatusCode: 200, Body: TotalBody{MixIDs: mixIDs, Items: items}}
}

// DiscoverBody is the body of the /discover response.
type DiscoverBody struct {
	ResumeIDs []uint     `json:"resume_ids"`
	Items     []FeedItem `json:"items"`
}

type DiscoverResponse struct {
	StatusCode int          `json:"statusCode"`
	Body       DiscoverBody `json:"body"`
}

func NewDiscoverResponse(resumeIDs []uint, items []FeedItem) DiscoverResponse {
	if resumeIDs == nil {
		resumeIDs = []uint{}
	}
	if items == nil {
		items = []FeedItem{}
	}
	return DiscoverResponse{StatusCode: 200, Body: DiscoverBody{ResumeIDs: resumeIDs, Items: items}}
}

// FlowBody is the body of the /flow response.
type FlowBody struct {
	ChallengeIDs []uint     `json:"challenge_ids"`
	Items        []FeedItem `json:"items"`
}

type FlowResponse struct {
	StatusCode int      `json:"statusCode"`
	Body       FlowBody `json:"body"`
}

func NewFlowResponse(challengeIDs []uint, items []FeedItem) FlowResponse {
	if challengeIDs == nil {
		challengeIDs = []uint{}
	}
	if items == nil {
		items = []FeedItem{}
	}
	return FlowResponse{StatusCode: 200, Body: FlowBody{ChallengeIDs: challengeIDs, Items: items}}
}

// ReloadResponse is the body of the /reload response.
type ReloadResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func NewReloadResponse() ReloadResponse {
	return ReloadResponse{StatusCode: 200, Message: "Data reloaded successfully"}
}

// HealthResponse is the body of the /health response.
type HealthResponse struct {
	Status             string         `json:"status"`
	Version            string         `json:"version"`
	SnapshotAgeSeconds float64        `json:"snapshot_age_seconds,omitempty"`
	BanditSamples      map[string]int `json:"bandit_samples,omitempty"`
}
