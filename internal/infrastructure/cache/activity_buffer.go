// Package cache holds the Redis-backed activity buffer: video views and
// feed requests land here first, and the drain scheduler periodically moves
// them into the relational activity_log table. Grounded on tracking.py's
// ActivityTracker (user_activity:* lists with a 24h TTL, session video sets
// with a 1h TTL).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	activityTTL = 24 * time.Hour
	sessionTTL  = 1 * time.Hour

	EventTypeVideoView   = "video_view"
	EventTypeFeedRequest = "feed_request"
)

// Event mirrors tracking.py's event_data dict shape. Properties is kept as
// a raw JSON blob so the activity_log.properties column can store it
// unchanged, the same way flush_user_activity_to_mysql re-serializes the
// decoded dict.
type Event struct {
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id"`
	ItemID    uint      `json:"video_id,omitempty"`
	VideoURL  string    `json:"video_url,omitempty"`
	Position  int       `json:"position,omitempty"`
	FeedType  string    `json:"feed_type,omitempty"`
	Endpoint  string    `json:"endpoint,omitempty"`
	Params    string    `json:"params,omitempty"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityBuffer is the fire-and-forget write side of the activity pipeline.
type ActivityBuffer struct {
	client *redis.Client
}

func NewActivityBuffer(client *redis.Client) *ActivityBuffer {
	return &ActivityBuffer{client: client}
}

func userActivityKey(userID uint) string {
	return fmt.Sprintf("user_activity:%d", userID)
}

func sessionVideosKey(sessionID string) string {
	return fmt.Sprintf("%s:videos", sessionID)
}

// TrackItemView records that an item (resume) was shown to a user at a
// given feed position, under the given feed type (vmp/au/nu/fw/explore).
func (b *ActivityBuffer) TrackItemView(ctx context.Context, userID, itemID uint, videoURL string, position int, feedType, sessionID string) error {
	if sessionID == "" {
		sessionID = fmt.Sprintf("session:%d:%d", userID, time.Now().Unix())
	}

	event := Event{
		EventType: EventTypeVideoView,
		UserID:    userID,
		ItemID:    itemID,
		VideoURL:  videoURL,
		Position:  position,
		FeedType:  feedType,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal view event: %w", err)
	}

	key := userActivityKey(userID)
	pipe := b.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.Expire(ctx, key, activityTTL)

	videosKey := sessionVideosKey(sessionID)
	pipe.SAdd(ctx, videosKey, itemID)
	pipe.Expire(ctx, videosKey, sessionTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track item view: %w", err)
	}
	return nil
}

// TrackFeedRequest records a /search/* call so the drain can reconstruct
// usage patterns alongside item views.
func (b *ActivityBuffer) TrackFeedRequest(ctx context.Context, userID uint, endpoint, params, sessionID string) error {
	if sessionID == "" {
		sessionID = fmt.Sprintf("session:%d:%d", userID, time.Now().Unix())
	}

	event := Event{
		EventType: EventTypeFeedRequest,
		UserID:    userID,
		Endpoint:  endpoint,
		Params:    params,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed request event: %w", err)
	}

	key := userActivityKey(userID)
	pipe := b.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.Expire(ctx, key, activityTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track feed request: %w", err)
	}
	return nil
}

// SessionItemIDs returns the set of item IDs already shown in a session,
// used to keep a single session from repeating the same item twice.
func (b *ActivityBuffer) SessionItemIDs(ctx context.Context, sessionID string) (map[uint]bool, error) {
	members, err := b.client.SMembers(ctx, sessionVideosKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session item ids: %w", err)
	}
	ids := make(map[uint]bool, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids[uint(id)] = true
	}
	return ids, nil
}

// PendingEvents returns the raw events buffered for a user, oldest-first
// reversal left to the caller; the drain just needs the full list before
// deleting the key.
func (b *ActivityBuffer) PendingEvents(ctx context.Context, userID uint) ([]Event, error) {
	raw, err := b.client.LRange(ctx, userActivityKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load pending events: %w", err)
	}
	events := make([]Event, 0, len(raw))
	for _, item := range raw {
		var event Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// DeleteUserBuffer clears a user's buffered events after a successful drain.
func (b *ActivityBuffer) DeleteUserBuffer(ctx context.Context, userID uint) error {
	if err := b.client.Del(ctx, userActivityKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete user activity buffer: %w", err)
	}
	return nil
}

// PendingUserIDs scans for every user_activity:* key and extracts the user
// IDs with buffered events, mirroring flush_all_pending_activities's
// scan_iter walk.
func (b *ActivityBuffer) PendingUserIDs(ctx context.Context) ([]uint, error) {
	var userIDs []uint
	iter := b.client.Scan(ctx, 0, "user_activity:*", 0).Iterator()
	for iter.Next(ctx) {
		parts := strings.SplitN(iter.Val(), ":", 2)
		if len(parts) != 2 {
			continue
		}
		id, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			continue
		}
		userIDs = append(userIDs, uint(id))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan pending user buffers: %w", err)
	}
	return userIDs, nil
}
