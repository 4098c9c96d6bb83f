// Package activity drains the Redis-buffered view/feed-request events into
// the relational activity_log table on a fixed interval. Grounded on
// tracking.py's flush_user_activity_to_mysql / flush_all_pending_activities
// for the drain semantics, and on the teacher's retry_scheduler.go for the
// ticker-driven background-task shape (generalized to robfig/cron since
// the interval here is configuration-driven rather than fixed at 30s).
package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"feedcore/internal/data"
	"feedcore/internal/infrastructure/cache"
)

// EventBuffer is the subset of cache.ActivityBuffer the drainer needs,
// kept as an interface so tests can substitute a fake in place of a real
// Redis connection.
type EventBuffer interface {
	PendingUserIDs(ctx context.Context) ([]uint, error)
	PendingEvents(ctx context.Context, userID uint) ([]cache.Event, error)
	DeleteUserBuffer(ctx context.Context, userID uint) error
}

// Drainer moves buffered activity events into Postgres.
type Drainer struct {
	buffer      EventBuffer
	repo        data.ActivityLogRepository
	logger      *zap.Logger
	subjectType string
}

func NewDrainer(buffer EventBuffer, repo data.ActivityLogRepository, logger *zap.Logger) *Drainer {
	return &Drainer{
		buffer:      buffer,
		repo:        repo,
		logger:      logger.With(zap.String("component", "activity_drainer")),
		subjectType: "App\\Models\\Resume",
	}
}

// DrainAll flushes every user with pending buffered events, mirroring
// flush_all_pending_activities's scan-then-flush loop.
func (d *Drainer) DrainAll(ctx context.Context) error {
	userIDs, err := d.buffer.PendingUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list pending users: %w", err)
	}

	var flushed, failed int
	for _, userID := range userIDs {
		if err := d.DrainUser(ctx, userID); err != nil {
			failed++
			d.logger.Warn("failed to drain user activity", zap.Uint("user_id", userID), zap.Error(err))
			continue
		}
		flushed++
	}

	if flushed > 0 || failed > 0 {
		d.logger.Info("activity drain cycle complete", zap.Int("flushed", flushed), zap.Int("failed", failed))
	}
	return nil
}

// DrainUser flushes one user's buffered events and deletes the buffer only
// once the insert succeeds, so a failed drain is retried on the next cycle.
func (d *Drainer) DrainUser(ctx context.Context, userID uint) error {
	events, err := d.buffer.PendingEvents(ctx, userID)
	if err != nil {
		return fmt.Errorf("load pending events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	entries := make([]data.ActivityLog, 0, len(events))
	for _, event := range events {
		properties, err := json.Marshal(event)
		if err != nil {
			d.logger.Warn("skipping event with unmarshalable properties", zap.Error(err))
			continue
		}

		entry := data.ActivityLog{
			LogName:     logNameFor(event),
			Description: describe(event),
			CauserID:    event.UserID,
			CauserType:  "App\\Models\\User",
			Properties:  string(properties),
			URL:         urlFor(event),
			CreatedAt:   event.Timestamp,
		}
		if event.ItemID != 0 {
			itemID := event.ItemID
			entry.SubjectID = &itemID
			entry.SubjectType = d.subjectType
		}
		entries = append(entries, entry)
	}

	if err := d.repo.InsertBatch(entries); err != nil {
		return fmt.Errorf("insert activity batch for user %d: %w", userID, err)
	}

	if err := d.buffer.DeleteUserBuffer(ctx, userID); err != nil {
		return fmt.Errorf("clear buffer for user %d: %w", userID, err)
	}
	return nil
}

func logNameFor(event cache.Event) string {
	if event.EventType == cache.EventTypeFeedRequest {
		return "feed"
	}
	return "video"
}

// describe mirrors tracking.py's _generate_description: a hashtag-style
// summary distinguishing views from feed requests.
func describe(event cache.Event) string {
	if event.EventType == cache.EventTypeFeedRequest {
		return fmt.Sprintf("#feed #request #%s", event.Endpoint)
	}
	return fmt.Sprintf("#video #view #%s", event.FeedType)
}

// urlFor mirrors tracking.py's _generate_url.
func urlFor(event cache.Event) string {
	if event.EventType == cache.EventTypeFeedRequest {
		return fmt.Sprintf("/api/search/%s", event.Endpoint)
	}
	return fmt.Sprintf("/api/search/feed/video/%d", event.ItemID)
}
