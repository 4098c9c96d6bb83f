package activity

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"feedcore/internal/data"
	"feedcore/internal/infrastructure/cache"
)

type fakeBuffer struct {
	events  map[uint][]cache.Event
	deleted map[uint]bool
}

func (f *fakeBuffer) PendingUserIDs(ctx context.Context) ([]uint, error) {
	ids := make([]uint, 0, len(f.events))
	for id := range f.events {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeBuffer) PendingEvents(ctx context.Context, userID uint) ([]cache.Event, error) {
	return f.events[userID], nil
}

func (f *fakeBuffer) DeleteUserBuffer(ctx context.Context, userID uint) error {
	if f.deleted == nil {
		f.deleted = map[uint]bool{}
	}
	f.deleted[userID] = true
	return nil
}

type fakeActivityLogRepo struct {
	inserted []data.ActivityLog
}

func (f *fakeActivityLogRepo) InsertBatch(entries []data.ActivityLog) error {
	f.inserted = append(f.inserted, entries...)
	return nil
}

func TestDrainUserInsertsAndClearsBuffer(t *testing.T) {
	buffer := &fakeBuffer{events: map[uint][]cache.Event{
		7: {
			{EventType: cache.EventTypeVideoView, UserID: 7, ItemID: 42, FeedType: "vmp", Timestamp: time.Now()},
			{EventType: cache.EventTypeFeedRequest, UserID: 7, Endpoint: "total", Timestamp: time.Now()},
		},
	}}
	repo := &fakeActivityLogRepo{}
	drainer := NewDrainer(buffer, repo, zap.NewNop())

	if err := drainer.DrainUser(context.Background(), 7); err != nil {
		t.Fatalf("DrainUser returned error: %v", err)
	}

	if len(repo.inserted) != 2 {
		t.Fatalf("expected 2 inserted rows, got %d", len(repo.inserted))
	}
	if !buffer.deleted[7] {
		t.Fatal("expected buffer to be cleared after successful drain")
	}

	if repo.inserted[0].Description != "#video #view #vmp" {
		t.Fatalf("unexpected description: %q", repo.inserted[0].Description)
	}
	if repo.inserted[1].Description != "#feed #request #total" {
		t.Fatalf("unexpected description: %q", repo.inserted[1].Description)
	}
	if repo.inserted[0].URL != "/api/search/feed/video/42" {
		t.Fatalf("unexpected url: %q", repo.inserted[0].URL)
	}
	if repo.inserted[1].URL != "/api/search/total" {
		t.Fatalf("unexpected url: %q", repo.inserted[1].URL)
	}
}

func TestDrainUserNoEventsIsNoop(t *testing.T) {
	buffer := &fakeBuffer{events: map[uint][]cache.Event{}}
	repo := &fakeActivityLogRepo{}
	drainer := NewDrainer(buffer, repo, zap.NewNop())

	if err := drainer.DrainUser(context.Background(), 1); err != nil {
		t.Fatalf("DrainUser returned error: %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("expected no inserts, got %d", len(repo.inserted))
	}
	if buffer.deleted[1] {
		t.Fatal("buffer should not be cleared when there was nothing to drain")
	}
}

func TestDrainAllFlushesEveryPendingUser(t *testing.T) {
	buffer := &fakeBuffer{events: map[uint][]cache.Event{
		1: {{EventType: cache.EventTypeVideoView, UserID: 1, ItemID: 10, Timestamp: time.Now()}},
		2: {{EventType: cache.EventTypeVideoView, UserID: 2, ItemID: 20, Timestamp: time.Now()}},
	}}
	repo := &fakeActivityLogRepo{}
	drainer := NewDrainer(buffer, repo, zap.NewNop())

	if err := drainer.DrainAll(context.Background()); err != nil {
		t.Fatalf("DrainAll returned error: %v", err)
	}
	if len(repo.inserted) != 2 {
		t.Fatalf("expected 2 inserted rows across users, got %d", len(repo.inserted))
	}
	if !buffer.deleted[1] || !buffer.deleted[2] {
		t.Fatal("expected both users' buffers to be cleared")
	}
}
