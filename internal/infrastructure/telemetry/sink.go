package telemetry

import (
	"context"
	"fmt"
	"time"
)

// FeedAssemblyEvent is one row of the feed_assembly_events ClickHouse table:
// a record of how a single feed was built, for offline analysis of pool
// exhaustion, fallback rate and bandit category spread.
type FeedAssemblyEvent struct {
	RequestID       string
	UserID          uint
	Endpoint        string
	AssembledAt     time.Time
	TotalSlots      int
	ExploreFallback int
	VMPCount        int
	AUCount         int
	NUCount         int
	FWCount         int
	PoolSizeVMP     int
	PoolSizeAU      int
	PoolSizeNU      int
	PoolSizeFW      int
	PoolSizeExplore int
	DurationMs      float64
}

// Sink buffers assembly events and flushes them to ClickHouse in batches.
// A nil *Client (telemetry disabled) makes every method a no-op, so callers
// never need to branch on whether telemetry is configured.
type Sink struct {
	client    *Client
	batchSize int
	buffer    []FeedAssemblyEvent
}

func NewSink(client *Client, batchSize int) *Sink {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Sink{client: client, batchSize: batchSize}
}

// Record appends an event to the buffer, flushing immediately once the
// batch size is reached.
func (s *Sink) Record(ctx context.Context, event FeedAssemblyEvent) error {
	if s.client == nil {
		return nil
	}
	s.buffer = append(s.buffer, event)
	if len(s.buffer) >= s.batchSize {
		return s.Flush(ctx)
	}
	return nil
}

// Flush sends any buffered events to ClickHouse and clears the buffer.
func (s *Sink) Flush(ctx context.Context) error {
	if s.client == nil || len(s.buffer) == 0 {
		return nil
	}

	batch, err := s.client.conn.PrepareBatch(ctx, `INSERT INTO feed_assembly_events
		(request_id, user_id, endpoint, assembled_at, total_slots, explore_fallback,
		 vmp_count, au_count, nu_count, fw_count,
		 pool_size_vmp, pool_size_au, pool_size_nu, pool_size_fw, pool_size_explore,
		 duration_ms)`)
	if err != nil {
		return fmt.Errorf("prepare feed assembly batch: %w", err)
	}

	for _, e := range s.buffer {
		if err := batch.Append(
			e.RequestID, uint64(e.UserID), e.Endpoint, e.AssembledAt,
			uint32(e.TotalSlots), uint32(e.ExploreFallback),
			uint32(e.VMPCount), uint32(e.AUCount), uint32(e.NUCount), uint32(e.FWCount),
			uint32(e.PoolSizeVMP), uint32(e.PoolSizeAU), uint32(e.PoolSizeNU),
			uint32(e.PoolSizeFW), uint32(e.PoolSizeExplore),
			e.DurationMs,
		); err != nil {
			return fmt.Errorf("append feed assembly event: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send feed assembly batch: %w", err)
	}

	s.buffer = s.buffer[:0]
	return nil
}
