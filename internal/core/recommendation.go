// Package core ties together the catalog snapshot, the per-category
// bandits, the assembler and the activity pipeline behind a single facade,
// grounded on the teacher's service-facade style (HomepageService,
// ExplorerService: a constructor over its collaborators plus a handful of
// public methods, logging at component granularity).
package core

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"feedcore/internal/apperrors"
	"feedcore/internal/core/assembler"
	"feedcore/internal/core/bandit"
	"feedcore/internal/core/catalog"
	"feedcore/internal/data"
	"feedcore/internal/infrastructure/cache"
	"feedcore/internal/infrastructure/telemetry"
)

// FeedResult is the assembled mixed/discover feed plus its metrics block.
// Snapshot is the exact catalog view the entries were drawn from, so
// callers can render item/flow fields without racing a concurrent reload.
type FeedResult struct {
	Entries  []assembler.Entry
	Metrics  assembler.Metrics
	Snapshot *catalog.Snapshot
}

// FlowFeedResult is the assembled flows-only feed plus its minimal metrics.
type FlowFeedResult struct {
	Entries  []assembler.FlowEntry
	Metrics  assembler.FlowMetrics
	Snapshot *catalog.Snapshot
}

// RecommendationCore is the process-wide entry point the API handlers call
// into. One instance is constructed at startup; Reload swaps its catalog
// snapshot atomically and the three bandits persist across reloads so
// learned preferences aren't lost when the catalog refreshes.
type RecommendationCore struct {
	repo       data.CatalogRepository
	flowViews  data.FlowViewRepository
	loaderCfg  catalog.LoaderConfig

	snapshotMu sync.RWMutex
	snapshot   *catalog.Snapshot

	bandits assembler.Bandits
	events  *EventBus

	buffer *cache.ActivityBuffer
	sink   *telemetry.Sink

	logger *zap.Logger
}

// Dependencies groups RecommendationCore's collaborators.
type Dependencies struct {
	Repo       data.CatalogRepository
	FlowViews  data.FlowViewRepository
	LoaderCfg  catalog.LoaderConfig
	BanditCfg  struct{ VMP, AU, NU bandit.Config }
	Events     *EventBus
	Buffer     *cache.ActivityBuffer
	Sink       *telemetry.Sink
	Logger     *zap.Logger
}

// New constructs a RecommendationCore. It does not load the catalog; call
// Reload once before serving traffic.
func New(deps Dependencies) *RecommendationCore {
	return &RecommendationCore{
		repo:      deps.Repo,
		flowViews: deps.FlowViews,
		loaderCfg: deps.LoaderCfg,
		bandits: assembler.Bandits{
			VMP: bandit.New(deps.BanditCfg.VMP),
			AU:  bandit.New(deps.BanditCfg.AU),
			NU:  bandit.New(deps.BanditCfg.NU),
		},
		events: deps.Events,
		buffer: deps.Buffer,
		sink:   deps.Sink,
		logger: deps.Logger.With(zap.String("component", "recommendation_core")),
	}
}

// Reload loads a fresh catalog snapshot and swaps it in atomically. A
// failure here is a FatalError: the previous snapshot, if any, stays live.
func (c *RecommendationCore) Reload(ctx context.Context) error {
	c.events.Publish(CatalogEvent{Type: CatalogEventReloadStarted})

	snapshot, err := catalog.Load(c.repo, c.loaderCfg)
	if err != nil {
		c.events.Publish(CatalogEvent{Type: CatalogEventReloadFailed, Data: err.Error()})
		return apperrors.NewFatalError("catalog reload failed", err)
	}

	c.snapshotMu.Lock()
	c.snapshot = snapshot
	c.snapshotMu.Unlock()

	c.logger.Info("catalog snapshot reloaded",
		zap.Int("items", snapshot.ItemCount()),
		zap.Int("flows", snapshot.FlowCount()),
		zap.Time("built_at", snapshot.BuiltAt),
	)
	c.events.Publish(CatalogEvent{Type: CatalogEventReloadCompleted})
	return nil
}

func (c *RecommendationCore) currentSnapshot() (*catalog.Snapshot, error) {
	c.snapshotMu.RLock()
	defer c.snapshotMu.RUnlock()
	if c.snapshot == nil {
		return nil, apperrors.NewCatalogUnavailableError("catalog snapshot not yet loaded", nil)
	}
	return c.snapshot, nil
}

// SnapshotAge reports how long ago the current snapshot was built, used by
// the health endpoint. Returns false if no snapshot has ever loaded.
func (c *RecommendationCore) SnapshotAge() (time.Duration, bool) {
	c.snapshotMu.RLock()
	defer c.snapshotMu.RUnlock()
	if c.snapshot == nil {
		return 0, false
	}
	return time.Since(c.snapshot.BuiltAt), true
}

// BanditSampleCounts reports each category's observation count, used by the
// health endpoint.
func (c *RecommendationCore) BanditSampleCounts() map[string]int {
	return map[string]int{
		"vmp": c.bandits.VMP.Stats().HistoryLength,
		"au":  c.bandits.AU.Stats().HistoryLength,
		"nu":  c.bandits.NU.Stats().HistoryLength,
	}
}

// Feed assembles the mixed 24-item feed (resumes and flows) for userID,
// per spec.md's /total operation.
func (c *RecommendationCore) Feed(ctx context.Context, userID uint, excludedIDs map[uint]bool, sessionID string) (FeedResult, error) {
	return c.assemble(ctx, userID, excludedIDs, sessionID, true, "total")
}

// Discover assembles the same slot pattern with flow slots left unfilled,
// per spec.md's /discover operation (a discovery-biased entry reusing the
// same assembly algorithm).
func (c *RecommendationCore) Discover(ctx context.Context, userID uint, excludedIDs map[uint]bool, sessionID string) (FeedResult, error) {
	return c.assemble(ctx, userID, excludedIDs, sessionID, false, "discover")
}

func (c *RecommendationCore) assemble(ctx context.Context, userID uint, excludedIDs map[uint]bool, sessionID string, includeFlows bool, endpoint string) (FeedResult, error) {
	snapshot, err := c.currentSnapshot()
	if err != nil {
		return FeedResult{}, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	entries, metrics := assembler.Assemble(snapshot, c.bandits, userID, excludedIDs, includeFlows, rng)

	c.trackFeedRequest(ctx, userID, endpoint, sessionID)
	c.trackImpressions(ctx, snapshot, entries, userID, sessionID)
	c.recordTelemetry(ctx, userID, endpoint, entries, metrics)

	return FeedResult{Entries: entries, Metrics: metrics, Snapshot: snapshot}, nil
}

// Flows assembles the flows-only feed for userID, per spec.md's /flow
// operation. Viewed flows are read from FlowViewRepository and the newly
// shown flows are recorded so they are not repeated on the next call.
func (c *RecommendationCore) Flows(ctx context.Context, userID uint, excludedIDs map[uint]bool, n int) (FlowFeedResult, error) {
	snapshot, err := c.currentSnapshot()
	if err != nil {
		return FlowFeedResult{}, err
	}

	viewed, err := c.flowViews.ViewedFlowIDs(userID)
	if err != nil {
		c.logger.Warn("failed to load viewed flow ids, proceeding without history", zap.Error(err))
		viewed = map[uint]bool{}
	}
	for id := range excludedIDs {
		viewed[id] = true
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	entries, metrics := assembler.AssembleFlows(snapshot, userID, viewed, n, rng)

	flowIDs := make([]uint, len(entries))
	for i, e := range entries {
		flowIDs[i] = e.FlowID
	}
	if err := c.flowViews.RecordViews(userID, flowIDs); err != nil {
		c.logger.Warn("failed to record flow views", zap.Error(err))
	}

	return FlowFeedResult{Entries: entries, Metrics: metrics, Snapshot: snapshot}, nil
}

// RecordReward feeds back an observed reward (e.g. a rating or a save) for
// one item into the category bandit it was served from.
func (c *RecommendationCore) RecordReward(slot assembler.SlotType, featureVector []float64, reward float64) {
	var bd *bandit.Bandit
	switch slot {
	case assembler.SlotVMP:
		bd = c.bandits.VMP
	case assembler.SlotAU:
		bd = c.bandits.AU
	case assembler.SlotNU:
		bd = c.bandits.NU
	default:
		return
	}
	bd.Update(featureVector, reward)
}

func (c *RecommendationCore) trackFeedRequest(ctx context.Context, userID uint, endpoint, sessionID string) {
	if c.buffer == nil {
		return
	}
	if err := c.buffer.TrackFeedRequest(ctx, userID, endpoint, "", sessionID); err != nil {
		c.logger.Warn("failed to track feed request", zap.Error(apperrors.NewActivityStoreUnavailableError("track feed request", err)))
	}
}

func (c *RecommendationCore) trackImpressions(ctx context.Context, snapshot *catalog.Snapshot, entries []assembler.Entry, userID uint, sessionID string) {
	if c.buffer == nil {
		return
	}
	for _, entry := range entries {
		if entry.IsFlow {
			continue
		}
		item, ok := snapshot.Item(entry.ItemID)
		if !ok {
			continue
		}
		if err := c.buffer.TrackItemView(ctx, userID, entry.ItemID, item.VideoURL, entry.Position, string(entry.SlotType), sessionID); err != nil {
			c.logger.Warn("failed to track item view", zap.Error(apperrors.NewActivityStoreUnavailableError("track item view", err)))
		}
	}
}

func (c *RecommendationCore) recordTelemetry(ctx context.Context, userID uint, endpoint string, entries []assembler.Entry, metrics assembler.Metrics) {
	if c.sink == nil {
		return
	}

	typeCounts := map[assembler.SlotType]int{}
	for _, entry := range entries {
		typeCounts[entry.SlotType]++
	}

	event := telemetry.FeedAssemblyEvent{
		RequestID:       uuid.New().String(),
		UserID:          userID,
		Endpoint:        endpoint,
		AssembledAt:     time.Now(),
		TotalSlots:      metrics.TotalItems,
		ExploreFallback: metrics.ExploreFallbacks,
		VMPCount:        typeCounts[assembler.SlotVMP],
		AUCount:         typeCounts[assembler.SlotAU],
		NUCount:         typeCounts[assembler.SlotNU],
		FWCount:         typeCounts[assembler.SlotFW],
		PoolSizeVMP:     metrics.PoolSizes["VMP"],
		PoolSizeAU:      metrics.PoolSizes["AU"],
		PoolSizeNU:      metrics.PoolSizes["NU"],
		PoolSizeFW:      metrics.PoolSizes["FW"],
		PoolSizeExplore: metrics.PoolSizes["EXPLORE"],
		DurationMs:      float64(metrics.ExecutionTime.Microseconds()) / 1000,
	}
	if err := c.sink.Record(ctx, event); err != nil {
		c.logger.Warn("failed to record feed assembly telemetry", zap.Error(err))
	}
}
