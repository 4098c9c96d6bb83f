//go:build wireinject
// +build wireinject

package wire

import (
	"feedcore/internal/api"
	"feedcore/internal/api/middleware"
	"feedcore/internal/api/v1/handler"
	"feedcore/internal/config"
	"feedcore/internal/core"
	"feedcore/internal/core/activity"
	"feedcore/internal/core/bandit"
	"feedcore/internal/core/catalog"
	"feedcore/internal/data"
	"feedcore/internal/infrastructure/cache"
	"feedcore/internal/infrastructure/logging"
	"feedcore/internal/infrastructure/persistence/postgres"
	"feedcore/internal/infrastructure/server"
	"feedcore/internal/infrastructure/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"golang.org/x/time/rate"
)

// InitializeServer creates a fully wired server instance.
func InitializeServer(cfgPath string) (*server.Server, error) {
	wire.Build(
		// ============================================================
		// CONFIGURATION & INFRASTRUCTURE
		// ============================================================
		config.Load,
		logging.New,
		postgres.NewDB,
		provideTelemetryClient,
		provideTelemetrySink,

		// ============================================================
		// DATA LAYER - REPOSITORIES
		// ============================================================
		data.NewCatalogRepository,
		data.NewActivityLogRepository,
		data.NewFlowViewRepository,

		// ============================================================
		// RECOMMENDATION CORE
		// ============================================================
		provideLoaderConfig,
		provideBanditDependencies,
		provideEventBus,
		provideActivityBuffer,
		provideRecommendationCore,

		// ============================================================
		// ACTIVITY DRAIN PIPELINE
		// ============================================================
		provideActivityDrainer,
		provideActivityScheduler,

		// ============================================================
		// API LAYER
		// ============================================================
		handler.NewFeedHandler,
		provideRateLimiter,
		provideRouter,
		server.NewHTTPServer,
	)
	return nil, nil
}

func provideActivityBuffer(cfg *config.Config) (*cache.ActivityBuffer, error) {
	client, err := cache.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return cache.NewActivityBuffer(client), nil
}

func provideTelemetryClient(cfg *config.Config, logger *logging.Logger) (*telemetry.Client, error) {
	return telemetry.NewClient(cfg.Telemetry, logger)
}

func provideTelemetrySink(client *telemetry.Client, cfg *config.Config) *telemetry.Sink {
	return telemetry.NewSink(client, cfg.Telemetry.BatchSize)
}

func provideLoaderConfig(cfg *config.Config) catalog.LoaderConfig {
	return catalog.LoaderConfig{
		ItemRecencyWindowDays: cfg.Catalog.ItemRecencyWindowDays,
		FlowRecencyWindowDays: cfg.Catalog.FlowRecencyWindowDays,
		BlacklistPath:         cfg.Catalog.BlacklistPath,
	}
}

// bandCfg is the trio of per-category LinUCB tunings core.Dependencies expects.
type bandCfg struct{ VMP, AU, NU bandit.Config }

func provideBanditDependencies(cfg *config.Config) bandCfg {
	dim := cfg.Bandit.ContextDim
	return bandCfg{
		VMP: bandit.Config{Dimension: dim, Alpha: cfg.Bandit.VMP.Alpha, Beta: cfg.Bandit.VMP.Beta},
		AU:  bandit.Config{Dimension: dim, Alpha: cfg.Bandit.AU.Alpha, Beta: cfg.Bandit.AU.Beta},
		NU:  bandit.Config{Dimension: dim, Alpha: cfg.Bandit.NU.Alpha, Beta: cfg.Bandit.NU.Beta},
	}
}

func provideEventBus(logger *logging.Logger) *core.EventBus {
	return core.NewEventBus(logger.Logger)
}

func provideRecommendationCore(
	repo data.CatalogRepository,
	flowViews data.FlowViewRepository,
	loaderCfg catalog.LoaderConfig,
	bands bandCfg,
	events *core.EventBus,
	buffer *cache.ActivityBuffer,
	sink *telemetry.Sink,
	logger *logging.Logger,
) *core.RecommendationCore {
	deps := core.Dependencies{
		Repo:      repo,
		FlowViews: flowViews,
		LoaderCfg: loaderCfg,
		Events:    events,
		Buffer:    buffer,
		Sink:      sink,
		Logger:    logger.Logger,
	}
	deps.BanditCfg.VMP = bands.VMP
	deps.BanditCfg.AU = bands.AU
	deps.BanditCfg.NU = bands.NU
	return core.New(deps)
}

func provideActivityDrainer(buffer *cache.ActivityBuffer, repo data.ActivityLogRepository, logger *logging.Logger) *activity.Drainer {
	return activity.NewDrainer(buffer, repo, logger.Logger)
}

func provideActivityScheduler(drainer *activity.Drainer, cfg *config.Config, logger *logging.Logger) *activity.Scheduler {
	return activity.NewScheduler(drainer, cfg.Activity.FlushIntervalSeconds, logger.Logger)
}

func provideRateLimiter(cfg *config.Config) *middleware.IPRateLimiter {
	return middleware.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateLimitBurst)
}

func provideRouter(
	logger *logging.Logger,
	cfg *config.Config,
	feedHandler *handler.FeedHandler,
	rateLimiter *middleware.IPRateLimiter,
) *gin.Engine {
	return api.NewRouter(logger, cfg, feedHandler, rateLimiter)
}
