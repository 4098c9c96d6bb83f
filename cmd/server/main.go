package main

import (
	"context"
	"flag"
	"log"

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// main wires every collaborator explicitly rather than through a package
// singleton, so the dependency graph is visible in one place and Reload can
// run once before the server accepts traffic.
func main() {
	cfgPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	redisClient, err := cache.NewClient(cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	activityBuffer := cache.NewActivityBuffer(redisClient)

	telemetryClient, err := telemetry.NewClient(cfg.Telemetry, logger)
	if err != nil {
		logger.Fatal("failed to connect to telemetry store", zap.Error(err))
	}
	telemetrySink := telemetry.NewSink(telemetryClient, cfg.Telemetry.BatchSize)

	catalogRepo := data.NewCatalogRepository(db)
	activityLogRepo := data.NewActivityLogRepository(db)
	flowViewRepo := data.NewFlowViewRepository(db)

	loaderCfg := catalog.LoaderConfig{
		ItemRecencyWindowDays: cfg.Catalog.ItemRecencyWindowDays,
		FlowRecencyWindowDays: cfg.Catalog.FlowRecencyWindowDays,
		BlacklistPath:         cfg.Catalog.BlacklistPath,
	}

	dim := cfg.Bandit.ContextDim
	deps := core.Dependencies{
		Repo:      catalogRepo,
		FlowViews: flowViewRepo,
		LoaderCfg: loaderCfg,
		Events:    core.NewEventBus(logger.Logger),
		Buffer:    activityBuffer,
		Sink:      telemetrySink,
		Logger:    logger.Logger,
	}
	deps.BanditCfg.VMP = bandit.Config{Dimension: dim, Alpha: cfg.Bandit.VMP.Alpha, Beta: cfg.Bandit.VMP.Beta}
	deps.BanditCfg.AU = bandit.Config{Dimension: dim, Alpha: cfg.Bandit.AU.Alpha, Beta: cfg.Bandit.AU.Beta}
	deps.BanditCfg.NU = bandit.Config{Dimension: dim, Alpha: cfg.Bandit.NU.Alpha, Beta: cfg.Bandit.NU.Beta}

	recommendationCore := core.New(deps)
	if err := recommendationCore.Reload(context.Background()); err != nil {
		logger.Fatal("failed to load initial catalog snapshot", zap.Error(err))
	}

	drainer := activity.NewDrainer(activityBuffer, activityLogRepo, logger.Logger)
	scheduler := activity.NewScheduler(drainer, cfg.Activity.FlushIntervalSeconds, logger.Logger)

	feedHandler := handler.NewFeedHandler(recommendationCore)
	rateLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateLimitBurst)
	router := api.NewRouter(logger, cfg, feedHandler, rateLimiter)

	httpServer := server.NewHTTPServer(router, logger, cfg, scheduler)
	if err := httpServer.Start(); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}
