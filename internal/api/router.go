package api

import (
	"net/http"

	"feedcore/internal/api/middleware"
	"feedcore/internal/api/v1/handler"
	"feedcore/internal/config"
	"feedcore/internal/infrastructure/logging"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the feed handlers behind the gin middleware stack.
func NewRouter(logger *logging.Logger, cfg *config.Config, feedHandler *handler.FeedHandler, rateLimiter *middleware.IPRateLimiter) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	if len(cfg.Server.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			logger.Error("failed to set trusted proxies", zap.Error(err))
		}
	} else {
		r.SetTrustedProxies(nil)
	}

	middleware.Setup(r, logger, cfg.Server.AllowedOrigins)
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimitMiddleware(rateLimiter, logger.Logger))

	r.GET("/health", feedHandler.Health)

	api := r.Group(cfg.Server.APIPath)
	{
		api.POST("/total", feedHandler.Total)
		api.POST("/discover", feedHandler.Discover)
		api.POST("/flow", feedHandler.Flow)
		api.POST("/reload", feedHandler.Reload)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}
