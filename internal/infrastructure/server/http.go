// Package server wraps the gin router in a net/http.Server with graceful
// shutdown, grounded on the teacher's infrastructure/server package (same
// listen-then-wait-for-signal-then-phased-shutdown shape), trimmed down from
// its job-queue/scan/search lifecycle to this module's one background
// dependency: the activity drain scheduler. The listener goroutine itself is
// tracked through the teacher's lifecycle.Manager instead of a bare `go
// func(){}`, so a panic in ListenAndServe is recovered and logged rather
// than taking down the process silently.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedcore/internal/config"
	"feedcore/internal/core/activity"
	"feedcore/internal/infrastructure/logging"
	"feedcore/internal/lifecycle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// Server owns the HTTP listener and the activity drain scheduler's lifecycle.
type Server struct {
	router    *gin.Engine
	logger    *logging.Logger
	cfg       *config.Config
	scheduler *activity.Scheduler
	lifecycle *lifecycle.Manager
	srv       *http.Server
}

func NewHTTPServer(router *gin.Engine, logger *logging.Logger, cfg *config.Config, scheduler *activity.Scheduler) *Server {
	return &Server{
		router:    router,
		logger:    logger,
		cfg:       cfg,
		scheduler: scheduler,
		lifecycle: lifecycle.NewManager(logger.Logger),
	}
}

// Start begins listening and blocks until SIGINT/SIGTERM, then drains
// in-flight requests and stops the activity scheduler before returning.
func (s *Server) Start() error {
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			return err
		}
	}

	s.srv = &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	s.lifecycle.Go("http_listener", func(done <-chan struct{}) {
		s.logger.Info("starting HTTP server", zap.String("port", s.cfg.Server.Port))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("HTTP server start failed", zap.Error(err))
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("initiating graceful shutdown", zap.Duration("timeout", shutdownTimeout))

	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	if err := s.lifecycle.Shutdown(shutdownTimeout); err != nil {
		s.logger.Warn("lifecycle manager shutdown timed out", zap.Error(err))
	}

	s.logger.Info("server stopped cleanly")
	return nil
}
