package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/gallery"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/store"
)

func main() {
	boot := logging.BootstrapLogger()
	cfg, err := config.Load(boot, os.Args[1:])
	if err != nil {
		boot.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		boot.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()
	logger.Debug("effective config", zap.String("config", cfg.Dump()))

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func loadGallery(cfg *config.Config) (*gallery.Gallery, error) {
	if cfg.ProjectsFile != "" {
		return gallery.LoadFile(cfg.ProjectsFile)
	}
	return gallery.LoadFS(dataFS, "data/projects.json")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	g, err := loadGallery(cfg)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	logger.Info("loaded projects", zap.Int("count", g.Len()))

	var st *store.Store
	if cfg.DBPath != "" {
		st, err = store.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		logger.Info("opened database", zap.String("path", cfg.DBPath))
	}

	s, err := newSite(cfg, logger, g, st)
	if err != nil {
		return err
	}
	router, err := s.routes()
	if err != nil {
		return err
	}

	if s.tracker != nil {
		go s.tracker.retentionLoop(ctx, cfg.VisitorRetention)
		logger.Info("privacy: visitor tracking enabled with hashed IP addresses")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if s.tracker != nil {
		s.tracker.Wait()
	}
	return err
}
