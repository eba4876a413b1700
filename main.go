package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/saatdakika/backend/internal/archive"
	"github.com/saatdakika/backend/internal/cache"
	"github.com/saatdakika/backend/internal/config"
	"github.com/saatdakika/backend/internal/feedconf"
	"github.com/saatdakika/backend/internal/fetch"
	"github.com/saatdakika/backend/internal/ingest"
	"github.com/saatdakika/backend/internal/logger"
	"github.com/saatdakika/backend/internal/query"
	"github.com/saatdakika/backend/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.Sync()

	store, err := archive.NewStore(cfg.ArchiveDir())
	if err != nil {
		logger.Log.Fatal("Archive store init failed", zap.Error(err))
	}

	feeds := feedconf.Load(cfg.FeedsFile)
	caches := cache.New()
	engine := query.New(store, caches, cfg.WindowDays)

	client := fetch.NewClient(fetch.Options{})
	ingestor := ingest.New(store, caches, feeds, client, nil)

	poller := ingest.NewPoller(ingestor, cfg.FetchInterval)
	poller.Start()
	defer poller.Stop()

	srv := server.New(cfg, store, caches, engine, feeds, ingestor)
	srv.StartSweeper()
	defer srv.Stop()

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("Server starting",
			zap.String("addr", httpSrv.Addr),
			zap.String("archive", cfg.ArchiveDir()))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("Shutdown incomplete", zap.Error(err))
	}
}
