package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lolitemaultes/NRTV/internal/config"
	"github.com/lolitemaultes/NRTV/internal/db"
	"github.com/lolitemaultes/NRTV/internal/guide"
	"github.com/lolitemaultes/NRTV/internal/logger"
	"github.com/lolitemaultes/NRTV/internal/playlist"
	"github.com/lolitemaultes/NRTV/internal/server"
	"github.com/lolitemaultes/NRTV/internal/syncer"
	"github.com/lolitemaultes/NRTV/internal/xmltv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)
	logger.Log.Info().Msg("Starting NRTV")

	store := guide.NewStore()
	database := openCache(cfg)

	playlistFetcher := playlist.NewFetcher(cfg.Upstream.PlaylistURLs, cfg.Upstream.UserAgent, cfg.Sync.FetchTimeout)
	guideFetcher := xmltv.NewFetcher(cfg.Upstream.GuideURLs, cfg.Upstream.UserAgent, cfg.Sync.FetchTimeout)

	var cache syncer.SnapshotCache
	if database != nil {
		cache = database
	}
	sync := syncer.New(store, playlistFetcher, guideFetcher, cache, cfg.Sync.Interval)

	// Warm start: serve the last good snapshot while the first upstream
	// sync is still in flight.
	if database != nil {
		warmStart(store, database)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sync.SyncOnce(ctx); err != nil {
		// Stale cached data keeps the service usable; a cold boot with no
		// data at all just serves empty tiles until upstream recovers.
		logger.Log.Warn().Err(err).Msg("Initial sync failed, serving cached or empty guide")
	}

	go sync.Run(ctx)

	srv := server.New(cfg, store, sync, database)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error().Err(err).Msg("HTTP server failed")
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	if database != nil {
		if err := database.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to close database")
		}
	}
}

// openCache opens the snapshot cache database and applies migrations.
// Cache problems are never fatal: the service degrades to memory-only.
func openCache(cfg *config.Config) *db.DB {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Log.Warn().Err(err).Msg("Cannot create database directory, snapshot cache disabled")
		return nil
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cannot open database, snapshot cache disabled")
		return nil
	}

	sqlDB, err := database.GetSQLDB()
	if err == nil {
		err = db.RunMigrations(sqlDB, "file://./migrations")
	}
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Migrations failed, snapshot cache disabled")
		_ = database.Close()
		return nil
	}

	return database
}

// warmStart publishes the cached snapshot, if one exists.
func warmStart(store *guide.Store, database *db.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := database.LoadSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, db.ErrNoCachedSnapshot) {
			logger.Log.Warn().Err(err).Msg("Failed to load cached snapshot")
		}
		return
	}

	store.Publish(snap)
	logger.Log.Info().
		Int("channels", len(snap.Channels)).
		Int("programmes", snap.ProgrammeCount()).
		Time("synced_at", snap.SyncedAt).
		Msg("Serving cached guide snapshot until first sync")
}
