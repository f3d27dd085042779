// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drivecat/drivecat/internal/alist"
	"github.com/drivecat/drivecat/internal/api"
	"github.com/drivecat/drivecat/internal/cache"
	"github.com/drivecat/drivecat/internal/catalog"
	"github.com/drivecat/drivecat/internal/config"
	"github.com/drivecat/drivecat/internal/jobs"
	dclog "github.com/drivecat/drivecat/internal/log"
	"github.com/drivecat/drivecat/internal/tmdb"
)

var (
	version   = "v0.3.0"
	commit    = "none"
	buildDate = "unknown"
)

// maskURL removes user info from a URL string for safe logging.
func maskURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	return parsedURL.String()
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	settings := config.FromEnv()
	dclog.Configure(dclog.Config{Level: settings.LogLevel})
	logger := dclog.WithComponent("daemon")

	if err := settings.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup := newDocumentStore(settings)
	defer cleanup()

	client := alist.New(settings.AListURL, settings.AListToken)
	searcher := tmdb.New(settings.TMDBKey, settings.TMDBLang, tmdb.WithProxy(settings.TMDBProxy))

	runner := jobs.NewRunner(jobs.Deps{
		Client: client,
		Search: searcher,
		Cache:  store,
	})
	lister := catalog.NewService(client, store, catalog.WithDefaultPageSize(settings.PageSize))

	server := api.NewServer(settings.Root, runner, lister)
	httpSrv := &http.Server{
		Addr:              settings.Listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str(dclog.FieldEvent, "daemon.start").
			Str("listen", settings.Listen).
			Str(dclog.FieldBaseURL, maskURL(settings.AListURL)).
			Str(dclog.FieldRoot, settings.Root).
			Bool("enrichment", settings.TMDBKey != "").
			Str("version", version).
			Msg("daemon listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Str(dclog.FieldEvent, "daemon.stop").Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("daemon failed")
	}
}

// newDocumentStore selects the cache backend: Redis when configured, with a
// fallback to the in-memory store when the connection cannot be established.
func newDocumentStore(settings config.Settings) (cache.Store, func()) {
	logger := dclog.WithComponent("daemon")

	if settings.RedisAddr == "" {
		return cache.NewMemoryStore(), func() {}
	}

	redisStore, err := cache.NewRedisStore(cache.RedisConfig{
		Addr: settings.RedisAddr,
		DB:   settings.RedisDB,
	}, dclog.WithComponent("cache"))
	if err != nil {
		logger.Warn().
			Err(err).
			Str("addr", settings.RedisAddr).
			Msg("redis unavailable, using in-memory document cache")
		return cache.NewMemoryStore(), func() {}
	}
	return redisStore, func() { _ = redisStore.Close() }
}
