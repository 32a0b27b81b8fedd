package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/ninja-snatch/internal/common"
	"github.com/dtnitsch/ninja-snatch/internal/extract"
	"github.com/dtnitsch/ninja-snatch/pkg/caching"
	"github.com/dtnitsch/ninja-snatch/pkg/db"
	"github.com/dtnitsch/ninja-snatch/pkg/fetcher"
)

const shutdownTimeout = 10 * time.Second

func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	database, err := db.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		logger.Error("failed to initialize cache", "error", err)
		os.Exit(2)
	}
	f := fetcher.NewFetcher(cfg.FetchTimeout, cache, logger)
	f.OnAccess = extract.RecordAccess(database, logger)

	runner := extract.NewRunner(cfg, f, logger)
	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           New(runner, database, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(2)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Shutdown did not complete", "error", err)
	}
	return nil
}
