package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/pricelist/internal/application"
	"github.com/JonMunkholm/pricelist/internal/config"
	"github.com/JonMunkholm/pricelist/internal/core"
	"github.com/JonMunkholm/pricelist/internal/export"
	"github.com/JonMunkholm/pricelist/internal/logging"
	"github.com/JonMunkholm/pricelist/internal/watch"
	"github.com/JonMunkholm/pricelist/internal/web"
)

func main() {
	if err := run(); err != nil {
		var userErr *core.UserError
		if errors.As(err, &userErr) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(userErr.Technical))
			err = userErr.Technical
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envLoaded := godotenv.Overload() == nil

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closer, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("configuration loaded", "env_file", envLoaded, "config", cfg.String())

	service := core.NewService(cfg.Catalog.Dir, catalogOptions(cfg.Catalog), nil, logger)
	if path := cfg.Export.HTMLPath; path != "" {
		service.OnPublish(func(ctx context.Context, entries []core.Entry) error {
			if err := export.WriteFile(ctx, path, entries); err != nil {
				return err
			}
			logger.Info("catalog exported", "path", path, "entries", len(entries))
			return nil
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := service.Load(core.ContextWithTrigger(ctx, core.TriggerStartup))
	if err != nil {
		userErr := core.NewUserError(err)
		logger.Error("startup load failed", "error", err, "code", userErr.User.Code)
		return userErr
	}
	fmt.Printf("Loaded %d items from %d files in %s\n", result.Admitted, len(result.Files), cfg.Catalog.Dir)
	if cfg.Export.HTMLPath != "" {
		fmt.Printf("Catalog exported to %s\n", cfg.Export.HTMLPath)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Watch.Enabled {
		w := watch.New(cfg.Catalog.Dir, service.Matches, cfg.Watch.Debounce, func(ctx context.Context) error {
			_, err := service.Load(ctx)
			return err
		}, logger)
		g.Go(func() error { return w.Run(gctx) })
	}

	if cfg.Server.Enabled {
		server := web.NewServer(service, cfg.Server, cfg.Security)
		g.Go(server.Start)
		g.Go(func() error {
			<-gctx.Done()
			return shutdown(service, server, cfg.Server)
		})
	} else {
		g.Go(func() error {
			defer stop()
			repl := application.NewREPL(service, os.Stdin, os.Stdout, logger)
			if err := repl.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	err = g.Wait()
	logger.Info("stopped", "error", err)
	return err
}

// catalogOptions translates configuration into loader options.
func catalogOptions(c config.CatalogConfig) core.Options {
	return core.Options{
		Marker:     c.FileMarker,
		Extensions: c.Extensions,
		Synonyms: core.Synonyms{
			Product: c.ProductHeaders,
			Price:   c.PriceHeaders,
			Weight:  c.WeightHeaders,
		},
	}
}

// shutdown waits for running loads, then stops the HTTP server.
func shutdown(service *core.Service, server *web.Server, cfg config.ServerConfig) error {
	slog.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if status := service.LoadStatus(); status.Active > 0 {
		slog.Info("waiting for catalog load to complete", "active", status.Active)
		if err := service.WaitForLoads(ctx); err != nil {
			slog.Warn("catalog load did not complete in time", "error", err)
		}
	}

	return server.Shutdown(ctx)
}
