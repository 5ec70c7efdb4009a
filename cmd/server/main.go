package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/tcgstock/internal/catalog"
	"github.com/JonMunkholm/tcgstock/internal/config"
	"github.com/JonMunkholm/tcgstock/internal/core"
	"github.com/JonMunkholm/tcgstock/internal/core/profiles"
	"github.com/JonMunkholm/tcgstock/internal/logging"
	"github.com/JonMunkholm/tcgstock/internal/metrics"
	"github.com/JonMunkholm/tcgstock/internal/sheet"
	"github.com/JonMunkholm/tcgstock/internal/store"
	"github.com/JonMunkholm/tcgstock/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())
	if cfg.Security.RequireAPIKey && len(cfg.Security.APIKeys) == 0 {
		slog.Warn("no API_KEYS configured, catalog sync is locked")
	}

	if cfg.Import.ProfilesFile != "" {
		loaded, err := profiles.LoadFile(cfg.Import.ProfilesFile)
		if err != nil {
			slog.Error("failed to load import profiles", "file", cfg.Import.ProfilesFile, "error", err)
			os.Exit(1)
		}
		slog.Info("custom import profiles loaded", "file", cfg.Import.ProfilesFile, "count", len(loaded))
	}
	slog.Info("import profiles registered", "count", core.ProfileCount())

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	db := store.New(pool)
	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	registry := metrics.NewRegistry()
	service := core.NewService(core.ServiceConfig{
		Inventory: db,
		Catalog: catalog.NewClient(catalog.Config{
			BaseURL:   cfg.Catalog.APIURL,
			APIKey:    cfg.Catalog.APIKey,
			PageSize:  cfg.Catalog.PageSize,
			MaxPages:  cfg.Catalog.MaxPages,
			Timeout:   cfg.Catalog.Timeout,
			UserAgent: cfg.Catalog.UserAgent,
		}),
		CatalogTx:     db,
		Decode:        sheet.Decode,
		Recorder:      registry,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWait:       cfg.Import.MaxWaitTime,
		Timeout:       cfg.Import.Timeout,
		MaxPasteBytes: cfg.Import.MaxPasteBytes,
		MaxFileSize:   cfg.Import.MaxFileSize,
		DefaultGame:   cfg.Import.DefaultGame,
	})

	server := web.NewServer(service, cfg, registry.Handler())

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
