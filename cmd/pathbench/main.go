package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/udisondev/pathgrid/internal/config"
	"github.com/udisondev/pathgrid/internal/pathcache"
)

const defaultConfigPath = "config/pathgrid.yaml"

var configPath string

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pathbench",
		Short:         "Generate terrain and exercise the hierarchical path planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to the YAML config (env PATHGRID_CONFIG)")

	root.AddCommand(newGenmapCmd(), newRunCmd(), newChecksumCmd())
	return root
}

// loadConfig reads the config and installs the logger at its level.
func loadConfig(cmd *cobra.Command) (config.Pathing, error) {
	path := configPath
	if p := os.Getenv("PATHGRID_CONFIG"); p != "" && !cmd.Flags().Changed("config") {
		path = p
	}
	cfg, err := config.LoadPathing(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Debug("config loaded", "path", path)
	return cfg, nil
}

// openStore picks the cache backend from config. The returned cleanup is never nil.
func openStore(ctx context.Context, cfg config.Cache) (pathcache.Store, func(), error) {
	switch {
	case cfg.DSN != "":
		if err := pathcache.Migrate(ctx, cfg.DSN); err != nil {
			return nil, func() {}, fmt.Errorf("migrating path cache: %w", err)
		}
		pool, err := pathcache.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connecting path cache: %w", err)
		}
		slog.Info("path cache backend", "kind", "postgres")
		return pathcache.NewPostgresStore(pool), pool.Close, nil
	case cfg.Dir != "":
		store, err := pathcache.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, func() {}, err
		}
		slog.Info("path cache backend", "kind", "file", "dir", cfg.Dir)
		return store, func() {}, nil
	default:
		return nil, func() {}, nil
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
