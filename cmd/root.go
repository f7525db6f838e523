package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/parallelme/parallelme/parallelme"
	"github.com/parallelme/parallelme/parallelme/database"
	"github.com/parallelme/parallelme/parallelme/logger"
)

var (
	version = "dev"
	commit  = "unknown"

	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "parallelme",
	Short:         "ParallelMe personal growth backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config")
}

// Execute runs the root command with build metadata from main.
func Execute(ctx context.Context, buildVersion, buildCommit string) {
	version, commit = buildVersion, buildCommit
	rootCmd.Version = version + " (" + commit + ")"

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("Command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// setup loads the configuration and installs the process logger.
func setup() (*parallelme.Config, error) {
	cfg, err := parallelme.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.Log.Format, cfg.Log.Level, cfg.Log.AddSource))
	return cfg, nil
}

func connect(ctx context.Context, cfg *parallelme.Config) (*database.DB, error) {
	return database.New(ctx, database.DBConfig{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout.Duration,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
	})
}
