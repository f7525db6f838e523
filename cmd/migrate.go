package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "create the MongoDB indexes the services rely on",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		db, err := connect(ctx, cfg)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			return err
		}
		defer db.Close(context.Background())

		if err := db.EnsureIndexes(ctx); err != nil {
			slog.Error("Migration failed", "error", err)
			return err
		}

		slog.Info("Indexes are up to date", slog.String("database", cfg.Mongo.Database))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCMD)
}
