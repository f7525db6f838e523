package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/parallelme/parallelme/backend"
	"github.com/parallelme/parallelme/backend/config"
	"github.com/parallelme/parallelme/backend/handlers"
	"github.com/parallelme/parallelme/parallelme"
	"github.com/parallelme/parallelme/parallelme/database/repositories"
	"github.com/parallelme/parallelme/parallelme/gateway"
	"github.com/parallelme/parallelme/parallelme/logger"
	"github.com/parallelme/parallelme/parallelme/services"
)

var skipIndexes bool

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "run the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCMD.Flags().BoolVar(&skipIndexes, "skip-indexes", false, "do not ensure indexes on startup")
	rootCmd.AddCommand(serveCMD)
}

func serve(ctx context.Context, cfg *parallelme.Config) error {
	logger.LogSystem("Starting ParallelMe API",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("environment", cfg.Web.Environment))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	dbStartTime := time.Now()
	db, err := connect(connectCtx, cfg)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		return err
	}
	defer db.Close(context.Background())
	logger.LogSystem("Database connected", slog.String("database", cfg.Mongo.Database))

	if !skipIndexes {
		if err = db.EnsureIndexes(connectCtx); err != nil {
			return fmt.Errorf("failed to ensure indexes: %w", err)
		}
	}

	gw, err := newGateway(ctx, cfg)
	if err != nil {
		return err
	}

	archive, err := newArchive(ctx, cfg)
	if err != nil {
		return err
	}

	users := repositories.NewUserRepository(db.Database())
	personaRepo := repositories.NewPersonaRepository(db.Database())
	questRepo := repositories.NewQuestRepository(db.Database())
	storyRepo := repositories.NewStoryRepository(db.Database())

	batches := services.NewBatchGenerator(questRepo, gw)
	personas, err := services.NewPersonaService(personaRepo, questRepo, storyRepo, gw, batches, cfg.App.PersonaCacheSize)
	if err != nil {
		return err
	}

	app := backend.NewApp(&handlers.WebApp{
		Config: config.NewWebAppConfig(cfg),
		DB:     db,
		Auth: services.NewAuthService(users, services.AuthConfig{
			JWTSecret:  cfg.Auth.JWTSecret,
			TokenTTL:   cfg.Auth.TokenTTL.Duration,
			BcryptCost: cfg.Auth.BcryptCost,
		}),
		Personas: personas,
		Quests:   services.NewQuestService(questRepo, personas, batches, loc),
		Stories:  services.NewStoryService(storyRepo, questRepo, personas, gw, archive),
		Version:  version,
		Commit:   commit,
	})

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	logger.LogSystem("Starting backend server", slog.String("address", address))

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(address)
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err = <-listenErr:
		return fmt.Errorf("server stopped: %w", err)
	case <-sig:
	case <-ctx.Done():
	}
	logger.LogSystem("Shutting down backend server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err = app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	logger.LogSystem("Backend server shutdown complete")
	return nil
}

func newGateway(ctx context.Context, cfg *parallelme.Config) (gateway.Gateway, error) {
	if cfg.Gateway.Stub {
		slog.Warn("Using the stub content gateway, generated content is canned")
		return gateway.NewStub(), nil
	}
	return gateway.NewGenAI(ctx, gateway.GenAIConfig{
		APIKey:  cfg.Gateway.APIKey,
		Model:   cfg.Gateway.Model,
		Timeout: cfg.Gateway.Timeout.Duration,
	})
}

// newArchive returns nil when no bucket is configured, which disables export.
func newArchive(ctx context.Context, cfg *parallelme.Config) (services.Archive, error) {
	if !cfg.ArchiveEnabled() {
		logger.LogSystem("Journey archive disabled, export is unavailable")
		return nil, nil
	}
	archive, err := services.NewJourneyArchive(ctx, services.ArchiveConfig{
		Endpoint: cfg.Archive.Endpoint,
		Region:   cfg.Archive.Region,
		Bucket:   cfg.Archive.Bucket,
		Key:      cfg.Archive.Key,
		Secret:   cfg.Archive.Secret,
		Prefix:   cfg.Archive.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create journey archive: %w", err)
	}
	return archive, nil
}
