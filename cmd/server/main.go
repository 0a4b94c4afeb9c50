package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdugdh24/transitia-backend/internal/config"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/container"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/database"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := container.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("error closing application", slog.Any("error", err))
		}
	}()

	if cmd.Bool("migrate") && app.DB != nil {
		if err := database.Migrate(ctx, app.DB); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Server.Start(gCtx)
	})
	g.Go(func() error {
		return app.RunSessionCleanup(gCtx, cfg.Storage.SessionCleanupInterval)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited properly")
	return nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	if cfg.Storage.InMemory() {
		logger.Info("in-memory storage has no schema to apply")
		return nil
	}

	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("schema applied", slog.String("database", cfg.Database.DBName))
	return nil
}

func migrateFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "migrate",
		Usage:   "Apply the database schema before serving",
		Sources: cli.EnvVars("AUTO_MIGRATE"),
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "transitia",
		Usage:  "Temporary housing matching API: listings, compatibility ranking and live chat",
		Action: serve,
		Flags:  []cli.Flag{migrateFlag()},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
				Flags:  []cli.Flag{migrateFlag()},
			},
			{
				Name:   "migrate",
				Usage:  "Apply the database schema and exit",
				Action: migrate,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
