package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"smart-schedule/core/config"
	"smart-schedule/core/database"
	"smart-schedule/core/logger"
	"smart-schedule/core/migration"
	"smart-schedule/core/server"
	"smart-schedule/core/utils"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// @title SmartSchedule API
// @version 1.0
// @description Availability and booking backend for SmartSchedule

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	app := &cli.App{
		Name:  "smart-schedule",
		Usage: "Availability and booking service.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before the environment"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("env-file"))
			if err != nil {
				return err
			}
			return logger.Init(cfg.Server.Env)
		},
		After: func(*cli.Context) error {
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			workerCommand(),
			migrateCommand(),
			tokenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("Application failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "Apply pending migrations before serving."},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signalContext(c.Context)
			defer stop()
			return server.Run(ctx, config.Get(), server.Options{Migrate: c.Bool("migrate")})
		},
	}
}

func workerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "Process booking confirmations.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "concurrency", Value: 10, Usage: "Tasks processed in parallel."},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signalContext(c.Context)
			defer stop()
			return server.RunWorker(ctx, config.Get(), c.Int("concurrency"))
		},
	}
}

func withDB(fn func(ctx context.Context, db database.Database) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg := config.Get()
		db, err := database.InitDB(database.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		return fn(c.Context, db)
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema.",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations.",
				Action: withDB(func(ctx context.Context, db database.Database) error {
					version, err := server.Migrate(ctx, db)
					if err != nil {
						return err
					}
					fmt.Printf("database at version %d\n", version)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "Print applied and pending migrations.",
				Action: withDB(func(ctx context.Context, db database.Database) error {
					m, err := migration.NewMigrator(db.SQLx().DB)
					if err != nil {
						return err
					}
					return m.Status(ctx)
				}),
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a bearer token for local development.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user-id", Usage: "Host id, random when empty."},
			&cli.StringFlag{Name: "email", Value: "host@example.com"},
			&cli.DurationFlag{Name: "ttl", Usage: "Token lifetime, defaults to 24h."},
		},
		Action: func(c *cli.Context) error {
			userID := uuid.New()
			if raw := c.String("user-id"); raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("invalid --user-id: %w", err)
				}
				userID = parsed
			}

			cfg := config.Get()
			token, err := utils.GenerateToken(cfg.JWT.Secret, cfg.JWT.Issuer, userID, c.String("email"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Printf("user_id: %s\ntoken:   %s\n", userID, token)
			return nil
		},
	}
}
