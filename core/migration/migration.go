package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"smart-schedule/core/logger"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) (*Migrator, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	return &Migrator{db: db}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	logger.Info("Migration:Up:Start")
	if err := goose.UpContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	logger.Info("Migration:Up:Done", "version", version)
	return nil
}

func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

func (m *Migrator) Status(ctx context.Context) error {
	return goose.StatusContext(ctx, m.db, migrationsDir)
}
