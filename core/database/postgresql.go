package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// IDatabase is the query surface repositories depend on.
type IDatabase interface {
	ExecContext(ctx context.Context, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	SQLx() *sqlx.DB
}

type Database struct {
	db   *sql.DB
	sqlx *sqlx.DB
}

var _ IDatabase = Database{}

// New wraps an open sqlx handle.
func New(sqlxDB *sqlx.DB) Database {
	return Database{db: sqlxDB.DB, sqlx: sqlxDB}
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // disable, require, verify-ca, verify-full
}

func (c DatabaseConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = constants.DatabaseSSLMode
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

func InitDB(config DatabaseConfig) (Database, error) {
	logger.Info("Database:InitDB:Start", "host", config.Host, "database", config.DBName)

	sqlxDB, err := sqlx.Connect("postgres", config.DSN())
	if err != nil {
		logger.Error("Database:InitDB:Connect", "error", err)
		return Database{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB := sqlxDB.DB
	sqlDB.SetMaxOpenConns(constants.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(constants.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(constants.DatabaseConnMaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		logger.Error("Database:InitDB:Ping", "error", err)
		return Database{}, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database:InitDB:Done",
		"host", config.Host,
		"port", config.Port,
		"database", config.DBName,
		"maxOpenConns", constants.DatabaseMaxOpenConns,
		"maxIdleConns", constants.DatabaseMaxIdleConns,
	)

	return New(sqlxDB), nil
}

func (d Database) ExecContext(ctx context.Context, query string, args ...any) error {
	_, err := d.sqlx.ExecContext(ctx, query, args...)
	return err
}

func (d Database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.GetContext(ctx, dest, query, args...)
}

func (d Database) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.SelectContext(ctx, dest, query, args...)
}

func (d Database) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d Database) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	return d.sqlx.NamedExecContext(ctx, query, arg)
}

// WithTx runs fn inside a transaction. The transaction is rolled back when fn
// returns an error or panics, and committed otherwise.
func (d Database) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := d.sqlx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Database:WithTx:Rollback", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (d Database) SQLx() *sqlx.DB {
	return d.sqlx
}

func (d Database) Close() error {
	if d.sqlx == nil {
		return nil
	}
	return d.sqlx.Close()
}
