package server

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"

	"smart-schedule/core/cache"
	"smart-schedule/core/config"
	"smart-schedule/core/constants"
	"smart-schedule/core/database"
	"smart-schedule/core/logger"
	"smart-schedule/core/middleware"
	"smart-schedule/core/migration"
	"smart-schedule/core/queue"
	"smart-schedule/core/storage"
	"smart-schedule/modules/booking"
	"smart-schedule/modules/booking/worker"
	"smart-schedule/modules/calendar"
	"smart-schedule/modules/event"
	"smart-schedule/modules/notification"
	"smart-schedule/modules/schedule"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

type Options struct {
	// Migrate applies pending migrations before serving.
	Migrate bool
}

func openDB(cfg *config.Config) (database.Database, error) {
	return database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
}

// Migrate applies pending migrations and returns the resulting version.
func Migrate(ctx context.Context, db database.Database) (int64, error) {
	m, err := migration.NewMigrator(db.SQLx().DB)
	if err != nil {
		return 0, err
	}
	if err := m.Up(ctx); err != nil {
		return 0, err
	}
	return m.Version(ctx)
}

func openCache(ctx context.Context, cfg config.RedisConfig) cache.Cache {
	c, err := cache.NewRedisCache(ctx, cfg)
	if err != nil {
		logger.Warn("Server:Cache:RedisUnavailable", "addr", cfg.Addr, "error", err)
		return cache.NewMemoryCache()
	}
	return c
}

// NewEcho builds the HTTP router with every module registered.
func NewEcho(cfg *config.Config, db database.Database, c cache.Cache, publisher queue.Publisher) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.RequestTimeout(constants.DefaultRequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(cfg.JWT.Secret, c)

	schedules := schedule.Init(e, db, mw)
	events := event.Init(e, db, mw)
	gateway := calendar.Init(e, db, mw, c, cfg, schedules)
	notification.Init(e, db, mw)
	booking.Init(e, mw, cfg.Booking, booking.Dependencies{
		Events:    events,
		Schedules: schedules,
		Busy:      gateway,
		Creator:   gateway,
		Publisher: publisher,
	})
	return e
}

// Run serves the HTTP API until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if opts.Migrate {
		if _, err := Migrate(ctx, db); err != nil {
			return err
		}
	}

	c := openCache(ctx, cfg.Redis)
	defer c.Close()

	publisher := queue.NewPublisher(cfg.Redis)
	defer publisher.Close()

	e := NewEcho(cfg, db, c, publisher)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Run:Listening", "addr", addr, "env", cfg.Server.Env)
		if err := e.Start(addr); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Server:Run:ShuttingDown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// RunWorker processes background tasks until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config, concurrency int) error {
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	store, err := storage.NewS3Store(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	srv, mux := queue.NewServer(cfg.Redis, concurrency)
	worker.NewHandler(store, notification.NewService(db)).Register(mux)

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	logger.Info("Server:RunWorker:Started", "concurrency", concurrency)

	<-ctx.Done()
	logger.Info("Server:RunWorker:ShuttingDown")
	srv.Shutdown()
	return nil
}
