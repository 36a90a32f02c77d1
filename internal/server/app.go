// Package server initializes and runs the main application server.
// It opens the configured storage backend, runs migrations, starts the HTTP
// API and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/chirpy/internal/dbx"
	"github.com/dmitrijs2005/chirpy/internal/logging"
	"github.com/dmitrijs2005/chirpy/internal/server/auth"
	"github.com/dmitrijs2005/chirpy/internal/server/config"
	"github.com/dmitrijs2005/chirpy/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chirpy/internal/server/rest"
	"github.com/dmitrijs2005/chirpy/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	rdb         *redis.Client
	authService *services.AuthService
}

// NewApp validates c, connects the storage backend it names and builds the
// service graph. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(w, c.LogLevel)

	app := &App{config: c, logger: logger}

	rm, err := app.initStorage(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	if app.db != nil {
		if err := rm.RunMigrations(ctx, app.db); err != nil {
			app.close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	signer := auth.NewTokenSigner(c.Issuer, nil)

	// a nil *sql.DB must not become a non-nil dbx.DBTX
	var db dbx.DBTX
	if app.db != nil {
		db = app.db
	}
	as, err := services.NewAuthService(db, rm, signer, c, logger, nil)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("auth service init error: %w", err)
	}
	app.authService = as

	return app, nil
}

func (app *App) initStorage(ctx context.Context) (repomanager.RepositoryManager, error) {
	switch app.config.RefreshTokenBackend {
	case config.BackendMemory:
		app.logger.Warn(ctx, "using in-memory storage, data is lost on restart")
		return repomanager.NewInMemoryRepositoryManager(nil), nil

	case config.BackendRedis:
		db, err := dbx.Open(ctx, app.config.DatabaseDSN, app.config.StorageTimeout)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db

		app.rdb = redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, app.config.StorageTimeout)
		defer cancel()
		if err := app.rdb.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		return repomanager.NewRedisRepositoryManager(app.rdb), nil

	default:
		db, err := dbx.Open(ctx, app.config.DatabaseDSN, app.config.StorageTimeout)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		return repomanager.NewPostgresRepositoryManager(), nil
	}
}

// AuthService returns the service graph built by NewApp.
func (app *App) AuthService() *services.AuthService {
	return app.authService
}

// Close releases storage connections without running the server.
func (app *App) Close() {
	app.close()
}

func (app *App) close() {
	if app.rdb != nil {
		_ = app.rdb.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a shutdown signal arrives or the
// server fails, then releases storage connections.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "backend", app.config.RefreshTokenBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}
