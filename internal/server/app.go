// Package server wires the FitKeeper server together: it picks the
// credential store, builds the auth core and services, and runs the HTTP and
// gRPC listeners until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/server/auth"
	"github.com/dmitrijs2005/fitkeeper/internal/server/config"
	"github.com/dmitrijs2005/fitkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/fitkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fitkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/fitkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/fitkeeper/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	gate    *auth.Gate
	handler *httpapi.Handlers
}

// NewApp builds the application. With an empty DatabaseDSN credentials live
// in memory and are lost on restart.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	tokens, err := auth.NewTokenManager(tokenConfig(c))
	if err != nil {
		return nil, fmt.Errorf("token manager init error: %w", err)
	}

	app := &App{config: c, logger: logger}

	var repo users.Repository
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "DATABASE_DSN is empty, using in-memory credential store")
		repo = users.NewMemoryRepository()
	} else {
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}

		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("db migration error: %w", err)
		}

		app.db = db
		repo = rm.Users(db)
	}

	accounts := services.NewAuthService(repo, auth.NewBcryptHasher(c.BcryptCost), tokens)
	refresh := services.NewRefreshService(tokens)

	app.gate = auth.NewGate(tokens)
	app.handler = httpapi.NewHandlers(accounts, refresh, logger)

	return app, nil
}

func tokenConfig(c *config.Config) auth.TokenConfig {
	return auth.TokenConfig{
		AccessSecret:  []byte(c.AccessTokenSecret),
		RefreshSecret: []byte(c.RefreshTokenSecret),
		AccessTTL:     c.AccessTokenValidityDuration,
		RefreshTTL:    c.RefreshTokenValidityDuration,
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.handler, app.gate, app.logger)
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.gate)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
