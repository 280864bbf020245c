// Package server initializes and runs the SecretSpace server: database and
// migrations, the HTTP API, and the background expiry sweeper, with graceful
// shutdown on OS signals.
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

	"github.com/secretspace/secretspace/internal/logging"
	"github.com/secretspace/secretspace/internal/server/config"
	"github.com/secretspace/secretspace/internal/server/httpapi"
	"github.com/secretspace/secretspace/internal/server/repositories/repomanager"
	"github.com/secretspace/secretspace/internal/server/services"
	"github.com/secretspace/secretspace/internal/server/sweeper"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	httpSrv *httpapi.Server
	sweeper *sweeper.Sweeper
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	dispatcher := services.NewEmailDispatcher(cfg)
	storage := services.NewStorageService(cfg)

	postSvc := services.NewPostService(db, rm, storage, logger)
	userSvc := services.NewUserService(db, rm, postSvc)
	messageSvc := services.NewMessageService(db, rm, cfg, dispatcher, logger)
	feedbackSvc := services.NewFeedbackService(db, rm)

	httpSrv := httpapi.NewServer(cfg, logger, userSvc, messageSvc, postSvc, storage, feedbackSvc)
	sw := sweeper.New(messageSvc, cfg.SweepInterval, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		httpSrv: httpSrv,
		sweeper: sw,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpSrv.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server error", "error", err)
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
