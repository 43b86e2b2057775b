// Package server initializes and runs the TaskHub server application. It
// wires the entity store, the blob backend and the services, loads the
// snapshot on startup, and handles graceful shutdown with a final save.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskhub/internal/logging"
	"github.com/dmitrijs2005/taskhub/internal/server/blob"
	"github.com/dmitrijs2005/taskhub/internal/server/config"
	"github.com/dmitrijs2005/taskhub/internal/server/storage"
	"github.com/dmitrijs2005/taskhub/internal/server/tasks"
	"github.com/dmitrijs2005/taskhub/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *storage.Store
	userService *users.Service
	taskService *tasks.Service
}

func NewApp(c *config.Config) (*App, error) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	store := storage.NewWithPersistence(c.SnapshotPath, c.AutoSave, logger)

	blobs, err := newBlobStore(context.Background(), c)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	us := users.NewService(store, c, logger)
	ts := tasks.NewService(store, blobs, c, logger)

	return &App{
		config:      c,
		logger:      logger,
		store:       store,
		userService: us,
		taskService: ts,
	}, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (blob.Store, error) {
	switch c.BlobBackend {
	case "s3":
		return blob.NewS3Store(ctx, blob.S3Options{
			Region:       c.S3Region,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
	case "", "local":
		return blob.NewLocalStore(c.BlobLocalDir)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

// Users exposes the user service to transports layered on top of the app.
func (app *App) Users() *users.Service { return app.userService }

// Tasks exposes the task service.
func (app *App) Tasks() *tasks.Service { return app.taskService }

// Store exposes the entity store, mainly for backup tooling.
func (app *App) Store() *storage.Store { return app.store }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run loads the snapshot, starts the optional snapshot watcher and blocks
// until the context is cancelled or a termination signal arrives, then writes
// a final snapshot. A corrupt snapshot on startup is fatal; silently starting
// empty would shadow the existing data on the next save.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.store.Load(ctx); err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	if app.config.WatchSnapshot {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.store.Watch(ctx); err != nil {
				app.logger.Error(ctx, "snapshot watcher failed", "error", err)
				cancelFunc()
			}
		}()
	}

	<-ctx.Done()

	app.logger.Info(ctx, "Shutting down...")
	wg.Wait()

	if err := app.store.Save(context.Background()); err != nil {
		app.logger.Error(ctx, "final save failed", "error", err)
		return err
	}

	return nil
}
