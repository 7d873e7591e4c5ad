package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/platform/mongodb"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/store"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	client *mongo.Client

	taskStore store.TaskStore
	userStore store.UserStore

	taskService *service.TaskService
	userService *service.UserService
}

// newApplication loads configuration, sets up logging, connects to the
// store and wires the service layer.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database", cfg.Database.Name)

	connectCtx := ctx
	if cfg.Database.ConnectTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(
			ctx,
			time.Duration(cfg.Database.ConnectTimeoutSeconds)*time.Second,
		)
		defer cancel()
	}

	client, err := mongodb.Connect(connectCtx, cfg.Database.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	db := client.Database(cfg.Database.Name)
	if err := mongodb.EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	taskStore := mongodb.NewMongoTaskStore(db, log)
	userStore := mongodb.NewMongoUserStore(db, log)

	reconciler := service.NewReconciler(taskStore, userStore, log)

	app := &application{
		config:      cfg,
		logger:      log,
		client:      client,
		taskStore:   taskStore,
		userStore:   userStore,
		taskService: service.NewTaskService(taskStore, userStore, reconciler, log),
		userService: service.NewUserService(userStore, reconciler, log),
	}
	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.client.Disconnect(ctx); err != nil {
		app.logger.Error("Failed to disconnect from store", "error", err)
	}
}
