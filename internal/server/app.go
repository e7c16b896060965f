// Package server initializes and runs the auth server: it loads key
// material, opens the credential store, wires the HTTP endpoint, and handles
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authn/internal/auth"
	"github.com/dmitrijs2005/authn/internal/logging"
	"github.com/dmitrijs2005/authn/internal/server/config"
	"github.com/dmitrijs2005/authn/internal/server/httpapi"
	"github.com/dmitrijs2005/authn/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authn/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	manager     *repomanager.Manager
	authService *services.AuthService
}

// NewApp loads signing and verification keys (rejecting a disallowed
// algorithm before anything listens) and opens the credential store.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	handler := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(handler)

	keys, err := auth.LoadKeyMaterial(cfg.Algorithm, cfg.SigningKeyFile, cfg.VerificationKeyFile)
	if err != nil {
		return nil, fmt.Errorf("key init error: %w", err)
	}

	manager, err := repomanager.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	authService := services.NewAuthService(manager.Users(), keys, cfg.ServerName, cfg.MaxTokenTTL, logger)

	return &App{config: cfg, logger: logger, manager: manager, authService: authService}, nil
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
	handler := httpapi.NewHandler(app.authService, app.logger)
	srv := httpapi.NewServer(app.config.ListenAddr, handler.Routes(), app.logger)

	if err := srv.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err.Error())
	}
}
