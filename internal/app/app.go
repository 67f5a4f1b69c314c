package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PraneethJain/simplipy-backend/internal/config"
	"github.com/PraneethJain/simplipy-backend/internal/session"
)

// App owns the HTTP server and the session reaper. Both run until the
// start context is canceled.
type App struct {
	server          *http.Server
	config          *config.Options
	provider        *Provider
	middlewares     []func(http.Handler) http.Handler
	stop            context.CancelFunc
	shutdownTimeout time.Duration
}

func New(cfg *config.Options, provider *Provider, middlewares []func(http.Handler) http.Handler) *App {
	serverCtx, stop := context.WithCancel(context.Background())
	serverCfg := cfg.Server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", serverCfg.Port),
		Handler: provider.Router,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
		ReadTimeout:  serverCfg.ReadTimeout.Duration,
		WriteTimeout: serverCfg.WriteTimeout.Duration,
		IdleTimeout:  serverCfg.IdleTimeout.Duration,
	}

	return &App{
		server:          server,
		config:          cfg,
		provider:        provider,
		middlewares:     middlewares,
		stop:            stop,
		shutdownTimeout: serverCfg.ShutdownTimeout.Duration,
	}
}

func (a *App) registerMiddlewares() {
	for _, mw := range a.middlewares {
		a.provider.Router.Use(mw)
	}
}

func (a *App) setupRoutes() {
	repo := session.NewRepository(a.provider.DB)
	svc := session.NewService(a.provider.Registry, repo, a.provider.Signer, a.provider.TxMgr, a.config.JWT)
	handler := session.NewHandler(svc)
	mountSessionRoutes(a.provider.Router, handler, a.provider.Validator, a.provider.Signer, a.config.Server.MaxBodyBytes)
}

// Start runs the server and the idle-session reaper until ctx is
// canceled or either fails.
func (a *App) Start(ctx context.Context) error {
	a.registerMiddlewares()
	a.setupRoutes()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server listening...", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		slog.Info("Server has stopped.")
		return nil
	})

	g.Go(func() error {
		interval := a.config.Session.ReapInterval.Duration
		if interval <= 0 {
			return nil
		}
		if err := a.provider.Registry.Reap(gCtx, interval); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		return a.Shutdown()
	})

	return g.Wait()
}

func (a *App) Shutdown() error {
	slog.Info("Shutting down server...")
	a.stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
