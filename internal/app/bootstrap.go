package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/gopherkit/env"

	"github.com/PraneethJain/simplipy-backend/internal/config"
	"github.com/PraneethJain/simplipy-backend/internal/middleware"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/logging"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/message"
	"github.com/PraneethJain/simplipy-backend/internal/platform/db"
)

// Run wires the application together and blocks until a shutdown
// signal arrives or a component fails.
func Run(baseCtx context.Context) error {
	signalCtx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	appEnv := os.Getenv("ENV")
	logging.SetupLogger(appEnv, os.Getenv("LOG_LEVEL"), os.Stdout)

	if appEnv != "production" {
		if err := env.Load(".env"); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}

	opts, err := config.New(cfgFile())
	if err != nil {
		return err
	}

	dbConn, err := db.NewConnection(signalCtx, opts.DB)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	const envKey = "KEY"
	securityKey, ok := os.LookupEnv(envKey)
	if !ok {
		return fmt.Errorf(message.EnvErrFmt, envKey)
	}

	provider := newProvider(opts, securityKey, dbConn)

	middlewares := []func(http.Handler) http.Handler{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		middleware.CORS,
		middleware.CheckContentType,
	}

	api := New(opts, provider, middlewares)
	return api.Start(signalCtx)
}

func cfgFile() string {
	if f, ok := os.LookupEnv("CONFIG_FILE"); ok {
		return f
	}
	return "config.json"
}
