package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio-desk/folio/backend/devapi"
	"github.com/folio-desk/folio/shared/logger"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	var addr, logLevel string
	flag.StringVar(&addr, "addr", ":8000", "listen address")
	flag.StringVar(&logLevel, "log_level", "info", "debug, info, warn or error")
	flag.Parse()
	logger.Initialize(logLevel, false)

	cfg := devapi.DefaultConfig()
	if secret := os.Getenv("FOLIO_DEVAPI_SECRET"); secret != "" {
		cfg.JwtSecret = secret
	} else {
		logger.Log.Warn("FOLIO_DEVAPI_SECRET not set, using the built-in development secret")
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      devapi.New(cfg),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("development backend started, codes are logged", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}
