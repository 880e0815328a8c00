// cmd/api/server.go
// serve runs the HTTP server until SIGINT or SIGTERM and then drains it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout is how long in-flight requests get to finish once a
// shutdown signal has been received.
const shutdownTimeout = 20 * time.Second

// serve builds the HTTP server and blocks until it has stopped. The returned
// error is nil after a clean shutdown.
func (app *applicationDependencies) serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	shutdownErr := make(chan error, 1)

	go func() {
		<-ctx.Done()
		app.logger.Info("shutting down server", "address", apiServer.Addr)

		// A second signal during the drain kills the process.
		stop()

		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr <- apiServer.Shutdown(drainCtx)
	}()

	app.logger.Info("starting server",
		"address", apiServer.Addr,
		"environment", app.config.Environment,
		"version", appVersion,
		"driver", app.config.DB.Driver,
	)

	err := apiServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	app.logger.Info("server stopped", "address", apiServer.Addr)
	return nil
}
