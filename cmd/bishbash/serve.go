package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gilberto978/bishbash-api/internal/bootstrap"
	"github.com/gilberto978/bishbash-api/pkg/logger"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants. Writes allow for a slow LLM call.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 45 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
		return serve(cmd.Context(), rt)
	})
}

// serve blocks until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, rt *bootstrap.Runtime) error {
	log := logger.Get()
	srv := &http.Server{
		Addr:              rt.Config.Addr,
		Handler:           rt.Router(ctx),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", rt.Config.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}
