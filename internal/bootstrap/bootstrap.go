// Package bootstrap turns process configuration into a running service and router.
// Every entrypoint (server, CLI, Lambda, Vercel) goes through it.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gilberto978/bishbash-api/internal/adapters/http/api"
	service "github.com/gilberto978/bishbash-api/internal/app"
	"github.com/gilberto978/bishbash-api/internal/config"
	"github.com/gilberto978/bishbash-api/pkg/logger"
)

// Runtime is a started service with the config it was built from.
type Runtime struct {
	Config  *config.Config
	Service *service.Service
}

// Start loads config, initialises logging on logOut and starts the service.
func Start(ctx context.Context, logOut io.Writer) (*Runtime, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.InitWith(logOut, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := service.FromConfig(ctx, cfg, log.Named("service"))
	if err != nil {
		return nil, fmt.Errorf("build service: %w", err)
	}
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return &Runtime{Config: cfg, Service: svc}, nil
}

// Router returns the HTTP handler for the runtime.
func (rt *Runtime) Router(ctx context.Context) http.Handler {
	return api.NewRouter(ctx, rt.Service,
		api.WithLogger(logger.Get().Named("api")),
		api.WithRateLimit(rt.Config.RateLimitRPS, rt.Config.RateLimitBurst),
	)
}

// Stop releases the service.
func (rt *Runtime) Stop() {
	rt.Service.Stop()
}
