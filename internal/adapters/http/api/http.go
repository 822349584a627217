// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gilberto978/bishbash-api/internal/adapters/http/site"
	"github.com/gilberto978/bishbash-api/internal/adapters/http/swagger"
	service "github.com/gilberto978/bishbash-api/internal/app"
	"github.com/gilberto978/bishbash-api/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Advisor
	TrustChecker
	NewsProvider
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	adviceHandler *AdviceHandler
	trustHandler  *TrustHandler
	newsHandler   *NewsHandler

	limiter *ipLimiter
	logger  logger.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithRateLimit sets the per-client budget on the LLM endpoints. rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = newIPLimiter(rps, burst)
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.adviceHandler = NewAdviceHandler(deps, s.logger)
	s.trustHandler = NewTrustHandler(deps, s.logger)
	s.newsHandler = NewNewsHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.MethodNotAllowed(methodNotAllowed)
		r.NotFound(notFound)

		r.With(s.limiter.middleware(service.EndpointAsk)).
			Post("/ask", MetricsMiddleware(s.adviceHandler.HandleAsk, service.EndpointAsk))
		r.With(s.limiter.middleware(service.EndpointShove)).
			Get("/bishbash", MetricsMiddleware(s.adviceHandler.HandleShove, service.EndpointShove))
		r.Get("/checkBroker", MetricsMiddleware(s.trustHandler.HandleCheckBroker, service.EndpointBroker))
		r.Get("/sketchCheck", MetricsMiddleware(s.trustHandler.HandleSketchCheck, service.EndpointSketch))
		r.Get("/dealerCheck", MetricsMiddleware(s.trustHandler.HandleDealerCheck, service.EndpointDealer))
		r.Get("/freshNews", MetricsMiddleware(s.newsHandler.HandleFreshNews, service.EndpointNews))
	})
}

// NewRouter builds the complete handler: middleware, business routes, docs and landing page.
func NewRouter(ctx context.Context, deps Dependencies, opts ...Option) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestID)

	NewServer(deps, opts...).Register(ctx, r)
	swagger.Register(ctx, r)
	site.Register(ctx, r)
	return r
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorResponse{Error: message, Detail: detail})
}

// writeServiceError maps a pipeline error onto a status and body.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	status, body := serviceErrorBody(r, log, op, err)
	writeJSON(w, status, body)
}

// serviceErrorBody logs err and picks its response.
// Invalid input and undecodable requests are 400; everything else is 500.
func serviceErrorBody(r *http.Request, log logger.Logger, op string, err error) (int, errorResponse) {
	var se *service.Error
	if !errors.As(err, &se) {
		log.Error(r.Context(), "unexpected handler error", logger.String("op", op), logger.Error(err))
		return http.StatusInternalServerError, errorResponse{Error: "Internal error"}
	}

	switch {
	case errors.Is(err, ErrBadRequest):
		log.Debug(r.Context(), "bad request body", logger.String("op", op), logger.Error(err))
		return http.StatusBadRequest, errorResponse{Error: se.Message}
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: se.Message, Detail: se.Detail}
	case errors.Is(err, service.ErrUpstream):
		log.Warn(r.Context(), "upstream failure", logger.String("op", op), logger.Error(err))
	default:
		log.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
	}
	return http.StatusInternalServerError, errorResponse{Error: se.Message, Detail: se.Detail}
}
