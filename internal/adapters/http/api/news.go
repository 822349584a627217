package api

import (
	"context"
	"net/http"

	service "github.com/gilberto978/bishbash-api/internal/app"
	"github.com/gilberto978/bishbash-api/pkg/logger"
)

// NewsProvider returns topic digests.
type NewsProvider interface {
	FreshNews(ctx context.Context, topic string) (*service.NewsReport, error)
}

// NewsHandler serves /api/freshNews.
type NewsHandler struct {
	deps   NewsProvider
	logger logger.Logger
}

// NewNewsHandler creates a new news handler.
func NewNewsHandler(deps NewsProvider, log logger.Logger) *NewsHandler {
	return &NewsHandler{deps: deps, logger: log}
}

// HandleFreshNews handles GET /api/freshNews?topic= requests.
func (h *NewsHandler) HandleFreshNews(w http.ResponseWriter, r *http.Request) {
	rep, err := h.deps.FreshNews(r.Context(), r.URL.Query().Get("topic"))
	respond(w, r, h.logger, "api.freshNews", rep, err)
}
