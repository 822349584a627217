package api

import (
	"context"
	"net/http"

	service "github.com/gilberto978/bishbash-api/internal/app"
	"github.com/gilberto978/bishbash-api/pkg/logger"
)

// TrustChecker produces trust verdicts.
type TrustChecker interface {
	CheckBroker(ctx context.Context, broker string) (*service.BrokerReport, error)
	SketchCheck(ctx context.Context, query string) (*service.SketchReport, error)
	CheckDealer(ctx context.Context, query string) (*service.DealerReport, error)
}

// TrustHandler serves the broker, domain and dealer checks.
type TrustHandler struct {
	deps   TrustChecker
	logger logger.Logger
}

// NewTrustHandler creates a new trust handler.
func NewTrustHandler(deps TrustChecker, log logger.Logger) *TrustHandler {
	return &TrustHandler{deps: deps, logger: log}
}

// HandleCheckBroker handles GET /api/checkBroker?broker= requests.
func (h *TrustHandler) HandleCheckBroker(w http.ResponseWriter, r *http.Request) {
	rep, err := h.deps.CheckBroker(r.Context(), r.URL.Query().Get("broker"))
	respond(w, r, h.logger, "api.checkBroker", rep, err)
}

// HandleSketchCheck handles GET /api/sketchCheck?query= requests.
func (h *TrustHandler) HandleSketchCheck(w http.ResponseWriter, r *http.Request) {
	rep, err := h.deps.SketchCheck(r.Context(), r.URL.Query().Get("query"))
	respond(w, r, h.logger, "api.sketchCheck", rep, err)
}

// HandleDealerCheck handles GET /api/dealerCheck?query= requests.
func (h *TrustHandler) HandleDealerCheck(w http.ResponseWriter, r *http.Request) {
	rep, err := h.deps.CheckDealer(r.Context(), r.URL.Query().Get("query"))
	respond(w, r, h.logger, "api.dealerCheck", rep, err)
}

func respond[T any](w http.ResponseWriter, r *http.Request, log logger.Logger, op string, body T, err error) {
	if err != nil {
		writeServiceError(w, r, log, op, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}
