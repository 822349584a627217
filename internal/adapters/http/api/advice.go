package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/gilberto978/bishbash-api/internal/app"
	"github.com/gilberto978/bishbash-api/pkg/logger"
)

// maxAskBody caps POST /api/ask bodies.
const maxAskBody = 64 << 10

// Advisor answers advice requests.
type Advisor interface {
	Advise(ctx context.Context, question string) (service.Answer, error)
	Shove(ctx context.Context, query string) (service.ShoveResult, error)
}

// AdviceHandler serves the LLM persona endpoints.
type AdviceHandler struct {
	deps   Advisor
	logger logger.Logger
}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler(deps Advisor, log logger.Logger) *AdviceHandler {
	return &AdviceHandler{deps: deps, logger: log}
}

// shoveErrorResponse keeps the "details" key that /api/bishbash clients read.
type shoveErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type askRequest struct {
	Question string `json:"question"`
}

// HandleAsk handles POST /api/ask requests.
func (h *AdviceHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	const op = "api.ask"
	var req askRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBody)).Decode(&req); err != nil {
		writeServiceError(w, r, h.logger, op, badRequest(op, "Missing 'question' in body.", err))
		return
	}

	ans, err := h.deps.Advise(r.Context(), req.Question)
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

// HandleShove handles GET /api/bishbash?query= requests.
func (h *AdviceHandler) HandleShove(w http.ResponseWriter, r *http.Request) {
	const op = "api.bishbash"
	res, err := h.deps.Shove(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		status, body := serviceErrorBody(r, h.logger, op, err)
		writeJSON(w, status, shoveErrorResponse{Error: body.Error, Details: body.Detail})
		return
	}
	writeJSON(w, http.StatusOK, res.Payload())
}
