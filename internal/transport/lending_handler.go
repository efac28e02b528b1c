// Package transport exposes the lending client over HTTP.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/coordinator"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/display"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
)

const maxBodyBytes = 1 << 16

type (
	// Coordinator runs loan operations and wallet connects.
	Coordinator interface {
		SubmitAsync(ctx context.Context, req coordinator.Request) (model.Outcome, <-chan model.Outcome, error)
		Connect(ctx context.Context) (model.Account, bool, error)
	}
	// Viewer renders the current state.
	Viewer interface {
		View() display.View
	}
)

// LendingHandler serves the display surface and accepts loan operations.
type LendingHandler struct {
	ctx         context.Context
	coordinator Coordinator
	viewer      Viewer
	logger      *zap.Logger
}

// NewLendingHandler returns a LendingHandler. Submissions outlive the request that started them
// and run under ctx.
func NewLendingHandler(ctx context.Context, coordinator Coordinator, viewer Viewer, logger *zap.Logger) *LendingHandler {
	return &LendingHandler{
		ctx:         ctx,
		coordinator: coordinator,
		viewer:      viewer,
		logger:      logger.Named("http"),
	}
}

type loanRequestBody struct {
	Principal      string `json:"principal"`
	InterestRate   string `json:"interestRate"`
	DurationBlocks string `json:"durationBlocks"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Register mounts the API routes on mux.
func (h *LendingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /api/v1/session", h.session)
	mux.HandleFunc("POST /api/v1/connect", h.connect)
	mux.HandleFunc("POST /api/v1/loans", h.requestLoan)
	mux.HandleFunc("POST /api/v1/loans/{id}/fund", h.loanAction(model.FundLoan))
	mux.HandleFunc("POST /api/v1/loans/{id}/repay", h.loanAction(model.RepayLoan))
}

func (h *LendingHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *LendingHandler) session(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.viewer.View())
}

func (h *LendingHandler) connect(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.coordinator.Connect(r.Context()); err != nil {
		h.logger.Error("wallet connect failed", zap.Error(err))
		h.writeJSON(w, http.StatusBadGateway, errorBody{Error: "wallet connect failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.viewer.View())
}

func (h *LendingHandler) requestLoan(w http.ResponseWriter, r *http.Request) {
	var body loanRequestBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	h.submit(w, coordinator.Request{
		Operation: model.RequestLoan,
		Loan: model.LoanRequestParams{
			Principal:      body.Principal,
			InterestRate:   body.InterestRate,
			DurationBlocks: body.DurationBlocks,
		},
	})
}

func (h *LendingHandler) loanAction(op model.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.submit(w, coordinator.Request{
			Operation: op,
			Ref:       model.LoanReference{LoanID: r.PathValue("id")},
		})
	}
}

func (h *LendingHandler) submit(w http.ResponseWriter, req coordinator.Request) {
	out, _, err := h.coordinator.SubmitAsync(h.ctx, req)
	switch {
	case errors.Is(err, coordinator.ErrSubmissionInFlight):
		h.writeJSON(w, http.StatusConflict, errorBody{Error: "another submission is pending"})
		return
	case err != nil:
		h.logger.Error("submit failed", zap.String("operation", string(req.Operation)), zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}

	switch out.Status {
	case model.StatusIdle:
		w.WriteHeader(http.StatusNoContent)
	case model.StatusFailed:
		msg := "invalid input"
		if out.Err != nil {
			msg = out.Err.Error()
		}
		h.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg})
	default:
		h.writeJSON(w, http.StatusAccepted, h.viewer.View())
	}
}

func (h *LendingHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}
