package status

import (
	"context"
	"net/http"
	"sitepulse/internals/modules/history"
	"sitepulse/internals/modules/report"
	"sitepulse/pkg/apperror"
	"sitepulse/pkg/utils"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
)

// LastReporter exposes the most recent cycle. Satisfied by cycle.Runner.
type LastReporter interface {
	LastReport() *report.CycleReport
}

// HistoryReader lists persisted cycles. Nil when no history db configured.
type HistoryReader interface {
	RecentCycles(ctx context.Context, limit int) ([]history.CycleRow, error)
}

type Handler struct {
	runner  LastReporter
	history HistoryReader
}

func NewHandler(runner LastReporter, history HistoryReader) *Handler {
	return &Handler{
		runner:  runner,
		history: history,
	}
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	rep := h.runner.LastReport()
	if rep == nil {
		utils.WriteError(w, http.StatusNotFound, reqID, apperror.NotFound, "no cycle has completed yet")
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "latest cycle report", rep)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	if h.history == nil {
		utils.WriteError(w, http.StatusNotFound, reqID, apperror.NotFound, "history store not configured")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "limit must be a number")
			return
		}
		limit = n
	}

	rows, err := h.history.RecentCycles(ctx, limit)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "recent cycles", rows)
}
