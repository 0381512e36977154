package handler

import (
	"net/http"

	"github.com/mcoot/couplecards/internal/api/request"
	"github.com/mcoot/couplecards/internal/api/response"
	"github.com/mcoot/couplecards/internal/services/history"
)

// HistoryHandler handles history screen endpoints
type HistoryHandler struct {
	controller *history.Controller
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(controller *history.Controller) *HistoryHandler {
	return &HistoryHandler{controller: controller}
}

// Get handles GET /api/v1/history
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.controller.State())
}

// Filter handles POST /api/v1/history/filter
func (h *HistoryHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req request.FilterRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}
	response.OK(w, h.controller.FilterByCategory(r.Context(), req.CategoryID))
}

// Refresh handles POST /api/v1/history/refresh
func (h *HistoryHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.controller.Refresh(r.Context()))
}

// Delete handles DELETE /api/v1/history
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.controller.DeleteHistory(r.Context()))
}

// ClearError handles DELETE /api/v1/history/error
func (h *HistoryHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.controller.ClearError())
}
