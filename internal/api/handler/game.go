package handler

import (
	"net/http"

	"github.com/mcoot/couplecards/internal/api/request"
	"github.com/mcoot/couplecards/internal/api/response"
	"github.com/mcoot/couplecards/internal/services/game"
	"github.com/mcoot/couplecards/internal/services/history"
)

// GameHandler handles game screen endpoints
type GameHandler struct {
	gameController    *game.Controller
	historyController *history.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller, historyController *history.Controller) *GameHandler {
	return &GameHandler{
		gameController:    gameController,
		historyController: historyController,
	}
}

// Get handles GET /api/v1/game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.gameController.State())
}

// Next handles POST /api/v1/game/next
func (h *GameHandler) Next(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.gameController.LoadNextQuestion(r.Context()))
}

// Record handles POST /api/v1/game/record
func (h *GameHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req request.RecordRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}

	state := h.gameController.RecordQuestion(r.Context(), req.IsFirstTouch)

	// Keep the history screen in step with the new entry
	h.historyController.Refresh(r.Context())

	response.OK(w, state)
}

// ClearError handles DELETE /api/v1/game/error
func (h *GameHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.gameController.ClearError())
}
