package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/couplecards/internal/api/sse"
	"github.com/mcoot/couplecards/internal/services/game"
	"github.com/mcoot/couplecards/internal/services/history"
	"github.com/mcoot/couplecards/internal/services/setup"
)

// EventsHandler streams controller state over SSE
type EventsHandler struct {
	hub               *sse.Hub
	setupController   *setup.Controller
	gameController    *game.Controller
	historyController *history.Controller
	logger            *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(
	hub *sse.Hub,
	setupController *setup.Controller,
	gameController *game.Controller,
	historyController *history.Controller,
	logger *slog.Logger,
) *EventsHandler {
	return &EventsHandler{
		hub:               hub,
		setupController:   setupController,
		gameController:    gameController,
		historyController: historyController,
		logger:            logger,
	}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	// The stream outlives the server's write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("sse write deadline not cleared", slog.String("error", err.Error()))
	}

	var initial []sse.Event
	for _, snap := range []struct {
		name  string
		state any
	}{
		{sse.EventSetup, h.setupController.State()},
		{sse.EventGame, h.gameController.State()},
		{sse.EventHistory, h.historyController.State()},
	} {
		event, err := sse.Snapshot(snap.name, snap.state)
		if err != nil {
			h.logger.Error("sse failed to encode state",
				slog.String("event", snap.name),
				slog.String("error", err.Error()))
			continue
		}
		initial = append(initial, event)
	}

	sse.ServeSSE(w, r, h.hub, initial...)
}
