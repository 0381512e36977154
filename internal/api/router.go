package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/couplecards/internal/api/apierr"
	"github.com/mcoot/couplecards/internal/api/handler"
	"github.com/mcoot/couplecards/internal/api/middleware"
	"github.com/mcoot/couplecards/internal/api/response"
	"github.com/mcoot/couplecards/internal/api/sse"
	"github.com/mcoot/couplecards/internal/dependencies/random"
	"github.com/mcoot/couplecards/internal/pairing"
	"github.com/mcoot/couplecards/internal/repository"
	"github.com/mcoot/couplecards/internal/services/game"
	"github.com/mcoot/couplecards/internal/services/history"
	"github.com/mcoot/couplecards/internal/services/setup"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	Repository        *repository.Repository
	SetupController   *setup.Controller
	GameController    *game.Controller
	HistoryController *history.Controller
	Events            *sse.Hub
	// Pairing is optional; without it the pairing routes answer 503
	Pairing pairing.Channel
	Random  random.Random
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	setupHandler := handler.NewSetupHandler(cfg.SetupController, cfg.Pairing, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.HistoryController)
	historyHandler := handler.NewHistoryHandler(cfg.HistoryController)
	categoryHandler := handler.NewCategoryHandler(cfg.Repository)
	pairingHandler := handler.NewPairingHandler(cfg.Pairing, cfg.Random, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(cfg.Events, cfg.SetupController, cfg.GameController, cfg.HistoryController, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	// Setup routes
	api.HandleFunc("/setup", setupHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/setup/manual", setupHandler.Manual).Methods(http.MethodPost)
	api.HandleFunc("/setup/solo", setupHandler.Solo).Methods(http.MethodPost)
	api.HandleFunc("/setup/nfc", setupHandler.NFC).Methods(http.MethodPost)
	api.HandleFunc("/setup/nfc/receive", setupHandler.Receive).Methods(http.MethodPost)
	api.HandleFunc("/setup/nfc/listen", setupHandler.Listen).Methods(http.MethodPost)
	api.HandleFunc("/setup/reset", setupHandler.Reset).Methods(http.MethodPost)
	api.HandleFunc("/setup/error", setupHandler.ClearError).Methods(http.MethodDelete)

	// Game routes
	api.HandleFunc("/game", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/game/next", gameHandler.Next).Methods(http.MethodPost)
	api.HandleFunc("/game/record", gameHandler.Record).Methods(http.MethodPost)
	api.HandleFunc("/game/error", gameHandler.ClearError).Methods(http.MethodDelete)

	// History routes
	api.HandleFunc("/history", historyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/history", historyHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/history/filter", historyHandler.Filter).Methods(http.MethodPost)
	api.HandleFunc("/history/refresh", historyHandler.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/history/error", historyHandler.ClearError).Methods(http.MethodDelete)

	api.HandleFunc("/categories", categoryHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/pairing/offer", pairingHandler.Offer).Methods(http.MethodPost)
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler(cfg)).Methods(http.MethodGet)

	return r
}

// healthHandler reports the deck size so an unseeded store shows up as zero questions
func healthHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, response.HealthResponse{
			Status:    "ok",
			Questions: len(cfg.Repository.GetAllQuestions(r.Context())),
			Pairing:   cfg.Pairing != nil,
		})
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}
