package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/couplecards/internal/api/apierr"
	"github.com/mcoot/couplecards/internal/api/request"
	"github.com/mcoot/couplecards/internal/api/response"
	"github.com/mcoot/couplecards/internal/pairing"
	"github.com/mcoot/couplecards/internal/services/setup"
)

// SetupHandler handles the setup flow endpoints
type SetupHandler struct {
	controller *setup.Controller
	pairing    pairing.Channel
	logger     *slog.Logger
}

// NewSetupHandler creates a new setup handler. channel may be nil.
func NewSetupHandler(controller *setup.Controller, channel pairing.Channel, logger *slog.Logger) *SetupHandler {
	return &SetupHandler{
		controller: controller,
		pairing:    channel,
		logger:     logger,
	}
}

// Get handles GET /api/v1/setup
func (h *SetupHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.controller.State())
}

// Manual handles POST /api/v1/setup/manual
func (h *SetupHandler) Manual(w http.ResponseWriter, r *http.Request) {
	var req request.ManualSetupRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}
	h.respond(w, func() (setup.State, error) {
		return h.controller.StartManualSetup(r.Context(), req.PlayerName, req.PartnerName)
	})
}

// Solo handles POST /api/v1/setup/solo
func (h *SetupHandler) Solo(w http.ResponseWriter, r *http.Request) {
	var req request.SoloSetupRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}
	h.respond(w, func() (setup.State, error) {
		return h.controller.StartSoloMode(r.Context(), req.PlayerName)
	})
}

// NFC handles POST /api/v1/setup/nfc
func (h *SetupHandler) NFC(w http.ResponseWriter, r *http.Request) {
	var req request.NFCSetupRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}
	h.respond(w, func() (setup.State, error) {
		return h.controller.StartNFCSetup(r.Context(), req.PlayerName)
	})
}

// Receive handles POST /api/v1/setup/nfc/receive
func (h *SetupHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req request.NFCReceiveRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}
	h.respond(w, func() (setup.State, error) {
		return h.controller.OnNFCDataReceived(r.Context(), req.PlayerName, req.PartnerName, req.PartnerID)
	})
}

// Listen handles POST /api/v1/setup/nfc/listen.
// It blocks until a partner device offers a payload under the code.
func (h *SetupHandler) Listen(w http.ResponseWriter, r *http.Request) {
	if h.pairing == nil {
		WriteError(w, apierr.NewPairingUnavailableError())
		return
	}
	var req request.NFCListenRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}
	code, err := pairing.ParseCode(req.Code)
	if err != nil {
		WriteError(w, err)
		return
	}
	// Await is bounded by the channel's own timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	h.respond(w, func() (setup.State, error) {
		return pairing.Listen(r.Context(), h.pairing, code, h.controller, h.logger)
	})
}

// Reset handles POST /api/v1/setup/reset
func (h *SetupHandler) Reset(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.controller.Reset(r.Context()))
}

// ClearError handles DELETE /api/v1/setup/error
func (h *SetupHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.controller.ClearError())
}

// respond writes the resulting state, or the error for rejected input.
// Storage failures are already reported through the state.
func (h *SetupHandler) respond(w http.ResponseWriter, op func() (setup.State, error)) {
	state, err := op()
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, state)
}
