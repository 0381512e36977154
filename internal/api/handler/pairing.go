package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/couplecards/internal/api/apierr"
	"github.com/mcoot/couplecards/internal/api/request"
	"github.com/mcoot/couplecards/internal/api/response"
	"github.com/mcoot/couplecards/internal/dependencies/random"
	"github.com/mcoot/couplecards/internal/pairing"
)

// PairingHandler publishes pairing payloads for a partner device
type PairingHandler struct {
	channel pairing.Channel
	random  random.Random
	logger  *slog.Logger
}

// NewPairingHandler creates a new pairing handler. channel may be nil.
func NewPairingHandler(channel pairing.Channel, random random.Random, logger *slog.Logger) *PairingHandler {
	return &PairingHandler{
		channel: channel,
		random:  random,
		logger:  logger,
	}
}

// Offer handles POST /api/v1/pairing/offer
func (h *PairingHandler) Offer(w http.ResponseWriter, r *http.Request) {
	if h.channel == nil {
		WriteError(w, apierr.NewPairingUnavailableError())
		return
	}
	var req request.PairingOfferRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}

	code := pairing.NewCode(h.random)
	if req.Code != "" {
		parsed, err := pairing.ParseCode(req.Code)
		if err != nil {
			WriteError(w, err)
			return
		}
		code = parsed
	}

	payload := pairing.Payload{
		PlayerName:  req.PlayerName,
		PartnerName: req.PartnerName,
		PartnerID:   req.PartnerID,
	}
	if err := payload.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.channel.Offer(r.Context(), code, payload); err != nil {
		h.logger.Error("pairing offer failed",
			slog.String("code", string(code)),
			slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PairingOfferResponse{Code: string(code)})
}
