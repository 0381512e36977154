// Package pairing carries the proximity-transfer payload between two devices.
//
// One device offers its identity under a short code; the other awaits a
// payload on the same code and completes its setup with it.
package pairing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/couplecards/internal/dependencies/random"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/services/setup"
)

const (
	codeLength = 6
	// Ambiguous characters (0/O, 1/I) are left out
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var (
	ErrInvalidCode    = errors.New("invalid pairing code")
	ErrInvalidPayload = errors.New("invalid pairing payload")
	ErrTimeout        = errors.New("no pairing payload received")
)

// Code identifies one pairing exchange
type Code string

// NewCode generates a random pairing code
func NewCode(rnd random.Random) Code {
	return Code(rnd.String(codeLength, codeAlphabet))
}

// ParseCode normalizes and validates a user-entered code
func ParseCode(s string) (Code, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != codeLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	for _, r := range s {
		if !strings.ContainsRune(codeAlphabet, r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
		}
	}
	return Code(s), nil
}

// Payload is what the offering device transmits
type Payload struct {
	PlayerName  string         `json:"player_name"`
	PartnerName string         `json:"partner_name"`
	PartnerID   model.PlayerID `json:"partner_id"`
}

// Validate checks that every field is present
func (p Payload) Validate() error {
	if strings.TrimSpace(p.PlayerName) == "" ||
		strings.TrimSpace(p.PartnerName) == "" ||
		strings.TrimSpace(string(p.PartnerID)) == "" {
		return ErrInvalidPayload
	}
	return nil
}

// Channel exchanges payloads between devices
type Channel interface {
	// Offer publishes a payload under code
	Offer(ctx context.Context, code Code, payload Payload) error

	// Await blocks until a payload is offered under code, ctx is done, or the
	// channel's await timeout elapses (ErrTimeout)
	Await(ctx context.Context, code Code) (Payload, error)

	Close() error
}

// Receiver completes setup from a received payload
type Receiver interface {
	State() setup.State
	OnNFCDataReceived(ctx context.Context, playerName, partnerName string, partnerID model.PlayerID) (setup.State, error)
}

// Listen waits for a payload under code and hands it to the receiver.
// When the receiver is waiting in NFCReady, the name entered on this device
// wins over the player name carried in the payload.
func Listen(ctx context.Context, ch Channel, code Code, receiver Receiver, logger *slog.Logger) (setup.State, error) {
	logger = logger.With(slog.String("component", "pairing"), slog.String("code", string(code)))
	logger.Info("awaiting pairing payload")

	payload, err := ch.Await(ctx, code)
	if err != nil {
		logger.Warn("pairing await failed", slog.String("error", err.Error()))
		return setup.State{}, err
	}

	logger.Info("pairing payload received", slog.String("partner_id", string(payload.PartnerID)))

	playerName := payload.PlayerName
	if current := receiver.State(); current.Phase == setup.PhaseNFCReady && current.PlayerName != "" {
		playerName = current.PlayerName
	}
	return receiver.OnNFCDataReceived(ctx, playerName, payload.PartnerName, payload.PartnerID)
}
