package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/couplecards/internal/model"
)

// ManualSetupRequest is the request body for manual setup
type ManualSetupRequest struct {
	PlayerName  string `json:"player_name"`
	PartnerName string `json:"partner_name"`
}

// SoloSetupRequest is the request body for solo mode
type SoloSetupRequest struct {
	PlayerName string `json:"player_name"`
}

// NFCSetupRequest is the request body for starting NFC setup
type NFCSetupRequest struct {
	PlayerName string `json:"player_name"`
}

// NFCReceiveRequest is the request body for delivering NFC data
type NFCReceiveRequest struct {
	PlayerName  string         `json:"player_name"`
	PartnerName string         `json:"partner_name"`
	PartnerID   model.PlayerID `json:"partner_id"`
}

// NFCListenRequest is the request body for awaiting a pairing payload
type NFCListenRequest struct {
	Code string `json:"code"`
}

// PairingOfferRequest is the request body for offering a pairing payload.
// An empty code asks the server to generate one.
type PairingOfferRequest struct {
	Code        string         `json:"code,omitempty"`
	PlayerName  string         `json:"player_name"`
	PartnerName string         `json:"partner_name"`
	PartnerID   model.PlayerID `json:"partner_id"`
}

// RecordRequest is the request body for recording the current question
type RecordRequest struct {
	IsFirstTouch bool `json:"is_first_touch"`
}

// FilterRequest is the request body for filtering history; a null category clears the filter
type FilterRequest struct {
	CategoryID *model.CategoryID `json:"category_id"`
}

// Decode reads a JSON body into v. An empty body leaves v untouched.
func Decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
