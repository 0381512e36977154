package setup

import "github.com/mcoot/couplecards/internal/model"

// Phase identifies which variant a State is
type Phase string

const (
	PhaseInitial  Phase = "initial"
	PhaseLoading  Phase = "loading"
	PhaseSuccess  Phase = "success"
	PhaseError    Phase = "error"
	PhaseNFCReady Phase = "nfc_ready"
)

// State is the setup flow state. Only the fields of the current Phase are set:
// Config for success, Message for error, PlayerName for nfc_ready.
type State struct {
	Phase      Phase               `json:"phase"`
	PlayerName string              `json:"player_name,omitempty"`
	Config     *model.PlayerConfig `json:"config,omitempty"`
	Message    string              `json:"message,omitempty"`
}

func Initial() State {
	return State{Phase: PhaseInitial}
}

func Loading() State {
	return State{Phase: PhaseLoading}
}

func NFCReady(playerName string) State {
	return State{Phase: PhaseNFCReady, PlayerName: playerName}
}

func Success(cfg model.PlayerConfig) State {
	return State{Phase: PhaseSuccess, Config: &cfg}
}

func Error(message string) State {
	return State{Phase: PhaseError, Message: message}
}
