package game

import "github.com/mcoot/couplecards/internal/model"

// State is the game screen state
type State struct {
	CurrentQuestion         *model.Question     `json:"current_question"`
	PlayerConfig            *model.PlayerConfig `json:"player_config"`
	IsLoading               bool                `json:"is_loading"`
	Error                   string              `json:"error,omitempty"`
	ShowFirstTouchAnimation bool                `json:"show_first_touch_animation"`
}
