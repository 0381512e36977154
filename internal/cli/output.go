package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SetupState:
		o.printSetupState(v)
	case GameState:
		o.printGameState(v)
	case HistoryState:
		o.printHistoryState(v)
	case CategoryList:
		o.printCategories(v.Categories)
	case PairingOffer:
		fmt.Fprintf(o.w, "Pairing code: %s\n", v.Code)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
		fmt.Fprintf(o.w, "Questions: %d\n", v.Questions)
		if v.Pairing {
			fmt.Fprintln(o.w, "Pairing: available")
		} else {
			fmt.Fprintln(o.w, "Pairing: unavailable")
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// PlayerConfig response type (matches API)
type PlayerConfig struct {
	PlayerID    string  `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	PartnerID   *string `json:"partner_id"`
	PartnerName *string `json:"partner_name"`
	DeviceType  string  `json:"device_type"`
	SetupMethod string  `json:"setup_method"`
	SetupDate   int64   `json:"setup_date"`
}

// SetupState response type
type SetupState struct {
	Phase      string        `json:"phase"`
	PlayerName string        `json:"player_name,omitempty"`
	Config     *PlayerConfig `json:"config,omitempty"`
	Message    string        `json:"message,omitempty"`
}

// Question response type
type Question struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Text       string `json:"text"`
	CreatedAt  int64  `json:"created_at"`
}

// GameState response type
type GameState struct {
	CurrentQuestion         *Question     `json:"current_question"`
	PlayerConfig            *PlayerConfig `json:"player_config"`
	IsLoading               bool          `json:"is_loading"`
	Error                   string        `json:"error,omitempty"`
	ShowFirstTouchAnimation bool          `json:"show_first_touch_animation"`
}

// Category response type
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// CategoryList response type
type CategoryList struct {
	Categories []Category `json:"categories"`
}

// HistoryEntry response type
type HistoryEntry struct {
	ID            int64  `json:"id"`
	QuestionID    int64  `json:"question_id"`
	QuestionText  string `json:"question_text"`
	CategoryID    int64  `json:"category_id"`
	CategoryName  string `json:"category_name"`
	CategoryEmoji string `json:"category_emoji"`
	AskedAt       int64  `json:"asked_at"`
	YourTurn      bool   `json:"your_turn"`
	IsFirstTouch  bool   `json:"is_first_touch"`
}

// HistoryState response type
type HistoryState struct {
	Entries            []HistoryEntry `json:"entries"`
	Categories         []Category     `json:"categories"`
	SelectedCategoryID *int64         `json:"selected_category_id"`
	FirstTouchEntry    *HistoryEntry  `json:"first_touch_entry"`
	IsLoading          bool           `json:"is_loading"`
	Error              string         `json:"error,omitempty"`
}

// PairingOffer response type
type PairingOffer struct {
	Code string `json:"code"`
}

// HealthResult response type
type HealthResult struct {
	Status    string `json:"status"`
	Questions int    `json:"questions"`
	Pairing   bool   `json:"pairing"`
}

func (o *Output) printSetupState(s SetupState) {
	fmt.Fprintf(o.w, "Phase: %s\n", s.Phase)
	switch {
	case s.Config != nil:
		o.printPlayerConfig(*s.Config)
	case s.PlayerName != "":
		fmt.Fprintf(o.w, "Waiting for partner device: %s\n", s.PlayerName)
	case s.Message != "":
		fmt.Fprintf(o.w, "Error: %s\n", s.Message)
	}
}

func (o *Output) printPlayerConfig(c PlayerConfig) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", c.PlayerName, c.PlayerID)
	if c.PartnerName != nil && c.PartnerID != nil {
		fmt.Fprintf(o.w, "Partner: %s (%s)\n", *c.PartnerName, *c.PartnerID)
	} else {
		fmt.Fprintln(o.w, "Partner: none (solo)")
	}
	fmt.Fprintf(o.w, "Setup: %s on %s, %s\n", c.SetupMethod, c.DeviceType, formatMillis(c.SetupDate))
}

func (o *Output) printGameState(g GameState) {
	if g.PlayerConfig != nil {
		names := g.PlayerConfig.PlayerName
		if g.PlayerConfig.PartnerName != nil {
			names += " & " + *g.PlayerConfig.PartnerName
		}
		fmt.Fprintf(o.w, "Players: %s\n", names)
	}
	switch {
	case g.IsLoading:
		fmt.Fprintln(o.w, "Loading...")
	case g.CurrentQuestion != nil:
		fmt.Fprintf(o.w, "Question #%d: %s\n", g.CurrentQuestion.ID, g.CurrentQuestion.Text)
	default:
		fmt.Fprintln(o.w, "No question available")
	}
	if g.ShowFirstTouchAnimation {
		fmt.Fprintln(o.w, "First touch!")
	}
	if g.Error != "" {
		fmt.Fprintf(o.w, "Error: %s\n", g.Error)
	}
}

func (o *Output) printHistoryState(h HistoryState) {
	if h.SelectedCategoryID != nil {
		name := fmt.Sprintf("#%d", *h.SelectedCategoryID)
		for _, c := range h.Categories {
			if c.ID == *h.SelectedCategoryID {
				name = c.Emoji + " " + c.Name
			}
		}
		fmt.Fprintf(o.w, "Filter: %s\n", name)
	}
	if h.FirstTouchEntry != nil {
		fmt.Fprintf(o.w, "First touch: %s (%s)\n", h.FirstTouchEntry.QuestionText, formatMillis(h.FirstTouchEntry.AskedAt))
	}
	fmt.Fprintf(o.w, "Entries (%d):\n", len(h.Entries))
	for _, e := range h.Entries {
		marker := ""
		if e.IsFirstTouch {
			marker = " [first touch]"
		}
		fmt.Fprintf(o.w, "  %s %s %s: %s%s\n", formatMillis(e.AskedAt), e.CategoryEmoji, e.CategoryName, e.QuestionText, marker)
	}
	if h.Error != "" {
		fmt.Fprintf(o.w, "Error: %s\n", h.Error)
	}
}

func (o *Output) printCategories(categories []Category) {
	for _, c := range categories {
		fmt.Fprintf(o.w, "%3d  %s %s\n", c.ID, c.Emoji, c.Name)
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
