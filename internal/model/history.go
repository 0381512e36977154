package model

// HistoryID is the store-generated identifier of a history entry
type HistoryID int64

// QuestionHistory records a question that was shown during a session.
//
// Category fields are a snapshot taken when the question was asked, so an
// entry stays readable even if the category changes afterwards. Entries are
// append-only.
type QuestionHistory struct {
	ID            HistoryID  `json:"id"`
	QuestionID    QuestionID `json:"question_id"`
	QuestionText  string     `json:"question_text"`
	CategoryID    CategoryID `json:"category_id"`
	CategoryName  string     `json:"category_name"`
	CategoryEmoji string     `json:"category_emoji"`
	AskedAt       int64      `json:"asked_at"` // epoch millis
	YourTurn      bool       `json:"your_turn"`
	IsFirstTouch  bool       `json:"is_first_touch"`
}

// NewHistoryEntry snapshots a question and its category into a history entry
func NewHistoryEntry(q Question, c Category, askedAt int64, yourTurn, isFirstTouch bool) QuestionHistory {
	return QuestionHistory{
		QuestionID:    q.ID,
		QuestionText:  q.Text,
		CategoryID:    c.ID,
		CategoryName:  c.Name,
		CategoryEmoji: c.Emoji,
		AskedAt:       askedAt,
		YourTurn:      yourTurn,
		IsFirstTouch:  isFirstTouch,
	}
}
