package model

// QuestionID is the store-generated identifier of a question
type QuestionID int64

// Question is a single conversation prompt belonging to a category
type Question struct {
	ID         QuestionID `json:"id"`
	CategoryID CategoryID `json:"category_id"`
	Text       string     `json:"text"`
	CreatedAt  int64      `json:"created_at"` // epoch millis
}
