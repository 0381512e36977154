package history

import "github.com/mcoot/couplecards/internal/model"

// State is the history screen state
type State struct {
	Entries            []model.QuestionHistory `json:"entries"`
	Categories         []model.Category        `json:"categories"`
	SelectedCategoryID *model.CategoryID       `json:"selected_category_id"`
	FirstTouchEntry    *model.QuestionHistory  `json:"first_touch_entry"`
	IsLoading          bool                    `json:"is_loading"`
	Error              string                  `json:"error,omitempty"`
}
