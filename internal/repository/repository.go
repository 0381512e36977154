// Package repository is the single access point to persistent storage.
//
// No Repository method returns an error. Storage failures are logged and
// replaced with a safe default: an empty slice, nil, or a silent no-op.
// Callers that need to know whether a write landed read it back, or use the
// returned history ID, which is zero when the insert failed.
package repository

import (
	"context"
	"log/slog"

	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/storage"
)

// DefaultHistoryLimit caps GetQuestionHistory when a negative limit is given
const DefaultHistoryLimit = 100

// Repository wraps a storage.Storage with fault isolation
type Repository struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a Repository over the given storage
func New(storage storage.Storage, logger *slog.Logger) *Repository {
	return &Repository{
		storage: storage,
		logger:  logger.With(slog.String("component", "repository")),
	}
}

func (r *Repository) fail(op string, err error, attrs ...slog.Attr) {
	args := []any{slog.String("op", op), slog.String("error", err.Error())}
	for _, a := range attrs {
		args = append(args, a)
	}
	r.logger.Error("storage operation failed", args...)
}

// Category operations

// GetAllCategories returns categories in insertion order
func (r *Repository) GetAllCategories(ctx context.Context) []model.Category {
	categories, err := r.storage.ListCategories(ctx)
	if err != nil {
		r.fail("get_all_categories", err)
		return []model.Category{}
	}
	return categories
}

// InsertCategory adds a category. A duplicate name is logged and ignored.
func (r *Repository) InsertCategory(ctx context.Context, name, emoji string) {
	if _, err := r.storage.InsertCategory(ctx, name, emoji); err != nil {
		r.fail("insert_category", err, slog.String("name", name))
	}
}

func (r *Repository) DeleteAllCategories(ctx context.Context) {
	if err := r.storage.DeleteAllCategories(ctx); err != nil {
		r.fail("delete_all_categories", err)
	}
}

// Question operations

func (r *Repository) GetAllQuestions(ctx context.Context) []model.Question {
	questions, err := r.storage.ListQuestions(ctx)
	if err != nil {
		r.fail("get_all_questions", err)
		return []model.Question{}
	}
	return questions
}

// GetRandomQuestion returns a uniformly random question, or nil when the deck is empty
func (r *Repository) GetRandomQuestion(ctx context.Context) *model.Question {
	q, err := r.storage.RandomQuestion(ctx)
	if err != nil {
		r.fail("get_random_question", err)
		return nil
	}
	return q
}

// InsertQuestion adds a question. An unknown category is logged and ignored.
func (r *Repository) InsertQuestion(ctx context.Context, categoryID model.CategoryID, text string, createdAt int64) {
	if _, err := r.storage.InsertQuestion(ctx, categoryID, text, createdAt); err != nil {
		r.fail("insert_question", err, slog.Int64("category_id", int64(categoryID)))
	}
}

func (r *Repository) DeleteAllQuestions(ctx context.Context) {
	if err := r.storage.DeleteAllQuestions(ctx); err != nil {
		r.fail("delete_all_questions", err)
	}
}

// Player config operations

// GetPlayerConfig returns the single saved configuration, or nil
func (r *Repository) GetPlayerConfig(ctx context.Context) *model.PlayerConfig {
	cfg, err := r.storage.GetPlayerConfig(ctx)
	if err != nil {
		r.fail("get_player_config", err)
		return nil
	}
	return cfg
}

// SavePlayerConfig replaces any existing configuration.
// On failure the store keeps its previous state.
func (r *Repository) SavePlayerConfig(
	ctx context.Context,
	playerID model.PlayerID,
	playerName string,
	partnerID *model.PlayerID,
	partnerName *string,
	deviceType model.DeviceType,
	setupMethod model.SetupMethod,
	setupDate int64,
) {
	cfg := model.PlayerConfig{
		PlayerID:    playerID,
		PlayerName:  playerName,
		PartnerID:   partnerID,
		PartnerName: partnerName,
		DeviceType:  deviceType,
		SetupMethod: setupMethod,
		SetupDate:   setupDate,
	}
	if err := r.storage.ReplacePlayerConfig(ctx, cfg); err != nil {
		r.fail("save_player_config", err,
			slog.String("player_id", string(playerID)),
			slog.String("setup_method", string(setupMethod)),
		)
	}
}

func (r *Repository) DeletePlayerConfig(ctx context.Context) {
	if err := r.storage.DeletePlayerConfig(ctx); err != nil {
		r.fail("delete_player_config", err)
	}
}

// History operations

// GetQuestionHistory returns at most limit entries, most recent first.
// A negative limit means DefaultHistoryLimit; zero returns nothing.
func (r *Repository) GetQuestionHistory(ctx context.Context, limit int) []model.QuestionHistory {
	if limit < 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := r.storage.ListHistory(ctx, limit)
	if err != nil {
		r.fail("get_question_history", err, slog.Int("limit", limit))
		return []model.QuestionHistory{}
	}
	return entries
}

// InsertQuestionHistory appends a history entry and returns its ID, or zero
// when the entry was not stored
func (r *Repository) InsertQuestionHistory(
	ctx context.Context,
	questionID model.QuestionID,
	questionText string,
	categoryID model.CategoryID,
	categoryName string,
	categoryEmoji string,
	askedAt int64,
	yourTurn bool,
	isFirstTouch bool,
) model.HistoryID {
	entry := model.QuestionHistory{
		QuestionID:    questionID,
		QuestionText:  questionText,
		CategoryID:    categoryID,
		CategoryName:  categoryName,
		CategoryEmoji: categoryEmoji,
		AskedAt:       askedAt,
		YourTurn:      yourTurn,
		IsFirstTouch:  isFirstTouch,
	}
	id, err := r.storage.InsertHistory(ctx, entry)
	if err != nil {
		r.fail("insert_question_history", err, slog.Int64("question_id", int64(questionID)))
		return 0
	}
	return id
}

// GetHistoryByCategory returns every entry for one category, most recent first
func (r *Repository) GetHistoryByCategory(ctx context.Context, categoryID model.CategoryID) []model.QuestionHistory {
	entries, err := r.storage.ListHistoryByCategory(ctx, categoryID)
	if err != nil {
		r.fail("get_history_by_category", err, slog.Int64("category_id", int64(categoryID)))
		return []model.QuestionHistory{}
	}
	return entries
}

// GetFirstTouchEntry returns the earliest first-touch entry, or nil
func (r *Repository) GetFirstTouchEntry(ctx context.Context) *model.QuestionHistory {
	entry, _ := r.LookupFirstTouchEntry(ctx)
	return entry
}

// LookupFirstTouchEntry is GetFirstTouchEntry with ok set to false when the
// store could not be read, so a nil entry is not mistaken for "none recorded"
func (r *Repository) LookupFirstTouchEntry(ctx context.Context) (entry *model.QuestionHistory, ok bool) {
	entry, err := r.storage.FirstTouchEntry(ctx)
	if err != nil {
		r.fail("get_first_touch_entry", err)
		return nil, false
	}
	return entry, true
}

func (r *Repository) DeleteHistory(ctx context.Context) {
	if err := r.storage.DeleteAllHistory(ctx); err != nil {
		r.fail("delete_history", err)
	}
}
