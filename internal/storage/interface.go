package storage

import (
	"context"
	"errors"

	"github.com/mcoot/couplecards/internal/model"
)

var (
	// ErrDuplicateCategory is returned when a category name is already taken
	ErrDuplicateCategory = errors.New("category name already exists")

	// ErrBlankCategoryName is returned when a category name is empty
	ErrBlankCategoryName = errors.New("category name cannot be empty")

	// ErrUnknownCategory is returned when a question references a category that does not exist
	ErrUnknownCategory = errors.New("category does not exist")
)

// Storage defines the interface for data persistence
type Storage interface {
	// Category operations
	ListCategories(ctx context.Context) ([]model.Category, error)
	InsertCategory(ctx context.Context, name, emoji string) (model.CategoryID, error)
	DeleteAllCategories(ctx context.Context) error

	// Question operations
	ListQuestions(ctx context.Context) ([]model.Question, error)
	// RandomQuestion returns nil when there are no questions
	RandomQuestion(ctx context.Context) (*model.Question, error)
	InsertQuestion(ctx context.Context, categoryID model.CategoryID, text string, createdAt int64) (model.QuestionID, error)
	DeleteAllQuestions(ctx context.Context) error

	// Player config operations
	// GetPlayerConfig returns nil when no configuration has been saved
	GetPlayerConfig(ctx context.Context) (*model.PlayerConfig, error)
	// ReplacePlayerConfig deletes any existing configuration and inserts cfg atomically
	ReplacePlayerConfig(ctx context.Context, cfg model.PlayerConfig) error
	DeletePlayerConfig(ctx context.Context) error

	// History operations, most recent first
	ListHistory(ctx context.Context, limit int) ([]model.QuestionHistory, error)
	ListHistoryByCategory(ctx context.Context, categoryID model.CategoryID) ([]model.QuestionHistory, error)
	InsertHistory(ctx context.Context, entry model.QuestionHistory) (model.HistoryID, error)
	// FirstTouchEntry returns the earliest first-touch entry, or nil
	FirstTouchEntry(ctx context.Context) (*model.QuestionHistory, error)
	DeleteAllHistory(ctx context.Context) error

	Close() error
}
