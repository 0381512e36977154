package storagetest

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/storage"
)

// ErrInjected is returned by Faulty for every failing operation
var ErrInjected = errors.New("injected storage failure")

// Operation names accepted by Faulty.FailOn
const (
	OpListCategories        = "ListCategories"
	OpInsertCategory        = "InsertCategory"
	OpDeleteAllCategories   = "DeleteAllCategories"
	OpListQuestions         = "ListQuestions"
	OpRandomQuestion        = "RandomQuestion"
	OpInsertQuestion        = "InsertQuestion"
	OpDeleteAllQuestions    = "DeleteAllQuestions"
	OpGetPlayerConfig       = "GetPlayerConfig"
	OpReplacePlayerConfig   = "ReplacePlayerConfig"
	OpDeletePlayerConfig    = "DeletePlayerConfig"
	OpListHistory           = "ListHistory"
	OpListHistoryByCategory = "ListHistoryByCategory"
	OpInsertHistory         = "InsertHistory"
	OpFirstTouchEntry       = "FirstTouchEntry"
	OpDeleteAllHistory      = "DeleteAllHistory"
)

// Faulty wraps a Storage and fails the operations named with FailOn
type Faulty struct {
	storage.Storage

	mu      sync.Mutex
	failing map[string]bool
	calls   map[string]int
}

var _ storage.Storage = (*Faulty)(nil)

// NewFaulty wraps inner
func NewFaulty(inner storage.Storage) *Faulty {
	return &Faulty{
		Storage: inner,
		failing: make(map[string]bool),
		calls:   make(map[string]int),
	}
}

// FailOn makes the named operations return ErrInjected
func (f *Faulty) FailOn(ops ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, op := range ops {
		f.failing[op] = true
	}
}

// Heal clears every injected failure
func (f *Faulty) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = make(map[string]bool)
}

// Calls returns how often the named operation was invoked
func (f *Faulty) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Faulty) check(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.failing[op] {
		return ErrInjected
	}
	return nil
}

func (f *Faulty) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := f.check(OpListCategories); err != nil {
		return nil, err
	}
	return f.Storage.ListCategories(ctx)
}

func (f *Faulty) InsertCategory(ctx context.Context, name, emoji string) (model.CategoryID, error) {
	if err := f.check(OpInsertCategory); err != nil {
		return 0, err
	}
	return f.Storage.InsertCategory(ctx, name, emoji)
}

func (f *Faulty) DeleteAllCategories(ctx context.Context) error {
	if err := f.check(OpDeleteAllCategories); err != nil {
		return err
	}
	return f.Storage.DeleteAllCategories(ctx)
}

func (f *Faulty) ListQuestions(ctx context.Context) ([]model.Question, error) {
	if err := f.check(OpListQuestions); err != nil {
		return nil, err
	}
	return f.Storage.ListQuestions(ctx)
}

func (f *Faulty) RandomQuestion(ctx context.Context) (*model.Question, error) {
	if err := f.check(OpRandomQuestion); err != nil {
		return nil, err
	}
	return f.Storage.RandomQuestion(ctx)
}

func (f *Faulty) InsertQuestion(ctx context.Context, categoryID model.CategoryID, text string, createdAt int64) (model.QuestionID, error) {
	if err := f.check(OpInsertQuestion); err != nil {
		return 0, err
	}
	return f.Storage.InsertQuestion(ctx, categoryID, text, createdAt)
}

func (f *Faulty) DeleteAllQuestions(ctx context.Context) error {
	if err := f.check(OpDeleteAllQuestions); err != nil {
		return err
	}
	return f.Storage.DeleteAllQuestions(ctx)
}

func (f *Faulty) GetPlayerConfig(ctx context.Context) (*model.PlayerConfig, error) {
	if err := f.check(OpGetPlayerConfig); err != nil {
		return nil, err
	}
	return f.Storage.GetPlayerConfig(ctx)
}

func (f *Faulty) ReplacePlayerConfig(ctx context.Context, cfg model.PlayerConfig) error {
	if err := f.check(OpReplacePlayerConfig); err != nil {
		return err
	}
	return f.Storage.ReplacePlayerConfig(ctx, cfg)
}

func (f *Faulty) DeletePlayerConfig(ctx context.Context) error {
	if err := f.check(OpDeletePlayerConfig); err != nil {
		return err
	}
	return f.Storage.DeletePlayerConfig(ctx)
}

func (f *Faulty) ListHistory(ctx context.Context, limit int) ([]model.QuestionHistory, error) {
	if err := f.check(OpListHistory); err != nil {
		return nil, err
	}
	return f.Storage.ListHistory(ctx, limit)
}

func (f *Faulty) ListHistoryByCategory(ctx context.Context, categoryID model.CategoryID) ([]model.QuestionHistory, error) {
	if err := f.check(OpListHistoryByCategory); err != nil {
		return nil, err
	}
	return f.Storage.ListHistoryByCategory(ctx, categoryID)
}

func (f *Faulty) InsertHistory(ctx context.Context, entry model.QuestionHistory) (model.HistoryID, error) {
	if err := f.check(OpInsertHistory); err != nil {
		return 0, err
	}
	return f.Storage.InsertHistory(ctx, entry)
}

func (f *Faulty) FirstTouchEntry(ctx context.Context) (*model.QuestionHistory, error) {
	if err := f.check(OpFirstTouchEntry); err != nil {
		return nil, err
	}
	return f.Storage.FirstTouchEntry(ctx)
}

func (f *Faulty) DeleteAllHistory(ctx context.Context) error {
	if err := f.check(OpDeleteAllHistory); err != nil {
		return err
	}
	return f.Storage.DeleteAllHistory(ctx)
}
