package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/couplecards/internal/dependencies/random"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu     sync.RWMutex
	random random.Random

	categories   []model.Category
	questions    []model.Question
	playerConfig *model.PlayerConfig
	history      []model.QuestionHistory

	nextCategoryID model.CategoryID
	nextQuestionID model.QuestionID
	nextHistoryID  model.HistoryID
}

// New creates a new in-memory storage instance.
// rnd drives RandomQuestion.
func New(rnd random.Random) *Storage {
	return &Storage{
		random:         rnd,
		nextCategoryID: 1,
		nextQuestionID: 1,
		nextHistoryID:  1,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Category operations

func (s *Storage) ListCategories(ctx context.Context) ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Category{}, s.categories...), nil
}

func (s *Storage) InsertCategory(ctx context.Context, name, emoji string) (model.CategoryID, error) {
	if name == "" {
		return 0, storage.ErrBlankCategoryName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Name == name {
			return 0, storage.ErrDuplicateCategory
		}
	}
	id := s.nextCategoryID
	s.nextCategoryID++
	s.categories = append(s.categories, model.Category{ID: id, Name: name, Emoji: emoji})
	return id, nil
}

func (s *Storage) DeleteAllCategories(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Mirrors the cascading foreign key of the relational store
	s.categories = nil
	s.questions = nil
	return nil
}

// UpdateCategory changes a category in place. Only tests use it, to check
// that history keeps its snapshot.
func (s *Storage) UpdateCategory(id model.CategoryID, name, emoji string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = name
			s.categories[i].Emoji = emoji
		}
	}
}

// Question operations

func (s *Storage) ListQuestions(ctx context.Context) ([]model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Question{}, s.questions...), nil
}

func (s *Storage) RandomQuestion(ctx context.Context) (*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.questions) == 0 {
		return nil, nil
	}
	q := s.questions[s.random.Intn(len(s.questions))]
	return &q, nil
}

func (s *Storage) InsertQuestion(ctx context.Context, categoryID model.CategoryID, text string, createdAt int64) (model.QuestionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if model.FindCategory(s.categories, categoryID) == nil {
		return 0, storage.ErrUnknownCategory
	}
	id := s.nextQuestionID
	s.nextQuestionID++
	s.questions = append(s.questions, model.Question{
		ID:         id,
		CategoryID: categoryID,
		Text:       text,
		CreatedAt:  createdAt,
	})
	return id, nil
}

func (s *Storage) DeleteAllQuestions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = nil
	return nil
}

// Player config operations

func (s *Storage) GetPlayerConfig(ctx context.Context) (*model.PlayerConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.playerConfig == nil {
		return nil, nil
	}
	cfg := *s.playerConfig
	return &cfg, nil
}

func (s *Storage) ReplacePlayerConfig(ctx context.Context, cfg model.PlayerConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerConfig = &cfg
	return nil
}

func (s *Storage) DeletePlayerConfig(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerConfig = nil
	return nil
}

// History operations

func (s *Storage) ListHistory(ctx context.Context, limit int) ([]model.QuestionHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.sortedHistory(func(model.QuestionHistory) bool { return true })
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Storage) ListHistoryByCategory(ctx context.Context, categoryID model.CategoryID) ([]model.QuestionHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedHistory(func(h model.QuestionHistory) bool { return h.CategoryID == categoryID }), nil
}

func (s *Storage) InsertHistory(ctx context.Context, entry model.QuestionHistory) (model.HistoryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextHistoryID
	s.nextHistoryID++
	s.history = append(s.history, entry)
	return entry.ID, nil
}

func (s *Storage) FirstTouchEntry(ctx context.Context) (*model.QuestionHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var first *model.QuestionHistory
	for i := range s.history {
		h := s.history[i]
		if !h.IsFirstTouch {
			continue
		}
		if first == nil || h.AskedAt < first.AskedAt {
			first = &h
		}
	}
	return first, nil
}

func (s *Storage) DeleteAllHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// sortedHistory returns matching entries ordered by AskedAt descending, newest
// insert first on ties. Must be called with mu held.
func (s *Storage) sortedHistory(match func(model.QuestionHistory) bool) []model.QuestionHistory {
	entries := make([]model.QuestionHistory, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		if match(s.history[i]) {
			entries = append(entries, s.history[i])
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AskedAt > entries[j].AskedAt
	})
	return entries
}
