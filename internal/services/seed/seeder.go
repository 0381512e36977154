package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/couplecards/internal/dependencies/clock"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/repository"
)

// Result summarizes a seeding run
type Result struct {
	Skipped    bool `json:"skipped"`
	Categories int  `json:"categories"`
	Questions  int  `json:"questions"`
}

// Seeder populates an empty store with a deck. It is safe to run on every start.
type Seeder struct {
	repo   *repository.Repository
	deck   Deck
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a Seeder for the given deck
func New(repo *repository.Repository, deck Deck, clock clock.Clock, logger *slog.Logger) *Seeder {
	return &Seeder{
		repo:   repo,
		deck:   deck,
		clock:  clock,
		logger: logger.With(slog.String("component", "seeder")),
	}
}

// Seed inserts the deck unless any category already exists.
//
// A store with categories counts as seeded even if a previous run stopped
// before inserting questions.
func (s *Seeder) Seed(ctx context.Context) (Result, error) {
	if existing := s.repo.GetAllCategories(ctx); len(existing) > 0 {
		s.logger.Info("store already seeded, skipping", slog.Int("categories", len(existing)))
		return Result{Skipped: true}, nil
	}

	s.logger.Info("seeding store",
		slog.Int("categories", len(s.deck.Categories)),
		slog.Int("questions", s.deck.QuestionCount()),
	)

	for _, c := range s.deck.Categories {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("seeding categories: %w", err)
		}
		s.repo.InsertCategory(ctx, c.Name, c.Emoji)
	}

	now := clock.Millis(s.clock.Now())
	byName := model.CategoriesByName(s.repo.GetAllCategories(ctx))

	for _, c := range s.deck.Categories {
		category, ok := byName[c.Name]
		if !ok {
			s.logger.Warn("category missing after insert, skipping its questions",
				slog.String("category", c.Name))
			continue
		}
		for _, text := range c.Questions {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("seeding questions: %w", err)
			}
			s.repo.InsertQuestion(ctx, category.ID, text, now)
		}
	}

	result := Result{
		Categories: len(s.repo.GetAllCategories(ctx)),
		Questions:  len(s.repo.GetAllQuestions(ctx)),
	}
	s.logger.Info("store seeded",
		slog.Int("categories", result.Categories),
		slog.Int("questions", result.Questions),
	)
	return result, nil
}
