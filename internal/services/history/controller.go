package history

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/observable"
	"github.com/mcoot/couplecards/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Controller manages the history screen: listing, filtering and clearing entries
type Controller struct {
	repo   *repository.Repository
	logger *slog.Logger

	mu    sync.Mutex
	state *observable.Value[State]
}

// NewController creates a history Controller and loads categories, history
// and the first-touch entry concurrently
func NewController(ctx context.Context, repo *repository.Repository, logger *slog.Logger) *Controller {
	c := &Controller{
		repo:   repo,
		logger: logger.With(slog.String("component", "history")),
		state: observable.New(State{
			Entries:    []model.QuestionHistory{},
			Categories: []model.Category{},
		}),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(ctx, true)
	return c
}

// State returns the current state
func (c *Controller) State() State {
	return c.state.Get()
}

// Subscribe streams state changes, starting with the current state
func (c *Controller) Subscribe() (<-chan State, func()) {
	return c.state.Subscribe()
}

// FilterByCategory scopes the entries to one category; nil shows every category
func (c *Controller) FilterByCategory(ctx context.Context, categoryID *model.CategoryID) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Update(func(s State) State {
		s.SelectedCategoryID = categoryID
		return s
	})
	return c.loadHistory(ctx)
}

// Refresh reloads the entries and the first-touch entry
func (c *Controller) Refresh(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx, false)
}

// DeleteHistory clears every entry, then refreshes
func (c *Controller) DeleteHistory(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.repo.DeleteHistory(ctx)
	c.logger.Info("history cleared")
	return c.load(ctx, false)
}

// ClearError dismisses the current error
func (c *Controller) ClearError() State {
	return c.state.Update(func(s State) State {
		s.Error = ""
		return s
	})
}

// load must be called with mu held. A first-touch failure is only logged.
func (c *Controller) load(ctx context.Context, withCategories bool) State {
	c.beginLoading()

	var (
		categories    []model.Category
		categoriesErr error
		entries       []model.QuestionHistory
		entriesErr    error
		firstTouch    *model.QuestionHistory
		firstTouchErr error
	)
	selected := c.state.Get().SelectedCategoryID

	var g errgroup.Group
	if withCategories {
		g.Go(func() error {
			categories = c.repo.GetAllCategories(ctx)
			categoriesErr = ctx.Err()
			return nil
		})
	}
	g.Go(func() error {
		entries, entriesErr = c.fetchEntries(ctx, selected)
		return nil
	})
	g.Go(func() error {
		firstTouch = c.repo.GetFirstTouchEntry(ctx)
		firstTouchErr = ctx.Err()
		return nil
	})
	_ = g.Wait()

	if firstTouchErr != nil {
		c.logger.Warn("failed to load first touch entry", slog.String("error", firstTouchErr.Error()))
	}

	return c.state.Update(func(s State) State {
		s.IsLoading = false
		if categoriesErr != nil {
			s.Error = "Failed to load categories: " + categoriesErr.Error()
		} else if withCategories {
			s.Categories = categories
		}
		if entriesErr != nil {
			s.Error = "Failed to load history: " + entriesErr.Error()
		} else {
			s.Entries = entries
		}
		if firstTouchErr == nil {
			s.FirstTouchEntry = firstTouch
		}
		return s
	})
}

// loadHistory must be called with mu held
func (c *Controller) loadHistory(ctx context.Context) State {
	c.beginLoading()
	entries, err := c.fetchEntries(ctx, c.state.Get().SelectedCategoryID)
	return c.state.Update(func(s State) State {
		s.IsLoading = false
		if err != nil {
			s.Error = "Failed to load history: " + err.Error()
			return s
		}
		s.Entries = entries
		return s
	})
}

func (c *Controller) beginLoading() {
	c.state.Update(func(s State) State {
		s.IsLoading = true
		s.Error = ""
		return s
	})
}

func (c *Controller) fetchEntries(ctx context.Context, categoryID *model.CategoryID) ([]model.QuestionHistory, error) {
	var entries []model.QuestionHistory
	if categoryID != nil {
		entries = c.repo.GetHistoryByCategory(ctx, *categoryID)
	} else {
		entries = c.repo.GetQuestionHistory(ctx, repository.DefaultHistoryLimit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
