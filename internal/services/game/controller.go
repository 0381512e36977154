package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/couplecards/internal/dependencies/clock"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/observable"
	"github.com/mcoot/couplecards/internal/repository"
)

// DefaultFirstTouchAnimation is how long the first-touch animation stays visible
const DefaultFirstTouchAnimation = 3 * time.Second

// MsgCategoryNotFound is reported when a question's category no longer exists
const MsgCategoryNotFound = "Failed to record question: category not found"

// MsgRecordFailed is reported when the history entry could not be stored
const MsgRecordFailed = "Failed to record question"

// Controller manages the game state machine: drawing questions and recording them
type Controller struct {
	repo      *repository.Repository
	animation time.Duration
	clock     clock.Clock
	logger    *slog.Logger

	mu    sync.Mutex
	state *observable.Value[State]

	// animMu guards the pending animation reset
	animMu    sync.Mutex
	animTimer clock.Timer
	animGen   uint64
	closed    bool
}

// NewController creates a game Controller, loading the player config and a first question.
// A non-positive animation duration means DefaultFirstTouchAnimation.
func NewController(
	ctx context.Context,
	repo *repository.Repository,
	animation time.Duration,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	if animation <= 0 {
		animation = DefaultFirstTouchAnimation
	}
	c := &Controller{
		repo:      repo,
		animation: animation,
		clock:     clock,
		logger:    logger.With(slog.String("component", "game")),
		state:     observable.New(State{}),
	}
	c.ReloadPlayerConfig(ctx)
	c.LoadNextQuestion(ctx)
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

// ReloadPlayerConfig refreshes the player config snapshot
func (c *Controller) ReloadPlayerConfig(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.repo.GetPlayerConfig(ctx)
	if err := ctx.Err(); err != nil {
		return c.state.Update(func(s State) State {
			s.Error = "Failed to load player config: " + err.Error()
			return s
		})
	}
	return c.state.Update(func(s State) State {
		s.PlayerConfig = cfg
		return s
	})
}

// LoadNextQuestion draws a random question. Questions may repeat.
func (c *Controller) LoadNextQuestion(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Update(func(s State) State {
		s.IsLoading = true
		s.Error = ""
		return s
	})

	q := c.repo.GetRandomQuestion(ctx)
	if err := ctx.Err(); err != nil {
		return c.state.Update(func(s State) State {
			s.IsLoading = false
			s.Error = "Failed to load question: " + err.Error()
			return s
		})
	}

	return c.state.Update(func(s State) State {
		s.CurrentQuestion = q
		s.IsLoading = false
		return s
	})
}

// RecordQuestion appends the current question to the history. It does nothing
// when no question is shown.
//
// Only one first-touch entry is kept: if one already exists, or the store
// cannot tell, the request is recorded as a regular entry and no animation
// is shown.
func (c *Controller) RecordQuestion(ctx context.Context, isFirstTouch bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := c.state.Get().CurrentQuestion
	if q == nil {
		return c.state.Get()
	}

	category := model.FindCategory(c.repo.GetAllCategories(ctx), q.CategoryID)
	if category == nil {
		c.logger.Warn("category not found for question",
			slog.Int64("question_id", int64(q.ID)),
			slog.Int64("category_id", int64(q.CategoryID)),
		)
		return c.state.Update(func(s State) State {
			s.Error = MsgCategoryNotFound
			return s
		})
	}

	if isFirstTouch {
		existing, ok := c.repo.LookupFirstTouchEntry(ctx)
		switch {
		case !ok:
			c.logger.Warn("first touch lookup failed, storing regular entry",
				slog.Int64("question_id", int64(q.ID)))
			isFirstTouch = false
		case existing != nil:
			c.logger.Info("first touch already recorded, storing regular entry",
				slog.Int64("question_id", int64(q.ID)))
			isFirstTouch = false
		}
	}

	id := c.repo.InsertQuestionHistory(ctx,
		q.ID, q.Text,
		category.ID, category.Name, category.Emoji,
		clock.Millis(c.clock.Now()),
		true,
		isFirstTouch,
	)

	if err := ctx.Err(); err != nil {
		return c.state.Update(func(s State) State {
			s.Error = "Failed to record question: " + err.Error()
			return s
		})
	}
	if id == 0 {
		return c.state.Update(func(s State) State {
			s.Error = MsgRecordFailed
			return s
		})
	}

	if !isFirstTouch {
		return c.state.Get()
	}
	return c.startAnimation()
}

// ClearError dismisses the current error
func (c *Controller) ClearError() State {
	return c.state.Update(func(s State) State {
		s.Error = ""
		return s
	})
}

// Close cancels a pending animation reset. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.animMu.Lock()
	defer c.animMu.Unlock()
	c.closed = true
	if c.animTimer != nil {
		c.animTimer.Stop()
		c.animTimer = nil
	}
}

// startAnimation shows the animation and schedules its reset, replacing any
// reset still pending
func (c *Controller) startAnimation() State {
	c.animMu.Lock()
	defer c.animMu.Unlock()

	if c.closed {
		return c.state.Get()
	}
	if c.animTimer != nil {
		c.animTimer.Stop()
	}
	c.animGen++
	gen := c.animGen

	next := c.state.Update(func(s State) State {
		s.ShowFirstTouchAnimation = true
		return s
	})
	c.animTimer = c.clock.AfterFunc(c.animation, func() { c.endAnimation(gen) })
	return next
}

func (c *Controller) endAnimation(gen uint64) {
	c.animMu.Lock()
	defer c.animMu.Unlock()

	if c.closed || gen != c.animGen {
		return
	}
	c.animTimer = nil
	c.state.Update(func(s State) State {
		s.ShowFirstTouchAnimation = false
		return s
	})
}
