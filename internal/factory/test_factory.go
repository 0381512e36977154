package factory

import (
	"context"
	"time"

	"github.com/mcoot/couplecards/internal/dependencies/mocks"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/pairing"
	"github.com/mcoot/couplecards/internal/services/game"
	"github.com/mcoot/couplecards/internal/services/seed"
	"github.com/mcoot/couplecards/internal/storage"
	"github.com/mcoot/couplecards/internal/storage/memory"
	"github.com/mcoot/couplecards/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestAppOptions customises NewTestAppWith
type TestAppOptions struct {
	// Storage overrides the in-memory store (e.g. a storagetest.Faulty wrapper)
	Storage storage.Storage
	// Deck overrides the built-in deck
	Deck *seed.Deck
	// Pairing enables the pairing routes
	Pairing pairing.Channel
}

// NewTestApp creates an App over an in-memory store with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWith(TestAppOptions{})
}

// NewTestAppWith creates a test App with the given overrides
func NewTestAppWith(opts TestAppOptions) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	store := opts.Storage
	if store == nil {
		store = memory.New(mockRandom)
	}
	deck := seed.DefaultDeck()
	if opts.Deck != nil {
		deck = *opts.Deck
	}

	app := newWithDependencies(
		context.Background(),
		store,
		opts.Pairing,
		deck,
		model.DeviceTypeAndroid,
		game.DefaultFirstTouchAnimation,
		mockClock,
		mockRandom,
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
