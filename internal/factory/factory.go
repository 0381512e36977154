package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/couplecards/internal/api"
	"github.com/mcoot/couplecards/internal/api/sse"
	"github.com/mcoot/couplecards/internal/dependencies/clock"
	"github.com/mcoot/couplecards/internal/dependencies/random"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/pairing"
	"github.com/mcoot/couplecards/internal/repository"
	"github.com/mcoot/couplecards/internal/services/game"
	"github.com/mcoot/couplecards/internal/services/history"
	"github.com/mcoot/couplecards/internal/services/seed"
	"github.com/mcoot/couplecards/internal/services/setup"
	"github.com/mcoot/couplecards/internal/storage"
	"github.com/mcoot/couplecards/internal/storage/memory"
	redisstorage "github.com/mcoot/couplecards/internal/storage/redis"
	sqlitestorage "github.com/mcoot/couplecards/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeSQLite = "sqlite"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage    storage.Storage
	Repository *repository.Repository

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Seeder            *seed.Seeder
	SetupController   *setup.Controller
	GameController    *game.Controller
	HistoryController *history.Controller
	Events            *sse.Hub

	// Pairing is nil unless a Redis URL was configured
	Pairing pairing.Channel

	logger    *slog.Logger
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "sqlite" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// DBPath is the SQLite database file (required if StorageType is "sqlite")
	DBPath string
	// RedisConfig is required if StorageType is "redis"
	RedisConfig *redisstorage.Config
	// DeckPath is a YAML question deck (optional)
	// If empty, the built-in deck is seeded
	DeckPath string
	// DeviceType is recorded on saved player configs
	// If empty, defaults to android
	DeviceType model.DeviceType
	// FirstTouchAnimation is how long the first-touch flag stays set
	// If zero, defaults to game.DefaultFirstTouchAnimation
	FirstTouchAnimation time.Duration
	// PairingConfig enables the Redis pairing channel (optional)
	PairingConfig *pairing.Config
}

// New creates a new application with all dependencies wired.
// Construction seeds the store and loads the initial controller states.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	deck, err := seed.LoadDeck(cfg.DeckPath)
	if err != nil {
		return nil, err
	}

	deviceType := cfg.DeviceType
	if deviceType == "" {
		deviceType = model.DeviceTypeAndroid
	}
	if !deviceType.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidDeviceType, deviceType)
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(rnd)
	case StorageTypeSQLite:
		if cfg.DBPath == "" {
			return nil, errors.New("DBPath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, rnd)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'sqlite' or 'redis'")
	}

	var channel pairing.Channel
	if cfg.PairingConfig != nil {
		redisChannel, err := pairing.NewRedisChannel(*cfg.PairingConfig)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		channel = redisChannel
	}

	return newWithDependencies(ctx, store, channel, deck, deviceType, cfg.FirstTouchAnimation, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	ctx context.Context,
	store storage.Storage,
	channel pairing.Channel,
	deck seed.Deck,
	deviceType model.DeviceType,
	animation time.Duration,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *App {
	repo := repository.New(store, logger)
	seeder := seed.New(repo, deck, clk, logger)
	setupController := setup.NewController(ctx, repo, seeder, deviceType, clk, rnd, logger)
	gameController := game.NewController(ctx, repo, animation, clk, logger)
	historyController := history.NewController(ctx, repo, logger)
	hub := sse.NewHub(logger)

	bgCtx, cancel := context.WithCancel(context.Background())
	app := &App{
		Storage:           store,
		Repository:        repo,
		Clock:             clk,
		Random:            rnd,
		Seeder:            seeder,
		SetupController:   setupController,
		GameController:    gameController,
		HistoryController: historyController,
		Events:            hub,
		Pairing:           channel,
		logger:            logger.With(slog.String("component", "app")),
		cancel:            cancel,
	}
	app.start(bgCtx)
	return app
}

// start launches the event hub, the state forwarders and the setup watcher
func (a *App) start(ctx context.Context) {
	setupUpdates, unsubSetup := a.SetupController.Subscribe()
	gameUpdates, unsubGame := a.GameController.Subscribe()
	historyUpdates, unsubHistory := a.HistoryController.Subscribe()
	watchUpdates, unsubWatch := a.SetupController.Subscribe()

	a.wg.Add(5)
	go func() {
		defer a.wg.Done()
		a.Events.Run()
	}()
	go func() {
		defer a.wg.Done()
		defer unsubSetup()
		sse.Forward(ctx, a.Events, sse.EventSetup, setupUpdates, a.logger)
	}()
	go func() {
		defer a.wg.Done()
		defer unsubGame()
		sse.Forward(ctx, a.Events, sse.EventGame, gameUpdates, a.logger)
	}()
	go func() {
		defer a.wg.Done()
		defer unsubHistory()
		sse.Forward(ctx, a.Events, sse.EventHistory, historyUpdates, a.logger)
	}()
	go func() {
		defer a.wg.Done()
		defer unsubWatch()
		a.watchSetup(ctx, watchUpdates)
	}()
}

// watchSetup reloads the game's player config whenever setup succeeds or is
// reset, wherever the change was triggered from.
func (a *App) watchSetup(ctx context.Context, updates <-chan setup.State) {
	var last *model.PlayerConfig
	first := true
	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			var current *model.PlayerConfig
			switch state.Phase {
			case setup.PhaseSuccess:
				current = state.Config
			case setup.PhaseInitial:
				current = nil
			default:
				continue
			}
			if !first && samePlayer(last, current) {
				continue
			}
			first = false
			last = current
			a.GameController.ReloadPlayerConfig(ctx)
		}
	}
}

func samePlayer(a, b *model.PlayerConfig) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.PlayerID == b.PlayerID && a.SetupDate == b.SetupDate
}

// RouterConfig returns the API router configuration for this app
func (a *App) RouterConfig(logger *slog.Logger) api.RouterConfig {
	return api.RouterConfig{
		Logger:            logger,
		Repository:        a.Repository,
		SetupController:   a.SetupController,
		GameController:    a.GameController,
		HistoryController: a.HistoryController,
		Events:            a.Events,
		Pairing:           a.Pairing,
		Random:            a.Random,
	}
}

// stop ends background work without releasing the store
func (a *App) stop() {
	a.cancel()
	a.Events.Close()
	a.wg.Wait()
	a.GameController.Close()
}

// Close stops background work and releases the store and pairing channel
func (a *App) Close() error {
	var errs []error
	a.closeOnce.Do(func() {
		a.stop()
		if a.Pairing != nil {
			errs = append(errs, a.Pairing.Close())
		}
		errs = append(errs, a.Storage.Close())
	})
	return errors.Join(errs...)
}
