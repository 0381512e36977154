package setup

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/couplecards/internal/dependencies/clock"
	"github.com/mcoot/couplecards/internal/dependencies/random"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/observable"
	"github.com/mcoot/couplecards/internal/repository"
	"github.com/mcoot/couplecards/internal/services/seed"
)

// User-facing messages
const (
	MsgBlankPlayerName  = "Player name cannot be empty"
	MsgBlankPartnerName = "Partner name cannot be empty"
	MsgBlankPartnerID   = "Partner ID cannot be empty"
	MsgSaveFailed       = "Failed to save configuration"
	MsgNFCSaveFailed    = "Failed to save NFC configuration"
)

// Seeder populates the store on first start
type Seeder interface {
	Seed(ctx context.Context) (seed.Result, error)
}

// Controller manages the setup state machine
type Controller struct {
	repo       *repository.Repository
	seeder     Seeder
	deviceType model.DeviceType
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger

	// mu serializes operations so a readback always follows its own write
	mu    sync.Mutex
	state *observable.Value[State]
}

// NewController creates a setup Controller and seeds the store.
// Seeding failure leaves the controller in the error phase; every operation
// remains usable.
func NewController(
	ctx context.Context,
	repo *repository.Repository,
	seeder Seeder,
	deviceType model.DeviceType,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	c := &Controller{
		repo:       repo,
		seeder:     seeder,
		deviceType: deviceType,
		clock:      clock,
		random:     random,
		logger:     logger.With(slog.String("component", "setup")),
		state:      observable.New(Initial()),
	}
	c.initialize(ctx)
	return c
}

func (c *Controller) initialize(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Set(Loading())
	if _, err := c.seeder.Seed(ctx); err != nil {
		c.logger.Error("failed to initialize database", slog.String("error", err.Error()))
		c.state.Set(Error("Failed to initialize database: " + err.Error()))
		return
	}
	c.state.Set(Initial())
}

// State returns the current state
func (c *Controller) State() State {
	return c.state.Get()
}

// Subscribe streams state changes, starting with the current state
func (c *Controller) Subscribe() (<-chan State, func()) {
	return c.state.Subscribe()
}

// StartManualSetup saves a configuration with a partner typed on this device.
// Blank names put the controller in the error phase and return a validation error
// without touching storage.
func (c *Controller) StartManualSetup(ctx context.Context, playerName, partnerName string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if isBlank(playerName) {
		return c.reject(MsgBlankPlayerName, model.ErrBlankPlayerName)
	}
	if isBlank(partnerName) {
		return c.reject(MsgBlankPartnerName, model.ErrBlankPartnerName)
	}

	playerID := model.PlayerID(c.random.UUID())
	partnerID := model.PlayerID(c.random.UUID())
	return c.save(ctx, model.SetupMethodManual, playerID, playerName, &partnerID, &partnerName, MsgSaveFailed, "Setup failed: "), nil
}

// StartSoloMode saves a configuration without a partner
func (c *Controller) StartSoloMode(ctx context.Context, playerName string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if isBlank(playerName) {
		return c.reject(MsgBlankPlayerName, model.ErrBlankPlayerName)
	}

	playerID := model.PlayerID(c.random.UUID())
	return c.save(ctx, model.SetupMethodSolo, playerID, playerName, nil, nil, MsgSaveFailed, "Solo mode setup failed: "), nil
}

// StartNFCSetup moves to nfc_ready to await a partner payload. Storage is not touched.
func (c *Controller) StartNFCSetup(ctx context.Context, playerName string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if isBlank(playerName) {
		return c.reject(MsgBlankPlayerName, model.ErrBlankPlayerName)
	}
	next := NFCReady(playerName)
	c.state.Set(next)
	return next, nil
}

// OnNFCDataReceived saves a configuration using the partner ID carried by
// the proximity payload. The player ID is freshly generated.
func (c *Controller) OnNFCDataReceived(ctx context.Context, playerName, partnerName string, partnerID model.PlayerID) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if isBlank(playerName) {
		return c.reject(MsgBlankPlayerName, model.ErrBlankPlayerName)
	}
	if isBlank(partnerName) {
		return c.reject(MsgBlankPartnerName, model.ErrBlankPartnerName)
	}
	if isBlank(string(partnerID)) {
		return c.reject(MsgBlankPartnerID, model.ErrBlankPartnerID)
	}

	playerID := model.PlayerID(c.random.UUID())
	return c.save(ctx, model.SetupMethodNFC, playerID, playerName, &partnerID, &partnerName, MsgNFCSaveFailed, "NFC setup failed: "), nil
}

// ClearError returns to the initial phase from any phase
func (c *Controller) ClearError() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := Initial()
	c.state.Set(next)
	return next
}

// Reset deletes the saved configuration and returns to the initial phase
func (c *Controller) Reset(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.repo.DeletePlayerConfig(ctx)
	c.logger.Info("player config reset")
	next := Initial()
	c.state.Set(next)
	return next
}

func (c *Controller) reject(message string, err error) (State, error) {
	next := Error(message)
	c.state.Set(next)
	return next, err
}

// save must be called with mu held. The write counts as successful only when
// the readback returns the config with playerID.
func (c *Controller) save(
	ctx context.Context,
	method model.SetupMethod,
	playerID model.PlayerID,
	playerName string,
	partnerID *model.PlayerID,
	partnerName *string,
	mismatchMessage string,
	failurePrefix string,
) State {
	c.state.Set(Loading())

	c.repo.SavePlayerConfig(ctx, playerID, playerName, partnerID, partnerName,
		c.deviceType, method, clock.Millis(c.clock.Now()))

	if err := ctx.Err(); err != nil {
		next := Error(failurePrefix + err.Error())
		c.state.Set(next)
		return next
	}

	cfg := c.repo.GetPlayerConfig(ctx)
	if cfg == nil || cfg.PlayerID != playerID {
		c.logger.Warn("player config readback mismatch",
			slog.String("player_id", string(playerID)),
			slog.String("setup_method", string(method)),
		)
		next := Error(mismatchMessage)
		c.state.Set(next)
		return next
	}

	c.logger.Info("player configured",
		slog.String("player_id", string(cfg.PlayerID)),
		slog.String("setup_method", string(method)),
		slog.Bool("has_partner", cfg.HasPartner()),
	)
	next := Success(*cfg)
	c.state.Set(next)
	return next
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
