package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/services/game"
	"github.com/mcoot/couplecards/internal/services/seed"
	"github.com/mcoot/couplecards/internal/services/setup"
	redisstorage "github.com/mcoot/couplecards/internal/storage/redis"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

// Test: construction seeds the default deck and draws a first question
func (s *IntegrationSuite) TestStartupSeedsDeck() {
	deck := seed.DefaultDeck()

	s.Len(s.app.Repository.GetAllCategories(s.ctx), len(deck.Categories))
	s.Len(s.app.Repository.GetAllQuestions(s.ctx), deck.QuestionCount())
	s.Equal(setup.PhaseInitial, s.app.SetupController.State().Phase)
	s.NotNil(s.app.GameController.State().CurrentQuestion)
	s.Empty(s.app.HistoryController.State().Entries)
}

// Test: setup -> record with first touch -> history shows the entry
func (s *IntegrationSuite) TestSetupPlayRecordFlow() {
	s.app.MockRandom.QueueUUID("player-1", "partner-1")

	state, err := s.app.SetupController.StartManualSetup(s.ctx, "Ala", "Olek")
	s.Require().NoError(err)
	s.Require().Equal(setup.PhaseSuccess, state.Phase)

	// The watcher reloads the game's player config
	s.Eventually(func() bool {
		cfg := s.app.GameController.State().PlayerConfig
		return cfg != nil && cfg.PlayerID == model.PlayerID("player-1")
	}, time.Second, 5*time.Millisecond)

	question := s.app.GameController.State().CurrentQuestion
	s.Require().NotNil(question)

	gameState := s.app.GameController.RecordQuestion(s.ctx, true)
	s.True(gameState.ShowFirstTouchAnimation)

	historyState := s.app.HistoryController.Refresh(s.ctx)
	s.Require().Len(historyState.Entries, 1)
	s.Equal(question.ID, historyState.Entries[0].QuestionID)
	s.Require().NotNil(historyState.FirstTouchEntry)
	s.Equal(historyState.Entries[0].ID, historyState.FirstTouchEntry.ID)

	s.app.MockClock.Advance(game.DefaultFirstTouchAnimation)
	s.False(s.app.GameController.State().ShowFirstTouchAnimation)
}

// Test: resetting setup clears the game's player config
func (s *IntegrationSuite) TestResetClearsGamePlayerConfig() {
	_, err := s.app.SetupController.StartSoloMode(s.ctx, "Ala")
	s.Require().NoError(err)
	s.Eventually(func() bool {
		return s.app.GameController.State().PlayerConfig != nil
	}, time.Second, 5*time.Millisecond)

	s.app.SetupController.Reset(s.ctx)
	s.Eventually(func() bool {
		return s.app.GameController.State().PlayerConfig == nil
	}, time.Second, 5*time.Millisecond)
}

// Test: a second start against the same store does not reseed
func (s *IntegrationSuite) TestRestartDoesNotReseed() {
	before := len(s.app.Repository.GetAllQuestions(s.ctx))

	second := NewTestAppWith(TestAppOptions{Storage: s.app.Storage})
	s.Equal(before, len(second.Repository.GetAllQuestions(s.ctx)))
	second.stop()
}

// Test: New wires a SQLite-backed app that survives a restart
func (s *IntegrationSuite) TestNewWithSQLite() {
	path := filepath.Join(s.T().TempDir(), "couples.db")
	cfg := Config{StorageType: StorageTypeSQLite, DBPath: path}

	app, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	_, err = app.SetupController.StartSoloMode(s.ctx, "Ala")
	s.Require().NoError(err)
	s.Require().NoError(app.Close())

	reopened, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	defer func() { s.Require().NoError(reopened.Close()) }()

	cfgRow := reopened.Repository.GetPlayerConfig(s.ctx)
	s.Require().NotNil(cfgRow)
	s.Equal("Ala", cfgRow.PlayerName)
	s.Equal(model.SetupMethodSolo, cfgRow.SetupMethod)
	s.Equal(seed.DefaultDeck().QuestionCount(), len(reopened.Repository.GetAllQuestions(s.ctx)))
}

// Test: New wires a Redis-backed app whose data outlives the app
func (s *IntegrationSuite) TestNewWithRedis() {
	mini := miniredis.RunT(s.T())
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()
	cfg := Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg}

	app, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	_, err = app.SetupController.StartSoloMode(s.ctx, "Ala")
	s.Require().NoError(err)
	s.Require().NoError(app.Close())

	reopened, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	defer func() { s.Require().NoError(reopened.Close()) }()

	cfgRow := reopened.Repository.GetPlayerConfig(s.ctx)
	s.Require().NotNil(cfgRow)
	s.Equal("Ala", cfgRow.PlayerName)
	s.Equal(seed.DefaultDeck().QuestionCount(), len(reopened.Repository.GetAllQuestions(s.ctx)))
}

func (s *IntegrationSuite) TestNewRejectsInvalidConfig() {
	_, err := New(s.ctx, Config{StorageType: "postgres"})
	s.Error(err)

	_, err = New(s.ctx, Config{StorageType: StorageTypeSQLite})
	s.Error(err)

	_, err = New(s.ctx, Config{StorageType: StorageTypeRedis})
	s.Error(err)

	_, err = New(s.ctx, Config{DeviceType: "pager"})
	s.ErrorIs(err, model.ErrInvalidDeviceType)

	_, err = New(s.ctx, Config{DeckPath: filepath.Join(s.T().TempDir(), "missing.yaml")})
	s.Error(err)
}
