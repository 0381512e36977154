package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/couplecards/internal/api"
	"github.com/mcoot/couplecards/internal/factory"
	"github.com/mcoot/couplecards/internal/testutil"
)

type CLISuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:            testutil.NopLogger(),
		Repository:        s.app.Repository,
		SetupController:   s.app.SetupController,
		GameController:    s.app.GameController,
		HistoryController: s.app.HistoryController,
		Events:            s.app.Events,
		Random:            s.app.Random,
	}))
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
	s.Require().NoError(s.app.Close())
}

func (s *CLISuite) run(format string, args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", s.server.URL, "--output", format}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (s *CLISuite) runJSON(v any, args ...string) {
	out, err := s.run(OutputJSON, args...)
	s.Require().NoError(err, out)
	s.Require().NoError(json.Unmarshal([]byte(out), v), out)
}

func (s *CLISuite) TestHealth() {
	var result HealthResult
	s.runJSON(&result, "health")
	s.Equal("ok", result.Status)

	out, err := s.run(OutputText, "health")
	s.Require().NoError(err)
	s.Contains(out, "Status: ok\n")
	s.Contains(out, "Pairing: unavailable\n")
}

func (s *CLISuite) TestSetupManual() {
	s.app.MockRandom.QueueUUID("player-1", "partner-1")

	var state SetupState
	s.runJSON(&state, "setup", "manual", "Ala", "Olek")
	s.Equal("success", state.Phase)
	s.Require().NotNil(state.Config)
	s.Equal("player-1", state.Config.PlayerID)
	s.Require().NotNil(state.Config.PartnerName)
	s.Equal("Olek", *state.Config.PartnerName)

	out, err := s.run(OutputText, "setup", "status")
	s.Require().NoError(err)
	s.Contains(out, "Phase: success")
	s.Contains(out, "Player: Ala (player-1)")
	s.Contains(out, "Partner: Olek (partner-1)")
}

func (s *CLISuite) TestSetupValidationError() {
	_, err := s.run(OutputJSON, "setup", "solo", " ")
	s.Require().Error(err)
	s.Contains(err.Error(), "Player name cannot be empty")
	s.Contains(err.Error(), "INVALID_REQUEST")

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusBadRequest, apiErr.Status)
	s.True(IsAPIError(err, "INVALID_REQUEST"))
}

func (s *CLISuite) TestSetupNFCReceiveAndReset() {
	var state SetupState
	s.runJSON(&state, "setup", "nfc", "Ala")
	s.Equal("nfc_ready", state.Phase)
	s.Equal("Ala", state.PlayerName)

	s.runJSON(&state, "setup", "receive", "Ala", "Olek", "olek-id")
	s.Equal("success", state.Phase)
	s.Equal("nfc", state.Config.SetupMethod)

	s.runJSON(&state, "setup", "reset")
	s.Equal("initial", state.Phase)
}

func (s *CLISuite) TestPairingUnavailable() {
	_, err := s.run(OutputJSON, "setup", "offer", "Ola", "Ala", "ala-id")
	s.Require().Error(err)
	s.Contains(err.Error(), "PAIRING_UNAVAILABLE")
}

func (s *CLISuite) TestGameAndHistory() {
	var game GameState
	s.runJSON(&game, "game", "show")
	s.Require().NotNil(game.CurrentQuestion)
	questionText := game.CurrentQuestion.Text

	s.runJSON(&game, "game", "record", "--first-touch")
	s.True(game.ShowFirstTouchAnimation)

	var hist HistoryState
	s.runJSON(&hist, "history", "list")
	s.Require().Len(hist.Entries, 1)
	s.Equal(questionText, hist.Entries[0].QuestionText)
	s.True(hist.Entries[0].IsFirstTouch)

	out, err := s.run(OutputText, "history", "list")
	s.Require().NoError(err)
	s.Contains(out, "Entries (1):")
	s.Contains(out, "[first touch]")

	s.runJSON(&hist, "history", "list", "--category", "999")
	s.Empty(hist.Entries)
	s.Require().NotNil(hist.SelectedCategoryID)

	s.runJSON(&hist, "history", "list", "--all")
	s.Len(hist.Entries, 1)

	s.runJSON(&hist, "history", "clear")
	s.Empty(hist.Entries)

	s.runJSON(&game, "game", "next")
	s.NotNil(game.CurrentQuestion)
}

func (s *CLISuite) TestCategories() {
	var list CategoryList
	s.runJSON(&list, "categories")
	s.Len(list.Categories, 8)

	out, err := s.run(OutputText, "categories")
	s.Require().NoError(err)
	s.Contains(out, list.Categories[0].Name)
}

func (s *CLISuite) TestInvalidOutputFormat() {
	_, err := s.run("yaml", "health")
	s.Error(err)
}
