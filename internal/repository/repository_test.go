package repository

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mcoot/couplecards/internal/dependencies/mocks"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/storage/memory"
	"github.com/mcoot/couplecards/internal/storage/storagetest"
	"github.com/mcoot/couplecards/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	inner  *memory.Storage
	faulty *storagetest.Faulty
	logs   *testutil.LogRecorder
	repo   *Repository
	ctx    context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.inner = memory.New(mocks.NewMockRandom())
	s.faulty = storagetest.NewFaulty(s.inner)
	var logger *slog.Logger
	s.logs, logger = testutil.NewLogRecorder()
	s.repo = New(s.faulty, logger)
	s.ctx = context.Background()
}

func (s *RepositorySuite) failures() int {
	return s.logs.Count(slog.LevelError, "storage operation failed")
}

// Category tests

func (s *RepositorySuite) TestCategoriesRoundTrip() {
	s.repo.InsertCategory(s.ctx, "Dreams", "🌟")
	s.repo.InsertCategory(s.ctx, "Memories", "📸")

	categories := s.repo.GetAllCategories(s.ctx)
	s.Require().Len(categories, 2)
	s.Equal("Dreams", categories[0].Name)
	s.Equal("Memories", categories[1].Name)
}

func (s *RepositorySuite) TestDuplicateCategorySwallowedAndLogged() {
	s.repo.InsertCategory(s.ctx, "Dreams", "🌟")
	s.repo.InsertCategory(s.ctx, "Dreams", "✨")

	s.Len(s.repo.GetAllCategories(s.ctx), 1)
	s.Equal(1, s.failures())
}

func (s *RepositorySuite) TestGetAllCategoriesFailureReturnsEmpty() {
	s.repo.InsertCategory(s.ctx, "Dreams", "🌟")
	s.faulty.FailOn(storagetest.OpListCategories)

	categories := s.repo.GetAllCategories(s.ctx)
	s.NotNil(categories)
	s.Empty(categories)
	s.Equal(1, s.failures())
}

func (s *RepositorySuite) TestDeleteAllCategoriesOnEmptyStore() {
	s.repo.DeleteAllCategories(s.ctx)
	s.Equal(0, s.failures())
}

// Question tests

func (s *RepositorySuite) TestRandomQuestionSingleCandidate() {
	s.repo.InsertCategory(s.ctx, "Dreams", "🌟")
	s.repo.InsertQuestion(s.ctx, 1, "Q1", 1000)

	q := s.repo.GetRandomQuestion(s.ctx)
	s.Require().NotNil(q)
	s.Equal("Q1", q.Text)
	s.Equal(model.CategoryID(1), q.CategoryID)
	s.Equal(int64(1000), q.CreatedAt)
}

func (s *RepositorySuite) TestRandomQuestionEmptyDeck() {
	s.Nil(s.repo.GetRandomQuestion(s.ctx))
	s.Equal(0, s.failures())
}

func (s *RepositorySuite) TestRandomQuestionFailureReturnsNil() {
	s.repo.InsertCategory(s.ctx, "Dreams", "🌟")
	s.repo.InsertQuestion(s.ctx, 1, "Q1", 1000)
	s.faulty.FailOn(storagetest.OpRandomQuestion)

	s.Nil(s.repo.GetRandomQuestion(s.ctx))
	s.Equal(1, s.failures())
}

func (s *RepositorySuite) TestInsertQuestionUnknownCategoryIsSilent() {
	s.repo.InsertQuestion(s.ctx, 42, "orphan", 1000)

	s.Empty(s.repo.GetAllQuestions(s.ctx))
	s.Equal(1, s.failures())
}

func (s *RepositorySuite) TestGetAllQuestionsFailureReturnsEmpty() {
	s.faulty.FailOn(storagetest.OpListQuestions)
	s.Empty(s.repo.GetAllQuestions(s.ctx))
}

func (s *RepositorySuite) TestDeleteAllQuestions() {
	s.repo.InsertCategory(s.ctx, "Dreams", "🌟")
	s.repo.InsertQuestion(s.ctx, 1, "Q1", 1000)

	s.repo.DeleteAllQuestions(s.ctx)
	s.Empty(s.repo.GetAllQuestions(s.ctx))
}

// Player config tests

func (s *RepositorySuite) TestSavePlayerConfigRoundTrip() {
	partnerID := model.PlayerID("partner")
	partnerName := "Bob"
	s.repo.SavePlayerConfig(s.ctx, "player", "Alice", &partnerID, &partnerName,
		model.DeviceTypeAndroid, model.SetupMethodManual, 1234)

	cfg := s.repo.GetPlayerConfig(s.ctx)
	s.Require().NotNil(cfg)
	s.Equal(model.PlayerConfig{
		PlayerID:    "player",
		PlayerName:  "Alice",
		PartnerID:   &partnerID,
		PartnerName: &partnerName,
		DeviceType:  model.DeviceTypeAndroid,
		SetupMethod: model.SetupMethodManual,
		SetupDate:   1234,
	}, *cfg)
}

func (s *RepositorySuite) TestSavePlayerConfigReplacesPrior() {
	s.repo.SavePlayerConfig(s.ctx, "first", "Alice", nil, nil, model.DeviceTypeAndroid, model.SetupMethodSolo, 1)
	s.repo.SavePlayerConfig(s.ctx, "second", "Carol", nil, nil, model.DeviceTypeIOS, model.SetupMethodSolo, 2)

	cfg := s.repo.GetPlayerConfig(s.ctx)
	s.Require().NotNil(cfg)
	s.Equal(model.PlayerID("second"), cfg.PlayerID)
	s.Equal("Carol", cfg.PlayerName)
}

func (s *RepositorySuite) TestSavePlayerConfigFailureKeepsPrevious() {
	s.repo.SavePlayerConfig(s.ctx, "first", "Alice", nil, nil, model.DeviceTypeAndroid, model.SetupMethodSolo, 1)
	s.faulty.FailOn(storagetest.OpReplacePlayerConfig)

	s.repo.SavePlayerConfig(s.ctx, "second", "Carol", nil, nil, model.DeviceTypeAndroid, model.SetupMethodSolo, 2)

	cfg := s.repo.GetPlayerConfig(s.ctx)
	s.Require().NotNil(cfg)
	s.Equal(model.PlayerID("first"), cfg.PlayerID)
	s.Equal(1, s.failures())
}

func (s *RepositorySuite) TestGetPlayerConfigFailureReturnsNil() {
	s.repo.SavePlayerConfig(s.ctx, "p", "Alice", nil, nil, model.DeviceTypeAndroid, model.SetupMethodSolo, 1)
	s.faulty.FailOn(storagetest.OpGetPlayerConfig)

	s.Nil(s.repo.GetPlayerConfig(s.ctx))
}

func (s *RepositorySuite) TestDeletePlayerConfig() {
	s.repo.SavePlayerConfig(s.ctx, "p", "Alice", nil, nil, model.DeviceTypeAndroid, model.SetupMethodSolo, 1)
	s.repo.DeletePlayerConfig(s.ctx)
	s.Nil(s.repo.GetPlayerConfig(s.ctx))
}

// History tests

func (s *RepositorySuite) insertHistory(categoryID model.CategoryID, askedAt int64) {
	s.repo.InsertQuestionHistory(s.ctx, 1, "Q", categoryID, "Dreams", "🌟", askedAt, true, false)
}

func (s *RepositorySuite) TestHistoryLimitAndOrder() {
	for i := int64(1); i <= 5; i++ {
		s.insertHistory(1, i*1000)
	}

	entries := s.repo.GetQuestionHistory(s.ctx, 3)
	s.Require().Len(entries, 3)
	s.Equal(int64(5000), entries[0].AskedAt)
	s.Equal(int64(4000), entries[1].AskedAt)
	s.Equal(int64(3000), entries[2].AskedAt)
}

func (s *RepositorySuite) TestHistoryDefaultLimit() {
	for i := int64(0); i < DefaultHistoryLimit+5; i++ {
		s.insertHistory(1, i)
	}

	s.Len(s.repo.GetQuestionHistory(s.ctx, -1), DefaultHistoryLimit)
	s.Empty(s.repo.GetQuestionHistory(s.ctx, 0))
}

func (s *RepositorySuite) TestHistoryByCategory() {
	s.insertHistory(1, 1000)
	s.insertHistory(2, 2000)
	s.insertHistory(1, 3000)

	entries := s.repo.GetHistoryByCategory(s.ctx, 2)
	s.Require().Len(entries, 1)
	s.Equal(model.CategoryID(2), entries[0].CategoryID)
}

func (s *RepositorySuite) TestHistoryReadFailuresReturnEmpty() {
	s.insertHistory(1, 1000)
	s.faulty.FailOn(storagetest.OpListHistory, storagetest.OpListHistoryByCategory, storagetest.OpFirstTouchEntry)

	s.Empty(s.repo.GetQuestionHistory(s.ctx, 10))
	s.Empty(s.repo.GetHistoryByCategory(s.ctx, 1))
	s.Nil(s.repo.GetFirstTouchEntry(s.ctx))
	s.Equal(3, s.failures())
}

func (s *RepositorySuite) TestInsertHistoryFailureIsSilent() {
	s.faulty.FailOn(storagetest.OpInsertHistory)
	id := s.repo.InsertQuestionHistory(s.ctx, 1, "Q", 1, "Dreams", "🌟", 1000, true, false)
	s.Zero(id)

	s.faulty.Heal()
	s.Empty(s.repo.GetQuestionHistory(s.ctx, 10))
	s.Equal(1, s.failures())

	id = s.repo.InsertQuestionHistory(s.ctx, 1, "Q", 1, "Dreams", "🌟", 1000, true, false)
	s.NotZero(id)
}

func (s *RepositorySuite) TestLookupFirstTouchEntryReportsFailure() {
	entry, ok := s.repo.LookupFirstTouchEntry(s.ctx)
	s.True(ok)
	s.Nil(entry)

	s.faulty.FailOn(storagetest.OpFirstTouchEntry)
	entry, ok = s.repo.LookupFirstTouchEntry(s.ctx)
	s.False(ok)
	s.Nil(entry)
	s.Equal(1, s.failures())
}

func (s *RepositorySuite) TestFirstTouchEntry() {
	s.insertHistory(1, 1000)
	s.repo.InsertQuestionHistory(s.ctx, 2, "Q2", 1, "Dreams", "🌟", 2000, true, true)

	entry := s.repo.GetFirstTouchEntry(s.ctx)
	s.Require().NotNil(entry)
	s.Equal(model.QuestionID(2), entry.QuestionID)
	s.True(entry.IsFirstTouch)
}

func (s *RepositorySuite) TestDeleteHistory() {
	s.insertHistory(1, 1000)
	s.repo.DeleteHistory(s.ctx)
	s.Empty(s.repo.GetQuestionHistory(s.ctx, 10))
}

func (s *RepositorySuite) TestFailureLogIncludesOperation() {
	s.faulty.FailOn(storagetest.OpDeleteAllHistory)
	s.repo.DeleteHistory(s.ctx)

	records := s.logs.Records()
	s.Require().Len(records, 1)
	s.Equal("delete_history", records[0]["op"])
	s.Equal("repository", records[0]["component"])
	s.Equal(storagetest.ErrInjected.Error(), records[0]["error"])
}
