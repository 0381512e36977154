// Package storagetest holds behaviour tests shared by every storage implementation.
package storagetest

import (
	"context"

	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/storage"
	"github.com/stretchr/testify/suite"
)

// Suite exercises the storage.Storage contract. Embed it and set NewStorage.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Ctx = context.Background()
	s.Storage = s.NewStorage()
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.Storage.Close())
}

func (s *Suite) insertCategory(name, emoji string) model.CategoryID {
	id, err := s.Storage.InsertCategory(s.Ctx, name, emoji)
	s.Require().NoError(err)
	return id
}

func (s *Suite) insertQuestion(categoryID model.CategoryID, text string, createdAt int64) model.QuestionID {
	id, err := s.Storage.InsertQuestion(s.Ctx, categoryID, text, createdAt)
	s.Require().NoError(err)
	return id
}

func (s *Suite) insertHistory(categoryID model.CategoryID, askedAt int64, firstTouch bool) model.HistoryID {
	id, err := s.Storage.InsertHistory(s.Ctx, model.QuestionHistory{
		QuestionID:    1,
		QuestionText:  "Q",
		CategoryID:    categoryID,
		CategoryName:  "Dreams",
		CategoryEmoji: "🌟",
		AskedAt:       askedAt,
		YourTurn:      true,
		IsFirstTouch:  firstTouch,
	})
	s.Require().NoError(err)
	return id
}

// Category tests

func (s *Suite) TestListCategoriesEmpty() {
	categories, err := s.Storage.ListCategories(s.Ctx)
	s.Require().NoError(err)
	s.Empty(categories)
}

func (s *Suite) TestCategoriesKeepInsertionOrder() {
	s.insertCategory("Dreams", "🌟")
	s.insertCategory("Memories", "📸")
	s.insertCategory("Future", "🔮")

	categories, err := s.Storage.ListCategories(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 3)
	s.Equal("Dreams", categories[0].Name)
	s.Equal("🌟", categories[0].Emoji)
	s.Equal("Memories", categories[1].Name)
	s.Equal("Future", categories[2].Name)
}

func (s *Suite) TestInsertCategoryReturnsDistinctIDs() {
	a := s.insertCategory("A", "a")
	b := s.insertCategory("B", "b")
	s.NotEqual(a, b)
}

func (s *Suite) TestInsertDuplicateCategoryFails() {
	s.insertCategory("Dreams", "🌟")

	_, err := s.Storage.InsertCategory(s.Ctx, "Dreams", "✨")
	s.ErrorIs(err, storage.ErrDuplicateCategory)

	categories, err := s.Storage.ListCategories(s.Ctx)
	s.Require().NoError(err)
	s.Len(categories, 1)
}

func (s *Suite) TestInsertBlankCategoryFails() {
	_, err := s.Storage.InsertCategory(s.Ctx, "", "❓")
	s.ErrorIs(err, storage.ErrBlankCategoryName)

	categories, err := s.Storage.ListCategories(s.Ctx)
	s.Require().NoError(err)
	s.Empty(categories)
}

func (s *Suite) TestDeleteAllCategories() {
	s.insertCategory("Dreams", "🌟")

	s.Require().NoError(s.Storage.DeleteAllCategories(s.Ctx))
	// Deleting an empty table is a no-op
	s.Require().NoError(s.Storage.DeleteAllCategories(s.Ctx))

	categories, err := s.Storage.ListCategories(s.Ctx)
	s.Require().NoError(err)
	s.Empty(categories)
}

// Question tests

func (s *Suite) TestInsertAndListQuestions() {
	catID := s.insertCategory("Dreams", "🌟")
	s.insertQuestion(catID, "Q1", 1000)
	s.insertQuestion(catID, "Q2", 2000)

	questions, err := s.Storage.ListQuestions(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(questions, 2)
	s.Equal("Q1", questions[0].Text)
	s.Equal(catID, questions[0].CategoryID)
	s.Equal(int64(1000), questions[0].CreatedAt)
	s.Equal("Q2", questions[1].Text)
}

func (s *Suite) TestInsertQuestionUnknownCategoryFails() {
	_, err := s.Storage.InsertQuestion(s.Ctx, 999, "orphan", 1000)
	s.ErrorIs(err, storage.ErrUnknownCategory)

	questions, err := s.Storage.ListQuestions(s.Ctx)
	s.Require().NoError(err)
	s.Empty(questions)
}

func (s *Suite) TestRandomQuestionEmptyReturnsNil() {
	q, err := s.Storage.RandomQuestion(s.Ctx)
	s.Require().NoError(err)
	s.Nil(q)
}

func (s *Suite) TestRandomQuestionSingleCandidate() {
	catID := s.insertCategory("Dreams", "🌟")
	qID := s.insertQuestion(catID, "Q1", 1000)

	q, err := s.Storage.RandomQuestion(s.Ctx)
	s.Require().NoError(err)
	s.Require().NotNil(q)
	s.Equal(qID, q.ID)
	s.Equal("Q1", q.Text)
}

func (s *Suite) TestRandomQuestionReturnsKnownQuestion() {
	catID := s.insertCategory("Dreams", "🌟")
	ids := map[model.QuestionID]bool{
		s.insertQuestion(catID, "Q1", 1000): true,
		s.insertQuestion(catID, "Q2", 1000): true,
		s.insertQuestion(catID, "Q3", 1000): true,
	}

	for i := 0; i < 10; i++ {
		q, err := s.Storage.RandomQuestion(s.Ctx)
		s.Require().NoError(err)
		s.Require().NotNil(q)
		s.True(ids[q.ID])
	}
}

func (s *Suite) TestDeleteAllQuestions() {
	catID := s.insertCategory("Dreams", "🌟")
	s.insertQuestion(catID, "Q1", 1000)

	s.Require().NoError(s.Storage.DeleteAllQuestions(s.Ctx))

	questions, err := s.Storage.ListQuestions(s.Ctx)
	s.Require().NoError(err)
	s.Empty(questions)
	categories, err := s.Storage.ListCategories(s.Ctx)
	s.Require().NoError(err)
	s.Len(categories, 1)
}

// Player config tests

func (s *Suite) TestGetPlayerConfigAbsent() {
	cfg, err := s.Storage.GetPlayerConfig(s.Ctx)
	s.Require().NoError(err)
	s.Nil(cfg)
}

func (s *Suite) TestReplacePlayerConfigRoundTrip() {
	partnerID := model.PlayerID("partner-1")
	partnerName := "Bob"
	cfg := model.PlayerConfig{
		PlayerID:    "player-1",
		PlayerName:  "Alice",
		PartnerID:   &partnerID,
		PartnerName: &partnerName,
		DeviceType:  model.DeviceTypeAndroid,
		SetupMethod: model.SetupMethodManual,
		SetupDate:   1700000000000,
	}

	s.Require().NoError(s.Storage.ReplacePlayerConfig(s.Ctx, cfg))

	got, err := s.Storage.GetPlayerConfig(s.Ctx)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(cfg, *got)
}

func (s *Suite) TestReplacePlayerConfigSolo() {
	cfg := model.PlayerConfig{
		PlayerID:    "player-1",
		PlayerName:  "Alice",
		DeviceType:  model.DeviceTypeIOS,
		SetupMethod: model.SetupMethodSolo,
		SetupDate:   5,
	}
	s.Require().NoError(s.Storage.ReplacePlayerConfig(s.Ctx, cfg))

	got, err := s.Storage.GetPlayerConfig(s.Ctx)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Nil(got.PartnerID)
	s.Nil(got.PartnerName)
	s.False(got.HasPartner())
}

func (s *Suite) TestReplacePlayerConfigReplacesPrevious() {
	s.Require().NoError(s.Storage.ReplacePlayerConfig(s.Ctx, model.PlayerConfig{
		PlayerID: "old", PlayerName: "Old", DeviceType: model.DeviceTypeAndroid, SetupMethod: model.SetupMethodSolo,
	}))
	s.Require().NoError(s.Storage.ReplacePlayerConfig(s.Ctx, model.PlayerConfig{
		PlayerID: "new", PlayerName: "New", DeviceType: model.DeviceTypeAndroid, SetupMethod: model.SetupMethodSolo,
	}))

	got, err := s.Storage.GetPlayerConfig(s.Ctx)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(model.PlayerID("new"), got.PlayerID)
	s.Equal("New", got.PlayerName)
}

func (s *Suite) TestDeletePlayerConfig() {
	s.Require().NoError(s.Storage.ReplacePlayerConfig(s.Ctx, model.PlayerConfig{
		PlayerID: "p", PlayerName: "P", DeviceType: model.DeviceTypeAndroid, SetupMethod: model.SetupMethodSolo,
	}))

	s.Require().NoError(s.Storage.DeletePlayerConfig(s.Ctx))

	got, err := s.Storage.GetPlayerConfig(s.Ctx)
	s.Require().NoError(err)
	s.Nil(got)
}

// History tests

func (s *Suite) TestHistoryMostRecentFirst() {
	s.insertHistory(1, 1000, false)
	s.insertHistory(1, 3000, false)
	s.insertHistory(1, 2000, false)

	entries, err := s.Storage.ListHistory(s.Ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(int64(3000), entries[0].AskedAt)
	s.Equal(int64(2000), entries[1].AskedAt)
	s.Equal(int64(1000), entries[2].AskedAt)
}

func (s *Suite) TestHistoryZeroAndNegativeLimit() {
	for i := int64(0); i < 3; i++ {
		s.insertHistory(1, 1000+i, false)
	}

	entries, err := s.Storage.ListHistory(s.Ctx, 0)
	s.Require().NoError(err)
	s.Empty(entries)

	entries, err = s.Storage.ListHistory(s.Ctx, -1)
	s.Require().NoError(err)
	s.Len(entries, 3)
}

func (s *Suite) TestHistoryLimit() {
	for i := int64(0); i < 5; i++ {
		s.insertHistory(1, 1000+i, false)
	}

	entries, err := s.Storage.ListHistory(s.Ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(int64(1004), entries[0].AskedAt)
	s.Equal(int64(1003), entries[1].AskedAt)
}

func (s *Suite) TestHistoryEqualTimestampsNewestInsertFirst() {
	first := s.insertHistory(1, 1000, false)
	second := s.insertHistory(1, 1000, false)

	entries, err := s.Storage.ListHistory(s.Ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(second, entries[0].ID)
	s.Equal(first, entries[1].ID)
}

func (s *Suite) TestHistoryBooleansRoundTrip() {
	_, err := s.Storage.InsertHistory(s.Ctx, model.QuestionHistory{
		QuestionID: 7, QuestionText: "Q7", CategoryID: 2, CategoryName: "Fun", CategoryEmoji: "🎉",
		AskedAt: 10, YourTurn: false, IsFirstTouch: true,
	})
	s.Require().NoError(err)

	entries, err := s.Storage.ListHistory(s.Ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	h := entries[0]
	s.Equal(model.QuestionID(7), h.QuestionID)
	s.Equal("Q7", h.QuestionText)
	s.Equal(model.CategoryID(2), h.CategoryID)
	s.Equal("Fun", h.CategoryName)
	s.Equal("🎉", h.CategoryEmoji)
	s.False(h.YourTurn)
	s.True(h.IsFirstTouch)
}

func (s *Suite) TestHistoryByCategory() {
	s.insertHistory(1, 1000, false)
	s.insertHistory(2, 2000, false)
	s.insertHistory(1, 3000, false)

	entries, err := s.Storage.ListHistoryByCategory(s.Ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	for _, e := range entries {
		s.Equal(model.CategoryID(1), e.CategoryID)
	}
	s.Equal(int64(3000), entries[0].AskedAt)
}

func (s *Suite) TestFirstTouchEntry() {
	s.insertHistory(1, 1000, false)
	id := s.insertHistory(1, 2000, true)

	entry, err := s.Storage.FirstTouchEntry(s.Ctx)
	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal(id, entry.ID)
}

func (s *Suite) TestFirstTouchEntryEarliestWins() {
	early := s.insertHistory(1, 1000, true)
	s.insertHistory(1, 2000, true)

	entry, err := s.Storage.FirstTouchEntry(s.Ctx)
	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal(early, entry.ID)
}

func (s *Suite) TestFirstTouchEntryAbsent() {
	s.insertHistory(1, 1000, false)

	entry, err := s.Storage.FirstTouchEntry(s.Ctx)
	s.Require().NoError(err)
	s.Nil(entry)
}

func (s *Suite) TestDeleteAllHistory() {
	s.insertHistory(1, 1000, true)

	s.Require().NoError(s.Storage.DeleteAllHistory(s.Ctx))

	entries, err := s.Storage.ListHistory(s.Ctx, 10)
	s.Require().NoError(err)
	s.Empty(entries)
	entry, err := s.Storage.FirstTouchEntry(s.Ctx)
	s.Require().NoError(err)
	s.Nil(entry)
}
