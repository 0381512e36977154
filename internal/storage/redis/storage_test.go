package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/couplecards/internal/dependencies/mocks"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/storage"
	"github.com/mcoot/couplecards/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini   *miniredis.Miniredis
	random *mocks.MockRandom
	hook   *failingTxHook
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage {
		s.mini = miniredis.RunT(s.T())
		s.random = mocks.NewMockRandom()
		s.hook = &failingTxHook{}
		client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
		client.AddHook(s.hook)
		return NewWithClient(client, s.random)
	}
	suite.Run(t, s)
}

var errTxFailed = errors.New("exec failed")

// failingTxHook fails pipelined writes while enabled; single commands pass through
type failingTxHook struct {
	enabled atomic.Bool
}

func (h *failingTxHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *failingTxHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h *failingTxHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if h.enabled.Load() {
			return errTxFailed
		}
		return next(ctx, cmds)
	}
}

func (s *StorageSuite) TestFailedCategoryWriteReleasesName() {
	s.hook.enabled.Store(true)
	_, err := s.Storage.InsertCategory(s.Ctx, "Dreams", "🌟")
	s.Require().ErrorIs(err, errTxFailed)
	s.Empty(s.mini.HGet(categoryNameIndexKey(), "Dreams"))

	s.hook.enabled.Store(false)
	id, err := s.Storage.InsertCategory(s.Ctx, "Dreams", "🌟")
	s.Require().NoError(err)

	categories, err := s.Storage.ListCategories(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 1)
	s.Equal(id, categories[0].ID)
}

func (s *StorageSuite) TestRandomQuestionUsesInjectedRandom() {
	catID, err := s.Storage.InsertCategory(s.Ctx, "Dreams", "🌟")
	s.Require().NoError(err)
	for _, text := range []string{"Q1", "Q2", "Q3"} {
		_, err := s.Storage.InsertQuestion(s.Ctx, catID, text, 1000)
		s.Require().NoError(err)
	}
	s.random.QueueIntn(2, 0)

	q, err := s.Storage.RandomQuestion(s.Ctx)
	s.Require().NoError(err)
	s.Equal("Q3", q.Text)

	q, err = s.Storage.RandomQuestion(s.Ctx)
	s.Require().NoError(err)
	s.Equal("Q1", q.Text)
}

func (s *StorageSuite) TestDeleteAllCategoriesCascadesToQuestions() {
	catID, err := s.Storage.InsertCategory(s.Ctx, "Dreams", "🌟")
	s.Require().NoError(err)
	_, err = s.Storage.InsertQuestion(s.Ctx, catID, "Q1", 1000)
	s.Require().NoError(err)

	s.Require().NoError(s.Storage.DeleteAllCategories(s.Ctx))

	questions, err := s.Storage.ListQuestions(s.Ctx)
	s.Require().NoError(err)
	s.Empty(questions)
	s.False(s.mini.Exists(questionKey(1)))
}

func (s *StorageSuite) TestDuplicateCategoryLeavesNoRecord() {
	_, err := s.Storage.InsertCategory(s.Ctx, "Dreams", "🌟")
	s.Require().NoError(err)
	_, err = s.Storage.InsertCategory(s.Ctx, "Dreams", "💭")
	s.ErrorIs(err, storage.ErrDuplicateCategory)

	categories, err := s.Storage.ListCategories(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 1)
	s.Equal("🌟", categories[0].Emoji)
}

func (s *StorageSuite) TestDeleteAllHistoryClearsCategoryIndexes() {
	_, err := s.Storage.InsertHistory(s.Ctx, model.QuestionHistory{CategoryID: 4, AskedAt: 1000, IsFirstTouch: true})
	s.Require().NoError(err)

	s.Require().NoError(s.Storage.DeleteAllHistory(s.Ctx))

	s.False(s.mini.Exists(historyForCategoryIndexKey(4)))
	s.False(s.mini.Exists(firstTouchIndexKey()))
	s.False(s.mini.Exists(historyKey(1)))
}

func (s *StorageSuite) TestHistoryMemberOrdersNumerically() {
	s.Less(historyMember(9), historyMember(10))
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(Config{URL: "not-a-url"}, mocks.NewMockRandom())
	require.Error(t, err)
}

func TestNewPingsServer(t *testing.T) {
	mini := miniredis.RunT(t)
	cfg := DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()

	store, err := New(cfg, mocks.NewMockRandom())
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
