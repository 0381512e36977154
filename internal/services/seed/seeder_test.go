package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/couplecards/internal/dependencies/mocks"
	"github.com/mcoot/couplecards/internal/repository"
	"github.com/mcoot/couplecards/internal/storage/memory"
	"github.com/mcoot/couplecards/internal/storage/storagetest"
	"github.com/mcoot/couplecards/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type SeederSuite struct {
	suite.Suite
	faulty *storagetest.Faulty
	repo   *repository.Repository
	clock  *mocks.MockClock
	ctx    context.Context
}

func TestSeederSuite(t *testing.T) {
	suite.Run(t, new(SeederSuite))
}

func (s *SeederSuite) SetupTest() {
	s.faulty = storagetest.NewFaulty(memory.New(mocks.NewMockRandom()))
	s.repo = repository.New(s.faulty, testutil.NopLogger())
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
}

func (s *SeederSuite) seeder(deck Deck) *Seeder {
	return New(s.repo, deck, s.clock, testutil.NopLogger())
}

func (s *SeederSuite) TestDefaultDeckContents() {
	deck := DefaultDeck()
	s.Len(deck.Categories, 8)
	s.Equal(100, deck.QuestionCount())
	s.Equal("Marzenia & Aspiracje", deck.Categories[0].Name)
	s.Equal("🌟", deck.Categories[0].Emoji)
	s.Equal("Neuroatypowość", deck.Categories[7].Name)
	s.Equal("🧩", deck.Categories[7].Emoji)
}

func (s *SeederSuite) TestSeedEmptyStore() {
	result, err := s.seeder(DefaultDeck()).Seed(s.ctx)
	s.Require().NoError(err)

	s.False(result.Skipped)
	s.Equal(8, result.Categories)
	s.Equal(100, result.Questions)

	categories := s.repo.GetAllCategories(s.ctx)
	s.Require().Len(categories, 8)
	s.Equal("Marzenia & Aspiracje", categories[0].Name)
	s.Equal("Flirt", categories[5].Name)
}

func (s *SeederSuite) TestSeedAssignsQuestionsToCategoriesInOrder() {
	deck := Deck{Categories: []DeckCategory{
		{Name: "Dreams", Emoji: "🌟", Questions: []string{"D1", "D2"}},
		{Name: "Fun", Emoji: "😄", Questions: []string{"F1"}},
	}}
	_, err := s.seeder(deck).Seed(s.ctx)
	s.Require().NoError(err)

	byName := map[string]int64{}
	for _, c := range s.repo.GetAllCategories(s.ctx) {
		byName[c.Name] = int64(c.ID)
	}
	questions := s.repo.GetAllQuestions(s.ctx)
	s.Require().Len(questions, 3)
	s.Equal("D1", questions[0].Text)
	s.Equal(byName["Dreams"], int64(questions[0].CategoryID))
	s.Equal("D2", questions[1].Text)
	s.Equal("F1", questions[2].Text)
	s.Equal(byName["Fun"], int64(questions[2].CategoryID))
}

func (s *SeederSuite) TestSeedStampsCreatedAtWithNow() {
	deck := Deck{Categories: []DeckCategory{{Name: "Dreams", Emoji: "🌟", Questions: []string{"D1"}}}}
	_, err := s.seeder(deck).Seed(s.ctx)
	s.Require().NoError(err)

	questions := s.repo.GetAllQuestions(s.ctx)
	s.Require().Len(questions, 1)
	s.Equal(s.clock.Now().UnixMilli(), questions[0].CreatedAt)
}

func (s *SeederSuite) TestSeedTwiceIsIdempotent() {
	seeder := s.seeder(DefaultDeck())
	_, err := seeder.Seed(s.ctx)
	s.Require().NoError(err)
	categories := len(s.repo.GetAllCategories(s.ctx))
	questions := len(s.repo.GetAllQuestions(s.ctx))

	result, err := seeder.Seed(s.ctx)
	s.Require().NoError(err)
	s.True(result.Skipped)
	s.Equal(categories, len(s.repo.GetAllCategories(s.ctx)))
	s.Equal(questions, len(s.repo.GetAllQuestions(s.ctx)))
}

func (s *SeederSuite) TestPartialSeedIsTreatedAsSeeded() {
	s.repo.InsertCategory(s.ctx, "Dreams", "🌟")

	result, err := s.seeder(DefaultDeck()).Seed(s.ctx)
	s.Require().NoError(err)
	s.True(result.Skipped)
	s.Len(s.repo.GetAllCategories(s.ctx), 1)
	s.Empty(s.repo.GetAllQuestions(s.ctx))
}

func (s *SeederSuite) TestQuestionInsertFailuresDoNotAbort() {
	s.faulty.FailOn(storagetest.OpInsertQuestion)

	result, err := s.seeder(DefaultDeck()).Seed(s.ctx)
	s.Require().NoError(err)
	s.Equal(8, result.Categories)
	s.Equal(0, result.Questions)
}

func (s *SeederSuite) TestMissingCategorySkipsItsQuestions() {
	// Category inserts fail, so the fresh read finds nothing to attach questions to
	s.faulty.FailOn(storagetest.OpInsertCategory)

	result, err := s.seeder(DefaultDeck()).Seed(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, result.Categories)
	s.Equal(0, result.Questions)
	s.Equal(0, s.faulty.Calls(storagetest.OpInsertQuestion))
}

func (s *SeederSuite) TestCancelledContextAbortsSeeding() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.seeder(DefaultDeck()).Seed(ctx)
	s.ErrorIs(err, context.Canceled)
}

// Deck tests

func (s *SeederSuite) TestParseDeck() {
	deck, err := ParseDeck(strings.NewReader(`
categories:
  - name: Dreams
    emoji: "🌟"
    questions:
      - First?
      - Second?
`))
	s.Require().NoError(err)
	s.Require().Len(deck.Categories, 1)
	s.Equal([]string{"First?", "Second?"}, deck.Categories[0].Questions)
}

func (s *SeederSuite) TestParseDeckRejectsInvalid() {
	_, err := ParseDeck(strings.NewReader("categories: []\n"))
	s.ErrorIs(err, ErrEmptyDeck)

	_, err = ParseDeck(strings.NewReader("categories:\n  - name: \" \"\n"))
	s.ErrorIs(err, ErrBlankCategoryName)

	_, err = ParseDeck(strings.NewReader("categories:\n  - name: A\n  - name: A\n"))
	s.ErrorIs(err, ErrDuplicateCategory)

	_, err = ParseDeck(strings.NewReader("categories:\n  - name: A\n    colour: red\n"))
	s.Error(err)
}

func (s *SeederSuite) TestLoadDeckFromFile() {
	path := filepath.Join(s.T().TempDir(), "deck.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("categories:\n  - name: Custom\n    emoji: x\n    questions: [Q]\n"), 0o600))

	deck, err := LoadDeck(path)
	s.Require().NoError(err)
	s.Equal("Custom", deck.Categories[0].Name)

	deck, err = LoadDeck("")
	s.Require().NoError(err)
	s.Len(deck.Categories, 8)

	_, err = LoadDeck(filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)
}
