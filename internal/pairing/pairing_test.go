package pairing

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/couplecards/internal/dependencies/mocks"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/repository"
	"github.com/mcoot/couplecards/internal/services/seed"
	"github.com/mcoot/couplecards/internal/services/setup"
	"github.com/mcoot/couplecards/internal/storage/memory"
	"github.com/mcoot/couplecards/internal/testutil"
)

type PairingSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	channel *RedisChannel
	ctx     context.Context
}

func TestPairingSuite(t *testing.T) {
	suite.Run(t, new(PairingSuite))
}

func (s *PairingSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PayloadTTL = time.Minute
	cfg.AwaitTimeout = 200 * time.Millisecond

	s.channel = NewRedisChannelWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *PairingSuite) TearDownTest() {
	if s.channel != nil {
		_ = s.channel.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *PairingSuite) payload() Payload {
	return Payload{PlayerName: "Alice", PartnerName: "Bob", PartnerID: "bob-id"}
}

// Code tests

func (s *PairingSuite) TestNewCode() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("ABC234")
	s.Equal(Code("ABC234"), NewCode(rnd))
}

func (s *PairingSuite) TestParseCode() {
	code, err := ParseCode(" abc234 ")
	s.Require().NoError(err)
	s.Equal(Code("ABC234"), code)

	_, err = ParseCode("ABC")
	s.ErrorIs(err, ErrInvalidCode)

	_, err = ParseCode("ABC10O")
	s.ErrorIs(err, ErrInvalidCode)
}

// Channel tests

func (s *PairingSuite) TestOfferThenAwait() {
	s.Require().NoError(s.channel.Offer(s.ctx, "ABC234", s.payload()))

	got, err := s.channel.Await(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(s.payload(), got)
}

func (s *PairingSuite) TestOfferSetsTTL() {
	s.Require().NoError(s.channel.Offer(s.ctx, "ABC234", s.payload()))

	s.True(s.mini.Exists("couples:pair:ABC234"))
	s.Equal(time.Minute, s.mini.TTL("couples:pair:ABC234"))

	s.mini.FastForward(2 * time.Minute)
	s.False(s.mini.Exists("couples:pair:ABC234"))
}

func (s *PairingSuite) TestOfferRejectsIncompletePayload() {
	err := s.channel.Offer(s.ctx, "ABC234", Payload{PlayerName: "Alice"})
	s.ErrorIs(err, ErrInvalidPayload)
	s.False(s.mini.Exists("couples:pair:ABC234"))
}

func (s *PairingSuite) TestAwaitBlocksUntilOffered() {
	done := make(chan Payload, 1)
	go func() {
		p, err := s.channel.Await(s.ctx, "ABC234")
		if err == nil {
			done <- p
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	s.Require().NoError(s.channel.Offer(s.ctx, "ABC234", s.payload()))

	select {
	case p, ok := <-done:
		s.Require().True(ok)
		s.Equal(s.payload(), p)
	case <-time.After(2 * time.Second):
		s.Fail("await did not return")
	}
}

func (s *PairingSuite) TestAwaitTimeout() {
	_, err := s.channel.Await(s.ctx, "ABC234")
	s.ErrorIs(err, ErrTimeout)
}

func (s *PairingSuite) TestAwaitRejectsCorruptPayload() {
	_, err := s.mini.RPush("couples:pair:ABC234", "{not json")
	s.Require().NoError(err)

	_, err = s.channel.Await(s.ctx, "ABC234")
	s.ErrorIs(err, ErrInvalidPayload)
}

func (s *PairingSuite) TestCodesAreIsolated() {
	s.Require().NoError(s.channel.Offer(s.ctx, "AAAAAA", s.payload()))

	_, err := s.channel.Await(s.ctx, "BBBBBB")
	s.ErrorIs(err, ErrTimeout)
}

// Listen tests

func (s *PairingSuite) newSetupController() *setup.Controller {
	repo := repository.New(memory.New(mocks.NewMockRandom()), testutil.NopLogger())
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	rnd.QueueUUID("alice-id")
	return setup.NewController(s.ctx, repo, seed.New(repo, seed.DefaultDeck(), clk, testutil.NopLogger()),
		model.DeviceTypeAndroid, clk, rnd, testutil.NopLogger())
}

func (s *PairingSuite) TestListenCompletesSetup() {
	ctrl := s.newSetupController()

	s.Require().NoError(s.channel.Offer(s.ctx, "ABC234", s.payload()))

	state, err := Listen(s.ctx, s.channel, "ABC234", ctrl, testutil.NopLogger())
	s.Require().NoError(err)
	s.Equal(setup.PhaseSuccess, state.Phase)
	s.Equal(model.PlayerID("alice-id"), state.Config.PlayerID)
	s.Equal(model.PlayerID("bob-id"), *state.Config.PartnerID)
	s.Equal(model.SetupMethodNFC, state.Config.SetupMethod)
}

func (s *PairingSuite) TestListenPrefersNameEnteredInNFCReady() {
	ctrl := s.newSetupController()
	_, err := ctrl.StartNFCSetup(s.ctx, "Ala")
	s.Require().NoError(err)

	s.Require().NoError(s.channel.Offer(s.ctx, "ABC234", s.payload()))

	state, err := Listen(s.ctx, s.channel, "ABC234", ctrl, testutil.NopLogger())
	s.Require().NoError(err)
	s.Equal(setup.PhaseSuccess, state.Phase)
	s.Equal("Ala", state.Config.PlayerName)
	s.Equal("Bob", *state.Config.PartnerName)
}

func (s *PairingSuite) TestListenPropagatesTimeout() {
	_, err := Listen(s.ctx, s.channel, "ABC234", nil, testutil.NopLogger())
	s.ErrorIs(err, ErrTimeout)
}
