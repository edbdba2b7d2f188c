package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/tenzies/internal/common/clock/mocks"
	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/KirkDiggler/tenzies/internal/tenzies"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type MemoryRepositoryTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *mocks.MockClock
	repo      *MemoryRepository
	testNow   time.Time
}

func (s *MemoryRepositoryTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)

	repo, err := NewMemory(&MemoryConfig{Clock: s.mockClock})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *MemoryRepositoryTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestMemoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositoryTestSuite))
}

func (s *MemoryRepositoryTestSuite) newGame(id, playerID string, updatedAt time.Time) *models.Game {
	dice := make(tenzies.State, tenzies.DiceCount)
	for i := range dice {
		dice[i] = tenzies.Die{ID: fmt.Sprintf("%s-%d", id, i), Value: 1}
	}
	return &models.Game{
		ID:        id,
		PlayerID:  playerID,
		Dice:      dice,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

func (s *MemoryRepositoryTestSuite) TestNewMemoryValidatesConfig() {
	_, err := NewMemory(nil)
	s.Error(err)

	_, err = NewMemory(&MemoryConfig{})
	s.Error(err)
}

func (s *MemoryRepositoryTestSuite) TestSaveAndGet() {
	game := s.newGame("g1", "p1", s.testNow)
	s.Require().NoError(s.repo.SaveGame(context.Background(), &SaveGameInput{Game: game}))

	byID, err := s.repo.GetGame(context.Background(), &GetGameInput{GameID: "g1"})
	s.Require().NoError(err)
	s.Equal(game, byID)

	byPlayer, err := s.repo.GetGameByPlayer(context.Background(), &GetGameByPlayerInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal("g1", byPlayer.ID)
}

func (s *MemoryRepositoryTestSuite) TestStoredGameIsIsolatedFromCaller() {
	game := s.newGame("g1", "p1", s.testNow)
	s.Require().NoError(s.repo.SaveGame(context.Background(), &SaveGameInput{Game: game}))

	// mutate the caller's copy after saving
	game.Dice[0].IsHeld = true
	game.Rolls = 99

	stored, err := s.repo.GetGame(context.Background(), &GetGameInput{GameID: "g1"})
	s.Require().NoError(err)
	s.False(stored.Dice[0].IsHeld)
	s.Zero(stored.Rolls)

	// and mutating a fetched copy does not leak back either
	stored.Dice[1].IsHeld = true
	again, err := s.repo.GetGame(context.Background(), &GetGameInput{GameID: "g1"})
	s.Require().NoError(err)
	s.False(again.Dice[1].IsHeld)
}

func (s *MemoryRepositoryTestSuite) TestNotFound() {
	_, err := s.repo.GetGame(context.Background(), &GetGameInput{GameID: "missing"})
	s.ErrorIs(err, ErrGameNotFound)

	_, err = s.repo.GetGameByPlayer(context.Background(), &GetGameByPlayerInput{PlayerID: "missing"})
	s.ErrorIs(err, ErrGameNotFound)

	s.ErrorIs(s.repo.DeleteGame(context.Background(), &DeleteGameInput{GameID: "missing"}), ErrGameNotFound)
}

func (s *MemoryRepositoryTestSuite) TestDeleteGame() {
	s.Require().NoError(s.repo.SaveGame(context.Background(), &SaveGameInput{Game: s.newGame("g1", "p1", s.testNow)}))

	s.Require().NoError(s.repo.DeleteGame(context.Background(), &DeleteGameInput{GameID: "g1"}))

	_, err := s.repo.GetGameByPlayer(context.Background(), &GetGameByPlayerInput{PlayerID: "p1"})
	s.ErrorIs(err, ErrGameNotFound)
	s.Zero(s.repo.Len())
}

func (s *MemoryRepositoryTestSuite) TestPruneIdle() {
	s.mockClock.EXPECT().Now().Return(s.testNow)

	s.Require().NoError(s.repo.SaveGame(context.Background(), &SaveGameInput{
		Game: s.newGame("stale", "p1", s.testNow.Add(-3*time.Hour)),
	}))
	s.Require().NoError(s.repo.SaveGame(context.Background(), &SaveGameInput{
		Game: s.newGame("fresh", "p2", s.testNow.Add(-time.Minute)),
	}))

	removed := s.repo.PruneIdle(context.Background(), 2*time.Hour)

	s.Equal(1, removed)
	s.Equal(1, s.repo.Len())
	_, err := s.repo.GetGameByPlayer(context.Background(), &GetGameByPlayerInput{PlayerID: "p1"})
	s.ErrorIs(err, ErrGameNotFound)
	_, err = s.repo.GetGameByPlayer(context.Background(), &GetGameByPlayerInput{PlayerID: "p2"})
	s.NoError(err)
}
