package terminal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/tenzies/internal/common/clock/mocks"
	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/KirkDiggler/tenzies/internal/services/game"
	gameMocks "github.com/KirkDiggler/tenzies/internal/services/game/mocks"
	"github.com/KirkDiggler/tenzies/internal/services/messaging"
	messagingMocks "github.com/KirkDiggler/tenzies/internal/services/messaging/mocks"
	"github.com/KirkDiggler/tenzies/internal/tenzies"
	"github.com/fatih/color"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ClientTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockGameService *gameMocks.MockService
	mockMessaging   *messagingMocks.MockService
	mockClock       *mocks.MockClock
	out             *bytes.Buffer
	ctx             context.Context
	testTime        time.Time
}

func (s *ClientTestSuite) SetupTest() {
	color.NoColor = true

	s.mockCtrl = gomock.NewController(s.T())
	s.mockGameService = gameMocks.NewMockService(s.mockCtrl)
	s.mockMessaging = messagingMocks.NewMockService(s.mockCtrl)
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.out = &bytes.Buffer{}
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
}

func (s *ClientTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) newClient(input string) *Client {
	client, err := New(&Config{
		GameService:      s.mockGameService,
		MessagingService: s.mockMessaging,
		Clock:            s.mockClock,
		PlayerID:         "terminal:ray",
		PlayerName:       "ray",
		In:               strings.NewReader(input),
		Out:              s.out,
	})
	s.Require().NoError(err)
	return client
}

func (s *ClientTestSuite) gameWith(value, held int) *models.Game {
	dice := make(tenzies.State, tenzies.DiceCount)
	for i := range dice {
		dice[i] = tenzies.Die{ID: fmt.Sprintf("die-%d", i), Value: value, IsHeld: i < held}
	}
	return &models.Game{
		ID:         "game-1",
		PlayerID:   "terminal:ray",
		PlayerName: "ray",
		Dice:       dice,
		Rolls:      4,
		CreatedAt:  s.testTime.Add(-30 * time.Second),
	}
}

func (s *ClientTestSuite) TestNew_ValidatesConfig() {
	_, err := New(nil)
	s.Error(err)

	_, err = New(&Config{GameService: s.mockGameService, MessagingService: s.mockMessaging, Clock: s.mockClock})
	s.Error(err, "missing player ID")
}

func (s *ClientTestSuite) TestRun_DealsWhenNoGame() {
	client := s.newClient("q\n")
	s.mockGameService.EXPECT().GetGame(gomock.Any(), &game.GetGameInput{PlayerID: "terminal:ray"}).
		Return(nil, game.ErrGameNotFound)
	s.mockGameService.EXPECT().StartGame(gomock.Any(), &game.StartGameInput{PlayerID: "terminal:ray", PlayerName: "ray"}).
		Return(&game.StartGameOutput{Game: s.gameWith(2, 0)}, nil)
	s.mockMessaging.EXPECT().GetGameStartedMessage(gomock.Any(), gomock.Any()).
		Return(&messaging.GetGameStartedMessageOutput{Message: "Good luck, ray!"}, nil)

	err := client.Run(s.ctx)

	s.Require().NoError(err)
	out := s.out.String()
	s.Contains(out, "New game")
	s.Contains(out, "Good luck, ray!")
	s.Contains(out, " 1) ⚁ 2")
	s.Contains(out, "10) ⚁ 2")
	s.Contains(out, "Rolls: 4  Held: 0/10  Time: 30 seconds")
}

func (s *ClientTestSuite) TestRun_ResumesGame() {
	client := s.newClient("")
	s.mockGameService.EXPECT().GetGame(gomock.Any(), gomock.Any()).
		Return(&game.GetGameOutput{Game: s.gameWith(4, 3)}, nil)

	err := client.Run(s.ctx)

	s.Require().NoError(err)
	out := s.out.String()
	s.Contains(out, "Welcome back")
	s.Contains(out, " 1) ⚃ 4*")
	s.Contains(out, " 4) ⚃ 4 ")
}

func (s *ClientTestSuite) TestRun_LoadFailure() {
	client := s.newClient("")
	s.mockGameService.EXPECT().GetGame(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))

	err := client.Run(s.ctx)

	s.ErrorContains(err, "failed to load game")
}

func (s *ClientTestSuite) TestExecute_EmptyLineRolls() {
	client := s.newClient("")
	s.mockGameService.EXPECT().RollDice(gomock.Any(), &game.RollDiceInput{PlayerID: "terminal:ray", PlayerName: "ray"}).
		Return(&game.RollDiceOutput{Game: s.gameWith(6, 1)}, nil)
	s.mockMessaging.EXPECT().GetRollResultMessage(gomock.Any(), &messaging.GetRollResultMessageInput{HeldCount: 1, Rolls: 4}).
		Return(&messaging.GetRollResultMessageOutput{Message: "One down"}, nil)

	quit, err := client.Execute(s.ctx, "  ")

	s.Require().NoError(err)
	s.False(quit)
	s.Contains(s.out.String(), "Rolled")
	s.Contains(s.out.String(), "One down")
}

func (s *ClientTestSuite) TestExecute_HoldPositions() {
	client := s.newClient("")
	client.game = s.gameWith(3, 0)

	first := s.gameWith(3, 0)
	first.Dice[1].IsHeld = true
	second := s.gameWith(3, 0)
	second.Dice[1].IsHeld = true
	second.Dice[4].IsHeld = true

	gomock.InOrder(
		s.mockGameService.EXPECT().ToggleHold(gomock.Any(), &game.ToggleHoldInput{PlayerID: "terminal:ray", DieID: "die-1"}).
			Return(&game.ToggleHoldOutput{Game: first}, nil),
		s.mockGameService.EXPECT().ToggleHold(gomock.Any(), &game.ToggleHoldInput{PlayerID: "terminal:ray", DieID: "die-4"}).
			Return(&game.ToggleHoldOutput{Game: second}, nil),
	)

	quit, err := client.Execute(s.ctx, "2 5")

	s.Require().NoError(err)
	s.False(quit)
	s.Contains(s.out.String(), "Held: 2/10")
	s.Equal(second, client.game)
}

func (s *ClientTestSuite) TestExecute_HoldWins() {
	client := s.newClient("")
	client.game = s.gameWith(5, 9)

	won := s.gameWith(5, tenzies.DiceCount)
	wonAt := s.testTime
	won.WonAt = &wonAt
	s.mockGameService.EXPECT().ToggleHold(gomock.Any(), &game.ToggleHoldInput{PlayerID: "terminal:ray", DieID: "die-9"}).
		Return(&game.ToggleHoldOutput{Game: won, JustWon: true, PersonalBest: true}, nil)
	s.mockMessaging.EXPECT().GetWinMessage(gomock.Any(), &messaging.GetWinMessageInput{
		PlayerName:   "ray",
		Rolls:        4,
		Duration:     30 * time.Second,
		PersonalBest: true,
	}).Return(&messaging.GetWinMessageOutput{Title: "Tenzies!", Message: "New personal best!"}, nil)

	_, err := client.Execute(s.ctx, "10")

	s.Require().NoError(err)
	out := s.out.String()
	s.Contains(out, "New personal best!")
	s.Contains(out, "Tenzies! You won in 4 rolls and 30 seconds.")
	s.Contains(out, `Type "n" for a new game.`)
}

func (s *ClientTestSuite) TestExecute_HoldBadPosition() {
	client := s.newClient("")
	client.game = s.gameWith(1, 0)

	_, err := client.Execute(s.ctx, "11")
	s.ErrorIs(err, ErrUnknownCommand)

	_, err = client.Execute(s.ctx, "0")
	s.ErrorIs(err, ErrUnknownCommand)

	_, err = client.Execute(s.ctx, "jump")
	s.ErrorIs(err, ErrUnknownCommand)
}

func (s *ClientTestSuite) TestExecute_HoldAfterWin() {
	client := s.newClient("")
	client.game = s.gameWith(5, tenzies.DiceCount)
	s.mockGameService.EXPECT().ToggleHold(gomock.Any(), gomock.Any()).Return(nil, game.ErrGameAlreadyWon)

	_, err := client.Execute(s.ctx, "1")

	s.ErrorIs(err, game.ErrGameAlreadyWon)
}

func (s *ClientTestSuite) TestExecute_Stats() {
	client := s.newClient("")
	s.mockGameService.EXPECT().GetStats(gomock.Any(), &game.GetStatsInput{PlayerID: "terminal:ray"}).
		Return(&game.GetStatsOutput{Stats: &models.PlayerStats{
			PlayerID:     "terminal:ray",
			GamesStarted: 3,
			GamesWon:     2,
			TotalRolls:   30,
			BestRolls:    12,
			BestDuration: 90 * time.Second,
		}}, nil)

	_, err := client.Execute(s.ctx, "stats")

	s.Require().NoError(err)
	out := s.out.String()
	s.Contains(out, "Stats for ray")
	s.Contains(out, "Games: 3  Wins: 2")
	s.Contains(out, "Best: 12 rolls in 1 minute, 30 seconds  Average: 15.0 rolls")
}

func (s *ClientTestSuite) TestExecute_Leaderboard() {
	client := s.newClient("")
	s.mockGameService.EXPECT().GetLeaderboard(gomock.Any(), &game.GetLeaderboardInput{}).
		Return(&game.GetLeaderboardOutput{Leaderboard: &models.Leaderboard{}}, nil)

	_, err := client.Execute(s.ctx, "L")

	s.Require().NoError(err)
	s.Contains(s.out.String(), "Nobody has won yet. Be the first!")
}

func (s *ClientTestSuite) TestExecute_AbandonQuits() {
	client := s.newClient("")
	client.game = s.gameWith(1, 0)
	s.mockGameService.EXPECT().AbandonGame(gomock.Any(), &game.AbandonGameInput{PlayerID: "terminal:ray"}).
		Return(&game.AbandonGameOutput{GameID: "game-1"}, nil)

	quit, err := client.Execute(s.ctx, "abandon")

	s.Require().NoError(err)
	s.True(quit)
	s.Nil(client.game)
}

func (s *ClientTestSuite) TestRun_PrintsFriendlyErrors() {
	client := s.newClient("s\nq\n")
	s.mockGameService.EXPECT().GetGame(gomock.Any(), gomock.Any()).
		Return(&game.GetGameOutput{Game: s.gameWith(1, 0)}, nil)
	s.mockGameService.EXPECT().GetStats(gomock.Any(), gomock.Any()).Return(nil, game.ErrInvalidInput)
	s.mockMessaging.EXPECT().GetErrorMessage(gomock.Any(), &messaging.GetErrorMessageInput{ErrorType: messaging.ErrorTypeUnknown}).
		Return(&messaging.GetErrorMessageOutput{Message: "The dice rolled off the table."}, nil)

	err := client.Run(s.ctx)

	s.Require().NoError(err)
	s.Contains(s.out.String(), "The dice rolled off the table.")
}

func (s *ClientTestSuite) pipeClient() (*Client, *io.PipeWriter) {
	pr, pw := io.Pipe()
	client, err := New(&Config{
		GameService:      s.mockGameService,
		MessagingService: s.mockMessaging,
		Clock:            s.mockClock,
		PlayerID:         "terminal:ray",
		PlayerName:       "ray",
		In:               pr,
		Out:              s.out,
	})
	s.Require().NoError(err)
	return client, pw
}

func (s *ClientTestSuite) TestRun_CancelWhileWaitingForInput() {
	client, pw := s.pipeClient()
	defer pw.Close()
	s.mockGameService.EXPECT().GetGame(gomock.Any(), gomock.Any()).
		Return(&game.GetGameOutput{Game: s.gameWith(1, 0)}, nil)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() {
		done <- client.Run(ctx)
	}()

	// Nothing is ever written, so Run is waiting on the reader
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("Run did not return after cancel")
	}
}

func (s *ClientTestSuite) TestRun_ReadsFromPipe() {
	client, pw := s.pipeClient()
	s.mockGameService.EXPECT().GetGame(gomock.Any(), gomock.Any()).
		Return(&game.GetGameOutput{Game: s.gameWith(1, 0)}, nil)
	s.mockGameService.EXPECT().GetLeaderboard(gomock.Any(), gomock.Any()).
		Return(&game.GetLeaderboardOutput{Leaderboard: &models.Leaderboard{}}, nil)

	done := make(chan error, 1)
	go func() {
		done <- client.Run(s.ctx)
	}()

	_, err := io.WriteString(pw, "l\nq\n")
	s.Require().NoError(err)

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("Run did not quit")
	}
	pw.Close()
	s.Contains(s.out.String(), "Nobody has won yet.")
}
