package discord

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/tenzies/internal/common/clock/mocks"
	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/KirkDiggler/tenzies/internal/services/game"
	gameMocks "github.com/KirkDiggler/tenzies/internal/services/game/mocks"
	"github.com/KirkDiggler/tenzies/internal/services/messaging"
	messagingMocks "github.com/KirkDiggler/tenzies/internal/services/messaging/mocks"
	"github.com/KirkDiggler/tenzies/internal/tenzies"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BotTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockGameService *gameMocks.MockService
	mockMessaging   *messagingMocks.MockService
	mockClock       *mocks.MockClock
	bot             *Bot
	command         *TenziesCommand
	ctx             context.Context
	testTime        time.Time
	testUserID      string
	testUsername    string
}

func (s *BotTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGameService = gameMocks.NewMockService(s.mockCtrl)
	s.mockMessaging = messagingMocks.NewMockService(s.mockCtrl)
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.ctx = context.Background()

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testUserID = "user-1"
	s.testUsername = "Lana"
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	bot, err := New(&Config{
		Token:            "test-token",
		GameService:      s.mockGameService,
		MessagingService: s.mockMessaging,
		Clock:            s.mockClock,
	})
	s.Require().NoError(err)
	s.bot = bot
	s.command = NewTenziesCommand(bot)
}

func (s *BotTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBotTestSuite(t *testing.T) {
	suite.Run(t, new(BotTestSuite))
}

func (s *BotTestSuite) newGame(value, held int) *models.Game {
	dice := make(tenzies.State, tenzies.DiceCount)
	for i := range dice {
		dice[i] = tenzies.Die{ID: fmt.Sprintf("die-%d", i), Value: value, IsHeld: i < held}
	}
	return &models.Game{
		ID:         "game-1",
		PlayerID:   s.testUserID,
		PlayerName: s.testUsername,
		Dice:       dice,
		Rolls:      6,
		CreatedAt:  s.testTime.Add(-2 * time.Minute),
	}
}

func (s *BotTestSuite) TestNew_ValidatesConfig() {
	_, err := New(nil)
	s.Error(err)

	_, err = New(&Config{GameService: s.mockGameService})
	s.Error(err, "missing token")

	_, err = New(&Config{Token: "t", GameService: s.mockGameService, MessagingService: s.mockMessaging})
	s.Error(err, "missing clock")
}

func (s *BotTestSuite) TestCommandDefinition() {
	cmd := s.command.GetCommand()

	s.Equal("tenzies", cmd.Name)
	names := make([]string, 0, len(cmd.Options))
	for _, opt := range cmd.Options {
		names = append(names, opt.Name)
	}
	s.Equal([]string{"start", "stats", "leaderboard", "abandon"}, names)
}

func (s *BotTestSuite) TestRollResponse() {
	s.mockGameService.EXPECT().
		RollDice(gomock.Any(), &game.RollDiceInput{PlayerID: s.testUserID, PlayerName: s.testUsername}).
		Return(&game.RollDiceOutput{Game: s.newGame(3, 2)}, nil)
	s.mockMessaging.EXPECT().
		GetRollResultMessage(gomock.Any(), &messaging.GetRollResultMessageInput{HeldCount: 2, Rolls: 6}).
		Return(&messaging.GetRollResultMessageOutput{Message: "Keep going"}, nil)

	data, err := s.bot.rollResponse(s.ctx, s.testUserID, s.testUsername)

	s.Require().NoError(err)
	s.Require().Len(data.Embeds, 1)
	s.Equal("Tenzies", data.Embeds[0].Title)
	s.Equal("Keep going", data.Embeds[0].Description)
	s.Equal("2/10", data.Embeds[0].Fields[1].Value)
	s.Equal("2 minutes, 0 seconds", data.Embeds[0].Fields[2].Value)
	s.Len(data.Components, 3)
}

func (s *BotTestSuite) TestRollResponse_ServiceError() {
	expectedError := errors.New("boom")
	s.mockGameService.EXPECT().RollDice(gomock.Any(), gomock.Any()).Return(nil, expectedError)

	_, err := s.bot.rollResponse(s.ctx, s.testUserID, s.testUsername)

	s.ErrorIs(err, expectedError)
}

func (s *BotTestSuite) TestHoldResponse_Win() {
	won := s.newGame(5, tenzies.DiceCount)
	wonAt := s.testTime
	won.WonAt = &wonAt
	s.mockGameService.EXPECT().
		ToggleHold(gomock.Any(), &game.ToggleHoldInput{PlayerID: s.testUserID, DieID: "die-9"}).
		Return(&game.ToggleHoldOutput{Game: won, JustWon: true}, nil)
	s.mockMessaging.EXPECT().
		GetWinMessage(gomock.Any(), &messaging.GetWinMessageInput{
			PlayerName: s.testUsername,
			Rolls:      6,
			Duration:   2 * time.Minute,
		}).
		Return(&messaging.GetWinMessageOutput{Title: "Tenzies!", Message: "Lana got Tenzies"}, nil)

	data, err := s.bot.holdResponse(s.ctx, s.testUserID, "die-9")

	s.Require().NoError(err)
	embed := data.Embeds[0]
	s.Equal("Tenzies!", embed.Title)
	s.Equal("Lana got Tenzies", embed.Description)
	s.Equal(colorWon, embed.Color)
	s.Require().NotNil(embed.Footer)
	s.Contains(embed.Footer.Text, "You won in 6 rolls")

	action := data.Components[2].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	s.Equal("New Game", action.Label)
	die := data.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	s.True(die.Disabled)
}

func (s *BotTestSuite) TestHoldResponse_AlreadyWon() {
	s.mockGameService.EXPECT().ToggleHold(gomock.Any(), gomock.Any()).Return(nil, game.ErrGameAlreadyWon)

	_, err := s.bot.holdResponse(s.ctx, s.testUserID, "die-1")

	s.ErrorIs(err, game.ErrGameAlreadyWon)
}

func (s *BotTestSuite) TestErrorMessage() {
	s.mockMessaging.EXPECT().
		GetErrorMessage(gomock.Any(), &messaging.GetErrorMessageInput{ErrorType: messaging.ErrorTypeGameNotFound}).
		Return(&messaging.GetErrorMessageOutput{Message: "No game"}, nil)
	s.mockMessaging.EXPECT().
		GetErrorMessage(gomock.Any(), &messaging.GetErrorMessageInput{ErrorType: messaging.ErrorTypeUnknown}).
		Return(nil, errors.New("no messages"))

	s.Equal("No game", s.bot.errorMessage(s.ctx, game.ErrGameNotFound))
	s.Equal("Something went wrong! Try again later.", s.bot.errorMessage(s.ctx, errors.New("other")))
}

func (s *BotTestSuite) TestStartResponse() {
	s.mockGameService.EXPECT().
		StartGame(gomock.Any(), &game.StartGameInput{PlayerID: s.testUserID, PlayerName: s.testUsername}).
		Return(&game.StartGameOutput{Game: s.newGame(1, 0)}, nil)
	s.mockMessaging.EXPECT().GetGameStartedMessage(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("no messages"))

	data, err := s.command.startResponse(s.ctx, s.testUserID, s.testUsername)

	s.Require().NoError(err)
	s.Equal(discordgo.MessageFlagsEphemeral, data.Flags)
	s.Equal("Tenzies", data.Embeds[0].Title)
	s.Empty(data.Embeds[0].Description)
}

func (s *BotTestSuite) TestStatsResponse() {
	s.mockGameService.EXPECT().
		GetStats(gomock.Any(), &game.GetStatsInput{PlayerID: s.testUserID}).
		Return(&game.GetStatsOutput{Stats: &models.PlayerStats{PlayerID: s.testUserID}}, nil)

	data, err := s.command.statsResponse(s.ctx, s.testUserID, s.testUsername)

	s.Require().NoError(err)
	s.Equal("Tenzies stats for Lana", data.Embeds[0].Title)
	s.Equal("No wins yet. Keep rolling!", data.Embeds[0].Description)
}

func (s *BotTestSuite) TestLeaderboardResponse() {
	s.mockGameService.EXPECT().
		GetLeaderboard(gomock.Any(), &game.GetLeaderboardInput{Limit: 5}).
		Return(&game.GetLeaderboardOutput{Leaderboard: &models.Leaderboard{
			Entries: []*models.LeaderboardEntry{
				{Rank: 1, PlayerName: "Lana", BestRolls: 8, BestDuration: 70 * time.Second},
				{Rank: 2, PlayerName: "Archer", BestRolls: 11, BestDuration: 30 * time.Second},
			},
		}}, nil)

	data, err := s.command.leaderboardResponse(s.ctx, 5)

	s.Require().NoError(err)
	s.Equal("**1.** Lana: 8 rolls (1 minute, 10 seconds)\n**2.** Archer: 11 rolls (30 seconds)", data.Embeds[0].Description)
	s.Zero(data.Flags, "leaderboard is public")
}

func (s *BotTestSuite) TestAbandonResponse() {
	s.mockGameService.EXPECT().
		AbandonGame(gomock.Any(), &game.AbandonGameInput{PlayerID: s.testUserID}).
		Return(&game.AbandonGameOutput{GameID: "game-1"}, nil)

	data, err := s.command.abandonResponse(s.ctx, s.testUserID)

	s.Require().NoError(err)
	s.Equal("Game abandoned. Use `/tenzies start` to play again.", data.Content)
}
