package messaging

import (
	"context"
	"testing"
	"time"

	diceMocks "github.com/KirkDiggler/tenzies/internal/dice/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockDiceRoller *diceMocks.MockRoller
	service        Service
	ctx            context.Context
}

func (s *MessagingServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockDiceRoller = diceMocks.NewMockRoller(s.mockCtrl)
	s.ctx = context.Background()

	svc, err := NewService(&ServiceConfig{DiceRoller: s.mockDiceRoller})
	s.Require().NoError(err)
	s.service = svc
}

func (s *MessagingServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestMessagingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}

// alwaysFirst makes every pick return the first candidate
func (s *MessagingServiceTestSuite) alwaysFirst() {
	s.mockDiceRoller.EXPECT().Roll(gomock.Any()).Return(1).AnyTimes()
}

func (s *MessagingServiceTestSuite) TestNewService_ValidatesConfig() {
	_, err := NewService(nil)
	s.Error(err)

	_, err = NewService(&ServiceConfig{})
	s.Error(err)
}

func (s *MessagingServiceTestSuite) TestGetGameStartedMessage() {
	s.alwaysFirst()

	output, err := s.service.GetGameStartedMessage(s.ctx, &GetGameStartedMessageInput{PlayerName: "Ada"})

	s.Require().NoError(err)
	s.Equal("Fresh dice, Ada! Pick a number and start holding.", output.Message)
}

func (s *MessagingServiceTestSuite) TestGetRollResultMessage_ByProgress() {
	testCases := []struct {
		name  string
		input *GetRollResultMessageInput
		want  string
	}{
		{"new game", &GetRollResultMessageInput{NewGame: true, HeldCount: 9}, "New game, new dice. Go get 'em!"},
		{"nothing held", &GetRollResultMessageInput{Rolls: 3}, "Click a die to hold it. Pick a number you like!"},
		{"nearly done", &GetRollResultMessageInput{HeldCount: 8, Rolls: 40}, "So close! Just a couple more."},
		{"long game", &GetRollResultMessageInput{HeldCount: 4, Rolls: 30}, "30 rolls and counting. The dice are testing your patience."},
		{"midway", &GetRollResultMessageInput{HeldCount: 4, Rolls: 5}, "Nice, keep them coming!"},
	}

	s.alwaysFirst()
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			output, err := s.service.GetRollResultMessage(s.ctx, tc.input)
			s.Require().NoError(err)
			s.Equal(tc.want, output.Message)
		})
	}
}

func (s *MessagingServiceTestSuite) TestGetRollResultMessage_UsesRoller() {
	s.mockDiceRoller.EXPECT().Roll(4).Return(2)

	output, err := s.service.GetRollResultMessage(s.ctx, &GetRollResultMessageInput{HeldCount: 3, Rolls: 2})

	s.Require().NoError(err)
	s.Equal("3 down, 7 to go.", output.Message)
}

func (s *MessagingServiceTestSuite) TestGetWinMessage() {
	s.alwaysFirst()

	output, err := s.service.GetWinMessage(s.ctx, &GetWinMessageInput{
		PlayerName: "Ada",
		Rolls:      12,
		Duration:   75 * time.Second,
	})

	s.Require().NoError(err)
	s.Equal("Tenzies!", output.Title)
	s.Equal("Ada got Tenzies in 12 rolls and 1 minute, 15 seconds.", output.Message)
}

func (s *MessagingServiceTestSuite) TestGetWinMessage_PersonalBest() {
	s.alwaysFirst()

	output, err := s.service.GetWinMessage(s.ctx, &GetWinMessageInput{
		Rolls:        1,
		Duration:     5 * time.Second,
		PersonalBest: true,
	})

	s.Require().NoError(err)
	s.Equal("New Personal Best!", output.Title)
	s.Equal("You got Tenzies in 1 roll and 5 seconds. That's a new personal best!", output.Message)
}

func (s *MessagingServiceTestSuite) TestGetErrorMessage() {
	s.alwaysFirst()

	for errorType, want := range map[ErrorType]string{
		ErrorTypeGameNotFound:   "You don't have a game going. Start one!",
		ErrorTypeGameAlreadyWon: "You already won this one! Hit New Game to play again.",
		ErrorTypeRateLimited:    "Whoa, slow down! The dice need a second.",
		ErrorType("mystery"):    "Something went wrong! Try again later.",
	} {
		output, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{ErrorType: errorType})
		s.Require().NoError(err)
		s.Equal(want, output.Message)
	}
}

func (s *MessagingServiceTestSuite) TestNilInput() {
	_, err := s.service.GetRollResultMessage(s.ctx, nil)
	s.Error(err)

	_, err = s.service.GetWinMessage(s.ctx, nil)
	s.Error(err)

	_, err = s.service.GetErrorMessage(s.ctx, nil)
	s.Error(err)
}
