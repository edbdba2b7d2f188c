package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/tenzies/internal/dice"
	"github.com/KirkDiggler/tenzies/internal/view"
)

// service implements the Service interface
type service struct {
	roller dice.Roller
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (*service, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if config.DiceRoller == nil {
		return nil, errors.New("dice roller cannot be nil")
	}

	return &service{
		roller: config.DiceRoller,
	}, nil
}

// GetGameStartedMessage returns a message for a freshly dealt game
func (s *service) GetGameStartedMessage(ctx context.Context, input *GetGameStartedMessageInput) (*GetGameStartedMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	name := input.PlayerName
	if name == "" {
		name = "friend"
	}

	messages := []string{
		fmt.Sprintf("Fresh dice, %s! Pick a number and start holding.", name),
		fmt.Sprintf("Ten dice, one goal. Good luck, %s!", name),
		"Roll until all dice are the same. Click a die to freeze it between rolls.",
		fmt.Sprintf("New game! Which number are you chasing this time, %s?", name),
		"The dice are cast. Well, they will be. Hit Roll!",
	}

	return &GetGameStartedMessageOutput{
		Message: s.pick(messages),
	}, nil
}

// GetRollResultMessage returns flavour text for a roll based on how many dice are held
func (s *service) GetRollResultMessage(ctx context.Context, input *GetRollResultMessageInput) (*GetRollResultMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var messages []string

	switch {
	case input.NewGame:
		messages = []string{
			"New game, new dice. Go get 'em!",
			"Back at it! Ten fresh dice.",
			"Clean slate. Pick your number.",
		}
	case input.HeldCount == 0:
		messages = []string{
			"Click a die to hold it. Pick a number you like!",
			"No dice held yet. Commit to a number!",
			"Rolling everything? Bold. Try holding a few.",
		}
	case input.HeldCount >= 8:
		messages = []string{
			"So close! Just a couple more.",
			"Almost there, don't blink!",
			fmt.Sprintf("%d held. You can smell the Tenzies.", input.HeldCount),
		}
	case input.Rolls >= 25:
		messages = []string{
			fmt.Sprintf("%d rolls and counting. The dice are testing your patience.", input.Rolls),
			"Persistence pays. Eventually.",
			"Keep rolling, they can't stay stubborn forever.",
		}
	default:
		messages = []string{
			"Nice, keep them coming!",
			fmt.Sprintf("%d down, %d to go.", input.HeldCount, 10-input.HeldCount),
			"Steady progress. Roll again!",
			"The dice are warming up to you.",
		}
	}

	return &GetRollResultMessageOutput{
		Message: s.pick(messages),
	}, nil
}

// GetWinMessage returns the celebration shown when a player gets Tenzies
func (s *service) GetWinMessage(ctx context.Context, input *GetWinMessageInput) (*GetWinMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	name := input.PlayerName
	if name == "" {
		name = "You"
	}
	rolls := fmt.Sprintf("%d roll", input.Rolls)
	if input.Rolls != 1 {
		rolls += "s"
	}
	took := view.FormatDuration(input.Duration)

	var titles, messages []string
	if input.PersonalBest {
		titles = []string{
			"New Personal Best!",
			"Record Broken!",
			"Best Game Yet!",
		}
		messages = []string{
			fmt.Sprintf("%s got Tenzies in %s and %s. That's a new personal best!", name, rolls, took),
			fmt.Sprintf("Only %s! %s just beat their own record.", rolls, name),
		}
	} else {
		titles = []string{
			"Tenzies!",
			"You Won!",
			"All Ten!",
		}
		messages = []string{
			fmt.Sprintf("%s got Tenzies in %s and %s.", name, rolls, took),
			fmt.Sprintf("Ten of a kind after %s. Nicely done, %s!", rolls, name),
			fmt.Sprintf("%s and %s well spent. Play again?", rolls, took),
		}
	}

	return &GetWinMessageOutput{
		Title:   s.pick(titles),
		Message: s.pick(messages),
	}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var messages []string

	switch input.ErrorType {
	case ErrorTypeGameNotFound:
		messages = []string{
			"You don't have a game going. Start one!",
			"No dice on the table. Start a new game first.",
		}
	case ErrorTypeGameAlreadyWon:
		messages = []string{
			"You already won this one! Hit New Game to play again.",
			"This game is over. The dice are frozen in glory.",
		}
	case ErrorTypeInvalidGameState:
		messages = []string{
			"This game got scrambled. Start a fresh one.",
			"Something's off with these dice. Try a new game.",
		}
	case ErrorTypeRateLimited:
		messages = []string{
			"Whoa, slow down! The dice need a second.",
			"Easy there, speedy. Try again in a moment.",
		}
	default:
		messages = []string{
			"Something went wrong! Try again later.",
			"Oops! The dice got confused. Try again.",
		}
	}

	return &GetErrorMessageOutput{
		Message: s.pick(messages),
	}, nil
}

// pick returns a random message
func (s *service) pick(messages []string) string {
	return messages[s.roller.Roll(len(messages))-1]
}
