package messaging

import (
	"time"

	"github.com/KirkDiggler/tenzies/internal/dice"
)

// ErrorType categorises errors shown to players
type ErrorType string

const (
	ErrorTypeGameNotFound     ErrorType = "game_not_found"
	ErrorTypeGameAlreadyWon   ErrorType = "game_already_won"
	ErrorTypeInvalidGameState ErrorType = "invalid_game_state"
	ErrorTypeRateLimited      ErrorType = "rate_limited"
	ErrorTypeUnknown          ErrorType = "unknown"
)

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// DiceRoller picks among the candidate messages
	DiceRoller dice.Roller
}

// GetGameStartedMessageInput contains parameters for a game started message
type GetGameStartedMessageInput struct {
	PlayerName string
}

// GetGameStartedMessageOutput contains the game started message
type GetGameStartedMessageOutput struct {
	Message string
}

// GetRollResultMessageInput contains parameters for a roll result message
type GetRollResultMessageInput struct {
	// HeldCount is the number of held dice after the roll
	HeldCount int

	// Rolls is the number of rolls so far
	Rolls int

	// NewGame is true when the roll dealt a new game
	NewGame bool
}

// GetRollResultMessageOutput contains the roll result message
type GetRollResultMessageOutput struct {
	Message string
}

// GetWinMessageInput contains parameters for the win message
type GetWinMessageInput struct {
	PlayerName   string
	Rolls        int
	Duration     time.Duration
	PersonalBest bool
}

// GetWinMessageOutput contains the win title and message
type GetWinMessageOutput struct {
	Title   string
	Message string
}

// GetErrorMessageInput contains parameters for an error message
type GetErrorMessageInput struct {
	// ErrorType is the type of error
	ErrorType ErrorType
}

// GetErrorMessageOutput contains the error message
type GetErrorMessageOutput struct {
	Message string
}
