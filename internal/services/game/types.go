package game

import (
	"github.com/KirkDiggler/tenzies/internal/common/clock"
	"github.com/KirkDiggler/tenzies/internal/common/uuid"
	"github.com/KirkDiggler/tenzies/internal/dice"
	"github.com/KirkDiggler/tenzies/internal/models"
	gameRepo "github.com/KirkDiggler/tenzies/internal/repositories/game"
	statsRepo "github.com/KirkDiggler/tenzies/internal/repositories/stats"
)

const (
	// DefaultLeaderboardLimit is used when no limit is requested
	DefaultLeaderboardLimit = 10

	// MaxLeaderboardLimit caps leaderboard requests
	MaxLeaderboardLimit = 50
)

// Config holds configuration for the game service
type Config struct {
	// Repository dependencies
	GameRepo  gameRepo.Repository
	StatsRepo statsRepo.Repository

	// Service dependencies
	DiceRoller    dice.Roller
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// StartGameInput contains parameters for starting a game
type StartGameInput struct {
	// PlayerID is the Discord user ID or web session ID of the player
	PlayerID string

	// PlayerName is the display name of the player
	PlayerName string
}

// StartGameOutput contains the freshly dealt game
type StartGameOutput struct {
	Game *models.Game
}

// GetGameInput contains parameters for fetching a player's game
type GetGameInput struct {
	PlayerID string
}

// GetGameOutput contains the player's current game
type GetGameOutput struct {
	Game *models.Game
}

// RollDiceInput contains parameters for rolling dice
type RollDiceInput struct {
	// PlayerID is the player rolling
	PlayerID string

	// PlayerName is used if a new game has to be started
	PlayerName string
}

// RollDiceOutput contains the result of rolling dice
type RollDiceOutput struct {
	// Game is the game after the roll
	Game *models.Game

	// NewGame is true when the roll started a new game instead of rolling
	NewGame bool
}

// ToggleHoldInput contains parameters for holding or releasing a die
type ToggleHoldInput struct {
	PlayerID string
	DieID    string
}

// ToggleHoldOutput contains the result of a hold toggle
type ToggleHoldOutput struct {
	// Game is the game after the toggle
	Game *models.Game

	// JustWon is true when this toggle completed the game
	JustWon bool

	// PersonalBest is true when the win beat the player's previous best
	PersonalBest bool

	// Stats are the player's stats after a win, nil otherwise
	Stats *models.PlayerStats
}

// AbandonGameInput contains parameters for abandoning a game
type AbandonGameInput struct {
	PlayerID string
}

// AbandonGameOutput contains the result of abandoning a game
type AbandonGameOutput struct {
	// GameID is the ID of the discarded game
	GameID string
}

// GetStatsInput contains parameters for fetching stats
type GetStatsInput struct {
	PlayerID string
}

// GetStatsOutput contains a player's stats
type GetStatsOutput struct {
	Stats *models.PlayerStats
}

// GetLeaderboardInput contains parameters for fetching the leaderboard
type GetLeaderboardInput struct {
	// Limit is the number of entries, defaulted and capped by the service
	Limit int
}

// GetLeaderboardOutput contains the leaderboard
type GetLeaderboardOutput struct {
	Leaderboard *models.Leaderboard
}
