package game

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/tenzies/internal/services/game Service

import "context"

// Service defines the interface for game operations
type Service interface {
	// StartGame deals a fresh game for a player, replacing any current one
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// GetGame returns the player's current game
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// RollDice rerolls the unheld dice, or starts a new game when there is
	// nothing left to roll for
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)

	// ToggleHold flips the held flag of one die
	ToggleHold(ctx context.Context, input *ToggleHoldInput) (*ToggleHoldOutput, error)

	// AbandonGame throws away the player's current game
	AbandonGame(ctx context.Context, input *AbandonGameInput) (*AbandonGameOutput, error)

	// GetStats returns a player's stats
	GetStats(ctx context.Context, input *GetStatsInput) (*GetStatsOutput, error)

	// GetLeaderboard returns the best players
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
