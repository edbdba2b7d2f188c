package stats

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/tenzies/internal/repositories/stats Repository

import (
	"context"

	"github.com/KirkDiggler/tenzies/internal/models"
)

// Repository defines the interface for player statistics persistence
type Repository interface {
	// GetStats retrieves a player's stats
	GetStats(ctx context.Context, input *GetStatsInput) (*models.PlayerStats, error)

	// RecordGameStarted counts a newly dealt game
	RecordGameStarted(ctx context.Context, input *RecordGameStartedInput) error

	// RecordWin counts a won game and updates the player's best
	RecordWin(ctx context.Context, input *RecordWinInput) (*RecordWinOutput, error)

	// GetLeaderboard returns the best players, best first
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*models.Leaderboard, error)
}
