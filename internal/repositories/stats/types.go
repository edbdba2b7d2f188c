package stats

import (
	"errors"
	"time"

	"github.com/KirkDiggler/tenzies/internal/models"
)

// ErrStatsNotFound is returned when a player has no recorded stats
var ErrStatsNotFound = errors.New("stats not found")

// DefaultLeaderboardLimit is used when a leaderboard request has no limit
const DefaultLeaderboardLimit = 10

// GetStatsInput contains parameters for retrieving stats
type GetStatsInput struct {
	PlayerID string
}

// RecordGameStartedInput contains parameters for counting a new game
type RecordGameStartedInput struct {
	PlayerID   string
	PlayerName string
}

// RecordWinInput contains parameters for recording a win
type RecordWinInput struct {
	PlayerID   string
	PlayerName string
	Rolls      int
	Duration   time.Duration
	WonAt      time.Time
}

// RecordWinOutput contains the result of recording a win
type RecordWinOutput struct {
	// Stats are the player's stats after the win
	Stats *models.PlayerStats

	// PersonalBest is true when this win replaced the player's best
	PersonalBest bool
}

// GetLeaderboardInput contains parameters for retrieving the leaderboard
type GetLeaderboardInput struct {
	Limit int
}

func applyGameStarted(stats *models.PlayerStats, input *RecordGameStartedInput) {
	stats.PlayerID = input.PlayerID
	if input.PlayerName != "" {
		stats.PlayerName = input.PlayerName
	}
	stats.GamesStarted++
}

// applyWin updates stats in place and reports whether the win is a new best
func applyWin(stats *models.PlayerStats, input *RecordWinInput) bool {
	best := stats.IsBetter(input.Rolls, input.Duration)

	stats.PlayerID = input.PlayerID
	if input.PlayerName != "" {
		stats.PlayerName = input.PlayerName
	}
	stats.GamesWon++
	stats.TotalRolls += input.Rolls
	stats.LastWonAt = input.WonAt
	if best {
		stats.BestRolls = input.Rolls
		stats.BestDuration = input.Duration
	}
	return best
}

func validateWin(input *RecordWinInput) error {
	if input == nil || input.PlayerID == "" {
		return errors.New("input and player ID cannot be empty")
	}
	if input.Rolls < 0 || input.Duration < 0 {
		return errors.New("rolls and duration cannot be negative")
	}
	return nil
}

func leaderboardLimit(input *GetLeaderboardInput) int {
	if input == nil || input.Limit <= 0 {
		return DefaultLeaderboardLimit
	}
	return input.Limit
}

func toEntry(rank int, s *models.PlayerStats) *models.LeaderboardEntry {
	return &models.LeaderboardEntry{
		Rank:         rank,
		PlayerID:     s.PlayerID,
		PlayerName:   s.PlayerName,
		BestRolls:    s.BestRolls,
		BestDuration: s.BestDuration,
		GamesWon:     s.GamesWon,
	}
}
