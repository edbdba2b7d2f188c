package models

import (
	"time"
)

// PlayerStats tracks a player's results across games
type PlayerStats struct {
	// PlayerID identifies the player
	PlayerID string

	// PlayerName is the display name of the player
	PlayerName string

	// GamesStarted counts dealt games
	GamesStarted int

	// GamesWon counts won games
	GamesWon int

	// TotalRolls sums the rolls of every won game
	TotalRolls int

	// BestRolls is the fewest rolls in a won game, zero until the first win
	BestRolls int

	// BestDuration is the duration of the best game
	BestDuration time.Duration

	// LastWonAt is when the player last won
	LastWonAt time.Time
}

// HasWon returns true once the player has won at least one game
func (p *PlayerStats) HasWon() bool {
	return p.GamesWon > 0
}

// IsBetter reports whether a game with the given rolls and duration beats the
// player's best. Fewer rolls win; ties go to the shorter game.
func (p *PlayerStats) IsBetter(rolls int, duration time.Duration) bool {
	if !p.HasWon() {
		return true
	}
	if rolls != p.BestRolls {
		return rolls < p.BestRolls
	}
	return duration < p.BestDuration
}

// AverageRolls is the mean roll count over won games
func (p *PlayerStats) AverageRolls() float64 {
	if p.GamesWon == 0 {
		return 0
	}
	return float64(p.TotalRolls) / float64(p.GamesWon)
}
