package models

import "time"

// LeaderboardEntry is one ranked player
type LeaderboardEntry struct {
	// Rank starts at 1
	Rank int

	// PlayerID identifies the player
	PlayerID string

	// PlayerName is the display name of the player
	PlayerName string

	// BestRolls is the player's fewest rolls in a won game
	BestRolls int

	// BestDuration is the duration of that game
	BestDuration time.Duration

	// GamesWon counts the player's wins
	GamesWon int
}

// Leaderboard represents the current standings
type Leaderboard struct {
	// Entries are ordered best first
	Entries []*LeaderboardEntry
}
