package models

import (
	"time"

	"github.com/KirkDiggler/tenzies/internal/tenzies"
)

// GameStatus represents the current state of a game
type GameStatus string

const (
	// GameStatusRolling indicates the player is still rolling
	GameStatusRolling GameStatus = "rolling"

	// GameStatusWon indicates every die is held and shows the same value
	GameStatusWon GameStatus = "won"
)

// IsWon returns true if the game has been won
func (s GameStatus) IsWon() bool {
	return s == GameStatusWon
}

// Game is one player's Tenzies game
type Game struct {
	// ID is the unique identifier for the game
	ID string

	// PlayerID identifies the owner: a Discord user ID or a web session ID
	PlayerID string

	// PlayerName is the display name of the player
	PlayerName string

	// Dice is the engine state
	Dice tenzies.State

	// Rolls counts roll actions since the game started
	Rolls int

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// UpdatedAt is when the game was last updated
	UpdatedAt time.Time

	// WonAt is when the dice first satisfied the win condition
	WonAt *time.Time
}

// Status derives the game status from the dice
func (g *Game) Status() GameStatus {
	if g.Dice.Won() {
		return GameStatusWon
	}
	return GameStatusRolling
}

// Won reports whether the game has been won
func (g *Game) Won() bool {
	return g.Dice.Won()
}

// Duration returns how long the game took, or has taken so far at now
func (g *Game) Duration(now time.Time) time.Duration {
	end := now
	if g.WonAt != nil {
		end = *g.WonAt
	}
	if end.Before(g.CreatedAt) {
		return 0
	}
	return end.Sub(g.CreatedAt)
}
