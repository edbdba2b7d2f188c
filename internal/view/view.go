// Package view projects game state into the board model every front end draws.
package view

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/KirkDiggler/tenzies/internal/tenzies"
	"github.com/samber/lo"
)

const (
	// ActionRoll labels the action control while the game is in progress
	ActionRoll = "Roll"

	// ActionNewGame labels the action control once the game is won
	ActionNewGame = "New Game"

	// RowSize is the number of dice per row on a board
	RowSize = 5
)

var faces = []string{"⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// DieView is one die as drawn on the board
type DieView struct {
	ID    string
	Value int
	Held  bool

	// Face is the die glyph for Value
	Face string

	// Label describes the die for screen readers
	Label string
}

// Board is everything a front end needs to draw a game
type Board struct {
	GameID string
	Dice   []DieView

	// Status is rolling or won
	Status models.GameStatus

	// Won disables the dice and turns the action into a new game
	Won         bool
	ActionLabel string

	// Announcement is empty until the game is won
	Announcement string

	Rolls       int
	HeldCount   int
	Elapsed     time.Duration
	ElapsedText string
}

// RenderState projects bare dice state
func RenderState(state tenzies.State) *Board {
	won := state.Won()

	board := &Board{
		Dice: lo.Map(state, func(d tenzies.Die, i int) DieView {
			return DieView{
				ID:    d.ID,
				Value: d.Value,
				Held:  d.IsHeld,
				Face:  Face(d.Value),
				Label: dieLabel(i, len(state), d),
			}
		}),
		Status:      models.GameStatusRolling,
		Won:         won,
		ActionLabel: ActionRoll,
		HeldCount:   state.HeldCount(),
	}

	if won {
		board.Status = models.GameStatusWon
		board.ActionLabel = ActionNewGame
		board.Announcement = fmt.Sprintf("Tenzies! All ten dice show %d.", state[0].Value)
	}

	return board
}

// Render projects a game at the given time
func Render(game *models.Game, now time.Time) *Board {
	board := RenderState(game.Dice)
	board.GameID = game.ID
	board.Status = game.Status()
	board.Rolls = game.Rolls
	board.Elapsed = game.Duration(now)
	board.ElapsedText = FormatDuration(board.Elapsed)

	if board.Status.IsWon() {
		board.Announcement = fmt.Sprintf("Tenzies! You won in %d roll%s and %s.",
			game.Rolls, plural(game.Rolls), board.ElapsedText)
	}

	return board
}

// Rows splits the dice into rows of RowSize
func (b *Board) Rows() [][]DieView {
	return lo.Chunk(b.Dice, RowSize)
}

// Face returns the die glyph for a value, or "?" outside 1..6
func Face(value int) string {
	if value < 1 || value > len(faces) {
		return "?"
	}
	return faces[value-1]
}

func dieLabel(index, total int, d tenzies.Die) string {
	state := "not held"
	if d.IsHeld {
		state = "held"
	}
	return fmt.Sprintf("Die %d of %d, showing %d, %s", index+1, total, d.Value, state)
}
