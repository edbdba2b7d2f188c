// Package tenzies implements the dice-state engine for a game of Tenzies:
// ten dice are rolled, individual dice can be held between rolls, and the
// game is won once every die is held and all show the same value.
package tenzies

import (
	"fmt"

	"github.com/samber/lo"
)

const (
	// DiceCount is the number of dice in every game
	DiceCount = 10

	// DieSides is the number of faces on each die
	DieSides = 6
)

// Die is a single die. ID is stable for the die's position in the sequence;
// Value and IsHeld change as the game progresses.
type Die struct {
	ID     string `json:"id"`
	Value  int    `json:"value"`
	IsHeld bool   `json:"isHeld"`
}

// State is the ordered sequence of dice. Position maps to a fixed visual slot.
type State []Die

// Won reports whether every die is held and shows the first die's value.
func (s State) Won() bool {
	if len(s) != DiceCount {
		return false
	}

	first := s[0].Value
	return lo.EveryBy(s, func(d Die) bool {
		return d.IsHeld && d.Value == first
	})
}

// HeldCount returns how many dice are currently held.
func (s State) HeldCount() int {
	return lo.CountBy(s, func(d Die) bool {
		return d.IsHeld
	})
}

// Clone returns a copy that shares no backing array with s.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	out := make(State, len(s))
	copy(out, s)
	return out
}

// Validate checks the structure of a state loaded from storage.
func (s State) Validate() error {
	if len(s) != DiceCount {
		return fmt.Errorf("%w: got %d", ErrWrongDiceCount, len(s))
	}

	seen := make(map[string]struct{}, len(s))
	for i, d := range s {
		if d.ID == "" {
			return fmt.Errorf("%w: position %d", ErrMissingDieID, i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateDieID, d.ID)
		}
		seen[d.ID] = struct{}{}

		if d.Value < 1 || d.Value > DieSides {
			return fmt.Errorf("%w: position %d has %d", ErrDieOutOfRange, i, d.Value)
		}
	}

	return nil
}

// Won is the package-level form of State.Won.
func Won(state State) bool {
	return state.Won()
}

// ToggleHold flips IsHeld on the die with the given id. Every other die is
// copied unchanged. An unknown id yields an equal copy of the input.
func ToggleHold(state State, id string) State {
	return lo.Map(state, func(d Die, _ int) Die {
		if d.ID == id {
			d.IsHeld = !d.IsHeld
		}
		return d
	})
}
