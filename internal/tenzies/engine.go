package tenzies

import (
	"github.com/KirkDiggler/tenzies/internal/common/uuid"
	"github.com/KirkDiggler/tenzies/internal/dice"
	"github.com/samber/lo"
)

// Config holds the engine's sources of randomness and identity
type Config struct {
	DiceRoller    dice.Roller
	UUIDGenerator uuid.UUID
}

// Engine produces new and rolled states. It keeps no game state of its own.
type Engine struct {
	roller dice.Roller
	ids    uuid.UUID
}

// New creates a new engine
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	return &Engine{
		roller: cfg.DiceRoller,
		ids:    cfg.UUIDGenerator,
	}, nil
}

// Reset deals ten fresh, unheld dice.
func (e *Engine) Reset() State {
	return lo.Times(DiceCount, func(_ int) Die {
		return Die{
			ID:    e.ids.NewUUID(),
			Value: e.roller.Roll(DieSides),
		}
	})
}

// Roll re-rolls every unheld die and leaves held dice untouched. Ids are
// preserved. Rolling a won state starts a new game instead.
func (e *Engine) Roll(state State) State {
	if state.Won() {
		return e.Reset()
	}

	return lo.Map(state, func(d Die, _ int) Die {
		if d.IsHeld {
			return d
		}
		d.Value = e.roller.Roll(DieSides)
		return d
	})
}
