package dice

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/KirkDiggler/tenzies/internal/dice Roller

// DefaultSides is used when a caller asks for a die with fewer than one side
const DefaultSides = 6

// Roller provides dice rolling functionality
type Roller interface {
	// Roll returns a uniformly random value in [1, sides]
	Roll(sides int) int
}

// Config for dice roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// DefaultRoller is a Roller backed by math/rand. Safe for concurrent use.
type DefaultRoller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New creates a new dice roller
func New(cfg *Config) *DefaultRoller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		s, err := NewSeed()
		if err != nil {
			log.Printf("Falling back to time-based dice seed: %v", err)
			s = time.Now().UnixNano()
		}
		seed = s
	}

	return &DefaultRoller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Roll generates a random dice roll with the specified number of sides
func (r *DefaultRoller) Roll(sides int) int {
	if sides < 1 {
		sides = DefaultSides
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(sides) + 1
}
