package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/tenzies/internal/common/clock"
	"github.com/KirkDiggler/tenzies/internal/models"
)

// MemoryConfig holds configuration for the in-memory game repository
type MemoryConfig struct {
	Clock clock.Clock
}

// MemoryRepository keeps games in process memory. Games are lost on restart.
type MemoryRepository struct {
	mu       sync.RWMutex
	games    map[string]*models.Game
	byPlayer map[string]string
	clock    clock.Clock
}

// NewMemory creates an in-memory game repository
func NewMemory(cfg *MemoryConfig) (*MemoryRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	return &MemoryRepository{
		games:    make(map[string]*models.Game),
		byPlayer: make(map[string]string),
		clock:    cfg.Clock,
	}, nil
}

// SaveGame stores a copy of the game
func (r *MemoryRepository) SaveGame(_ context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}
	if input.Game.ID == "" {
		return errors.New("game ID cannot be empty")
	}

	stored := copyGame(input.Game)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[stored.ID] = stored
	if stored.PlayerID != "" {
		r.byPlayer[stored.PlayerID] = stored.ID
	}
	return nil
}

// GetGame returns a copy of the stored game
func (r *MemoryRepository) GetGame(_ context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	game, ok := r.games[input.GameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return copyGame(game), nil
}

// GetGameByPlayer returns a copy of the player's current game
func (r *MemoryRepository) GetGameByPlayer(_ context.Context, input *GetGameByPlayerInput) (*models.Game, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	gameID, ok := r.byPlayer[input.PlayerID]
	if !ok {
		return nil, ErrGameNotFound
	}
	game, ok := r.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return copyGame(game), nil
}

// DeleteGame removes a game and, if it is still current, the player's pointer
func (r *MemoryRepository) DeleteGame(_ context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.games[input.GameID]
	if !ok {
		return ErrGameNotFound
	}
	delete(r.games, input.GameID)
	if r.byPlayer[game.PlayerID] == input.GameID {
		delete(r.byPlayer, game.PlayerID)
	}
	return nil
}

// PruneIdle removes games not updated within maxAge and returns how many were removed
func (r *MemoryRepository) PruneIdle(ctx context.Context, maxAge time.Duration) int {
	cutoff := r.clock.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, game := range r.games {
		if ctx.Err() != nil {
			break
		}
		if game.UpdatedAt.Before(cutoff) {
			delete(r.games, id)
			if r.byPlayer[game.PlayerID] == id {
				delete(r.byPlayer, game.PlayerID)
			}
			removed++
		}
	}
	if removed > 0 {
		log.Printf("Pruned %d idle games older than %v", removed, maxAge)
	}
	return removed
}

// Len returns the number of stored games
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

func copyGame(g *models.Game) *models.Game {
	c := *g
	c.Dice = g.Dice.Clone()
	if g.WonAt != nil {
		wonAt := *g.WonAt
		c.WonAt = &wonAt
	}
	return &c
}
