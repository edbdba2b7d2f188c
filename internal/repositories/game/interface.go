package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/tenzies/internal/repositories/game Repository

import (
	"context"

	"github.com/KirkDiggler/tenzies/internal/models"
)

// Repository defines the interface for game data persistence
type Repository interface {
	// SaveGame persists a game and makes it the player's current game
	SaveGame(ctx context.Context, input *SaveGameInput) error

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error)

	// GetGameByPlayer retrieves the player's current game
	GetGameByPlayer(ctx context.Context, input *GetGameByPlayerInput) (*models.Game, error)

	// DeleteGame removes a game
	DeleteGame(ctx context.Context, input *DeleteGameInput) error
}
