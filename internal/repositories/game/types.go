package game

import (
	"errors"

	"github.com/KirkDiggler/tenzies/internal/models"
)

// ErrGameNotFound is returned when a game is not found
var ErrGameNotFound = errors.New("game not found")

type SaveGameInput struct {
	Game *models.Game
}

type GetGameInput struct {
	GameID string
}

type GetGameByPlayerInput struct {
	PlayerID string
}

type DeleteGameInput struct {
	GameID string
}
