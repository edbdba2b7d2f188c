package game

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/KirkDiggler/tenzies/internal/common/clock"
	"github.com/KirkDiggler/tenzies/internal/common/uuid"
	"github.com/KirkDiggler/tenzies/internal/models"
	gameRepo "github.com/KirkDiggler/tenzies/internal/repositories/game"
	statsRepo "github.com/KirkDiggler/tenzies/internal/repositories/stats"
	"github.com/KirkDiggler/tenzies/internal/tenzies"
)

// service implements the Service interface
type service struct {
	gameRepo      gameRepo.Repository
	statsRepo     statsRepo.Repository
	engine        *tenzies.Engine
	clock         clock.Clock
	uuidGenerator uuid.UUID
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}

	if cfg.StatsRepo == nil {
		return nil, ErrNilStatsRepo
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	engine, err := tenzies.New(&tenzies.Config{
		DiceRoller:    cfg.DiceRoller,
		UUIDGenerator: cfg.UUIDGenerator,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &service{
		gameRepo:      cfg.GameRepo,
		statsRepo:     cfg.StatsRepo,
		engine:        engine,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
	}, nil
}

// StartGame deals a fresh game for a player, replacing any current one
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.gameRepo.GetGameByPlayer(ctx, &gameRepo.GetGameByPlayerInput{
		PlayerID: input.PlayerID,
	})
	if err != nil && !errors.Is(err, gameRepo.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to look up current game: %w", err)
	}

	if existing != nil {
		if err := s.gameRepo.DeleteGame(ctx, &gameRepo.DeleteGameInput{GameID: existing.ID}); err != nil {
			return nil, fmt.Errorf("failed to delete previous game: %w", err)
		}
	}

	game, err := s.newGame(ctx, input.PlayerID, input.PlayerName)
	if err != nil {
		return nil, err
	}

	return &StartGameOutput{
		Game: game,
	}, nil
}

// GetGame returns the player's current game
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.loadGame(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	return &GetGameOutput{
		Game: game,
	}, nil
}

// RollDice rerolls the unheld dice. A player without a game, or with a won
// game, gets a new game instead.
func (s *service) RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.loadGame(ctx, input.PlayerID)
	if err != nil && !errors.Is(err, ErrGameNotFound) {
		return nil, err
	}

	if game == nil || game.Won() {
		name := input.PlayerName
		if name == "" && game != nil {
			name = game.PlayerName
		}

		newGame, err := s.newGame(ctx, input.PlayerID, name)
		if err != nil {
			return nil, err
		}
		return &RollDiceOutput{
			Game:    newGame,
			NewGame: true,
		}, nil
	}

	game.Dice = s.engine.Roll(game.Dice)
	game.Rolls++
	game.UpdatedAt = s.clock.Now()

	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	return &RollDiceOutput{
		Game: game,
	}, nil
}

// ToggleHold flips the held flag of one die. An unknown die ID changes nothing.
// Holding the die that completes the game records the win.
func (s *service) ToggleHold(ctx context.Context, input *ToggleHoldInput) (*ToggleHoldOutput, error) {
	if input == nil || input.PlayerID == "" || input.DieID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.loadGame(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	if game.Won() {
		return nil, ErrGameAlreadyWon
	}

	now := s.clock.Now()
	game.Dice = tenzies.ToggleHold(game.Dice, input.DieID)
	game.UpdatedAt = now

	output := &ToggleHoldOutput{
		Game: game,
	}

	if game.Won() {
		game.WonAt = &now
		output.JustWon = true
	}

	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	if !output.JustWon {
		return output, nil
	}

	recorded, err := s.statsRepo.RecordWin(ctx, &statsRepo.RecordWinInput{
		PlayerID:   game.PlayerID,
		PlayerName: game.PlayerName,
		Rolls:      game.Rolls,
		Duration:   game.Duration(now),
		WonAt:      now,
	})
	if err != nil {
		// The win stands even if the stats could not be updated
		log.Printf("Failed to record win for player %s: %v", game.PlayerID, err)
		return output, nil
	}

	output.PersonalBest = recorded.PersonalBest
	output.Stats = recorded.Stats

	return output, nil
}

// AbandonGame throws away the player's current game
func (s *service) AbandonGame(ctx context.Context, input *AbandonGameInput) (*AbandonGameOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.gameRepo.GetGameByPlayer(ctx, &gameRepo.GetGameByPlayerInput{
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err := s.gameRepo.DeleteGame(ctx, &gameRepo.DeleteGameInput{GameID: game.ID}); err != nil {
		return nil, fmt.Errorf("failed to delete game: %w", err)
	}

	return &AbandonGameOutput{
		GameID: game.ID,
	}, nil
}

// GetStats returns a player's stats. Players who never played get zero stats.
func (s *service) GetStats(ctx context.Context, input *GetStatsInput) (*GetStatsOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrInvalidInput
	}

	stats, err := s.statsRepo.GetStats(ctx, &statsRepo.GetStatsInput{
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if !errors.Is(err, statsRepo.ErrStatsNotFound) {
			return nil, fmt.Errorf("failed to get stats: %w", err)
		}
		stats = &models.PlayerStats{PlayerID: input.PlayerID}
	}

	return &GetStatsOutput{
		Stats: stats,
	}, nil
}

// GetLeaderboard returns the best players
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	limit := DefaultLeaderboardLimit
	if input != nil && input.Limit > 0 {
		limit = min(input.Limit, MaxLeaderboardLimit)
	}

	leaderboard, err := s.statsRepo.GetLeaderboard(ctx, &statsRepo.GetLeaderboardInput{
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return &GetLeaderboardOutput{
		Leaderboard: leaderboard,
	}, nil
}

// newGame deals, saves and counts a new game
func (s *service) newGame(ctx context.Context, playerID, playerName string) (*models.Game, error) {
	now := s.clock.Now()
	game := &models.Game{
		ID:         s.uuidGenerator.NewUUID(),
		PlayerID:   playerID,
		PlayerName: playerName,
		Dice:       s.engine.Reset(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	err := s.statsRepo.RecordGameStarted(ctx, &statsRepo.RecordGameStartedInput{
		PlayerID:   playerID,
		PlayerName: playerName,
	})
	if err != nil {
		log.Printf("Failed to count started game for player %s: %v", playerID, err)
	}

	return game, nil
}

// loadGame fetches the player's game and checks the stored dice
func (s *service) loadGame(ctx context.Context, playerID string) (*models.Game, error) {
	game, err := s.gameRepo.GetGameByPlayer(ctx, &gameRepo.GetGameByPlayerInput{
		PlayerID: playerID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err := game.Dice.Validate(); err != nil {
		log.Printf("Game %s for player %s has invalid dice: %v", game.ID, playerID, err)
		return nil, ErrInvalidGameState
	}

	return game, nil
}

func (s *service) saveGame(ctx context.Context, game *models.Game) error {
	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}
