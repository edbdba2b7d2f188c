package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	gameKeyPrefix       = "game:"
	playerGameKeyPrefix = "player_game:"

	// maxWatchRetries bounds optimistic transaction retries
	maxWatchRetries = 5
)

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// TTL expires idle games. Zero keeps them forever.
	TTL time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		ttl:    cfg.TTL,
	}, nil
}

func gameKey(gameID string) string {
	return gameKeyPrefix + gameID
}

func playerGameKey(playerID string) string {
	return playerGameKeyPrefix + playerID
}

// SaveGame writes the game and repoints the player at it in one transaction.
// Both keys get the repository TTL, so idle games expire together with
// their pointer.
func (r *redisRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}
	if input.Game.ID == "" {
		return errors.New("game ID cannot be empty")
	}

	data, err := json.Marshal(input.Game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(input.Game.ID), data, r.ttl)
		if input.Game.PlayerID != "" {
			pipe.Set(ctx, playerGameKey(input.Game.PlayerID), input.Game.ID, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", input.Game.ID, err)
	}

	return nil
}

// GetGame retrieves a game by ID
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	return getGame(ctx, r.client, input.GameID)
}

// GetGameByPlayer follows the player's pointer to their current game
func (r *redisRepository) GetGameByPlayer(ctx context.Context, input *GetGameByPlayerInput) (*models.Game, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	gameID, err := r.client.Get(ctx, playerGameKey(input.PlayerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current game for player %s: %w", input.PlayerID, err)
	}

	return getGame(ctx, r.client, gameID)
}

// DeleteGame removes a game. The player's pointer is dropped only while it
// still references this game. Both keys are watched, so a save that races
// the delete retries it.
func (r *redisRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	key := gameKey(input.GameID)
	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			game, err := getGame(ctx, tx, input.GameID)
			if err != nil {
				return err
			}

			var pointerKey string
			if game.PlayerID != "" {
				pointerKey = playerGameKey(game.PlayerID)
				// A save that repoints the player must abort this delete
				if err := tx.Watch(ctx, pointerKey).Err(); err != nil {
					return fmt.Errorf("failed to watch player pointer: %w", err)
				}
				current, err := tx.Get(ctx, pointerKey).Result()
				if err != nil && !errors.Is(err, redis.Nil) {
					return fmt.Errorf("failed to read player pointer: %w", err)
				}
				if current != input.GameID {
					pointerKey = ""
				}
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				if pointerKey != "" {
					pipe.Del(ctx, pointerKey)
				}
				return nil
			})
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrGameNotFound) {
			return fmt.Errorf("failed to delete game %s: %w", input.GameID, err)
		}
		return err
	}

	return fmt.Errorf("failed to delete game %s: too many concurrent updates", input.GameID)
}

// getter is the subset of commands shared by *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getGame(ctx context.Context, c getter, gameID string) (*models.Game, error) {
	data, err := c.Get(ctx, gameKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", gameID, err)
	}

	var game models.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", gameID, err)
	}

	return &game, nil
}
