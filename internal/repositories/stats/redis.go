package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	statsKeyPrefix = "stats:"
	leaderboardKey = "leaderboard:best"

	// maxWatchRetries bounds optimistic transaction retries
	maxWatchRetries = 5
)

// Config holds configuration for the Redis stats repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// getter is the subset of commands shared by *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed stats repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// GetStats retrieves a player's stats from Redis
func (r *redisRepository) GetStats(ctx context.Context, input *GetStatsInput) (*models.PlayerStats, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	stats, err := getStats(ctx, r.client, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, ErrStatsNotFound
	}
	return stats, nil
}

// RecordGameStarted increments the player's started games
func (r *redisRepository) RecordGameStarted(ctx context.Context, input *RecordGameStartedInput) error {
	if input == nil || input.PlayerID == "" {
		return errors.New("input and player ID cannot be empty")
	}

	return r.update(ctx, input.PlayerID, func(stats *models.PlayerStats, pipe redis.Pipeliner) {
		applyGameStarted(stats, input)
	})
}

// RecordWin records a win and moves the player up the leaderboard on a new best
func (r *redisRepository) RecordWin(ctx context.Context, input *RecordWinInput) (*RecordWinOutput, error) {
	if err := validateWin(input); err != nil {
		return nil, err
	}

	output := &RecordWinOutput{}
	err := r.update(ctx, input.PlayerID, func(stats *models.PlayerStats, pipe redis.Pipeliner) {
		output.PersonalBest = applyWin(stats, input)
		if output.PersonalBest {
			pipe.ZAdd(ctx, leaderboardKey, redis.Z{
				Score:  leaderboardScore(stats),
				Member: stats.PlayerID,
			})
		}
		output.Stats = stats
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// GetLeaderboard returns the best players from the sorted set, best first
func (r *redisRepository) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*models.Leaderboard, error) {
	limit := leaderboardLimit(input)

	playerIDs, err := r.client.ZRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	leaderboard := &models.Leaderboard{
		Entries: []*models.LeaderboardEntry{},
	}
	if len(playerIDs) == 0 {
		return leaderboard, nil
	}

	keys := make([]string, len(playerIDs))
	for i, playerID := range playerIDs {
		keys[i] = statsKey(playerID)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard stats: %w", err)
	}

	for i, value := range values {
		statsJSON, ok := value.(string)
		if !ok {
			// Stats removed after the sorted set was read
			continue
		}

		var stats models.PlayerStats
		if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats for %s: %w", playerIDs[i], err)
		}
		leaderboard.Entries = append(leaderboard.Entries, toEntry(len(leaderboard.Entries)+1, &stats))
	}

	return leaderboard, nil
}

// update runs fn against the player's stats inside a WATCH transaction
func (r *redisRepository) update(ctx context.Context, playerID string, fn func(*models.PlayerStats, redis.Pipeliner)) error {
	key := statsKey(playerID)

	txf := func(tx *redis.Tx) error {
		stats, err := getStats(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if stats == nil {
			stats = &models.PlayerStats{PlayerID: playerID}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			fn(stats, pipe)

			statsJSON, err := json.Marshal(stats)
			if err != nil {
				return fmt.Errorf("failed to marshal stats: %w", err)
			}
			pipe.Set(ctx, key, statsJSON, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to update stats: %w", err)
	}

	return fmt.Errorf("failed to update stats for %s: too much contention", playerID)
}

func getStats(ctx context.Context, c getter, playerID string) (*models.PlayerStats, error) {
	statsJSON, err := c.Get(ctx, statsKey(playerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats models.PlayerStats
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return &stats, nil
}

func statsKey(playerID string) string {
	return fmt.Sprintf("%s%s", statsKeyPrefix, playerID)
}

// leaderboardScore orders by rolls, then by duration in the fractional part
func leaderboardScore(stats *models.PlayerStats) float64 {
	seconds := math.Min(stats.BestDuration.Seconds(), 999999)
	return float64(stats.BestRolls) + seconds/1e6
}
