// Package bootstrap wires repositories and services from configuration. The
// web server, the Discord bot and the terminal client share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KirkDiggler/tenzies/internal/common/clock"
	"github.com/KirkDiggler/tenzies/internal/common/uuid"
	"github.com/KirkDiggler/tenzies/internal/config"
	"github.com/KirkDiggler/tenzies/internal/dice"
	gameRepo "github.com/KirkDiggler/tenzies/internal/repositories/game"
	statsRepo "github.com/KirkDiggler/tenzies/internal/repositories/stats"
	gameService "github.com/KirkDiggler/tenzies/internal/services/game"
	"github.com/KirkDiggler/tenzies/internal/services/messaging"
	"github.com/redis/go-redis/v9"
)

// redisPingTimeout bounds the startup connection check
const redisPingTimeout = 5 * time.Second

// App holds the wired services
type App struct {
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	DiceRoller    dice.Roller

	GameService      gameService.Service
	MessagingService messaging.Service

	// memoryGames is set only for memory storage and is pruned by RunPruner
	memoryGames *gameRepo.MemoryRepository
	redisClient *redis.Client
}

// New builds the repositories selected by cfg.Storage and the services on top
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	app := &App{
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
		DiceRoller:    dice.New(&dice.Config{Seed: cfg.DiceSeed}),
	}

	var (
		games gameRepo.Repository
		stats statsRepo.Repository
	)

	switch cfg.Storage {
	case config.StorageMemory:
		memoryGames, err := gameRepo.NewMemory(&gameRepo.MemoryConfig{Clock: app.Clock})
		if err != nil {
			return nil, fmt.Errorf("failed to create game repository: %w", err)
		}
		app.memoryGames = memoryGames
		games = memoryGames
		stats = statsRepo.NewMemory()
		log.Printf("Using in-memory storage")
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
		}
		app.redisClient = client

		redisGames, err := gameRepo.NewRedis(&gameRepo.Config{
			RedisClient: client,
			TTL:         cfg.GameTTL,
		})
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to create game repository: %w", err)
		}
		redisStats, err := statsRepo.NewRedis(&statsRepo.Config{RedisClient: client})
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to create stats repository: %w", err)
		}
		games, stats = redisGames, redisStats
		log.Printf("Using Redis storage at %s", cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	gameSvc, err := gameService.New(&gameService.Config{
		GameRepo:      games,
		StatsRepo:     stats,
		DiceRoller:    app.DiceRoller,
		Clock:         app.Clock,
		UUIDGenerator: app.UUIDGenerator,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to create game service: %w", err)
	}
	app.GameService = gameSvc

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{
		DiceRoller: app.DiceRoller,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to create messaging service: %w", err)
	}
	app.MessagingService = messagingSvc

	return app, nil
}

// RunPruner drops idle in-memory games every interval until ctx is done.
// Redis expires games itself, so this returns at once for Redis storage.
func (a *App) RunPruner(ctx context.Context, interval, maxAge time.Duration) {
	if a.memoryGames == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.memoryGames.PruneIdle(ctx, maxAge)
		}
	}
}

// Close releases the Redis connection, if any
func (a *App) Close() error {
	if a.redisClient == nil {
		return nil
	}
	return a.redisClient.Close()
}
