package stats

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/KirkDiggler/tenzies/internal/models"
)

// MemoryRepository keeps player stats in process memory
type MemoryRepository struct {
	mu    sync.RWMutex
	stats map[string]*models.PlayerStats
}

// NewMemory creates an in-memory stats repository
func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		stats: make(map[string]*models.PlayerStats),
	}
}

// GetStats returns a copy of the player's stats
func (r *MemoryRepository) GetStats(_ context.Context, input *GetStatsInput) (*models.PlayerStats, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	stats, ok := r.stats[input.PlayerID]
	if !ok {
		return nil, ErrStatsNotFound
	}
	c := *stats
	return &c, nil
}

// RecordGameStarted increments the player's started games
func (r *MemoryRepository) RecordGameStarted(_ context.Context, input *RecordGameStartedInput) error {
	if input == nil || input.PlayerID == "" {
		return errors.New("input and player ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	applyGameStarted(r.getOrCreate(input.PlayerID), input)
	return nil
}

// RecordWin records a win
func (r *MemoryRepository) RecordWin(_ context.Context, input *RecordWinInput) (*RecordWinOutput, error) {
	if err := validateWin(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.getOrCreate(input.PlayerID)
	best := applyWin(stats, input)
	c := *stats
	return &RecordWinOutput{
		Stats:        &c,
		PersonalBest: best,
	}, nil
}

// GetLeaderboard ranks every player with at least one win
func (r *MemoryRepository) GetLeaderboard(_ context.Context, input *GetLeaderboardInput) (*models.Leaderboard, error) {
	limit := leaderboardLimit(input)

	r.mu.RLock()
	winners := make([]*models.PlayerStats, 0, len(r.stats))
	for _, s := range r.stats {
		if s.HasWon() {
			c := *s
			winners = append(winners, &c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(winners, func(i, j int) bool {
		a, b := winners[i], winners[j]
		if a.BestRolls != b.BestRolls {
			return a.BestRolls < b.BestRolls
		}
		if a.BestDuration != b.BestDuration {
			return a.BestDuration < b.BestDuration
		}
		return a.PlayerID < b.PlayerID
	})

	if len(winners) > limit {
		winners = winners[:limit]
	}

	leaderboard := &models.Leaderboard{
		Entries: make([]*models.LeaderboardEntry, 0, len(winners)),
	}
	for i, s := range winners {
		leaderboard.Entries = append(leaderboard.Entries, toEntry(i+1, s))
	}
	return leaderboard, nil
}

func (r *MemoryRepository) getOrCreate(playerID string) *models.PlayerStats {
	stats, ok := r.stats[playerID]
	if !ok {
		stats = &models.PlayerStats{PlayerID: playerID}
		r.stats[playerID] = stats
	}
	return stats
}
