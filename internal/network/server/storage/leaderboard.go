package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	playerStatsKey    = "player:stats:"
	leaderboardKey    = "leaderboard:score"
	weeklyLeaderboard = "leaderboard:weekly:"
)

// PlayerStats is one player's lifetime record. In Durak there is no
// winner, only the durak: everyone else escaped.
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	TotalGames int `json:"total_games"`
	Escapes    int `json:"escapes"`
	DurakCount int `json:"durak_count"`

	Score int `json:"score"`

	// positive while escaping, negative while losing
	CurrentStreak   int `json:"current_streak"`
	MaxEscapeStreak int `json:"max_escape_streak"`

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// Scoring rules.
const (
	EscapePoints = 10
	DurakPoints  = -15

	StreakBonus3  = 3
	StreakBonus5  = 8
	StreakBonus10 = 15
)

// LeaderboardEntry is one row of the score ranking.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Escapes    int     `json:"escapes"`
	EscapeRate float64 `json:"escape_rate"`
}

// LeaderboardManager keeps player stats and rankings in Redis.
type LeaderboardManager struct {
	redis *redis.Client
}

func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// GetPlayerStats reads one player's record; nil when they never played.
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	key := playerStatsKey + playerID
	data, err := lm.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SavePlayerStats writes one player's record.
func (lm *LeaderboardManager) SavePlayerStats(ctx context.Context, stats *PlayerStats) error {
	key := playerStatsKey + stats.PlayerID
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return lm.redis.Set(ctx, key, data, 0).Err()
}

func (lm *LeaderboardManager) getOrCreateStats(ctx context.Context, playerID, playerName string) (*PlayerStats, error) {
	stats, err := lm.GetPlayerStats(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if stats == nil {
		return &PlayerStats{
			PlayerID:   playerID,
			PlayerName: playerName,
			CreatedAt:  time.Now().Unix(),
		}, nil
	}
	return stats, nil
}

func calculateStreakBonus(streak int) int {
	switch {
	case streak >= 10:
		return StreakBonus10
	case streak >= 5:
		return StreakBonus5
	case streak >= 3:
		return StreakBonus3
	default:
		return 0
	}
}

// RecordGameResult applies one finished game to a player's record and
// reranks them.
func (lm *LeaderboardManager) RecordGameResult(ctx context.Context, playerID, playerName string, becameDurak bool) error {
	stats, err := lm.getOrCreateStats(ctx, playerID, playerName)
	if err != nil {
		return err
	}

	stats.PlayerName = playerName
	stats.TotalGames++
	stats.LastPlayedAt = time.Now().Unix()

	scoreChange := EscapePoints
	if becameDurak {
		scoreChange = DurakPoints
		stats.DurakCount++
		stats.CurrentStreak = min(-1, stats.CurrentStreak-1)
	} else {
		stats.Escapes++
		stats.CurrentStreak = max(1, stats.CurrentStreak+1)
		scoreChange += calculateStreakBonus(stats.CurrentStreak)
	}

	if stats.CurrentStreak > stats.MaxEscapeStreak {
		stats.MaxEscapeStreak = stats.CurrentStreak
	}

	stats.Score = max(0, stats.Score+scoreChange)

	if err := lm.SavePlayerStats(ctx, stats); err != nil {
		return err
	}
	return lm.updateLeaderboard(ctx, stats)
}

func (lm *LeaderboardManager) updateLeaderboard(ctx context.Context, stats *PlayerStats) error {
	if err := lm.redis.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(stats.Score),
		Member: stats.PlayerID,
	}).Err(); err != nil {
		return err
	}

	year, week := time.Now().ISOWeek()
	weeklyKey := fmt.Sprintf("%s%d-W%02d", weeklyLeaderboard, year, week)
	if err := lm.redis.ZAdd(ctx, weeklyKey, redis.Z{
		Score:  float64(stats.Score),
		Member: stats.PlayerID,
	}).Err(); err != nil {
		return err
	}
	lm.redis.Expire(ctx, weeklyKey, 8*24*time.Hour)

	return nil
}

// GetLeaderboard returns the top entries by score.
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := lm.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, result := range results {
		playerID, ok := result.Member.(string)
		if !ok {
			continue
		}

		stats, err := lm.GetPlayerStats(ctx, playerID)
		if err != nil || stats == nil {
			continue
		}

		escapeRate := 0.0
		if stats.TotalGames > 0 {
			escapeRate = float64(stats.Escapes) / float64(stats.TotalGames) * 100
		}

		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   playerID,
			PlayerName: stats.PlayerName,
			Score:      int(result.Score),
			Escapes:    stats.Escapes,
			EscapeRate: escapeRate,
		})
	}

	return entries, nil
}

// GetPlayerRank returns the 1-based rank for a player, or -1 when they
// are unranked.
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := lm.redis.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil
}
