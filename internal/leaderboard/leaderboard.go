// Package leaderboard ranks learners by total XP.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/repository"
	"github.com/redis/go-redis/v9"
)

const xpKey = "leaderboard:xp"

type Entry struct {
	UserID uuid.UUID `json:"user_id"`
	XP     int64     `json:"xp"`
	Rank   int64     `json:"rank"`
}

// Board records and ranks XP totals. Rank is 1-based; 0 means unranked.
type Board interface {
	Update(ctx context.Context, userID uuid.UUID, xp int) error
	Top(ctx context.Context, limit int) ([]Entry, error)
	Rank(ctx context.Context, userID uuid.UUID) (int64, error)
}

// RedisBoard keeps the ranking in a sorted set.
type RedisBoard struct {
	client *redis.Client
	key    string
}

func NewRedisBoard(client *redis.Client) *RedisBoard {
	return &RedisBoard{client: client, key: xpKey}
}

// Update only ever raises a member's score, so a stale total that lands
// after a newer one is ignored.
func (b *RedisBoard) Update(ctx context.Context, userID uuid.UUID, xp int) error {
	log := logger.FromContext(ctx).WithPrefix("leaderboard")
	log.Debug("updating leaderboard: user_id=%s, xp=%d", userID, xp)

	return b.client.ZAddGT(ctx, b.key, redis.Z{
		Score:  float64(xp),
		Member: userID.String(),
	}).Err()
}

// Backfill loads the top limit users by stored XP into the set.
func (b *RedisBoard) Backfill(ctx context.Context, users repository.UserRepository, limit int) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard")
	top, err := users.TopByXP(ctx, limit)
	if err != nil {
		return 0, err
	}
	members := make([]redis.Z, 0, len(top))
	for _, u := range top {
		if u.XP <= 0 {
			continue
		}
		members = append(members, redis.Z{Score: float64(u.XP), Member: u.ID.String()})
	}
	if len(members) == 0 {
		return 0, nil
	}
	if err := b.client.ZAddGT(ctx, b.key, members...).Err(); err != nil {
		return 0, err
	}
	log.Info("backfilled %d users", len(members))
	return len(members), nil
}

func (b *RedisBoard) Top(ctx context.Context, limit int) ([]Entry, error) {
	results, err := b.client.ZRevRangeWithScores(ctx, b.key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	return entriesFromZ(results)
}

func (b *RedisBoard) Rank(ctx context.Context, userID uuid.UUID) (int64, error) {
	rank, err := b.client.ZRevRank(ctx, b.key, userID.String()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil
}

func entriesFromZ(results []redis.Z) ([]Entry, error) {
	entries := make([]Entry, 0, len(results))
	for i, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected leaderboard member %T", z.Member)
		}
		id, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("leaderboard member %q: %w", member, err)
		}
		entries = append(entries, Entry{UserID: id, XP: int64(z.Score), Rank: int64(i) + 1})
	}
	return entries, nil
}

// StoreBoard ranks straight from the users table. It is used when no Redis
// is configured; Update is a no-op since XP is already stored there.
type StoreBoard struct {
	users repository.UserRepository
}

func NewStoreBoard(users repository.UserRepository) *StoreBoard {
	return &StoreBoard{users: users}
}

func (b *StoreBoard) Update(context.Context, uuid.UUID, int) error { return nil }

func (b *StoreBoard) Top(ctx context.Context, limit int) ([]Entry, error) {
	users, err := b.users.TopByXP(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(users))
	for i, u := range users {
		entries = append(entries, Entry{UserID: u.ID, XP: int64(u.XP), Rank: int64(i) + 1})
	}
	return entries, nil
}

// Rank is not tracked without Redis.
func (b *StoreBoard) Rank(context.Context, uuid.UUID) (int64, error) { return 0, nil }
