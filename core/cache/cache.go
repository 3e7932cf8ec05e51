package cache

import (
	"context"
	"fmt"
	"time"

	"agreetime-api/core/constants"
	"agreetime-api/core/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ICache is the subset of cache operations services depend on. Kept as an
// interface so engine tests can run against an in-memory fake.
type ICache interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error

	IncrUnread(ctx context.Context, userID uuid.UUID, delta int64) error
	GetUnread(ctx context.Context, userID uuid.UUID) (int64, bool, error)
	ResetUnread(ctx context.Context, userID uuid.UUID) error
	SetUnread(ctx context.Context, userID uuid.UUID, count int64) error

	CalendarVersion(ctx context.Context, participantID uuid.UUID) (int64, error)
	BumpCalendarVersion(ctx context.Context, participantID uuid.UUID) error
	GetRange(ctx context.Context, key string) (string, bool, error)
	SetRange(ctx context.Context, key string, payload string, ttl time.Duration) error
}

type Cache struct {
	client *redis.Client
}

var instance *Cache

type CacheConfig struct {
	Addr     string
	Password string
	DB       int
}

func InitCache(cfg CacheConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err, "addr", cfg.Addr)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	instance = &Cache{client: client}
	logger.Info("Redis cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return instance, nil
}

func GetCache() ICache {
	return instance
}

// ===================== Token blacklist =====================

func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Cache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", ttl).Err()
}

// ===================== Unread notification counters =====================

func (c *Cache) IncrUnread(ctx context.Context, userID uuid.UUID, delta int64) error {
	return c.client.IncrBy(ctx, constants.RedisKeyUnreadCount+userID.String(), delta).Err()
}

func (c *Cache) GetUnread(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	n, err := c.client.Get(ctx, constants.RedisKeyUnreadCount+userID.String()).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *Cache) ResetUnread(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, constants.RedisKeyUnreadCount+userID.String()).Err()
}

func (c *Cache) SetUnread(ctx context.Context, userID uuid.UUID, count int64) error {
	return c.client.Set(ctx, constants.RedisKeyUnreadCount+userID.String(), count, 0).Err()
}

// ===================== Calendar read-through =====================

// Calendar range entries are versioned per participant: confirming or
// cancelling an event bumps the version, which orphans every cached range for
// that participant without needing a key scan.

func (c *Cache) CalendarVersion(ctx context.Context, participantID uuid.UUID) (int64, error) {
	n, err := c.client.Get(ctx, constants.RedisKeyCalendarVersion+participantID.String()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (c *Cache) BumpCalendarVersion(ctx context.Context, participantID uuid.UUID) error {
	return c.client.Incr(ctx, constants.RedisKeyCalendarVersion+participantID.String()).Err()
}

func (c *Cache) GetRange(ctx context.Context, key string) (string, bool, error) {
	s, err := c.client.Get(ctx, constants.RedisKeyCalendarRange+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (c *Cache) SetRange(ctx context.Context, key string, payload string, ttl time.Duration) error {
	return c.client.Set(ctx, constants.RedisKeyCalendarRange+key, payload, ttl).Err()
}
