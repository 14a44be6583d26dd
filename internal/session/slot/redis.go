package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prn-tf/castellan/internal/domain"
)

// redisKey is the single key the slot occupies.
const redisKey = "castellan:session"

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// RedisSlot stores the session record under a single Redis key.
type RedisSlot struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisSlot connects to Redis and verifies the connection.
func NewRedisSlot(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (*RedisSlot, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Msg("opened Redis session slot")

	return &RedisSlot{client: client, logger: logger}, nil
}

// Load implements Slot.
func (s *RedisSlot) Load(ctx context.Context) (*domain.User, error) {
	data, err := s.client.Get(ctx, redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session slot: %w", err)
	}
	return decode(data)
}

// Save implements Slot.
func (s *RedisSlot) Save(ctx context.Context, u *domain.User) error {
	data, err := encode(u)
	if err != nil {
		return err
	}

	// No TTL: the slot lives until logout clears it.
	if err := s.client.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session slot: %w", err)
	}
	return nil
}

// Clear implements Slot.
func (s *RedisSlot) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("failed to clear session slot: %w", err)
	}
	return nil
}

// Close implements Slot.
func (s *RedisSlot) Close() error {
	return s.client.Close()
}

var _ Slot = (*RedisSlot)(nil)
