package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/stepwise-learn/stepwise-backend/internal/logger"
)

// GenerationLock serializes plan generation per student across instances.
// Acquire returns false when another generation for the same student is
// already in flight.
type GenerationLock interface {
	Acquire(ctx context.Context, studentID uuid.UUID, ttl time.Duration) (bool, error)
	Release(ctx context.Context, studentID uuid.UUID) error
	Close() error
}

type generationLock struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewGenerationLock(log *logger.Logger) (GenerationLock, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &generationLock{
		log: log.With("service", "RedisGenerationLock"),
		rdb: rdb,
	}, nil
}

func lockKey(studentID uuid.UUID) string {
	return "plan_generation:" + studentID.String()
}

func (l *generationLock) Acquire(ctx context.Context, studentID uuid.UUID, ttl time.Duration) (bool, error) {
	if l == nil || l.rdb == nil {
		return false, fmt.Errorf("redis generation lock not initialized")
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	ok, err := l.rdb.SetNX(ctx, lockKey(studentID), "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (l *generationLock) Release(ctx context.Context, studentID uuid.UUID) error {
	if l == nil || l.rdb == nil {
		return fmt.Errorf("redis generation lock not initialized")
	}
	return l.rdb.Del(ctx, lockKey(studentID)).Err()
}

func (l *generationLock) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}
