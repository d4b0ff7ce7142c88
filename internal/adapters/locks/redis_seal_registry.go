package locks

import (
	"context"
	"time"

	"github.com/amparo-center/attendance-service/internal/config"
	"github.com/amparo-center/attendance-service/internal/core/ports"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

const sealKeyPrefix = "day:sealed:"

// RedisSealRegistry records sealed dates in Redis. SetNX gives the seal its
// compare-and-swap semantics: two replicas racing to seal the same date get
// exactly one winner.
type RedisSealRegistry struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SealRegistry = (*RedisSealRegistry)(nil)

func NewRedisSealRegistry(client *redis.Client) *RedisSealRegistry {
	return &RedisSealRegistry{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-Seal"),
	}
}

func sealKey(date string) string {
	return sealKeyPrefix + date
}

func (r *RedisSealRegistry) Seal(ctx context.Context, date string) (bool, error) {
	won, err := r.cb.Execute(func() (interface{}, error) {
		return r.client.SetNX(ctx, sealKey(date), time.Now().UTC().Format(time.RFC3339), 0).Result()
	})
	if err != nil {
		return false, err
	}
	return won.(bool), nil
}

func (r *RedisSealRegistry) IsSealed(ctx context.Context, date string) (bool, error) {
	n, err := r.cb.Execute(func() (interface{}, error) {
		return r.client.Exists(ctx, sealKey(date)).Result()
	})
	if err != nil {
		return false, err
	}
	return n.(int64) > 0, nil
}

func (r *RedisSealRegistry) Release(ctx context.Context, date string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.client.Del(ctx, sealKey(date)).Err()
	})
	return err
}
