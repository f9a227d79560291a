package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// setIfGeneration stores ARGV[2] under KEYS[1] only while KEYS[2] still holds
// the generation in ARGV[1]. A missing generation key reads as 0.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if (current or '0') ~= ARGV[1] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// RedisCounter implements repository.CounterCache on top of plain Redis keys.
// Each counter key has a companion generation key.
type RedisCounter struct {
	client redis.Cmdable
}

// NewRedisCounter wraps a go-redis client.
func NewRedisCounter(client redis.Cmdable) *RedisCounter {
	return &RedisCounter{client: client}
}

func generationKey(key string) string {
	return key + ":gen"
}

// GetCount returns the stored value and whether the key existed.
func (c *RedisCounter) GetCount(ctx context.Context, key string) (int, bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// Generation returns the current generation of key.
func (c *RedisCounter) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetCountAt stores value with ttl unless key was invalidated after generation
// was read. A zero ttl keeps the key until invalidated.
func (c *RedisCounter) SetCountAt(ctx context.Context, key string, generation int64, value int, ttl time.Duration) error {
	keys := []string{key, generationKey(key)}
	return setIfGeneration.Run(ctx, c.client, keys,
		strconv.FormatInt(generation, 10), value, ttl.Milliseconds()).Err()
}

// Invalidate advances the generation and removes the cached value atomically.
func (c *RedisCounter) Invalidate(ctx context.Context, key string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(key))
		pipe.Del(ctx, key)
		return nil
	})
	return err
}
