package redis

import (
	"context"
	"fmt"
	"time"

	re "github.com/redis/go-redis/v9"
)

// Redis caches JSON-encoded read results. The Dummy implementation makes
// the cache optional without branches at the call sites.
type Redis interface {
	Set(ctx context.Context, key string, value []byte, expireTime time.Duration) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
}

type Config struct {
	Address   string
	Namespace string
}

type redis struct {
	redis     *re.Client
	namespace string
}

func New(enable bool, cfg *Config) Redis {
	if !enable || cfg == nil || cfg.Address == "" {
		return Dummy()
	}

	return &redis{
		redis: re.NewClient(&re.Options{
			Addr: cfg.Address,
		}),
		namespace: cfg.Namespace,
	}
}

func (r *redis) withNamespace(key string) string {
	return fmt.Sprintf("%s:%s", r.namespace, key)
}

func (r *redis) Set(ctx context.Context, key string, value []byte, expireTime time.Duration) (bool, error) {
	namespacedKey := r.withNamespace(key)
	return r.redis.Set(ctx, namespacedKey, value, expireTime).Err() == nil, nil
}

func (r *redis) Get(ctx context.Context, key string) ([]byte, error) {
	namespacedKey := r.withNamespace(key)
	val, err := r.redis.Get(ctx, namespacedKey).Result()
	if err == re.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

func (r *redis) Delete(ctx context.Context, key string) (bool, error) {
	namespacedKey := r.withNamespace(key)
	result, err := r.redis.Del(ctx, namespacedKey).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}
