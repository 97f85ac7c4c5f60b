package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations interface. Values are stored as
// JSON so that any layer (memory, Redis) round-trips the same bytes.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

// Key creates a cache key from a prefix and parameters.
func Key(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}

// GetOrFill reads key into dest; on a miss it calls fill, caches the
// result, and assigns it to dest.
func GetOrFill[T any](ctx context.Context, c Service, key string, ttl time.Duration, dest *T, fill func(ctx context.Context) (T, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	} else if !errors.Is(err, ErrCacheMiss) {
		return err
	}

	value, err := fill(ctx)
	if err != nil {
		return err
	}

	*dest = value
	_ = c.Set(ctx, key, value, ttl)
	return nil
}
