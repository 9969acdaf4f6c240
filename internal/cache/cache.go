// Package cache provides the key-value stores behind the search response cache.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache is a generic key-value cache with JSON-serialized values.
type Cache interface {
	// Get fills dest (a pointer) with the value stored under key.
	// It returns (true, nil) on a hit and (false, nil) on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores val under key for ttl. A zero ttl uses the cache default.
	Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Close releases background resources.
	Close() error
}

// Driver names accepted by New.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Options selects and configures a cache driver.
type Options struct {
	Driver        string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New builds the cache named by opts.Driver. DriverNone (or empty) returns
// (nil, nil): callers treat a nil Cache as disabled.
func New(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Driver {
	case "", DriverNone:
		return nil, nil
	case DriverMemory:
		return NewMemory(opts.TTL, time.Minute), nil
	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", opts.RedisAddr, err)
		}
		return NewRedis(client, opts.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", opts.Driver)
	}
}
