package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis reads the whole document from a single string key.
type Redis struct {
	Options *redis.Options
	Key     string
}

// NewRedis parses redis://[:password@]host:port/db?key=<key>.
func NewRedis(uri string, timeout time.Duration) (*Redis, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis source: %w", err)
	}

	q := u.Query()
	key := q.Get("key")
	if key == "" {
		return nil, fmt.Errorf("redis source %q: key query parameter is required", uri)
	}
	// go-redis не знает параметр key
	q.Del("key")
	u.RawQuery = q.Encode()

	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis source: %w", err)
	}
	opts.PoolSize = 1
	opts.MaxRetries = 3
	if timeout > 0 {
		opts.DialTimeout = timeout
		opts.ReadTimeout = timeout
		opts.WriteTimeout = timeout
	}

	return &Redis{Options: opts, Key: key}, nil
}

func (r *Redis) Open(ctx context.Context) (io.ReadCloser, error) {
	client := redis.NewClient(r.Options)
	defer client.Close()

	// Проверка соединения
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", r.Options.Addr, err)
	}

	data, err := client.Get(ctx, r.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis key %q: %w", r.Key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read redis key %q: %w", r.Key, err)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (r *Redis) String() string {
	return fmt.Sprintf("redis://%s/%d?key=%s", r.Options.Addr, r.Options.DB, r.Key)
}
