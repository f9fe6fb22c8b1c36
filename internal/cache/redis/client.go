package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/trade-compass/backend/pkg/logger"
)

// ErrCacheMiss is returned when no entry exists for the key.
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("host", host), zap.Int("port", port))

	return &Client{rdb: rdb, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetAnswer looks up a cached answer payload by question hash.
func (c *Client) GetAnswer(ctx context.Context, queryHash string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, answerKey(queryHash)).Bytes()
	if err == goredis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached answer: %w", err)
	}
	return val, nil
}

// SetAnswer stores an answer payload under the question hash with the
// configured TTL.
func (c *Client) SetAnswer(ctx context.Context, queryHash string, payload []byte) error {
	err := c.rdb.Set(ctx, answerKey(queryHash), payload, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache answer: %w", err)
	}
	return nil
}

func answerKey(queryHash string) string {
	return "answer:" + queryHash
}
