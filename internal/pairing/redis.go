package pairing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChannel is a Redis-backed pairing channel. Payloads are pushed onto a
// per-code list with a TTL and popped with BLPOP.
type RedisChannel struct {
	client *redis.Client
	cfg    Config
}

// Ensure RedisChannel implements the interface
var _ Channel = (*RedisChannel)(nil)

// NewRedisChannel connects to Redis and verifies the connection
func NewRedisChannel(cfg Config) (*RedisChannel, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisChannel{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewRedisChannelWithClient creates a channel with an existing client (for testing)
func NewRedisChannelWithClient(client *redis.Client, cfg Config) *RedisChannel {
	return &RedisChannel{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (c *RedisChannel) Close() error {
	return c.client.Close()
}

func (c *RedisChannel) Offer(ctx context.Context, code Code, payload Payload) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	key := payloadKey(code)
	pipe := c.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if c.cfg.PayloadTTL > 0 {
		pipe.Expire(ctx, key, c.cfg.PayloadTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("offer pairing payload: %w", err)
	}
	return nil
}

func (c *RedisChannel) Await(ctx context.Context, code Code) (Payload, error) {
	result, err := c.client.BLPop(ctx, c.cfg.AwaitTimeout, payloadKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return Payload{}, ErrTimeout
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Payload{}, ctxErr
		}
		return Payload{}, fmt.Errorf("await pairing payload: %w", err)
	}

	// BLPOP replies with [key, value]
	if len(result) != 2 {
		return Payload{}, fmt.Errorf("await pairing payload: unexpected reply length %d", len(result))
	}
	var payload Payload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := payload.Validate(); err != nil {
		return Payload{}, err
	}
	return payload, nil
}
