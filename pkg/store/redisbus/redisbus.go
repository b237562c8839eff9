// Package redisbus broadcasts document invalidations across processes
// over a redis pub/sub channel. Messages carry only the document key.
package redisbus

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/observability"
	"github.com/slotboard/slotboard/pkg/store"
)

// DefaultChannel is the pub/sub channel invalidations travel on.
const DefaultChannel = "slotboard:invalidate"

// Bus implements store.Invalidator on redis pub/sub.
type Bus struct {
	client  *redis.Client
	channel string
}

// Options configures the redis connection.
type Options struct {
	// Addr is the redis host:port.
	Addr string

	// Password, empty for none.
	Password string

	// DB index.
	DB int

	// Channel overrides DefaultChannel.
	Channel string
}

// New connects to redis and verifies the connection.
func New(ctx context.Context, opts Options) (*Bus, error) {
	if opts.Addr == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "redis address is required")
	}
	channel := opts.Channel
	if channel == "" {
		channel = DefaultChannel
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping redis")
	}
	return &Bus{client: client, channel: channel}, nil
}

func (b *Bus) Broadcast(ctx context.Context, key string) error {
	observability.Store().InvalidationBroadcast(ctx, key)
	if err := b.client.Publish(ctx, b.channel, key).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "publish invalidation for %s", key)
	}
	return nil
}

// Subscribe delivers incoming keys to fn on a background goroutine until
// the returned unsubscribe function is called or ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, fn func(key string)) (func(), error) {
	ps := b.client.Subscribe(ctx, b.channel)
	// Force the subscription onto the wire before returning.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "subscribe to %s", b.channel)
	}

	go func() {
		for msg := range ps.Channel() {
			fn(msg.Payload)
		}
	}()

	return func() { _ = ps.Close() }, nil
}

func (b *Bus) Close() error {
	return b.client.Close()
}

var _ store.Invalidator = (*Bus)(nil)
