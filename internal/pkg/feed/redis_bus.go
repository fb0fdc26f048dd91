package feed

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
)

const (
	DefaultRedisChannel = "ajuan:changed"
	redisPayload        = "changed"
)

// RedisBus shares change signals between several instances via Redis Pub/Sub.
type RedisBus struct {
	*Local
	rdb     *goredis.Client
	channel string
}

func NewRedisBus(ctx context.Context, addr, channel string) (*RedisBus, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if channel == "" {
		channel = DefaultRedisChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{
		Local:   newLocal(constants.FeedDriverRedis),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *RedisBus) Notify(ctx context.Context) error {
	return b.rdb.Publish(ctx, b.channel, redisPayload).Err()
}

func (b *RedisBus) Run(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer func() {
		_ = sub.Close()
	}()

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	logger.Infof(ctx, "subscribed to redis channel %s", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return fmt.Errorf("redis channel %s closed", b.channel)
			}
			if m == nil {
				continue
			}
			b.Publish()
		}
	}
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}
