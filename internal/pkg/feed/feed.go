// Package feed carries the payload-free "submissions changed" signal between
// writers and the dashboard watcher.
package feed

import (
	"context"
	"fmt"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store/xpgx"
)

type Feed interface {
	// Subscribe registers onChange and returns a func that removes it.
	// onChange runs on the publisher's goroutine and must not block.
	Subscribe(onChange func()) (unsubscribe func())
}

type Notifier interface {
	Notify(ctx context.Context) error
}

type Bus interface {
	Feed
	Notifier
	// Run pumps remote notifications into local subscribers until ctx is done.
	Run(ctx context.Context) error
	Close() error
}

type Options struct {
	Driver       string
	PGChannel    string
	RedisAddr    string
	RedisChannel string
}

func Open(ctx context.Context, pool xpgx.Pool, opts Options) (Bus, error) {
	switch opts.Driver {
	case constants.FeedDriverLocal, "":
		return NewLocal(), nil
	case constants.FeedDriverPostgres:
		return NewPGListener(pool, opts.PGChannel), nil
	case constants.FeedDriverRedis:
		bus, err := NewRedisBus(ctx, opts.RedisAddr, opts.RedisChannel)
		if err != nil {
			return nil, fmt.Errorf("NewRedisBus: %w", err)
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown feed driver %q", opts.Driver)
	}
}
