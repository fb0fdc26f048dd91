package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store/xpgx"
)

const DefaultPGChannel = "isi_data_changed"

// PGListener turns PostgreSQL NOTIFY on a channel into local signals. The
// migration installs a trigger on isi_data that notifies the same channel.
type PGListener struct {
	*Local
	pool    xpgx.Pool
	channel string
}

func NewPGListener(pool xpgx.Pool, channel string) *PGListener {
	if channel == "" {
		channel = DefaultPGChannel
	}
	return &PGListener{
		Local:   newLocal(constants.FeedDriverPostgres),
		pool:    pool,
		channel: channel,
	}
}

func (l *PGListener) Notify(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, "select pg_notify($1, '')", l.channel); err != nil {
		return fmt.Errorf("pg_notify: %w", err)
	}
	return nil
}

// Run keeps a LISTEN connection open, reconnecting with exponential backoff.
func (l *PGListener) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0

	err := backoff.RetryNotify(
		func() error {
			return l.listen(ctx, b)
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			logger.Warnf(ctx, "pg listener on %s: %s; reconnecting in %s", l.channel, err.Error(), next)
		},
	)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (l *PGListener) listen(ctx context.Context, b backoff.BackOff) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(cleanupCtx, "UNLISTEN *"); err != nil {
			_ = conn.Conn().Close(cleanupCtx)
		}
		conn.Release()
	}()

	if _, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	b.Reset()
	logger.Infof(ctx, "listening on postgres channel %s", l.channel)

	// anything written while we were disconnected went unseen
	l.Publish()

	for {
		if _, err = conn.Conn().WaitForNotification(ctx); err != nil {
			if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		l.Publish()
	}
}
