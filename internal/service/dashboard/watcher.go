package dashboard

import (
	"context"
	"time"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain/dto"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/feed"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultTick     = 10 * time.Second
)

// Watcher subscribes to the change feed once and turns bursts of signals into
// a single refresh per debounce window.
type Watcher struct {
	svc      *Service
	feed     feed.Feed
	debounce time.Duration
	tick     time.Duration

	signal chan struct{}
}

func NewWatcher(svc *Service, f feed.Feed, debounce, tick time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Watcher{
		svc:      svc,
		feed:     f,
		debounce: debounce,
		tick:     tick,
		signal:   make(chan struct{}, 1),
	}
}

func (w *Watcher) poke() {
	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *Watcher) Run(ctx context.Context) error {
	unsubscribe := w.feed.Subscribe(w.poke)
	defer unsubscribe()

	w.refresh(ctx)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.signal:
			// the window opens on the first signal and is not extended by later ones
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			}
		case <-pending:
			timer, pending = nil, nil
			w.refresh(ctx)
		case now := <-ticker.C:
			if hub := w.svc.Hub(); hub != nil {
				hub.BroadcastAll(Message{Event: EventTick, Data: dto.TickEvent{ServerTime: now}})
			}
		}
	}
}

func (w *Watcher) refresh(ctx context.Context) {
	if err := w.svc.Refresh(ctx); err != nil && ctx.Err() == nil {
		logger.Errorf(ctx, "dashboard refresh: %s", err.Error())
	}
}
