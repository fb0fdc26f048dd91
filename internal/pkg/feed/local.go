package feed

import (
	"context"
	"sync"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/metrics"
)

// Local fans a signal out to in-process subscribers. The remote buses embed it
// as their delivery stage.
type Local struct {
	driver string

	mu   sync.RWMutex
	next uint64
	subs map[uint64]func()
}

func NewLocal() *Local {
	return newLocal(constants.FeedDriverLocal)
}

func newLocal(driver string) *Local {
	return &Local{driver: driver, subs: make(map[uint64]func())}
}

func (l *Local) Subscribe(onChange func()) func() {
	l.mu.Lock()
	id := l.next
	l.next++
	l.subs[id] = onChange
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
		})
	}
}

// Publish calls every subscriber outside the lock so callbacks may unsubscribe.
func (l *Local) Publish() {
	metrics.FeedSignals.WithLabelValues(l.driver).Inc()

	l.mu.RLock()
	subs := make([]func(), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

func (l *Local) Subscribers() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs)
}

func (l *Local) Notify(context.Context) error {
	l.Publish()
	return nil
}

func (l *Local) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (l *Local) Close() error {
	return nil
}
