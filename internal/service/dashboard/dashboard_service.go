package dashboard

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain/dto"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/metrics"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/aggregate"
)

type View string

const (
	ViewAdmin  View = "admin"
	ViewPublic View = "public"
)

func ParseView(s string) (View, error) {
	switch View(s) {
	case "", ViewPublic:
		return ViewPublic, nil
	case ViewAdmin:
		return ViewAdmin, nil
	default:
		return "", constants.ErrUnknownView
	}
}

// Snapshot is the working set as of one successful load.
type Snapshot struct {
	aggregate.Dataset
	LoadedAt time.Time
}

type Service struct {
	store   store.Store
	engines map[View]*aggregate.Engine
	hub     *Hub
	now     func() time.Time

	current atomic.Pointer[Snapshot]
}

func NewDashboardService(store store.Store, hub *Hub) *Service {
	return &Service{
		store: store,
		engines: map[View]*aggregate.Engine{
			ViewAdmin:  aggregate.New(aggregate.AdminConfig()),
			ViewPublic: aggregate.New(aggregate.PublicConfig()),
		},
		hub: hub,
		now: time.Now,
	}
}

func (s *Service) Hub() *Hub {
	return s.hub
}

// Load fetches the three lists. Any failure discards the whole load so that
// aggregation never sees partial data.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	var (
		categories  []*domain.Category
		services    []*domain.Service
		submissions []*domain.Submission
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		categories, err = s.store.ListCategories(egCtx)
		if err != nil {
			return fmt.Errorf("store.ListCategories: %w", err)
		}
		return nil
	})
	eg.Go(func() (err error) {
		services, err = s.store.ListServices(egCtx, store.ListServicesOpts{})
		if err != nil {
			return fmt.Errorf("store.ListServices: %w", err)
		}
		return nil
	})
	eg.Go(func() (err error) {
		submissions, err = s.store.ListSubmissions(egCtx)
		if err != nil {
			return fmt.Errorf("store.ListSubmissions: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		Dataset: aggregate.Dataset{
			Categories:  categories,
			Services:    services,
			Submissions: submissions,
		},
		LoadedAt: s.now(),
	}, nil
}

// Refresh reloads the snapshot and pushes the new views to stream clients.
// On failure the previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) error {
	started := time.Now()
	snap, err := s.Load(ctx)
	metrics.DashboardReloadSeconds.Observe(time.Since(started).Seconds())
	metrics.DashboardRecomputes.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}

	s.current.Store(snap)
	logger.Debugf(ctx, "dashboard reloaded: %d submissions", len(snap.Submissions))

	if s.hub == nil {
		return nil
	}
	for _, v := range s.hub.Views() {
		resp, err := s.assemble(snap, v)
		if err != nil {
			continue
		}
		s.hub.Broadcast(v, Message{Event: EventDashboard, Data: resp})
	}

	return nil
}

func (s *Service) Snapshot() *Snapshot {
	return s.current.Load()
}

// View assembles the dashboard for view from the current snapshot, loading
// one first if nothing has been loaded yet.
func (s *Service) View(ctx context.Context, view View) (*dto.DashboardResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return s.assemble(snap, view)
}

func (s *Service) assemble(snap *Snapshot, view View) (*dto.DashboardResponse, error) {
	engine, ok := s.engines[view]
	if !ok {
		return nil, constants.ErrUnknownView
	}

	return &dto.DashboardResponse{
		View:        string(view),
		GeneratedAt: snap.LoadedAt,
		Dashboard:   engine.Assemble(snap.Dataset),
	}, nil
}

// Subscribe registers a stream client and then builds its first view. A
// refresh landing in between is queued on the client instead of being lost.
func (s *Service) Subscribe(ctx context.Context, view View) (*Client, *dto.DashboardResponse, error) {
	if s.hub == nil {
		return nil, nil, constants.ErrNotReady
	}

	client := s.hub.Register(ctx, view)
	resp, err := s.View(ctx, view)
	if err != nil {
		s.hub.Unregister(client)
		return nil, nil, err
	}

	return client, resp, nil
}

func (s *Service) snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}
	return nil, constants.ErrNotReady
}

// ServiceStats reports the totals of one service as the given view shows them.
func (s *Service) ServiceStats(ctx context.Context, view View, serviceID int64) (aggregate.ServiceStats, error) {
	engine, ok := s.engines[view]
	if !ok {
		return aggregate.ServiceStats{}, constants.ErrUnknownView
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return aggregate.ServiceStats{}, err
	}

	return engine.ServiceStats(snap.Dataset, serviceID), nil
}

func (s *Service) CategoryTotal(ctx context.Context, categoryID int64) (aggregate.CategoryTotal, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return aggregate.CategoryTotal{}, err
	}

	total := aggregate.CategoryTotal{ID: categoryID}
	for _, c := range snap.Categories {
		if c != nil && c.ID == categoryID {
			total.Name = c.Name
			break
		}
	}
	if total.Name == "" {
		return aggregate.CategoryTotal{}, constants.ErrDBNotFound
	}
	total.Total = s.engines[ViewAdmin].CategoryTotal(snap.Dataset, categoryID)

	return total, nil
}
