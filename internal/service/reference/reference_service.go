package reference

import (
	"context"
	"fmt"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/aggregate"
)

// Service serves the static category and service lists used by the input form.
type Service struct {
	store  store.Store
	engine *aggregate.Engine
}

func NewReferenceService(store store.Store, engine *aggregate.Engine) *Service {
	return &Service{store: store, engine: engine}
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListCategories: %w", err)
	}

	return categories, nil
}

// ListServices returns every service in display order: general information first,
// population registration last, unknown categories after that.
func (s *Service) ListServices(ctx context.Context) ([]*domain.Service, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListCategories: %w", err)
	}

	services, err := s.store.ListServices(ctx, store.ListServicesOpts{})
	if err != nil {
		return nil, fmt.Errorf("store.ListServices: %w", err)
	}

	return s.engine.OrderServices(aggregate.Dataset{Categories: categories, Services: services}), nil
}

func (s *Service) ListServicesByCategory(ctx context.Context, categoryID int64) ([]*domain.Service, error) {
	services, err := s.store.ListServices(ctx, store.ListServicesOpts{CategoryID: &categoryID})
	if err != nil {
		return nil, fmt.Errorf("store.ListServices, category_id-%d: %w", categoryID, err)
	}

	return services, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.store.GetService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetService, id-%d: %w", id, err)
	}

	return svc, nil
}
