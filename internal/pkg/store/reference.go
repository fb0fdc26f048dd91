package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store/xpgx"
)

type ListServicesOpts struct {
	CategoryID *int64
}

var (
	categoryColumns = []string{"id", "nama"}
	serviceColumns  = []string{"id", "nama", "id_kelompok_data"}
)

func (s *store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	query := builder().Select(categoryColumns...).
		From(tableCategories).
		OrderBy("id")

	selected, err := xpgx.Selectx[domain.Category](ctx, s.pool, query)
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListServices(ctx context.Context, opts ListServicesOpts) ([]*domain.Service, error) {
	query := builder().Select(serviceColumns...).
		From(tableServices).
		OrderBy("id")

	if opts.CategoryID != nil {
		query = query.Where(sq.Eq{"id_kelompok_data": *opts.CategoryID})
	}

	selected, err := xpgx.Selectx[domain.Service](ctx, s.pool, query)
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	query := builder().Select(serviceColumns...).
		From(tableServices).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Getx[domain.Service](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
