package store

import (
	"context"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store/xpgx"
)

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks Store

type Pool = xpgx.Pool

type Store interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	ListServices(ctx context.Context, opts ListServicesOpts) ([]*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)

	ListSubmissions(ctx context.Context) ([]*domain.Submission, error)
	ListSubmissionRows(ctx context.Context) ([]*domain.SubmissionRow, error)
	GetSubmission(ctx context.Context, id int64) (*domain.Submission, error)
	CreateSubmission(ctx context.Context, serviceID, count int64) (*domain.Submission, error)
	UpdateSubmission(ctx context.Context, id int64, opts UpdateSubmissionOpts) error
	SetVerified(ctx context.Context, id int64) error
	DeleteSubmission(ctx context.Context, id int64) error
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
