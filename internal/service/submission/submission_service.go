package submission

import (
	"context"
	"fmt"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain/dto"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/feed"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/metrics"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opVerify = "verify"
	opDelete = "delete"
)

type Service struct {
	store    store.Store
	notifier feed.Notifier
}

func NewSubmissionService(store store.Store, notifier feed.Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

func (s *Service) List(ctx context.Context) ([]dto.SubmissionItem, error) {
	rows, err := s.store.ListSubmissionRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListSubmissionRows: %w", err)
	}

	items := make([]dto.SubmissionItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.NewSubmissionItem(r))
	}

	return items, nil
}

// Create records a new unverified submission.
func (s *Service) Create(ctx context.Context, req dto.CreateSubmissionRequest) (*domain.Submission, error) {
	if req.Count == nil || *req.Count < 0 {
		return nil, constants.ErrBadRequest
	}

	created, err := s.store.CreateSubmission(ctx, req.ServiceID, *req.Count)
	s.changed(ctx, opCreate, err)
	if err != nil {
		return nil, fmt.Errorf("store.CreateSubmission, service_id-%d: %w", req.ServiceID, err)
	}

	return created, nil
}

// Update changes the count and/or the owning service. It cannot touch verification.
func (s *Service) Update(ctx context.Context, req dto.UpdateSubmissionRequest) error {
	opts := store.UpdateSubmissionOpts{ServiceID: req.ServiceID, Count: req.Count}
	if opts.Empty() {
		return constants.ErrEmptyUpdate
	}
	if opts.Count != nil && *opts.Count < 0 {
		return constants.ErrBadRequest
	}

	err := s.store.UpdateSubmission(ctx, req.ID, opts)
	s.changed(ctx, opUpdate, err)
	if err != nil {
		return fmt.Errorf("store.UpdateSubmission, id-%d: %w", req.ID, err)
	}

	return nil
}

func (s *Service) Verify(ctx context.Context, id int64) error {
	err := s.store.SetVerified(ctx, id)
	s.changed(ctx, opVerify, err)
	if err != nil {
		return fmt.Errorf("store.SetVerified, id-%d: %w", id, err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.DeleteSubmission(ctx, id)
	s.changed(ctx, opDelete, err)
	if err != nil {
		return fmt.Errorf("store.DeleteSubmission, id-%d: %w", id, err)
	}

	return nil
}

// changed records the mutation outcome and, on success, signals the feed.
// A failed notification is only logged: the mutation itself went through.
func (s *Service) changed(ctx context.Context, op string, err error) {
	metrics.SubmissionMutations.WithLabelValues(op, metrics.Outcome(err)).Inc()
	if err != nil {
		return
	}

	if notifyErr := s.notifier.Notify(ctx); notifyErr != nil {
		logger.Warnf(ctx, "notify after %s: %s", op, notifyErr.Error())
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Submission, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetSubmission, id-%d: %w", id, err)
	}

	return sub, nil
}
