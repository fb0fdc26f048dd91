package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store/xpgx"
)

type UpdateSubmissionOpts struct {
	ServiceID *int64
	Count     *int64
}

func (o UpdateSubmissionOpts) Empty() bool {
	return o.ServiceID == nil && o.Count == nil
}

var submissionColumns = []string{
	"id",
	"id_jenis_data",
	"coalesce(jumlah, 0) as jumlah",
	"tanggal",
	"to_char(jam, 'HH24:MI:SS') as jam",
	"is_verified",
}

func (s *store) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	query := builder().Select(submissionColumns...).
		From(tableSubmissions).
		OrderBy("id desc")

	selected, err := xpgx.Selectx[domain.Submission](ctx, s.pool, query)
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

// ListSubmissionRows left-joins services and categories so that rows whose
// references are gone are still listed.
func (s *store) ListSubmissionRows(ctx context.Context) ([]*domain.SubmissionRow, error) {
	query := builder().Select(
		"i.id",
		"i.id_jenis_data",
		"coalesce(i.jumlah, 0) as jumlah",
		"i.tanggal",
		"to_char(i.jam, 'HH24:MI:SS') as jam",
		"i.is_verified",
		"j.nama as service_name",
		"k.id as category_id",
		"k.nama as category_name",
	).
		From(tableSubmissions + " i").
		LeftJoin(tableServices + " j on j.id = i.id_jenis_data").
		LeftJoin(tableCategories + " k on k.id = j.id_kelompok_data").
		OrderBy("i.id desc")

	selected, err := xpgx.Selectx[domain.SubmissionRow](ctx, s.pool, query)
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) GetSubmission(ctx context.Context, id int64) (*domain.Submission, error) {
	query := builder().Select(submissionColumns...).
		From(tableSubmissions).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Getx[domain.Submission](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) CreateSubmission(ctx context.Context, serviceID, count int64) (*domain.Submission, error) {
	query := builder().Insert(tableSubmissions).
		Columns("id_jenis_data", "jumlah", "is_verified").
		Values(serviceID, count, false).
		Suffix("RETURNING " + strings.Join(submissionColumns, ", "))

	created, err := xpgx.Getx[domain.Submission](ctx, s.pool, query)
	if err != nil {
		logger.Errorf(ctx, "insert submission, service_id-%d: %s", serviceID, err.Error())
		return nil, wrapErr(err)
	}

	return created, nil
}

// UpdateSubmission reassigns the service and/or changes the count. The verified flag is left alone.
func (s *store) UpdateSubmission(ctx context.Context, id int64, opts UpdateSubmissionOpts) error {
	if opts.Empty() {
		return constants.ErrEmptyUpdate
	}

	query := builder().Update(tableSubmissions).
		Where(sq.Eq{"id": id})

	if opts.ServiceID != nil {
		query = query.Set("id_jenis_data", *opts.ServiceID)
	}
	if opts.Count != nil {
		query = query.Set("jumlah", *opts.Count)
	}

	return s.execOne(ctx, query)
}

// SetVerified is one-way; verifying an already verified submission is a no-op.
func (s *store) SetVerified(ctx context.Context, id int64) error {
	query := builder().Update(tableSubmissions).
		Set("is_verified", true).
		Where(sq.Eq{"id": id})

	return s.execOne(ctx, query)
}

func (s *store) DeleteSubmission(ctx context.Context, id int64) error {
	query := builder().Delete(tableSubmissions).
		Where(sq.Eq{"id": id})

	return s.execOne(ctx, query)
}

// execOne runs a statement that must touch exactly one row.
func (s *store) execOne(ctx context.Context, query sq.Sqlizer) error {
	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		logger.Error(ctx, err.Error())
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission: %w", constants.ErrDBNotFound)
	}

	return nil
}
