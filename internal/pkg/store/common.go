package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
)

const (
	tableCategories  = "kelompok_data"
	tableServices    = "jenis_data"
	tableSubmissions = "isi_data"
)

const pgForeignKeyViolation = "23503"

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return constants.ErrUnknownService
	}
	return err
}

// builder returns a squirrel builder using $N placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
