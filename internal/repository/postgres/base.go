package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/pkg/metrics"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

// NewBaseRepository creates a new base repository. m may be nil.
func NewBaseRepository(db *sqlx.DB, m *metrics.Metrics) BaseRepository {
	return BaseRepository{db: db, metrics: m}
}

// observe records the outcome of a named query. Use as
// defer r.observe("client.get", time.Now(), &err).
func (r *BaseRepository) observe(operation string, start time.Time, err *error) {
	var e error
	if err != nil {
		e = *err
		if errors.Is(e, repository.ErrNotFound) {
			e = nil
		}
	}
	r.metrics.ObserveDB(operation, start, e)
}

// notFound maps sql.ErrNoRows to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// uniqueViolation maps a postgres unique_violation to repository.ErrDuplicate.
func uniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}

// requireRow returns ErrNotFound when res affected no rows.
func requireRow(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", msg, repository.ErrNotFound)
	}
	return nil
}
