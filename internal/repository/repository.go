package repository

import (
	"database/sql"
	"errors"
	"fmt"

	custom_error "library/pkg/errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

func WithTransaction(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	rawTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	tx := goqu.NewTx("postgres", rawTx)
	defer func() {
		if p := recover(); p != nil {
			rawTx.Rollback()
			panic(p)
		} else if err != nil {
			rawTx.Rollback()
		} else {
			err = rawTx.Commit()
		}
	}()

	err = fn(tx)
	return
}

// WithinTransaction runs fn inside a single transaction against this
// repository's database. Services depend on this method rather than on
// WithTransaction directly so tests can substitute a fake unit of work.
// Serialization failures and deadlocks surface as StorageConflictError; the
// transaction has already been rolled back and the caller decides whether to
// retry.
func (r *Repository) WithinTransaction(fn func(tx *goqu.TxDatabase) error) error {
	err := WithTransaction(r.GoquDBWrapper, fn)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && (pqErr.Code == "40001" || pqErr.Code == "40P01") {
			return custom_error.WrapDBError(err.Error(), string(pqErr.Code))
		}
	}
	return err
}
