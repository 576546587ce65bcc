package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/serialcheck/serialcheck-server/internal/database"
	"github.com/serialcheck/serialcheck-server/internal/model"
)

// ErrInvalidStatus is returned before any SQL runs when a write carries a
// status outside model.SerialStatuses.
var ErrInvalidStatus = errors.New("invalid serial status")

type SerialRepository interface {
	FindBySerial(ctx context.Context, sn string) (*model.SerialRecord, error)
	FindBySerials(ctx context.Context, sns []string) ([]model.SerialRecord, error)
	FindAll(ctx context.Context) ([]model.SerialRecord, error)
	Upsert(ctx context.Context, params model.UpsertSerialParams) error
	Delete(ctx context.Context, sn string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	// Rewrite replaces the row stored under oldSN with params. When
	// params.SerialNumber already belongs to another row, that row wins and
	// the oldSN row is removed.
	Rewrite(ctx context.Context, oldSN string, params model.UpsertSerialParams) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) SerialRepository
}

type serialRepo struct {
	db  *sqlx.DB
	q   database.DBTX
	now func() time.Time
}

func NewSerialRepository(db *sqlx.DB) SerialRepository {
	return &serialRepo{db: db, q: db, now: time.Now}
}

func (r *serialRepo) WithTx(tx *sqlx.Tx) SerialRepository {
	return &serialRepo{q: tx, now: r.now}
}

const serialColumns = `sn, status, note, updated_at`

func (r *serialRepo) FindBySerial(ctx context.Context, sn string) (*model.SerialRecord, error) {
	var record model.SerialRecord
	err := r.q.GetContext(ctx, &record, r.q.Rebind(`
		SELECT `+serialColumns+` FROM serials WHERE sn = ?
	`), sn)
	return HandleNotFound(&record, err)
}

func (r *serialRepo) FindBySerials(ctx context.Context, sns []string) ([]model.SerialRecord, error) {
	if len(sns) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+serialColumns+` FROM serials WHERE sn IN (?)`, sns)
	if err != nil {
		return nil, fmt.Errorf("build bulk lookup: %w", err)
	}

	var records []model.SerialRecord
	if err := r.q.SelectContext(ctx, &records, r.q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *serialRepo) FindAll(ctx context.Context) ([]model.SerialRecord, error) {
	records := []model.SerialRecord{}
	err := r.q.SelectContext(ctx, &records, `
		SELECT `+serialColumns+` FROM serials ORDER BY sn ASC
	`)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *serialRepo) Upsert(ctx context.Context, params model.UpsertSerialParams) error {
	if !params.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, params.Status)
	}

	_, err := r.q.ExecContext(ctx, r.q.Rebind(`
		INSERT INTO serials (sn, status, note, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(sn) DO UPDATE SET
			status = excluded.status,
			note = excluded.note,
			updated_at = excluded.updated_at
	`), params.SerialNumber, params.Status, params.Note, r.timestamp())
	return err
}

func (r *serialRepo) Delete(ctx context.Context, sn string) (int64, error) {
	result, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM serials WHERE sn = ?`), sn)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *serialRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM serials`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *serialRepo) Rewrite(ctx context.Context, oldSN string, params model.UpsertSerialParams) error {
	if !params.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, params.Status)
	}

	if r.db == nil {
		return r.rewrite(ctx, oldSN, params)
	}
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return r.WithTx(tx).(*serialRepo).rewrite(ctx, oldSN, params)
	})
}

func (r *serialRepo) rewrite(ctx context.Context, oldSN string, params model.UpsertSerialParams) error {
	if params.SerialNumber != oldSN {
		var taken int
		err := r.q.GetContext(ctx, &taken, r.q.Rebind(`
			SELECT COUNT(*) FROM serials WHERE sn = ?
		`), params.SerialNumber)
		if err != nil {
			return err
		}
		if taken > 0 {
			_, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM serials WHERE sn = ?`), oldSN)
			return err
		}
	}

	_, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE serials SET sn = ?, status = ?, note = ?, updated_at = ?
		WHERE sn = ?
	`), params.SerialNumber, params.Status, params.Note, r.timestamp(), oldSN)
	return err
}

func (r *serialRepo) timestamp() time.Time {
	return r.now().UTC()
}
