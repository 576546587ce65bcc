package repository

import (
	"database/sql"
	"errors"
)

// HandleNotFound turns sql.ErrNoRows into a nil result without error, so
// Find* callers test for nil instead of matching driver errors.
//
//	var record model.SerialRecord
//	err := r.q.GetContext(ctx, &record, query, args...)
//	return HandleNotFound(&record, err)
func HandleNotFound[T any](result *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
