package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/serialcheck/serialcheck-server/internal/database"
	"github.com/serialcheck/serialcheck-server/internal/model"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error)
	Count(ctx context.Context) (int, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AdminRepository
}

type adminRepo struct {
	db database.DBTX
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) WithTx(tx *sqlx.Tx) AdminRepository {
	return &adminRepo{db: tx}
}

func (r *adminRepo) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, r.db.Rebind(`
		SELECT id, username, password_hash, created_at FROM admin WHERE username = ?
	`), username)
	return HandleNotFound(&admin, err)
}

func (r *adminRepo) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, r.db.Rebind(`
		INSERT INTO admin (username, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id, username, password_hash, created_at
	`), params.Username, params.PasswordHash, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admin`)
	return count, err
}
