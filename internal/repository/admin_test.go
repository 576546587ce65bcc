package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serialcheck/serialcheck-server/internal/model"
)

func TestAdminRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdminRepository(db.DB)
	ctx := context.Background()

	t.Run("starts empty", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("creates an admin with a store assigned id", func(t *testing.T) {
		admin, err := repo.Create(ctx, model.CreateAdminParams{
			Username:     "admin",
			PasswordHash: "$2a$12$hash",
		})
		require.NoError(t, err)
		assert.Positive(t, admin.ID)
		assert.Equal(t, "admin", admin.Username)
		assert.False(t, admin.CreatedAt.IsZero())
	})

	t.Run("username is unique", func(t *testing.T) {
		_, err := repo.Create(ctx, model.CreateAdminParams{Username: "admin", PasswordHash: "x"})
		assert.Error(t, err)
	})

	t.Run("finds by username", func(t *testing.T) {
		admin, err := repo.FindByUsername(ctx, "admin")
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.Equal(t, "$2a$12$hash", admin.PasswordHash)

		missing, err := repo.FindByUsername(ctx, "root")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("works inside a transaction", func(t *testing.T) {
		err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
			_, err := repo.WithTx(tx).Create(ctx, model.CreateAdminParams{Username: "second", PasswordHash: "y"})
			return err
		})
		require.NoError(t, err)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
