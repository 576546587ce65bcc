package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/serialcheck/serialcheck-server/internal/database"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(context.Background()))
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string {
	return &s
}
