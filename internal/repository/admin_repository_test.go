package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository(t *testing.T) {
	repo := NewAdminRepository(NewTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateIfMissing(ctx, "admin@example.com", "hash-1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfMissing(ctx, "admin@example.com", "hash-2")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", admin.PasswordHash)

	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "hash-3"))
	admin, err = repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-3", admin.PasswordHash)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrAdminNotFound)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, 999, "x"), ErrAdminNotFound)
}
