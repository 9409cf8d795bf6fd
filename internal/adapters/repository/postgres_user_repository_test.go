package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
)

func TestPostgresUserRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("user-int-1", "integration@test.local")
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("super-secret-pw"))

	t.Run("Create and fetch", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, user))

		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		byEmail, err := repo.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.NoError(t, byEmail.CheckPassword("super-secret-pw"))
	})

	t.Run("Duplicate email is rejected", func(t *testing.T) {
		dup, err := domain.NewUser("user-int-2", "integration@test.local")
		require.NoError(t, err)
		require.NoError(t, dup.SetPassword("another-secret"))

		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrEmailAlreadyExists)
	})

	t.Run("Unknown lookups map to not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = repo.GetByEmail(ctx, "ghost@test.local")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
