package repository

import (
	"context"
	"testing"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("create and fetch by email", func(t *testing.T) {
		u := &model.User{
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			PasswordHash: "$2a$10$fakehash",
			Role:         model.RoleDonor,
		}
		created, err := repo.Create(ctx, u)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		got, err := repo.GetByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, model.RoleDonor, got.Role)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		u := &model.User{
			Name:         "Other Jane",
			Email:        "jane@example.com",
			PasswordHash: "$2a$10$fakehash",
			Role:         model.RoleDonor,
		}
		_, err := repo.Create(ctx, u)
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = repo.GetByID(ctx, 424242)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("count by role", func(t *testing.T) {
		count, err := repo.CountByRole(ctx, model.RoleAdmin)
		require.NoError(t, err)
		assert.Zero(t, count)

		_, err = repo.Create(ctx, &model.User{
			Name:         "Admin",
			Email:        "admin@example.com",
			PasswordHash: "$2a$10$fakehash",
			Role:         model.RoleAdmin,
		})
		require.NoError(t, err)

		count, err = repo.CountByRole(ctx, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
