// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stockify/internal/platform/postgres/pgtest"
	"github.com/taibuivan/stockify/internal/users/account"
	"github.com/taibuivan/stockify/internal/users/auth"
	"github.com/taibuivan/stockify/internal/users/role"
	"github.com/taibuivan/stockify/pkg/pointer"
)

func TestPostgresRepository(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := account.NewPostgresRepository(pool)
	roles := role.NewPostgresRepository(pool)
	ctx := context.Background()

	clerk := &role.Role{Name: "clerk", Permissions: role.Permissions{}}
	require.NoError(t, roles.Create(ctx, clerk))

	user := &auth.User{
		Email: "ada@example.com", PasswordHash: "hash", FirstName: "Ada", LastName: "Lovelace",
		IsVerified: true, RoleID: pointer.To(clerk.ID),
	}
	require.NoError(t, repo.Create(ctx, user))

	t.Run("find joins role name", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "clerk", found.RoleName)
		assert.Equal(t, account.StatusActive, found.Status())
	})

	t.Run("user without role", func(t *testing.T) {
		bare := &auth.User{Email: "bare@example.com", PasswordHash: "hash", FirstName: "Bare", LastName: "User"}
		require.NoError(t, repo.Create(ctx, bare))

		found, err := repo.FindByID(ctx, bare.ID)
		require.NoError(t, err)
		assert.Empty(t, found.RoleName)
		assert.Nil(t, found.RoleID)
	})

	t.Run("list filters case-insensitively", func(t *testing.T) {
		accounts, total, err := repo.List(ctx, account.Filter{Query: "LOVE"}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, accounts, 1)
		assert.Equal(t, user.ID, accounts[0].ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &auth.User{Email: "ada@example.com", PasswordHash: "x", FirstName: "A", LastName: "B"})
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("update keeps password", func(t *testing.T) {
		user.FirstName = "Augusta"
		require.NoError(t, repo.Update(ctx, user))

		var hash string
		require.NoError(t, pool.QueryRow(ctx, `SELECT passwordhash FROM users.account WHERE id = $1`, user.ID).Scan(&hash))
		assert.Equal(t, "hash", hash)
	})

	t.Run("role existence", func(t *testing.T) {
		exists, err := repo.RoleExists(ctx, clerk.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.RoleExists(ctx, clerk.ID+1000)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, user.ID))
		assert.ErrorIs(t, repo.Delete(ctx, user.ID), auth.ErrUserNotFound)
		assert.ErrorIs(t, repo.UpdateProfile(ctx, user), auth.ErrUserNotFound)
	})
}
