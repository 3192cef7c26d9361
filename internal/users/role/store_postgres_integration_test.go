// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package role_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stockify/internal/platform/apperr"
	"github.com/taibuivan/stockify/internal/platform/postgres/pgtest"
	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/internal/users/role"
)

func TestPostgresRepository(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := role.NewPostgresRepository(pool)
	ctx := context.Background()

	permissionRows := func(roleID int64) int {
		var count int
		require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM users.rolepermission WHERE roleid = $1`, roleID).Scan(&count))
		return count
	}

	clerk := &role.Role{Name: "clerk", Description: "Role: clerk", Permissions: role.Permissions{sec.ModuleStocks: {Read: true}}}
	require.NoError(t, repo.Create(ctx, clerk))

	t.Run("create writes one row per module", func(t *testing.T) {
		assert.Equal(t, len(sec.Modules()), permissionRows(clerk.ID))

		stored, err := repo.Get(ctx, clerk.ID)
		require.NoError(t, err)
		assert.True(t, stored.Permissions[sec.ModuleStocks].Read)
		assert.Equal(t, role.Permission{}, stored.Permissions[sec.ModuleUsers])
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := repo.Create(ctx, &role.Role{Name: "clerk", Permissions: role.Permissions{}})
		assert.ErrorIs(t, err, role.ErrRoleNameTaken)
	})

	t.Run("update replaces the whole grid", func(t *testing.T) {
		clerk.Name = "senior-clerk"
		clerk.Permissions = role.Permissions{sec.ModuleOrders: {Create: true}}
		require.NoError(t, repo.Update(ctx, clerk))

		stored, err := repo.Get(ctx, clerk.ID)
		require.NoError(t, err)
		assert.Equal(t, "senior-clerk", stored.Name)
		assert.False(t, stored.Permissions[sec.ModuleStocks].Read)
		assert.True(t, stored.Permissions[sec.ModuleOrders].Create)
		assert.Equal(t, len(sec.Modules()), permissionRows(clerk.ID))
	})

	t.Run("unknown module rows are rejected", func(t *testing.T) {
		_, err := pool.Exec(ctx, `INSERT INTO users.rolepermission (roleid, modulename) VALUES ($1, 'warehouse')`, clerk.ID)
		require.NoError(t, err)

		_, err = repo.Get(ctx, clerk.ID)
		assert.ErrorIs(t, err, role.ErrUnknownModule)

		_, err = pool.Exec(ctx, `DELETE FROM users.rolepermission WHERE modulename = 'warehouse'`)
		require.NoError(t, err)
	})

	t.Run("delete refuses assigned roles and reports the count", func(t *testing.T) {
		for _, email := range []string{"a@example.com", "b@example.com"} {
			_, err := pool.Exec(ctx, `INSERT INTO users.account (email, passwordhash, firstname, lastname, roleid) VALUES ($1, 'x', 'F', 'L', $2)`, email, clerk.ID)
			require.NoError(t, err)
		}

		err := repo.Delete(ctx, clerk.ID)
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperr.CodeConflict, appErr.Code)
		assert.Equal(t, "2", appErr.Details[0].Message)

		var userID int64
		require.NoError(t, pool.QueryRow(ctx, `SELECT id FROM users.account WHERE email = 'a@example.com'`).Scan(&userID))
		grid, err := repo.PermissionsForUser(ctx, userID)
		require.NoError(t, err)
		assert.True(t, grid.Allows(sec.ModuleOrders, sec.ActionCreate))

		_, err = pool.Exec(ctx, `UPDATE users.account SET roleid = NULL WHERE roleid = $1`, clerk.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, clerk.ID))
		assert.Zero(t, permissionRows(clerk.ID))

		_, err = repo.Get(ctx, clerk.ID)
		assert.ErrorIs(t, err, role.ErrRoleNotFound)
	})
}
