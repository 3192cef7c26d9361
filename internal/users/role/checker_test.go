// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/internal/users/role"
)

type cacheCounter struct{ hits, misses int }

func (counter *cacheCounter) ObservePermissionCache(hit bool) {
	if hit {
		counter.hits++
		return
	}
	counter.misses++
}

type failingSource struct{}

func (failingSource) PermissionsForUser(context.Context, int64) (role.Permissions, error) {
	return nil, errors.New("database down")
}

func TestChecker_CachesAndInvalidates(t *testing.T) {
	repo := newMemoryRepository()
	counter := &cacheCounter{}
	checker := role.NewChecker(repo, time.Minute, counter)
	service := role.NewService(repo, checker)
	ctx := context.Background()

	clerk, err := service.Create(ctx, role.Input{Name: "clerk", Permissions: role.Permissions{sec.ModuleStocks: {Read: true}}})
	require.NoError(t, err)
	repo.assign(7, clerk.ID)

	allowed, err := checker.Can(ctx, 7, sec.ModuleStocks, sec.ActionRead)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = checker.Can(ctx, 7, sec.ModuleStocks, sec.ActionDelete)
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, 1, repo.loadCount(), "second lookup is served from cache")
	assert.Equal(t, 1, counter.hits)
	assert.Equal(t, 1, counter.misses)

	_, err = service.Update(ctx, clerk.ID, role.Input{Name: "clerk", Permissions: role.Permissions{sec.ModuleStocks: {Read: true, Delete: true}}})
	require.NoError(t, err)

	allowed, err = checker.Can(ctx, 7, sec.ModuleStocks, sec.ActionDelete)
	require.NoError(t, err)
	assert.True(t, allowed, "role mutation purges stale grids")
	assert.Equal(t, 2, repo.loadCount())
}

func TestChecker_UserWithoutRole(t *testing.T) {
	checker := role.NewChecker(newMemoryRepository(), 0, nil)

	allowed, err := checker.Can(context.Background(), 99, sec.ModuleDashboard, sec.ActionRead)

	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestChecker_SourceError(t *testing.T) {
	checker := role.NewChecker(failingSource{}, time.Minute, nil)

	_, err := checker.Can(context.Background(), 1, sec.ModuleUsers, sec.ActionRead)

	assert.Error(t, err)
}

func TestPermission_Allows(t *testing.T) {
	permission := role.Permission{Create: true, Delete: true}

	assert.True(t, permission.Allows(sec.ActionCreate))
	assert.False(t, permission.Allows(sec.ActionRead))
	assert.False(t, permission.Allows(sec.ActionUpdate))
	assert.True(t, permission.Allows(sec.ActionDelete))
	assert.False(t, permission.Allows(sec.Action("approve")))
}
