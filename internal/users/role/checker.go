// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/taibuivan/stockify/internal/platform/sec"
)

const (
	// DefaultCacheTTL bounds how stale a cached grid may be.
	DefaultCacheTTL = 30 * time.Second

	// cacheSize caps the number of users whose grids are kept in memory.
	cacheSize = 4096
)

// PermissionSource loads the grid of a user's role.
type PermissionSource interface {
	PermissionsForUser(ctx context.Context, userID int64) (Permissions, error)
}

// CacheObserver receives permission cache hits and misses.
type CacheObserver interface {
	ObservePermissionCache(hit bool)
}

// Checker answers "may this user do action on module" for the middleware.
//
// Grids are cached per user for a short TTL. Any role mutation through the
// [Service] purges the whole cache.
type Checker struct {
	source   PermissionSource
	cache    *expirable.LRU[int64, Permissions]
	observer CacheObserver
}

// NewChecker creates a Checker. ttl <= 0 selects [DefaultCacheTTL]; observer may be nil.
func NewChecker(source PermissionSource, ttl time.Duration, observer CacheObserver) *Checker {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Checker{
		source:   source,
		cache:    expirable.NewLRU[int64, Permissions](cacheSize, nil, ttl),
		observer: observer,
	}
}

// Can reports whether userID's role grants action on module.
func (checker *Checker) Can(context context.Context, userID int64, module sec.Module, action sec.Action) (bool, error) {
	grid, hit := checker.cache.Get(userID)
	if checker.observer != nil {
		checker.observer.ObservePermissionCache(hit)
	}

	if !hit {
		loaded, err := checker.source.PermissionsForUser(context, userID)
		if err != nil {
			return false, fmt.Errorf("role_checker_load_failed: %w", err)
		}
		grid = loaded
		checker.cache.Add(userID, grid)
	}

	return grid.Allows(module, action), nil
}

// Invalidate drops every cached grid.
func (checker *Checker) Invalidate() {
	checker.cache.Purge()
}

// Forget drops the cached grid of one user, after their role assignment changed.
func (checker *Checker) Forget(userID int64) {
	checker.cache.Remove(userID)
}
