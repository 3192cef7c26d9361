// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import "context"

// Repository defines the persistence contract for roles and their grids.
type Repository interface {
	// List returns every role with its complete grid, newest first.
	List(ctx context.Context) ([]*Role, error)

	// Get returns one role. Returns [ErrRoleNotFound] when absent.
	Get(ctx context.Context, id int64) (*Role, error)

	// FindByName returns the role with the exact name. Returns [ErrRoleNotFound] when absent.
	FindByName(ctx context.Context, name string) (*Role, error)

	// Create inserts the role and one permission row per fixed module atomically.
	Create(ctx context.Context, role *Role) error

	// Update replaces the name and every module row atomically.
	Update(ctx context.Context, role *Role) error

	// Delete removes the role and its rows, refusing while users reference it.
	Delete(ctx context.Context, id int64) error

	// PermissionsForUser returns the grid of the user's role, empty if the user has none.
	PermissionsForUser(ctx context.Context, userID int64) (Permissions, error)
}
