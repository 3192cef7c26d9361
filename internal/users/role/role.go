// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package role implements the role-permission matrix.

A role owns one CRUD flag set per fixed module ([sec.Modules]). The grid is
always complete: a module missing from a payload or from storage reads as
all-false.

# Architecture

  - Entities: [Role], [Permission], [Permissions].
  - Repository: contract in store.go, PostgreSQL implementation.
  - Service: validation and cache invalidation.
  - Checker: cached per-user lookups backing [middleware.RequirePermission].
  - Handler: JSON transport under /api/roles.
*/
package role

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/taibuivan/stockify/internal/platform/apperr"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

// # Domain Entities

// Permission is the capability set of one role on one module.
type Permission struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// Allows reports whether the flag for action is set.
func (permission Permission) Allows(action sec.Action) bool {
	switch action {
	case sec.ActionCreate:
		return permission.Create
	case sec.ActionRead:
		return permission.Read
	case sec.ActionUpdate:
		return permission.Update
	case sec.ActionDelete:
		return permission.Delete
	default:
		return false
	}
}

// Permissions maps modules to their capability sets.
type Permissions map[sec.Module]Permission

// Complete returns a grid holding exactly the fixed modules. Absent modules are all-false.
func (permissions Permissions) Complete() Permissions {
	grid := make(Permissions, len(sec.Modules()))
	for _, module := range sec.Modules() {
		grid[module] = permissions[module]
	}
	return grid
}

// Allows reports whether the grid grants action on module.
func (permissions Permissions) Allows(module sec.Module, action sec.Action) bool {
	return permissions[module].Allows(action)
}

// Role is a named permission grid assignable to users.
type Role struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Permissions Permissions `json:"permissions"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// # Constraints

const (
	// MaxNameLength bounds role names.
	MaxNameLength = 100

	// AdminRoleName is the role bootstrapped by the seed command.
	AdminRoleName = "admin"
)

// # Field Identifiers

const (
	FieldName        = "name"
	FieldPermissions = "permissions"
	FieldUsers       = "users"
)

// # Domain Errors

var (
	// ErrRoleNotFound is returned when the role id does not exist.
	ErrRoleNotFound = apperr.NotFound("Role")

	// ErrRoleNameTaken is returned when another role already uses the name.
	ErrRoleNameTaken = apperr.Conflict("Role name already exists")

	// ErrUnknownModule marks a stored permission row outside the fixed enumeration.
	ErrUnknownModule = errors.New("role: unknown module in permission row")
)

// RoleInUseError refuses the deletion of a role still referenced by userCount users.
func RoleInUseError(userCount int) *apperr.AppError {
	message := fmt.Sprintf("Cannot delete role. %d user(s) are assigned to this role. Please reassign users first.", userCount)
	return apperr.Conflict(message, apperr.FieldError{
		Field:   FieldUsers,
		Message: strconv.Itoa(userCount),
	})
}

// FullAccess is a grid with every flag set on every module.
func FullAccess() Permissions {
	grid := make(Permissions, len(sec.Modules()))
	for _, module := range sec.Modules() {
		grid[module] = Permission{Create: true, Read: true, Update: true, Delete: true}
	}
	return grid
}
