// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration and self-service profile edits.

Administrators list, create, update and delete accounts and assign roles.
Every user may edit their own name and address.

# Architecture

  - Entities: [Account] (a user joined with its role name).
  - Domain: This package depends on the auth package for the User entity.
  - Security: Role changes evict the user's cached permission grid.
*/
package account

import (
	"context"

	"github.com/taibuivan/stockify/internal/platform/apperr"
	"github.com/taibuivan/stockify/internal/platform/validate"
	"github.com/taibuivan/stockify/internal/users/auth"
)

// # Domain Entities

// Account is the administrative view of a user.
type Account struct {
	auth.User

	// RoleName is empty for users without a role.
	RoleName string `json:"roleName"`
}

// Status renders the verification flag the way the dashboard lists it.
func (account *Account) Status() string {
	if account.IsVerified {
		return StatusActive
	}
	return StatusInactive
}

// Filter narrows account listings.
type Filter struct {
	// Query matches email, first or last name, case-insensitively.
	Query string
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// # Field Identifiers

const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldAddress   = "address"
	FieldRoleID    = "roleId"
)

const (
	maxNameLength    = 100
	maxAddressLength = 500
)

// # Domain Errors

var (
	// ErrInvalidRole is returned when roleId does not reference an existing role.
	ErrInvalidRole = validate.FieldErr(FieldRoleID, "Invalid role selected")

	// ErrSelfDelete stops administrators from deleting the account they are using.
	ErrSelfDelete = apperr.BadRequest("You cannot delete your own account")
)

// # Repository Contracts

// Repository defines the persistence contract for administered accounts.
type Repository interface {
	/*
		List returns one page of accounts, newest first, with the total count.

		Returns:
		  - []*Account: Page of accounts joined with role names
		  - int: Total matching accounts
	*/
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Account, int, error)

	// FindByID returns one account. Returns [auth.ErrUserNotFound] when absent.
	FindByID(ctx context.Context, id int64) (*Account, error)

	// Create inserts a user. Returns [auth.ErrEmailTaken] on a duplicate email.
	Create(ctx context.Context, user *auth.User) error

	// Update rewrites email, names, address and role.
	// Returns [auth.ErrUserNotFound] or [auth.ErrEmailTaken].
	Update(ctx context.Context, user *auth.User) error

	// UpdateProfile rewrites only names and address.
	UpdateProfile(ctx context.Context, user *auth.User) error

	// Delete removes the user; sessions cascade. Returns [auth.ErrUserNotFound] when absent.
	Delete(ctx context.Context, id int64) error

	// RoleExists reports whether roleID references a role.
	RoleExists(ctx context.Context, roleID int64) (bool, error)
}
