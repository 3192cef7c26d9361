// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/stockify/internal/platform/ctxutil"
	"github.com/taibuivan/stockify/internal/platform/validate"
	"github.com/taibuivan/stockify/internal/users/auth"
	"github.com/taibuivan/stockify/pkg/normalize"
	"github.com/taibuivan/stockify/pkg/pointer"
)

// # Service Layer

// Hasher hashes passwords for administrator-created accounts.
type Hasher interface {
	Hash(plainTextPassword string) (string, error)
}

// AssignmentListener is told when a user's role may have changed. [role.Checker] satisfies it.
type AssignmentListener interface {
	Forget(userID int64)
}

// Service orchestrates account administration and profile edits.
type Service struct {
	repository Repository
	hasher     Hasher
	listener   AssignmentListener
}

// NewService constructs a new [Service]. listener may be nil.
func NewService(repository Repository, hasher Hasher, listener AssignmentListener) *Service {
	return &Service{repository: repository, hasher: hasher, listener: listener}
}

func (service *Service) forget(userID int64) {
	if service.listener != nil {
		service.listener.Forget(userID)
	}
}

// Input is the administrator payload for creating or updating an account.
// Password is ignored by updates.
type Input struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Address   string
	RoleID    int64
}

func (input *Input) normalize() {
	input.Email = normalize.Email(input.Email)
	input.FirstName = normalize.Text(input.FirstName)
	input.LastName = normalize.Text(input.LastName)
	input.Address = normalize.Text(input.Address)
}

func (input *Input) validate(withPassword bool) error {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		Custom(FieldRoleID, input.RoleID <= 0, "This field is required")
	if withPassword {
		validator.Required(FieldPassword, input.Password)
	}

	if validator.HasErrors() {
		return validator.Err()
	}

	validator.Email(FieldEmail, input.Email).
		MaxLen(FieldFirstName, input.FirstName, maxNameLength).
		MaxLen(FieldLastName, input.LastName, maxNameLength).
		MaxLen(FieldAddress, input.Address, maxAddressLength)
	if withPassword {
		validator.MinLen(FieldPassword, input.Password, auth.MinPasswordLength)
	}

	return validator.Err()
}

func (service *Service) requireRole(context context.Context, roleID int64) error {
	exists, err := service.repository.RoleExists(context, roleID)
	if err != nil {
		return fmt.Errorf("account_service_role_lookup_failed: %w", err)
	}
	if !exists {
		return ErrInvalidRole
	}
	return nil
}

// # Administration

// List returns one page of accounts.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Account, int, error) {
	accounts, total, err := service.repository.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return accounts, total, nil
}

// Get returns one account.
func (service *Service) Get(context context.Context, id int64) (*Account, error) {
	return service.repository.FindByID(context, id)
}

/*
Create adds a verified account with a role.

Returns:
  - *Account: Created entity
  - error: Validation, [ErrInvalidRole], [auth.ErrEmailTaken] or storage errors
*/
func (service *Service) Create(context context.Context, input Input) (*Account, error) {
	input.normalize()
	if err := input.validate(true); err != nil {
		return nil, err
	}
	if err := service.requireRole(context, input.RoleID); err != nil {
		return nil, err
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	user := &auth.User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Address:      input.Address,
		IsVerified:   true,
		RoleID:       pointer.To(input.RoleID),
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "account_created",
		slog.Int64("account_id", user.ID),
		slog.Int64("role_id", input.RoleID),
	)
	return service.repository.FindByID(context, user.ID)
}

/*
Update rewrites an account's identity fields and role.

Description: The email must stay unique among other accounts. The user's
cached permission grid is evicted.

Returns:
  - error: Validation, [ErrInvalidRole], [auth.ErrUserNotFound], [auth.ErrEmailTaken]
*/
func (service *Service) Update(context context.Context, id int64, input Input) (*Account, error) {
	input.normalize()
	if err := input.validate(false); err != nil {
		return nil, err
	}
	if err := service.requireRole(context, input.RoleID); err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        id,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Address:   input.Address,
		RoleID:    pointer.To(input.RoleID),
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, err
	}

	service.forget(id)
	ctxutil.GetLogger(context).InfoContext(context, "account_updated", slog.Int64("account_id", id))
	return service.repository.FindByID(context, id)
}

// Delete removes an account other than the caller's own.
func (service *Service) Delete(context context.Context, callerID, id int64) error {
	if callerID == id {
		return ErrSelfDelete
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.forget(id)
	ctxutil.GetLogger(context).WarnContext(context, "account_deleted",
		slog.Int64("account_id", id),
		slog.Int64("deleted_by", callerID),
	)
	return nil
}

// # Profile Management

// ProfileInput holds the fields a user may change on their own account.
type ProfileInput struct {
	FirstName string
	LastName  string
	Address   string
}

/*
UpdateProfile lets a user change their own name and address.

Returns:
  - *Account: The updated account
  - error: Validation, [auth.ErrUserNotFound] or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, userID int64, input ProfileInput) (*Account, error) {
	input.FirstName = normalize.Text(input.FirstName)
	input.LastName = normalize.Text(input.LastName)
	input.Address = normalize.Text(input.Address)

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldFirstName, input.FirstName, maxNameLength).
		MaxLen(FieldLastName, input.LastName, maxNameLength).
		MaxLen(FieldAddress, input.Address, maxAddressLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        userID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Address:   input.Address,
	}

	if err := service.repository.UpdateProfile(context, user); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("account_service_update_profile_failed: %w", err)
	}

	return service.repository.FindByID(context, userID)
}
