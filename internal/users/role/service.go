// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/taibuivan/stockify/internal/platform/ctxutil"
	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/internal/platform/validate"
	"github.com/taibuivan/stockify/pkg/normalize"
)

// Invalidator is told whenever a grid changes. [Checker] satisfies it.
type Invalidator interface {
	Invalidate()
}

// Service implements role management.
type Service struct {
	repository  Repository
	invalidator Invalidator
}

// NewService constructs a new [Service]. invalidator may be nil.
func NewService(repository Repository, invalidator Invalidator) *Service {
	return &Service{repository: repository, invalidator: invalidator}
}

// Input is the payload for creating or replacing a role.
//
// A nil Permissions map is a validation error; an empty one means "no access".
type Input struct {
	Name        string
	Description string
	Permissions Permissions
}

func (service *Service) invalidate() {
	if service.invalidator != nil {
		service.invalidator.Invalidate()
	}
}

// validate normalizes input in place and returns the first batch of field errors.
func (input *Input) validate() error {
	input.Name = normalize.Text(input.Name)
	input.Description = normalize.Text(input.Description)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Custom(FieldPermissions, input.Permissions == nil, "This field is required")

	unknown := make([]string, 0)
	for module := range input.Permissions {
		if !module.IsValid() {
			unknown = append(unknown, string(module))
		}
	}
	slices.Sort(unknown)
	for _, module := range unknown {
		validator.Custom(FieldPermissions+"."+module, true, "Unknown module")
	}

	if input.Description == "" {
		input.Description = "Role: " + input.Name
	}

	return validator.Err()
}

// List returns every role with its complete grid.
func (service *Service) List(context context.Context) ([]*Role, error) {
	roles, err := service.repository.List(context)
	if err != nil {
		return nil, fmt.Errorf("role_service_list_failed: %w", err)
	}
	return roles, nil
}

// Get returns one role.
func (service *Service) Get(context context.Context, id int64) (*Role, error) {
	return service.repository.Get(context, id)
}

/*
Create validates and stores a new role.

Description: The stored grid always covers every fixed module.

Returns:
  - *Role: Created entity with its complete grid
  - error: Validation, [ErrRoleNameTaken] or storage errors
*/
func (service *Service) Create(context context.Context, input Input) (*Role, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	role := &Role{
		Name:        input.Name,
		Description: input.Description,
		Permissions: input.Permissions.Complete(),
	}

	if err := service.repository.Create(context, role); err != nil {
		return nil, err
	}

	service.invalidate()
	ctxutil.GetLogger(context).InfoContext(context, "role_created",
		slog.Int64("role_id", role.ID),
		slog.String("name", role.Name),
	)
	return role, nil
}

/*
Update replaces the name and the full grid of a role.

Description: Modules absent from the payload are reset to all-false.

Returns:
  - error: Validation, [ErrRoleNotFound], [ErrRoleNameTaken] or storage errors
*/
func (service *Service) Update(context context.Context, id int64, input Input) (*Role, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	role := &Role{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Permissions: input.Permissions.Complete(),
	}

	if err := service.repository.Update(context, role); err != nil {
		return nil, err
	}

	service.invalidate()
	ctxutil.GetLogger(context).InfoContext(context, "role_updated", slog.Int64("role_id", id))
	return role, nil
}

// Delete removes a role no user references.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.invalidate()
	ctxutil.GetLogger(context).WarnContext(context, "role_deleted", slog.Int64("role_id", id))
	return nil
}

/*
EnsureAdmin creates or repairs the full-access admin role.

Description: Idempotent. An existing role named [AdminRoleName] gets every
flag set again.
*/
func (service *Service) EnsureAdmin(context context.Context) (*Role, error) {
	existing, err := service.repository.FindByName(context, AdminRoleName)
	if err != nil && !errors.Is(err, ErrRoleNotFound) {
		return nil, fmt.Errorf("role_service_find_admin_failed: %w", err)
	}

	input := Input{Name: AdminRoleName, Description: "Full access", Permissions: FullAccess()}
	if existing == nil {
		return service.Create(context, input)
	}
	return service.Update(context, existing.ID, input)
}

// Modules exposes the fixed enumeration for clients building the grid editor.
func (service *Service) Modules() []sec.Module {
	return sec.Modules()
}
