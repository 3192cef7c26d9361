// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package supplier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/stockify/internal/platform/ctxutil"
	"github.com/taibuivan/stockify/internal/platform/validate"
	"github.com/taibuivan/stockify/pkg/normalize"
	"github.com/taibuivan/stockify/pkg/pointer"
)

// Service validates and persists suppliers.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Input is the create and update payload.
type Input struct {
	Name            string
	Email           string
	Phone           string
	CompanyLocation Location
	GSTIN           *string
	Category        string
	Website         *string
	Status          string
}

// optional normalizes an optional field, mapping blank values to nil.
func optional(value *string) *string {
	cleaned := normalize.Text(pointer.Val(value))
	if cleaned == "" {
		return nil
	}
	return pointer.To(cleaned)
}

func (input *Input) normalize() {
	input.Name = normalize.Text(input.Name)
	input.Email = normalize.Email(input.Email)
	input.Phone = normalize.Text(input.Phone)
	input.CompanyLocation = Location{
		Street:  normalize.Text(input.CompanyLocation.Street),
		City:    normalize.Text(input.CompanyLocation.City),
		State:   normalize.Text(input.CompanyLocation.State),
		Zip:     normalize.Text(input.CompanyLocation.Zip),
		Country: normalize.Text(input.CompanyLocation.Country),
	}
	input.GSTIN = optional(input.GSTIN)
	input.Website = optional(input.Website)

	input.Category = normalize.Text(input.Category)
	if input.Category == "" {
		input.Category = DefaultCategory
	}
	input.Status = normalize.Text(input.Status)
	if input.Status == "" {
		input.Status = StatusActive
	}
}

func (input *Input) validate() error {
	location := input.CompanyLocation

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Required(FieldEmail, input.Email).
		Required(FieldPhone, input.Phone).
		Required(FieldStreet, location.Street).
		Required(FieldCity, location.City).
		Required(FieldState, location.State).
		Required(FieldZip, location.Zip).
		Required(FieldCountry, location.Country)
	if validator.HasErrors() {
		return validator.Err()
	}

	return validator.
		Email(FieldEmail, input.Email).
		MaxLen(FieldName, input.Name, maxNameLength).
		MaxLen(FieldPhone, input.Phone, maxPhoneLength).
		MaxLen(FieldCategory, input.Category, maxFieldLength).
		MaxLen(FieldWebsite, pointer.Val(input.Website), maxFieldLength).
		OneOf(FieldStatus, input.Status, StatusActive, StatusInactive).
		Err()
}

func (input Input) supplier(id int64) *Supplier {
	return &Supplier{
		ID:              id,
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		CompanyLocation: input.CompanyLocation,
		GSTIN:           input.GSTIN,
		Category:        input.Category,
		Website:         input.Website,
		Status:          input.Status,
	}
}

// List returns one page of suppliers.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Supplier, int, error) {
	suppliers, total, err := service.repository.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("supplier_service_list_failed: %w", err)
	}
	return suppliers, total, nil
}

// Get returns one supplier.
func (service *Service) Get(context context.Context, id int64) (*Supplier, error) {
	return service.repository.Get(context, id)
}

/*
Create adds a supplier.

Returns:
  - error: Validation, [ErrEmailTaken] or storage errors
*/
func (service *Service) Create(context context.Context, input Input) (*Supplier, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	supplier := input.supplier(0)
	if err := service.repository.Create(context, supplier); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "supplier_created", slog.Int64("supplier_id", supplier.ID))
	return supplier, nil
}

// Update rewrites a supplier under the same rules as [Service.Create].
func (service *Service) Update(context context.Context, id int64, input Input) (*Supplier, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	supplier := input.supplier(id)
	if err := service.repository.Update(context, supplier); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "supplier_updated", slog.Int64("supplier_id", id))
	return supplier, nil
}

// Delete removes a supplier.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "supplier_deleted", slog.Int64("supplier_id", id))
	return nil
}
