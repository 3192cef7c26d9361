// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/stockify/internal/platform/ctxutil"
	"github.com/taibuivan/stockify/internal/platform/validate"
	"github.com/taibuivan/stockify/pkg/normalize"
)

// Service validates and persists categories.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Input is the create and update payload.
type Input struct {
	Name   string
	Code   string
	Status string
}

func (input *Input) normalize() {
	input.Name = normalize.Text(input.Name)
	input.Code = normalize.Code(input.Code)
	input.Status = normalize.Text(input.Status)
	if input.Status == "" {
		input.Status = StatusActive
	}
}

func (input *Input) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Required(FieldCode, input.Code)
	if validator.HasErrors() {
		return validator.Err()
	}

	return validator.
		MaxLen(FieldName, input.Name, maxNameLength).
		MaxLen(FieldCode, input.Code, maxCodeLength).
		Pattern(FieldCode, input.Code, codePattern, "Category code must contain only uppercase letters and numbers").
		OneOf(FieldStatus, input.Status, StatusActive, StatusInactive).
		Err()
}

// List returns every category.
func (service *Service) List(context context.Context) ([]*Category, error) {
	categories, err := service.repository.List(context)
	if err != nil {
		return nil, fmt.Errorf("category_service_list_failed: %w", err)
	}
	return categories, nil
}

// Get returns one category.
func (service *Service) Get(context context.Context, id int64) (*Category, error) {
	return service.repository.Get(context, id)
}

/*
Create adds a category.

Returns:
  - error: Validation, [ErrNameTaken], [ErrCodeTaken] or storage errors
*/
func (service *Service) Create(context context.Context, input Input) (*Category, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	category := &Category{Name: input.Name, Code: input.Code, Status: input.Status}
	if err := service.repository.Create(context, category); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "category_created",
		slog.Int64("category_id", category.ID),
		slog.String("code", category.Code),
	)
	return category, nil
}

// Update rewrites a category under the same rules as [Service.Create].
func (service *Service) Update(context context.Context, id int64, input Input) (*Category, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	category := &Category{ID: id, Name: input.Name, Code: input.Code, Status: input.Status}
	if err := service.repository.Update(context, category); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "category_updated", slog.Int64("category_id", id))
	return category, nil
}

// Delete removes a category.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "category_deleted", slog.Int64("category_id", id))
	return nil
}
