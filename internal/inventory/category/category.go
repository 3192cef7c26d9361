// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package category manages product categories.

A category has a unique display name and a unique upper-case code. Names are
NFC-normalized before they are compared, so visually identical names collide.

# Architecture

  - Entities: [Category].
  - Repository: uniqueness pre-checks and the write share one transaction.
  - Handler: JSON transport under /api/categories, gated by the categories module.
*/
package category

import (
	"context"
	"regexp"
	"time"

	"github.com/taibuivan/stockify/internal/platform/apperr"
)

// # Domain Entities

// Category groups stock items and purchase orders.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// # Constraints

const (
	FieldName   = "name"
	FieldCode   = "code"
	FieldStatus = "status"

	maxNameLength = 100
	maxCodeLength = 20
)

// codePattern restricts codes to upper-case letters and digits.
var codePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// # Domain Errors

var (
	ErrCategoryNotFound = apperr.NotFound("Category")
	ErrNameTaken        = apperr.Conflict("Category with this name already exists")
	ErrCodeTaken        = apperr.Conflict("Category with this code already exists")
)

// # Repository Contracts

// Repository defines the persistence contract for categories.
type Repository interface {
	// List returns every category ordered by name.
	List(ctx context.Context) ([]*Category, error)

	// Get returns one category or [ErrCategoryNotFound].
	Get(ctx context.Context, id int64) (*Category, error)

	// Create inserts a category. Returns [ErrNameTaken] or [ErrCodeTaken].
	Create(ctx context.Context, category *Category) error

	// Update rewrites a category. Returns [ErrCategoryNotFound], [ErrNameTaken] or [ErrCodeTaken].
	Update(ctx context.Context, category *Category) error

	// Delete removes a category or returns [ErrCategoryNotFound].
	Delete(ctx context.Context, id int64) error
}
