// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package stock tracks on-hand quantities per SKU.

Rows are edited directly by inventory staff and grow automatically when a
purchase order is fulfilled (see [Receive]).

# Architecture

  - Entities: [Stock], [Patch] for partial updates, [Delivery] for receipts.
  - Repository: PostgreSQL, unique SKU.
  - Handler: JSON transport under /api/stock, gated by the stocks module.
*/
package stock

import (
	"context"
	"time"

	"github.com/taibuivan/stockify/internal/platform/apperr"
)

// # Domain Entities

// Stock is the inventory position of one SKU.
type Stock struct {
	ID                int64     `json:"id"`
	SKU               string    `json:"sku"`
	ProductName       string    `json:"productName"`
	Category          string    `json:"category"`
	QuantityAvailable int       `json:"quantityAvailable"`
	MinimumStockLevel int       `json:"minimumStockLevel"`
	MaximumStockLevel int       `json:"maximumStockLevel"`
	Status            string    `json:"status"`
	UnitCost          float64   `json:"unitCost"`
	Supplier          string    `json:"supplier"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"lastUpdated"`
}

// Patch holds the fields of a partial update. Nil fields are left unchanged.
type Patch struct {
	SKU               *string  `json:"sku"`
	ProductName       *string  `json:"productName"`
	Category          *string  `json:"category"`
	QuantityAvailable *int     `json:"quantityAvailable"`
	MinimumStockLevel *int     `json:"minimumStockLevel"`
	MaximumStockLevel *int     `json:"maximumStockLevel"`
	Status            *string  `json:"status"`
	UnitCost          *float64 `json:"unitCost"`
	Supplier          *string  `json:"supplier"`
}

// Delivery is a quantity of a SKU arriving from a fulfilled purchase order.
type Delivery struct {
	SKU         string
	ProductName string
	Category    string
	Supplier    string
	Quantity    int
}

const (
	StatusActive       = "active"
	StatusInactive     = "inactive"
	StatusDiscontinued = "discontinued"
)

// Defaults for rows created by [Receive].
const (
	DefaultMinimumStockLevel = 0
	DefaultMaximumStockLevel = 1000
)

// # Field Identifiers

const (
	FieldSKU               = "sku"
	FieldProductName       = "productName"
	FieldCategory          = "category"
	FieldQuantityAvailable = "quantityAvailable"
	FieldMinimumStockLevel = "minimumStockLevel"
	FieldMaximumStockLevel = "maximumStockLevel"
	FieldStatus            = "status"
	FieldUnitCost          = "unitCost"
	FieldSupplier          = "supplier"

	maxTextLength = 200
)

// # Domain Errors

var (
	ErrStockNotFound = apperr.NotFound("Stock record")
	ErrSKUTaken      = apperr.Conflict("Stock record already exists for this SKU")
)

// # Repository Contracts

// Repository defines the persistence contract for stock rows.
type Repository interface {
	// List returns every row ordered by category, then SKU.
	List(ctx context.Context) ([]*Stock, error)

	// Get returns one row or [ErrStockNotFound].
	Get(ctx context.Context, id int64) (*Stock, error)

	// Create inserts a row. Returns [ErrSKUTaken].
	Create(ctx context.Context, stock *Stock) error

	// Update rewrites a row. Returns [ErrStockNotFound] or [ErrSKUTaken].
	Update(ctx context.Context, stock *Stock) error

	// Delete removes a row or returns [ErrStockNotFound].
	Delete(ctx context.Context, id int64) error
}
