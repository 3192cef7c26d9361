// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/stockify/internal/platform/ctxutil"
	"github.com/taibuivan/stockify/internal/platform/validate"
	"github.com/taibuivan/stockify/pkg/normalize"
)

// Service validates and persists stock rows.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

func clean(stock *Stock) {
	stock.SKU = normalize.Code(stock.SKU)
	stock.ProductName = normalize.Text(stock.ProductName)
	stock.Category = normalize.Text(stock.Category)
	stock.Supplier = normalize.Text(stock.Supplier)
	stock.Status = normalize.Text(stock.Status)
	if stock.Status == "" {
		stock.Status = StatusActive
	}
}

func check(stock *Stock) error {
	validator := &validate.Validator{}
	validator.Required(FieldSKU, stock.SKU).
		Required(FieldProductName, stock.ProductName).
		Required(FieldCategory, stock.Category).
		Required(FieldSupplier, stock.Supplier)
	if validator.HasErrors() {
		return validator.Err()
	}

	return validator.
		MaxLen(FieldSKU, stock.SKU, maxTextLength).
		MaxLen(FieldProductName, stock.ProductName, maxTextLength).
		NonNegative(FieldQuantityAvailable, float64(stock.QuantityAvailable)).
		NonNegative(FieldMinimumStockLevel, float64(stock.MinimumStockLevel)).
		Custom(FieldMaximumStockLevel, stock.MaximumStockLevel < stock.MinimumStockLevel, "Must not be lower than minimumStockLevel").
		NonNegative(FieldUnitCost, stock.UnitCost).
		OneOf(FieldStatus, stock.Status, StatusActive, StatusInactive, StatusDiscontinued).
		Err()
}

// List returns every row.
func (service *Service) List(context context.Context) ([]*Stock, error) {
	stocks, err := service.repository.List(context)
	if err != nil {
		return nil, fmt.Errorf("stock_service_list_failed: %w", err)
	}
	return stocks, nil
}

// Get returns one row.
func (service *Service) Get(context context.Context, id int64) (*Stock, error) {
	return service.repository.Get(context, id)
}

/*
Create adds a stock row.

Returns:
  - error: Validation, [ErrSKUTaken] or storage errors
*/
func (service *Service) Create(context context.Context, stock *Stock) (*Stock, error) {
	clean(stock)
	if err := check(stock); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, stock); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "stock_created",
		slog.Int64("stock_id", stock.ID),
		slog.String("sku", stock.SKU),
	)
	return stock, nil
}

/*
Update applies patch to an existing row.

Description: Only non-nil patch fields change. The merged row is validated
as a whole, so lowering maximumStockLevel below the stored minimum fails.
*/
func (service *Service) Update(context context.Context, id int64, patch Patch) (*Stock, error) {
	stock, err := service.repository.Get(context, id)
	if err != nil {
		return nil, err
	}

	patch.apply(stock)
	clean(stock)
	if err := check(stock); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, stock); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "stock_updated", slog.Int64("stock_id", id))
	return stock, nil
}

// Delete removes a row.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "stock_deleted", slog.Int64("stock_id", id))
	return nil
}

func (patch Patch) apply(stock *Stock) {
	if patch.SKU != nil {
		stock.SKU = *patch.SKU
	}
	if patch.ProductName != nil {
		stock.ProductName = *patch.ProductName
	}
	if patch.Category != nil {
		stock.Category = *patch.Category
	}
	if patch.QuantityAvailable != nil {
		stock.QuantityAvailable = *patch.QuantityAvailable
	}
	if patch.MinimumStockLevel != nil {
		stock.MinimumStockLevel = *patch.MinimumStockLevel
	}
	if patch.MaximumStockLevel != nil {
		stock.MaximumStockLevel = *patch.MaximumStockLevel
	}
	if patch.Status != nil {
		stock.Status = *patch.Status
	}
	if patch.UnitCost != nil {
		stock.UnitCost = *patch.UnitCost
	}
	if patch.Supplier != nil {
		stock.Supplier = *patch.Supplier
	}
}
