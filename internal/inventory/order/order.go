// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package order manages purchase orders placed with suppliers.

An order that reaches the fulfilled status adds its item count to the stock
row for its SKU in the same transaction as the order write. Fulfilled is a
terminal status, so a delivery is never counted twice.

# Architecture

  - Entities: [Order], [Patch].
  - Repository: PostgreSQL; writes lock the order row and call [stock.Receive].
  - Handler: JSON transport under /api/orders, gated by the orders module.
*/
package order

import (
	"context"
	"regexp"
	"time"

	"github.com/taibuivan/stockify/internal/inventory/stock"
	"github.com/taibuivan/stockify/internal/platform/apperr"
)

// # Domain Entities

// Order is a purchase order.
type Order struct {
	ID                   string    `json:"id"`
	OrderDate            time.Time `json:"orderDate"`
	Name                 string    `json:"name"`
	SKU                  string    `json:"sku"`
	Supplier             string    `json:"supplier"`
	Category             string    `json:"category"`
	NumberOfItems        int       `json:"numberOfItems"`
	Status               string    `json:"status"`
	ExpectedDeliveryDate time.Time `json:"expectedDeliveryDate"`
	TotalAmount          float64   `json:"totalAmount"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Fulfilled reports whether the order has been received into stock.
func (order *Order) Fulfilled() bool {
	return order.Status == StatusFulfilled
}

// Delivery describes what fulfilling the order adds to stock.
func (order *Order) Delivery() stock.Delivery {
	return stock.Delivery{
		SKU:         order.SKU,
		ProductName: order.Name,
		Category:    order.Category,
		Supplier:    order.Supplier,
		Quantity:    order.NumberOfItems,
	}
}

// Patch holds the fields of a partial update. Nil fields are left unchanged.
// Dates use the YYYY-MM-DD layout.
type Patch struct {
	Name                 *string  `json:"name"`
	SKU                  *string  `json:"sku"`
	Supplier             *string  `json:"supplier"`
	Category             *string  `json:"category"`
	NumberOfItems        *int     `json:"numberOfItems"`
	Status               *string  `json:"status"`
	ExpectedDeliveryDate *string  `json:"expectedDeliveryDate"`
	TotalAmount          *float64 `json:"totalAmount"`
	OrderDate            *string  `json:"orderDate"`
}

// Filter narrows order listings.
type Filter struct {
	// Statuses keeps orders in any of these statuses when non-empty.
	Statuses []string
}

const (
	StatusNew       = "new"
	StatusPending   = "pending"
	StatusFulfilled = "fulfilled"
	StatusCancelled = "cancelled"

	// DateLayout is the wire format of order dates.
	DateLayout = time.DateOnly
)

// Statuses lists every order status.
func Statuses() []string {
	return []string{StatusNew, StatusPending, StatusFulfilled, StatusCancelled}
}

// idPattern matches order identifiers such as ORD004211.
var idPattern = regexp.MustCompile(`^ORD[0-9]{6}$`)

// # Field Identifiers

const (
	FieldID                   = "id"
	FieldName                 = "name"
	FieldSKU                  = "sku"
	FieldSupplier             = "supplier"
	FieldCategory             = "category"
	FieldNumberOfItems        = "numberOfItems"
	FieldStatus               = "status"
	FieldExpectedDeliveryDate = "expectedDeliveryDate"
	FieldTotalAmount          = "totalAmount"
	FieldOrderDate            = "orderDate"

	maxTextLength = 200
)

// # Domain Errors

var (
	ErrOrderNotFound = apperr.NotFound("Order")
	ErrOrderClosed   = apperr.Conflict("Fulfilled orders cannot be modified")

	// ErrOrderIDTaken is returned by repositories when a generated id collides.
	ErrOrderIDTaken = apperr.Conflict("Order id already exists")
)

// # Repository Contracts

// Repository defines the persistence contract for purchase orders.
type Repository interface {
	// List returns one page of orders, newest order date first, with the total count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Order, int, error)

	// Get returns one order or [ErrOrderNotFound].
	Get(ctx context.Context, id string) (*Order, error)

	// Create inserts an order and receives it into stock when it is fulfilled.
	// Returns [ErrOrderIDTaken] when the id is already used.
	Create(ctx context.Context, order *Order) error

	/*
		Update locks the order, lets change edit it and writes the result.

		Description: change sees the stored row. When the stored row is
		fulfilled, [ErrOrderClosed] is returned without calling change. When
		change moves the order to fulfilled, the delivery is received into
		stock before commit.
	*/
	Update(ctx context.Context, id string, change func(order *Order) error) (*Order, error)

	// Delete removes an order or returns [ErrOrderNotFound].
	Delete(ctx context.Context, id string) error
}
