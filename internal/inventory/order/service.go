// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/taibuivan/stockify/internal/platform/ctxutil"
	"github.com/taibuivan/stockify/internal/platform/validate"
	"github.com/taibuivan/stockify/pkg/normalize"
)

// maxIDAttempts bounds retries when a generated order id collides.
const maxIDAttempts = 5

var idSpace = big.NewInt(1_000_000)

// NewID returns a random order id of the form ORD followed by six digits.
func NewID() (string, error) {
	n, err := rand.Int(rand.Reader, idSpace)
	if err != nil {
		return "", fmt.Errorf("order_id_generation_failed: %w", err)
	}
	return fmt.Sprintf("ORD%06d", n.Int64()), nil
}

// Service validates orders and drives their status lifecycle.
type Service struct {
	repository Repository
	newID      func() (string, error)
	now        func() time.Time
}

// Option configures a [Service].
type Option func(*Service)

// WithIDGenerator replaces [NewID].
func WithIDGenerator(generate func() (string, error)) Option {
	return func(service *Service) { service.newID = generate }
}

// WithClock sets the source of the default order date.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// NewService constructs a new [Service].
func NewService(repository Repository, options ...Option) *Service {
	service := &Service{repository: repository, newID: NewID, now: time.Now}
	for _, option := range options {
		option(service)
	}
	return service
}

// Input is the create payload. Dates use [DateLayout].
type Input struct {
	Name                 string
	SKU                  string
	Supplier             string
	Category             string
	NumberOfItems        int
	Status               string
	ExpectedDeliveryDate string
	TotalAmount          float64
	OrderDate            string
}

// parseDate adds a field error when value is not a YYYY-MM-DD date.
func parseDate(validator *validate.Validator, field, value string) time.Time {
	parsed, err := time.Parse(DateLayout, value)
	validator.Custom(field, value != "" && err != nil, "Must be a date in YYYY-MM-DD format")
	return parsed
}

func clean(order *Order) {
	order.Name = normalize.Text(order.Name)
	order.SKU = normalize.Code(order.SKU)
	order.Supplier = normalize.Text(order.Supplier)
	order.Category = normalize.Text(order.Category)
	order.Status = normalize.Text(order.Status)
	if order.Status == "" {
		order.Status = StatusNew
	}
}

func check(validator *validate.Validator, order *Order) error {
	unparsedDate := validator.HasErrors()
	validator.Required(FieldName, order.Name).
		Required(FieldSKU, order.SKU).
		Required(FieldSupplier, order.Supplier).
		Required(FieldCategory, order.Category).
		Custom(FieldExpectedDeliveryDate, order.ExpectedDeliveryDate.IsZero() && !unparsedDate, "This field is required")
	if validator.HasErrors() {
		return validator.Err()
	}

	return validator.
		MaxLen(FieldName, order.Name, maxTextLength).
		MaxLen(FieldSKU, order.SKU, maxTextLength).
		Custom(FieldNumberOfItems, order.NumberOfItems <= 0, "Must be greater than zero").
		NonNegative(FieldTotalAmount, order.TotalAmount).
		OneOf(FieldStatus, order.Status, Statuses()...).
		Err()
}

// List returns one page of orders.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Order, int, error) {
	validator := &validate.Validator{}
	for _, status := range filter.Statuses {
		validator.OneOf(FieldStatus, status, Statuses()...)
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	orders, total, err := service.repository.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("order_service_list_failed: %w", err)
	}
	return orders, total, nil
}

// Get returns one order.
func (service *Service) Get(context context.Context, id string) (*Order, error) {
	if !idPattern.MatchString(id) {
		return nil, ErrOrderNotFound
	}
	return service.repository.Get(context, id)
}

/*
Create places an order under a freshly generated id.

Description: The order date defaults to today. An order created as
fulfilled is received into stock immediately.

Returns:
  - error: Validation or storage errors
*/
func (service *Service) Create(context context.Context, input Input) (*Order, error) {
	validator := &validate.Validator{}
	order := &Order{
		Name:                 input.Name,
		SKU:                  input.SKU,
		Supplier:             input.Supplier,
		Category:             input.Category,
		NumberOfItems:        input.NumberOfItems,
		Status:               input.Status,
		ExpectedDeliveryDate: parseDate(validator, FieldExpectedDeliveryDate, input.ExpectedDeliveryDate),
		TotalAmount:          input.TotalAmount,
		OrderDate:            parseDate(validator, FieldOrderDate, input.OrderDate),
	}
	if order.OrderDate.IsZero() {
		now := service.now().UTC()
		order.OrderDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	clean(order)
	if err := check(validator, order); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		id, err := service.newID()
		if err != nil {
			return nil, err
		}
		order.ID = id

		err = service.repository.Create(context, order)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrOrderIDTaken) || attempt == maxIDAttempts {
			return nil, err
		}
	}

	ctxutil.GetLogger(context).InfoContext(context, "order_created",
		slog.String("order_id", order.ID),
		slog.String("sku", order.SKU),
		slog.String("status", order.Status),
	)
	return order, nil
}

/*
Update applies patch to an open order.

Description: Moving the order to fulfilled adds its item count to stock.
Fulfilled orders reject every further change with [ErrOrderClosed].
*/
func (service *Service) Update(context context.Context, id string, patch Patch) (*Order, error) {
	if !idPattern.MatchString(id) {
		return nil, ErrOrderNotFound
	}

	var previous string
	order, err := service.repository.Update(context, id, func(order *Order) error {
		previous = order.Status

		validator := &validate.Validator{}
		patch.apply(validator, order)
		clean(order)
		return check(validator, order)
	})
	if err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context)
	logger.InfoContext(context, "order_updated", slog.String("order_id", id))
	if order.Status != previous && order.Fulfilled() {
		logger.InfoContext(context, "order_received_into_stock",
			slog.String("order_id", id),
			slog.String("sku", order.SKU),
			slog.Int("quantity", order.NumberOfItems),
		)
	}
	return order, nil
}

// Delete removes an order.
func (service *Service) Delete(context context.Context, id string) error {
	if !idPattern.MatchString(id) {
		return ErrOrderNotFound
	}
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "order_deleted", slog.String("order_id", id))
	return nil
}

func (patch Patch) apply(validator *validate.Validator, order *Order) {
	if patch.Name != nil {
		order.Name = *patch.Name
	}
	if patch.SKU != nil {
		order.SKU = *patch.SKU
	}
	if patch.Supplier != nil {
		order.Supplier = *patch.Supplier
	}
	if patch.Category != nil {
		order.Category = *patch.Category
	}
	if patch.NumberOfItems != nil {
		order.NumberOfItems = *patch.NumberOfItems
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.TotalAmount != nil {
		order.TotalAmount = *patch.TotalAmount
	}
	if patch.ExpectedDeliveryDate != nil {
		order.ExpectedDeliveryDate = parseDate(validator, FieldExpectedDeliveryDate, *patch.ExpectedDeliveryDate)
	}
	if patch.OrderDate != nil && *patch.OrderDate != "" {
		order.OrderDate = parseDate(validator, FieldOrderDate, *patch.OrderDate)
	}
}
