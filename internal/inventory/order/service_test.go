// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stockify/internal/inventory/order"
	"github.com/taibuivan/stockify/internal/platform/apperr"
	"github.com/taibuivan/stockify/pkg/pointer"
)

var today = time.Date(2026, time.March, 14, 15, 4, 5, 0, time.UTC)

func boltsInput() order.Input {
	return order.Input{
		Name:                 "Bolts",
		SKU:                  "blt-10",
		Supplier:             "Acme",
		Category:             "Hardware",
		NumberOfItems:        25,
		ExpectedDeliveryDate: "2026-03-20",
		TotalAmount:          99.5,
	}
}

func newOrderService(repo *memoryRepository, ids ...string) *order.Service {
	options := []order.Option{order.WithClock(func() time.Time { return today })}
	if len(ids) > 0 {
		options = append(options, order.WithIDGenerator(sequentialIDs(ids...)))
	}
	return order.NewService(repo, options...)
}

func TestNewID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD[0-9]{6}$`)
	for range 50 {
		id, err := order.NewID()
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
	}
}

func TestCreate_Defaults(t *testing.T) {
	repo := newMemoryRepository()
	service := newOrderService(repo, "ORD000001")

	created, err := service.Create(context.Background(), boltsInput())
	require.NoError(t, err)

	assert.Equal(t, "ORD000001", created.ID)
	assert.Equal(t, order.StatusNew, created.Status)
	assert.Equal(t, "BLT-10", created.SKU)
	assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC), created.OrderDate)
	assert.Zero(t, repo.receivedFor("BLT-10"))
}

func TestCreate_RetriesOnIDCollision(t *testing.T) {
	repo := newMemoryRepository()
	service := newOrderService(repo, "ORD000001", "ORD000001", "ORD000002")

	_, err := service.Create(context.Background(), boltsInput())
	require.NoError(t, err)

	second, err := service.Create(context.Background(), boltsInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD000002", second.ID)
}

func TestCreate_FulfilledReceivesStock(t *testing.T) {
	repo := newMemoryRepository()
	service := newOrderService(repo, "ORD000001")

	input := boltsInput()
	input.Status = order.StatusFulfilled
	_, err := service.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 25, repo.receivedFor("BLT-10"))
}

func TestCreate_Validation(t *testing.T) {
	service := newOrderService(newMemoryRepository(), "ORD000001")

	tests := []struct {
		name   string
		mutate func(*order.Input)
		field  string
	}{
		{"missing name", func(in *order.Input) { in.Name = "" }, order.FieldName},
		{"missing delivery date", func(in *order.Input) { in.ExpectedDeliveryDate = "" }, order.FieldExpectedDeliveryDate},
		{"bad delivery date", func(in *order.Input) { in.ExpectedDeliveryDate = "20/03/2026" }, order.FieldExpectedDeliveryDate},
		{"zero items", func(in *order.Input) { in.NumberOfItems = 0 }, order.FieldNumberOfItems},
		{"negative total", func(in *order.Input) { in.TotalAmount = -1 }, order.FieldTotalAmount},
		{"unknown status", func(in *order.Input) { in.Status = "shipped" }, order.FieldStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := boltsInput()
			tt.mutate(&input)

			_, err := service.Create(context.Background(), input)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
		})
	}
}

func TestUpdate_FulfilmentIsCountedOnce(t *testing.T) {
	repo := newMemoryRepository()
	service := newOrderService(repo, "ORD000001")

	created, err := service.Create(context.Background(), boltsInput())
	require.NoError(t, err)

	pending, err := service.Update(context.Background(), created.ID, order.Patch{Status: pointer.To(order.StatusPending)})
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, pending.Status)
	assert.Zero(t, repo.receivedFor("BLT-10"))

	fulfilled, err := service.Update(context.Background(), created.ID, order.Patch{
		Status:        pointer.To(order.StatusFulfilled),
		NumberOfItems: pointer.To(30),
	})
	require.NoError(t, err)
	assert.True(t, fulfilled.Fulfilled())
	assert.Equal(t, 30, repo.receivedFor("BLT-10"))

	_, err = service.Update(context.Background(), created.ID, order.Patch{Status: pointer.To(order.StatusFulfilled)})
	assert.ErrorIs(t, err, order.ErrOrderClosed)
	assert.Equal(t, 30, repo.receivedFor("BLT-10"))
}

func TestUpdate_InvalidPatchLeavesOrder(t *testing.T) {
	repo := newMemoryRepository()
	service := newOrderService(repo, "ORD000001")

	created, err := service.Create(context.Background(), boltsInput())
	require.NoError(t, err)

	_, err = service.Update(context.Background(), created.ID, order.Patch{
		Status:        pointer.To(order.StatusFulfilled),
		NumberOfItems: pointer.To(0),
	})
	require.NotNil(t, apperr.As(err))

	stored, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusNew, stored.Status)
	assert.Zero(t, repo.receivedFor("BLT-10"))
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	service := newOrderService(newMemoryRepository())

	_, err := service.Get(context.Background(), "1; DROP TABLE")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	_, err = service.Update(context.Background(), "ORD1", order.Patch{})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.ErrorIs(t, service.Delete(context.Background(), "ord000001"), order.ErrOrderNotFound)
}

func TestList_StatusFilter(t *testing.T) {
	repo := newMemoryRepository()
	service := newOrderService(repo, "ORD000001", "ORD000002")

	_, err := service.Create(context.Background(), boltsInput())
	require.NoError(t, err)
	cancelled := boltsInput()
	cancelled.Status = order.StatusCancelled
	_, err = service.Create(context.Background(), cancelled)
	require.NoError(t, err)

	orders, total, err := service.List(context.Background(), order.Filter{Statuses: []string{order.StatusCancelled}}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "ORD000002", orders[0].ID)

	_, _, err = service.List(context.Background(), order.Filter{Statuses: []string{"shipped"}}, 10, 0)
	require.NotNil(t, apperr.As(err))
}
