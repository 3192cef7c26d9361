// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order_test

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/stockify/internal/inventory/order"
	"github.com/taibuivan/stockify/internal/inventory/stock"
)

// memoryRepository mirrors the Postgres repository and records stock receipts.
type memoryRepository struct {
	mu       sync.Mutex
	orders   map[string]*order.Order
	received []stock.Delivery
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{orders: make(map[string]*order.Order)}
}

func (repo *memoryRepository) receivedFor(sku string) int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	total := 0
	for _, delivery := range repo.received {
		if delivery.SKU == sku {
			total += delivery.Quantity
		}
	}
	return total
}

func (repo *memoryRepository) List(_ context.Context, filter order.Filter, limit, offset int) ([]*order.Order, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := make([]*order.Order, 0)
	for _, existing := range repo.orders {
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, existing.Status) {
			continue
		}
		copied := *existing
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].OrderDate.After(matched[j].OrderDate) })

	total := len(matched)
	if offset >= total {
		return []*order.Order{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repo *memoryRepository) Get(_ context.Context, id string) (*order.Order, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	existing, ok := repo.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *existing
	return &copied, nil
}

func (repo *memoryRepository) Create(_ context.Context, candidate *order.Order) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.orders[candidate.ID]; ok {
		return order.ErrOrderIDTaken
	}
	candidate.CreatedAt = time.Now()
	candidate.UpdatedAt = candidate.CreatedAt
	copied := *candidate
	repo.orders[candidate.ID] = &copied
	if candidate.Fulfilled() {
		repo.received = append(repo.received, candidate.Delivery())
	}
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, id string, change func(*order.Order) error) (*order.Order, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	existing, ok := repo.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if existing.Fulfilled() {
		return nil, order.ErrOrderClosed
	}

	working := *existing
	if err := change(&working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	repo.orders[id] = &working
	if working.Fulfilled() {
		repo.received = append(repo.received, working.Delivery())
	}

	copied := working
	return &copied, nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.orders[id]; !ok {
		return order.ErrOrderNotFound
	}
	delete(repo.orders, id)
	return nil
}

// sequentialIDs yields the given ids in order, then fails.
func sequentialIDs(ids ...string) func() (string, error) {
	var mu sync.Mutex
	next := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(ids) {
			return "", fmt.Errorf("no more ids")
		}
		next++
		return ids[next-1], nil
	}
}
