// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stock_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/stockify/internal/inventory/stock"
)

type memoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*stock.Stock
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[int64]*stock.Stock)}
}

func (repo *memoryRepository) skuTaken(candidate *stock.Stock) bool {
	for id, existing := range repo.rows {
		if id != candidate.ID && existing.SKU == candidate.SKU {
			return true
		}
	}
	return false
}

func (repo *memoryRepository) List(context.Context) ([]*stock.Stock, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	stocks := make([]*stock.Stock, 0, len(repo.rows))
	for _, existing := range repo.rows {
		copied := *existing
		stocks = append(stocks, &copied)
	}
	sort.Slice(stocks, func(i, j int) bool {
		if stocks[i].Category != stocks[j].Category {
			return stocks[i].Category < stocks[j].Category
		}
		return stocks[i].SKU < stocks[j].SKU
	})
	return stocks, nil
}

func (repo *memoryRepository) Get(_ context.Context, id int64) (*stock.Stock, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	existing, ok := repo.rows[id]
	if !ok {
		return nil, stock.ErrStockNotFound
	}
	copied := *existing
	return &copied, nil
}

func (repo *memoryRepository) Create(_ context.Context, candidate *stock.Stock) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.skuTaken(candidate) {
		return stock.ErrSKUTaken
	}
	repo.nextID++
	candidate.ID = repo.nextID
	candidate.CreatedAt = time.Now()
	candidate.UpdatedAt = candidate.CreatedAt
	copied := *candidate
	repo.rows[candidate.ID] = &copied
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, candidate *stock.Stock) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[candidate.ID]; !ok {
		return stock.ErrStockNotFound
	}
	if repo.skuTaken(candidate) {
		return stock.ErrSKUTaken
	}
	copied := *candidate
	repo.rows[candidate.ID] = &copied
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[id]; !ok {
		return stock.ErrStockNotFound
	}
	delete(repo.rows, id)
	return nil
}
