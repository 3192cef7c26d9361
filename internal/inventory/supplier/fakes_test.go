// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package supplier_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/stockify/internal/inventory/supplier"
)

type memoryRepository struct {
	mu        sync.Mutex
	nextID    int64
	suppliers map[int64]*supplier.Supplier
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{suppliers: make(map[int64]*supplier.Supplier)}
}

func (repo *memoryRepository) emailTaken(candidate *supplier.Supplier) bool {
	for id, existing := range repo.suppliers {
		if id != candidate.ID && existing.Email == candidate.Email {
			return true
		}
	}
	return false
}

func (repo *memoryRepository) List(_ context.Context, filter supplier.Filter, limit, offset int) ([]*supplier.Supplier, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	query := strings.ToLower(filter.Query)
	matched := make([]*supplier.Supplier, 0)
	for _, existing := range repo.suppliers {
		if query != "" && !strings.Contains(strings.ToLower(existing.Name+" "+existing.Email), query) {
			continue
		}
		if filter.Status != "" && existing.Status != filter.Status {
			continue
		}
		copied := *existing
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if offset >= total {
		return []*supplier.Supplier{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repo *memoryRepository) Get(_ context.Context, id int64) (*supplier.Supplier, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	existing, ok := repo.suppliers[id]
	if !ok {
		return nil, supplier.ErrSupplierNotFound
	}
	copied := *existing
	return &copied, nil
}

func (repo *memoryRepository) Create(_ context.Context, candidate *supplier.Supplier) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.emailTaken(candidate) {
		return supplier.ErrEmailTaken
	}
	repo.nextID++
	candidate.ID = repo.nextID
	candidate.CreatedAt = time.Now()
	candidate.UpdatedAt = candidate.CreatedAt
	copied := *candidate
	repo.suppliers[candidate.ID] = &copied
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, candidate *supplier.Supplier) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.suppliers[candidate.ID]; !ok {
		return supplier.ErrSupplierNotFound
	}
	if repo.emailTaken(candidate) {
		return supplier.ErrEmailTaken
	}
	copied := *candidate
	repo.suppliers[candidate.ID] = &copied
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.suppliers[id]; !ok {
		return supplier.ErrSupplierNotFound
	}
	delete(repo.suppliers, id)
	return nil
}
