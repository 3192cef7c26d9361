// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/stockify/internal/inventory/category"
)

type memoryRepository struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]*category.Category
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{categories: make(map[int64]*category.Category)}
}

func (repo *memoryRepository) conflict(candidate *category.Category) error {
	for id, existing := range repo.categories {
		if id == candidate.ID {
			continue
		}
		if existing.Name == candidate.Name {
			return category.ErrNameTaken
		}
		if existing.Code == candidate.Code {
			return category.ErrCodeTaken
		}
	}
	return nil
}

func (repo *memoryRepository) List(context.Context) ([]*category.Category, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	categories := make([]*category.Category, 0, len(repo.categories))
	for _, existing := range repo.categories {
		copied := *existing
		categories = append(categories, &copied)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (repo *memoryRepository) Get(_ context.Context, id int64) (*category.Category, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	existing, ok := repo.categories[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	copied := *existing
	return &copied, nil
}

func (repo *memoryRepository) Create(_ context.Context, candidate *category.Category) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.conflict(candidate); err != nil {
		return err
	}
	repo.nextID++
	candidate.ID = repo.nextID
	candidate.CreatedAt = time.Now()
	candidate.UpdatedAt = candidate.CreatedAt
	copied := *candidate
	repo.categories[candidate.ID] = &copied
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, candidate *category.Category) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.categories[candidate.ID]; !ok {
		return category.ErrCategoryNotFound
	}
	if err := repo.conflict(candidate); err != nil {
		return err
	}
	copied := *candidate
	repo.categories[candidate.ID] = &copied
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.categories[id]; !ok {
		return category.ErrCategoryNotFound
	}
	delete(repo.categories, id)
	return nil
}
