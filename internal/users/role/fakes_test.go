// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role_test

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/taibuivan/stockify/internal/users/role"
)

// memoryRepository mirrors the Postgres repository with maps.
type memoryRepository struct {
	mu          sync.Mutex
	nextID      int64
	roles       map[int64]*role.Role
	rows        map[int64]role.Permissions
	assignments map[int64]int64
	loads       int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		roles:       make(map[int64]*role.Role),
		rows:        make(map[int64]role.Permissions),
		assignments: make(map[int64]int64),
	}
}

func (repo *memoryRepository) assign(userID, roleID int64) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.assignments[userID] = roleID
}

func (repo *memoryRepository) clone(id int64) *role.Role {
	copied := *repo.roles[id]
	copied.Permissions = repo.rows[id].Complete()
	return &copied
}

func (repo *memoryRepository) List(context.Context) ([]*role.Role, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	roles := make([]*role.Role, 0, len(repo.roles))
	for id := range repo.roles {
		roles = append(roles, repo.clone(id))
	}
	return roles, nil
}

func (repo *memoryRepository) Get(_ context.Context, id int64) (*role.Role, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.roles[id]; !ok {
		return nil, role.ErrRoleNotFound
	}
	return repo.clone(id), nil
}

func (repo *memoryRepository) FindByName(_ context.Context, name string) (*role.Role, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for id, existing := range repo.roles {
		if existing.Name == name {
			return repo.clone(id), nil
		}
	}
	return nil, role.ErrRoleNotFound
}

func (repo *memoryRepository) nameTaken(name string, except int64) bool {
	for id, existing := range repo.roles {
		if existing.Name == name && id != except {
			return true
		}
	}
	return false
}

func (repo *memoryRepository) Create(_ context.Context, created *role.Role) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.nameTaken(created.Name, 0) {
		return role.ErrRoleNameTaken
	}
	repo.nextID++
	created.ID = repo.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	created.Permissions = created.Permissions.Complete()

	stored := *created
	repo.roles[created.ID] = &stored
	repo.rows[created.ID] = maps.Clone(created.Permissions)
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, updated *role.Role) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.roles[updated.ID]; !ok {
		return role.ErrRoleNotFound
	}
	if repo.nameTaken(updated.Name, updated.ID) {
		return role.ErrRoleNameTaken
	}
	updated.Permissions = updated.Permissions.Complete()
	stored := *updated
	repo.roles[updated.ID] = &stored
	repo.rows[updated.ID] = maps.Clone(updated.Permissions)
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.roles[id]; !ok {
		return role.ErrRoleNotFound
	}
	users := 0
	for _, roleID := range repo.assignments {
		if roleID == id {
			users++
		}
	}
	if users > 0 {
		return role.RoleInUseError(users)
	}
	delete(repo.rows, id)
	delete(repo.roles, id)
	return nil
}

func (repo *memoryRepository) PermissionsForUser(_ context.Context, userID int64) (role.Permissions, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.loads++
	roleID, ok := repo.assignments[userID]
	if !ok {
		return role.Permissions{}, nil
	}
	return maps.Clone(repo.rows[roleID]), nil
}

func (repo *memoryRepository) loadCount() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.loads
}
