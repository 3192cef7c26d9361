// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/internal/users/account"
	"github.com/taibuivan/stockify/internal/users/auth"
)

// memoryRepository mirrors the Postgres repository with maps.
type memoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*account.Account
	roles    map[int64]string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		accounts: make(map[int64]*account.Account),
		roles:    map[int64]string{1: "admin", 2: "clerk"},
	}
}

func (repo *memoryRepository) emailTaken(email string, except int64) bool {
	for id, existing := range repo.accounts {
		if existing.Email == email && id != except {
			return true
		}
	}
	return false
}

func (repo *memoryRepository) roleName(roleID *int64) string {
	if roleID == nil {
		return ""
	}
	return repo.roles[*roleID]
}

func (repo *memoryRepository) List(_ context.Context, filter account.Filter, limit, offset int) ([]*account.Account, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	query := strings.ToLower(filter.Query)
	matched := make([]*account.Account, 0)
	for _, existing := range repo.accounts {
		haystack := strings.ToLower(existing.Email + " " + existing.FirstName + " " + existing.LastName)
		if query == "" || strings.Contains(haystack, query) {
			copied := *existing
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if offset >= total {
		return []*account.Account{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id int64) (*account.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	existing, ok := repo.accounts[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *existing
	return &copied, nil
}

func (repo *memoryRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.emailTaken(user.Email, 0) {
		return auth.ErrEmailTaken
	}
	repo.nextID++
	user.ID = repo.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	repo.accounts[user.ID] = &account.Account{User: *user, RoleName: repo.roleName(user.RoleID)}
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	existing, ok := repo.accounts[user.ID]
	if !ok {
		return auth.ErrUserNotFound
	}
	if repo.emailTaken(user.Email, user.ID) {
		return auth.ErrEmailTaken
	}
	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Address = user.Address
	existing.RoleID = user.RoleID
	existing.RoleName = repo.roleName(user.RoleID)
	return nil
}

func (repo *memoryRepository) UpdateProfile(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	existing, ok := repo.accounts[user.ID]
	if !ok {
		return auth.ErrUserNotFound
	}
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Address = user.Address
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.accounts[id]; !ok {
		return auth.ErrUserNotFound
	}
	delete(repo.accounts, id)
	return nil
}

func (repo *memoryRepository) RoleExists(_ context.Context, roleID int64) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	_, ok := repo.roles[roleID]
	return ok, nil
}

// plainHasher prefixes instead of hashing to keep tests fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

// forgetLog records evicted users.
type forgetLog struct {
	mu    sync.Mutex
	users []int64
}

func (log *forgetLog) Forget(userID int64) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.users = append(log.users, userID)
}

// grantTable answers permission checks from a fixed per-user action set.
type grantTable map[int64]map[sec.Action]bool

func (grants grantTable) Can(_ context.Context, userID int64, module sec.Module, action sec.Action) (bool, error) {
	return module == sec.ModuleUsers && grants[userID][action], nil
}
