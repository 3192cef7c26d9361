// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/stockify/internal/platform/middleware"
	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/internal/users/auth"
)

// # In-memory Repositories

type memoryDB struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*auth.User
	sessions map[int64]*auth.Session
	resets   map[string]auth.PasswordReset
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:    make(map[int64]*auth.User),
		sessions: make(map[int64]*auth.Session),
		resets:   make(map[string]auth.PasswordReset),
	}
}

func (db *memoryDB) sessionsOf(userID int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	count := 0
	for _, session := range db.sessions {
		if session.UserID == userID {
			count++
		}
	}
	return count
}

func (db *memoryDB) resetCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.resets)
}

type fakeUsers struct{ db *memoryDB }

func (repo fakeUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if user, ok := repo.db.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, auth.ErrUserNotFound
}

func (repo fakeUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, user := range repo.db.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (repo fakeUsers) Create(_ context.Context, user *auth.User) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, existing := range repo.db.users {
		if existing.Email == user.Email {
			return auth.ErrEmailTaken
		}
	}
	repo.db.nextID++
	user.ID = repo.db.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	repo.db.users[user.ID] = &clone
	return nil
}

type fakeSessions struct {
	db  *memoryDB
	err error
}

func (repo fakeSessions) Create(_ context.Context, session *auth.Session) error {
	if repo.err != nil {
		return repo.err
	}
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.nextID++
	session.ID = repo.db.nextID
	clone := *session
	repo.db.sessions[session.ID] = &clone
	return nil
}

func (repo fakeSessions) DeleteByToken(_ context.Context, userID int64, tokenHash string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for id, session := range repo.db.sessions {
		if session.UserID == userID && session.TokenHash == tokenHash {
			delete(repo.db.sessions, id)
		}
	}
	return nil
}

type fakeResets struct{ db *memoryDB }

func (repo fakeResets) Create(_ context.Context, reset *auth.PasswordReset) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.resets[reset.TokenHash] = *reset
	return nil
}

func (repo fakeResets) Consume(_ context.Context, tokenHash, passwordHash string, now time.Time) (int64, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	reset, ok := repo.db.resets[tokenHash]
	if !ok || !reset.ExpiresAt.After(now) {
		return 0, auth.ErrInvalidResetToken
	}

	for _, user := range repo.db.users {
		if user.Email == reset.Email {
			delete(repo.db.resets, tokenHash)
			user.PasswordHash = passwordHash
			for id, session := range repo.db.sessions {
				if session.UserID == user.ID {
					delete(repo.db.sessions, id)
				}
			}
			return user.ID, nil
		}
	}
	return 0, auth.ErrInvalidResetToken
}

// # Collaborators

type capturingNotifier struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (notifier *capturingNotifier) NotifyPasswordReset(_ context.Context, email, token string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.tokens == nil {
		notifier.tokens = make(map[string]string)
	}
	notifier.tokens[email] = token
	return nil
}

func (notifier *capturingNotifier) tokenFor(email string) string {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.tokens[email]
}

type recordingRevoker struct {
	revoked []string
	before  map[int64]time.Time
}

func (revoker *recordingRevoker) Revoke(_ context.Context, token string, _ time.Time) error {
	revoker.revoked = append(revoker.revoked, token)
	return nil
}

func (revoker *recordingRevoker) RevokeAllBefore(_ context.Context, userID int64, at time.Time) error {
	if revoker.before == nil {
		revoker.before = make(map[int64]time.Time)
	}
	revoker.before[userID] = at
	return nil
}

// # Harness

type harness struct {
	db       *memoryDB
	tokens   *sec.TokenService
	notifier *capturingNotifier
	revoker  *recordingRevoker
	service  *auth.Service
	router   http.Handler
	clock    time.Time
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	sessionErr error
	throttle   auth.ResetThrottle
}

func withResetThrottle(throttle auth.ResetThrottle) harnessOption {
	return func(cfg *harnessConfig) { cfg.throttle = throttle }
}

func withSessionError() harnessOption {
	return func(cfg *harnessConfig) { cfg.sessionErr = errors.New("session table unavailable") }
}

func newHarness(t *testing.T, options ...harnessOption) *harness {
	t.Helper()

	cfg := &harnessConfig{}
	for _, option := range options {
		option(cfg)
	}

	tokens, err := sec.NewTokenService("auth-test-secret", "stockify", time.Hour)
	require.NoError(t, err)

	hasher, err := sec.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	h := &harness{
		db:       newMemoryDB(),
		tokens:   tokens,
		notifier: &capturingNotifier{},
		revoker:  &recordingRevoker{},
		clock:    time.Now(),
	}

	serviceOptions := []auth.Option{
		auth.WithRevoker(h.revoker),
		auth.WithClock(func() time.Time { return h.clock }),
	}
	if cfg.throttle != nil {
		serviceOptions = append(serviceOptions, auth.WithResetThrottle(cfg.throttle))
	}

	h.service = auth.NewService(
		fakeUsers{db: h.db},
		fakeSessions{db: h.db, err: cfg.sessionErr},
		fakeResets{db: h.db},
		tokens,
		hasher,
		h.notifier,
		serviceOptions...,
	)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens, nil))
	router.Mount("/api/auth", auth.NewHandler(h.service).Routes())
	h.router = router

	return h
}

func (h *harness) register(t *testing.T, email, password string) *auth.User {
	t.Helper()
	user, err := h.service.Register(context.Background(), auth.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	return user
}
