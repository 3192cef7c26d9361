// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authztest drives permission-gated routers from handler tests.
package authztest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stockify/internal/platform/middleware"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

type grant struct {
	module sec.Module
	action sec.Action
}

// Checker is an in-memory [middleware.PermissionChecker].
type Checker struct {
	mu     sync.RWMutex
	grants map[int64]map[grant]bool
}

// NewChecker returns a checker that denies everything.
func NewChecker() *Checker {
	return &Checker{grants: make(map[int64]map[grant]bool)}
}

// Allow grants actions on module to userID.
func (checker *Checker) Allow(userID int64, module sec.Module, actions ...sec.Action) *Checker {
	checker.mu.Lock()
	defer checker.mu.Unlock()

	if checker.grants[userID] == nil {
		checker.grants[userID] = make(map[grant]bool)
	}
	for _, action := range actions {
		checker.grants[userID][grant{module, action}] = true
	}
	return checker
}

// AllowAll grants every action on module to userID.
func (checker *Checker) AllowAll(userID int64, module sec.Module) *Checker {
	return checker.Allow(userID, module, sec.ActionCreate, sec.ActionRead, sec.ActionUpdate, sec.ActionDelete)
}

// Can implements [middleware.PermissionChecker].
func (checker *Checker) Can(_ context.Context, userID int64, module sec.Module, action sec.Action) (bool, error) {
	checker.mu.RLock()
	defer checker.mu.RUnlock()
	return checker.grants[userID][grant{module, action}], nil
}

// API serves one mounted router behind [middleware.Authenticate].
type API struct {
	tokens *sec.TokenService
	router http.Handler
}

// NewAPI mounts handler at pattern behind token authentication.
func NewAPI(t *testing.T, pattern string, handler http.Handler) *API {
	t.Helper()

	tokens, err := sec.NewTokenService("authztest-secret", "stockify", time.Hour)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens, nil))
	router.Mount(pattern, handler)

	return &API{tokens: tokens, router: router}
}

// Call sends a request as userID. A zero userID sends no token; an empty body sends none.
func (api *API) Call(t *testing.T, userID int64, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)

	if userID != 0 {
		token, _, err := api.tokens.Issue(sec.Identity{UserID: userID, Email: fmt.Sprintf("user%d@example.com", userID)})
		require.NoError(t, err)
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	return recorder
}
