// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stockify/internal/platform/middleware"
	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/internal/users/account"
)

const (
	adminUser  int64 = 100
	viewerUser int64 = 101
)

type accountAPI struct {
	repo    *memoryRepository
	service *account.Service
	tokens  *sec.TokenService
	router  http.Handler
}

func newAccountAPI(t *testing.T) *accountAPI {
	t.Helper()

	tokens, err := sec.NewTokenService("account-test-secret", "stockify", time.Hour)
	require.NoError(t, err)

	grants := grantTable{
		adminUser: {
			sec.ActionCreate: true, sec.ActionRead: true,
			sec.ActionUpdate: true, sec.ActionDelete: true,
		},
		viewerUser: {sec.ActionRead: true},
	}

	repo := newMemoryRepository()
	service := account.NewService(repo, plainHasher{}, nil)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens, nil))
	router.Mount("/api/users", account.NewHandler(service, grants).Routes())

	return &accountAPI{repo: repo, service: service, tokens: tokens, router: router}
}

func (api *accountAPI) call(t *testing.T, userID int64, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	if userID != 0 {
		token, _, err := api.tokens.Issue(sec.Identity{UserID: userID, Email: "caller@example.com"})
		require.NoError(t, err)
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	return recorder
}

func TestAccountRoutes_PermissionGate(t *testing.T) {
	api := newAccountAPI(t)

	tests := []struct {
		name   string
		userID int64
		method string
		target string
		body   string
		status int
	}{
		{"anonymous list", 0, http.MethodGet, "/api/users", "", http.StatusUnauthorized},
		{"viewer list", viewerUser, http.MethodGet, "/api/users", "", http.StatusOK},
		{"viewer create", viewerUser, http.MethodPost, "/api/users", `{}`, http.StatusForbidden},
		{"viewer delete", viewerUser, http.MethodDelete, "/api/users/1", "", http.StatusForbidden},
		{"no grants", 555, http.MethodGet, "/api/users", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := api.call(t, tt.userID, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}
}

func TestAccountRoutes_CreateAndList(t *testing.T) {
	api := newAccountAPI(t)

	body := `{"email":"new@example.com","password":"secret1","firstName":"New","lastName":"Hire","roleId":2}`
	recorder := api.call(t, adminUser, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "new@example.com", created.Data["email"])
	assert.Equal(t, "clerk", created.Data["roleName"])
	assert.Equal(t, account.StatusActive, created.Data["status"])
	assert.NotContains(t, created.Data, "passwordHash")

	recorder = api.call(t, viewerUser, http.MethodGet, "/api/users?page=1&limit=10", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var listed struct {
		Data []map[string]any `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Meta.Total)
	require.Len(t, listed.Data, 1)
}

func TestAccountRoutes_InvalidRole(t *testing.T) {
	api := newAccountAPI(t)

	body := `{"email":"new@example.com","password":"secret1","firstName":"New","lastName":"Hire","roleId":42}`
	recorder := api.call(t, adminUser, http.MethodPost, "/api/users", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid role selected")
}

func TestAccountRoutes_DeleteSelf(t *testing.T) {
	api := newAccountAPI(t)

	recorder := api.call(t, adminUser, http.MethodDelete, "/api/users/100", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "You cannot delete your own account")
}

func TestAccountRoutes_ProfileNeedsOnlySignIn(t *testing.T) {
	api := newAccountAPI(t)

	created, err := api.service.Create(context.Background(), account.Input{
		Email: "self@example.com", Password: "secret1", FirstName: "Self", LastName: "Serve", RoleID: 2,
	})
	require.NoError(t, err)

	recorder := api.call(t, 0, http.MethodGet, "/api/users/me", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = api.call(t, created.ID, http.MethodPatch, "/api/users/me", `{"firstName":"Changed","lastName":"Serve"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"firstName":"Changed"`)

	recorder = api.call(t, created.ID, http.MethodGet, "/api/users/me", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"email":"self@example.com"`)
}
