// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stockify/internal/platform/middleware"
	requestutil "github.com/taibuivan/stockify/internal/platform/request"
	"github.com/taibuivan/stockify/internal/platform/respond"
	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/pkg/normalize"
	"github.com/taibuivan/stockify/pkg/pagination"
)

// Handler implements the /api/users endpoints.
type Handler struct {
	service *Service
	checker middleware.PermissionChecker
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, checker middleware.PermissionChecker) *Handler {
	return &Handler{service: service, checker: checker}
}

// Routes returns a [chi.Router] for account administration and self-service.
//
// # Endpoints
//   - GET    /me    : Caller's own account (any signed-in user).
//   - PATCH  /me    : Edit caller's name and address (any signed-in user).
//   - GET    /      : Paginated list, optional ?search=.
//   - GET    /{id}  : One account.
//   - POST   /      : Create a verified account with a role.
//   - PUT    /{id}  : Update identity fields and role.
//   - DELETE /{id}  : Delete an account other than the caller's.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	can := func(action sec.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(handler.checker, sec.ModuleUsers, action)
	}

	router.With(middleware.RequireAuth).Get("/me", handler.profile)
	router.With(middleware.RequireAuth).Patch("/me", handler.updateProfile)

	router.With(can(sec.ActionRead)).Get("/", handler.list)
	router.With(can(sec.ActionRead)).Get("/{id}", handler.get)
	router.With(can(sec.ActionCreate)).Post("/", handler.create)
	router.With(can(sec.ActionUpdate)).Put("/{id}", handler.update)
	router.With(can(sec.ActionDelete)).Delete("/{id}", handler.delete)

	return router
}

// accountResponse adds the derived status to the account payload.
type accountResponse struct {
	*Account
	Status string `json:"status"`
}

func present(account *Account) accountResponse {
	return accountResponse{Account: account, Status: account.Status()}
}

type accountRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	RoleID    int64  `json:"roleId"`
}

func (payload accountRequest) input() Input {
	return Input{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Address:   payload.Address,
		RoleID:    payload.RoleID,
	}
}

type profileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
}

/*
GET /api/users

Response:
  - 200: Accounts with role names and status, plus pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Query: normalize.Text(request.URL.Query().Get("search"))}

	accounts, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, present(account))
	}
	respond.Paginated(writer, items, params.Meta(total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Get(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, present(account))
}

/*
POST /api/users

Response:
  - 201: Created account
  - 400: Missing fields, bad email, short password, invalid role
  - 409: Email already registered
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload accountRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Create(request.Context(), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, present(account))
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload accountRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Update(request.Context(), accountID, payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, present(account))
}

/*
DELETE /api/users/{id}

Response:
  - 204: Deleted
  - 400: Caller tried to delete their own account
  - 404: Account not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), callerID, accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, present(account))
}

func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload profileRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.UpdateProfile(request.Context(), userID, ProfileInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Address:   payload.Address,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, present(account))
}
