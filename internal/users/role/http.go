// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stockify/internal/platform/middleware"
	requestutil "github.com/taibuivan/stockify/internal/platform/request"
	"github.com/taibuivan/stockify/internal/platform/respond"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

// Handler implements the /api/roles endpoints.
type Handler struct {
	service *Service
	checker middleware.PermissionChecker
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, checker middleware.PermissionChecker) *Handler {
	return &Handler{service: service, checker: checker}
}

// Routes returns a [chi.Router] with every role endpoint gated by the users module flags.
//
// # Endpoints
//   - GET    /         : List roles with full grids.
//   - GET    /modules  : Fixed module enumeration.
//   - GET    /{id}     : One role.
//   - POST   /         : Create a role.
//   - PUT    /{id}     : Replace name and grid.
//   - DELETE /{id}     : Delete a role no user references.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	can := func(action sec.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(handler.checker, sec.ModuleUsers, action)
	}

	router.With(can(sec.ActionRead)).Get("/", handler.list)
	router.With(can(sec.ActionRead)).Get("/modules", handler.modules)
	router.With(can(sec.ActionRead)).Get("/{id}", handler.get)
	router.With(can(sec.ActionCreate)).Post("/", handler.create)
	router.With(can(sec.ActionUpdate)).Put("/{id}", handler.update)
	router.With(can(sec.ActionDelete)).Delete("/{id}", handler.delete)

	return router
}

type roleRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Permissions Permissions `json:"permissions"`
}

func (payload roleRequest) input() Input {
	return Input{Name: payload.Name, Description: payload.Description, Permissions: payload.Permissions}
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	roles, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if roles == nil {
		roles = []*Role{}
	}
	respond.OK(writer, roles)
}

func (handler *Handler) modules(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, handler.service.Modules())
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	roleID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, err := handler.service.Get(request.Context(), roleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, role)
}

/*
POST /api/roles

Response:
  - 201: Role with its complete grid
  - 400: Missing name or permissions, unknown module
  - 409: Role name already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload roleRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, err := handler.service.Create(request.Context(), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, role)
}

/*
PUT /api/roles/{id}

Response:
  - 200: Role with its complete grid
  - 404: Role not found
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	roleID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload roleRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, err := handler.service.Update(request.Context(), roleID, payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, role)
}

/*
DELETE /api/roles/{id}

Response:
  - 204: Deleted
  - 404: Role not found
  - 409: N user(s) still assigned, details [{field:"users", message:"N"}]
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	roleID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), roleID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
