// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stockify/internal/platform/middleware"
	requestutil "github.com/taibuivan/stockify/internal/platform/request"
	"github.com/taibuivan/stockify/internal/platform/respond"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

// Handler implements the /api/categories endpoints.
type Handler struct {
	service *Service
	checker middleware.PermissionChecker
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, checker middleware.PermissionChecker) *Handler {
	return &Handler{service: service, checker: checker}
}

// Routes returns a [chi.Router] gated by the categories module flags.
//
// # Endpoints
//   - GET    /      : Every category ordered by name.
//   - GET    /{id}  : One category.
//   - POST   /      : Create.
//   - PUT    /{id}  : Update.
//   - DELETE /{id}  : Delete.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	can := func(action sec.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(handler.checker, sec.ModuleCategories, action)
	}

	router.With(can(sec.ActionRead)).Get("/", handler.list)
	router.With(can(sec.ActionRead)).Get("/{id}", handler.get)
	router.With(can(sec.ActionCreate)).Post("/", handler.create)
	router.With(can(sec.ActionUpdate)).Put("/{id}", handler.update)
	router.With(can(sec.ActionDelete)).Delete("/{id}", handler.delete)

	return router
}

type categoryRequest struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Status string `json:"status"`
}

func (payload categoryRequest) input() Input {
	return Input{Name: payload.Name, Code: payload.Code, Status: payload.Status}
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	categoryID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Get(request.Context(), categoryID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

/*
POST /api/categories

Response:
  - 201: Created category
  - 400: Missing name or code, bad code format, unknown status
  - 409: Name or code already used
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload categoryRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Create(request.Context(), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	categoryID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload categoryRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Update(request.Context(), categoryID, payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	categoryID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), categoryID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
