// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package supplier

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

// Handler implements the /api/suppliers endpoints.
type Handler struct {
	service *Service
	checker middleware.PermissionChecker
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, checker middleware.PermissionChecker) *Handler {
	return &Handler{service: service, checker: checker}
}

// Routes returns a [chi.Router] gated by the suppliers module flags.
//
// # Endpoints
//   - GET    /      : Paginated list, optional ?search= and ?status=.
//   - GET    /{id}  : One supplier.
//   - POST   /      : Create.
//   - PUT    /{id}  : Update.
//   - DELETE /{id}  : Delete.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	can := func(action sec.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(handler.checker, sec.ModuleSuppliers, action)
	}

	router.With(can(sec.ActionRead)).Get("/", handler.list)
	router.With(can(sec.ActionRead)).Get("/{id}", handler.get)
	router.With(can(sec.ActionCreate)).Post("/", handler.create)
	router.With(can(sec.ActionUpdate)).Put("/{id}", handler.update)
	router.With(can(sec.ActionDelete)).Delete("/{id}", handler.delete)

	return router
}

type supplierRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	CompanyLocation Location `json:"companyLocation"`
	GSTIN           *string  `json:"gstin"`
	Category        string   `json:"category"`
	Website         *string  `json:"website"`
	Status          string   `json:"status"`
}

func (payload supplierRequest) input() Input {
	return Input(payload)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()
	filter := Filter{
		Query:  normalize.Text(query.Get("search")),
		Status: normalize.Text(query.Get("status")),
	}

	suppliers, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, suppliers, params.Meta(total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	supplierID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	supplier, err := handler.service.Get(request.Context(), supplierID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, supplier)
}

/*
POST /api/suppliers

Response:
  - 201: Created supplier
  - 400: Missing contact or location fields
  - 409: Supplier with this email already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload supplierRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	supplier, err := handler.service.Create(request.Context(), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, supplier)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	supplierID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload supplierRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	supplier, err := handler.service.Update(request.Context(), supplierID, payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, supplier)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	supplierID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), supplierID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
