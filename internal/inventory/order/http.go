// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stockify/internal/platform/middleware"
	requestutil "github.com/taibuivan/stockify/internal/platform/request"
	"github.com/taibuivan/stockify/internal/platform/respond"
	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/pkg/pagination"
	"github.com/taibuivan/stockify/pkg/query"
)

// Handler implements the /api/orders endpoints.
type Handler struct {
	service *Service
	checker middleware.PermissionChecker
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, checker middleware.PermissionChecker) *Handler {
	return &Handler{service: service, checker: checker}
}

// Routes returns a [chi.Router] gated by the orders module flags.
//
// # Endpoints
//   - GET    /      : Paginated list, optional ?status=new,pending.
//   - GET    /{id}  : One order.
//   - POST   /      : Place an order.
//   - PUT    /{id}  : Partial update; fulfilling receives the items into stock.
//   - DELETE /{id}  : Delete.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	can := func(action sec.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(handler.checker, sec.ModuleOrders, action)
	}

	router.With(can(sec.ActionRead)).Get("/", handler.list)
	router.With(can(sec.ActionRead)).Get("/{id}", handler.get)
	router.With(can(sec.ActionCreate)).Post("/", handler.create)
	router.With(can(sec.ActionUpdate)).Put("/{id}", handler.update)
	router.With(can(sec.ActionDelete)).Delete("/{id}", handler.delete)

	return router
}

type orderRequest struct {
	Name                 string  `json:"name"`
	SKU                  string  `json:"sku"`
	Supplier             string  `json:"supplier"`
	Category             string  `json:"category"`
	NumberOfItems        int     `json:"numberOfItems"`
	Status               string  `json:"status"`
	ExpectedDeliveryDate string  `json:"expectedDeliveryDate"`
	TotalAmount          float64 `json:"totalAmount"`
	OrderDate            string  `json:"orderDate"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Statuses: query.StringSlice(request.URL.Query().Get("status"))}

	orders, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, orders, params.Meta(total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	order, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, order)
}

/*
POST /api/orders

Response:
  - 201: Created order with its generated id
  - 400: Missing fields, non-positive item count, bad date, unknown status
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload orderRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.service.Create(request.Context(), Input(payload))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, order)
}

/*
PUT /api/orders/{id}

Response:
  - 200: Updated order
  - 404: Order not found
  - 409: Order already fulfilled
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, order)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
