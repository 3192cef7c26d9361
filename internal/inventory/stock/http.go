// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stock

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stockify/internal/platform/middleware"
	requestutil "github.com/taibuivan/stockify/internal/platform/request"
	"github.com/taibuivan/stockify/internal/platform/respond"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

// Handler implements the /api/stock endpoints.
type Handler struct {
	service *Service
	checker middleware.PermissionChecker
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, checker middleware.PermissionChecker) *Handler {
	return &Handler{service: service, checker: checker}
}

// Routes returns a [chi.Router] gated by the stocks module flags.
//
// # Endpoints
//   - GET    /      : Every row ordered by category.
//   - GET    /{id}  : One row.
//   - POST   /      : Create.
//   - PUT    /{id}  : Partial update; omitted fields are kept.
//   - DELETE /{id}  : Delete.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	can := func(action sec.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(handler.checker, sec.ModuleStocks, action)
	}

	router.With(can(sec.ActionRead)).Get("/", handler.list)
	router.With(can(sec.ActionRead)).Get("/{id}", handler.get)
	router.With(can(sec.ActionCreate)).Post("/", handler.create)
	router.With(can(sec.ActionUpdate)).Put("/{id}", handler.update)
	router.With(can(sec.ActionDelete)).Delete("/{id}", handler.delete)

	return router
}

type stockRequest struct {
	SKU               string  `json:"sku"`
	ProductName       string  `json:"productName"`
	Category          string  `json:"category"`
	QuantityAvailable int     `json:"quantityAvailable"`
	MinimumStockLevel int     `json:"minimumStockLevel"`
	MaximumStockLevel int     `json:"maximumStockLevel"`
	Status            string  `json:"status"`
	UnitCost          float64 `json:"unitCost"`
	Supplier          string  `json:"supplier"`
}

func (payload stockRequest) stock() *Stock {
	return &Stock{
		SKU:               payload.SKU,
		ProductName:       payload.ProductName,
		Category:          payload.Category,
		QuantityAvailable: payload.QuantityAvailable,
		MinimumStockLevel: payload.MinimumStockLevel,
		MaximumStockLevel: payload.MaximumStockLevel,
		Status:            payload.Status,
		UnitCost:          payload.UnitCost,
		Supplier:          payload.Supplier,
	}
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	stocks, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stocks)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	stockID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stock, err := handler.service.Get(request.Context(), stockID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stock)
}

/*
POST /api/stock

Response:
  - 201: Created row
  - 400: Missing fields, negative quantities, maximum below minimum
  - 409: Stock record already exists for this SKU
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload stockRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stock, err := handler.service.Create(request.Context(), payload.stock())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, stock)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	stockID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch Patch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stock, err := handler.service.Update(request.Context(), stockID, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stock)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	stockID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), stockID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
