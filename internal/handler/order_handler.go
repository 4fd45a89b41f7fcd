package handler

import (
	"net/http"

	"clothing-store/internal/model"
	"clothing-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	errors  errorWriter
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, exposeDetails bool, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		errors: errorWriter{
			exposeDetails: exposeDetails,
			logger:        logger.With().Str("handler", "order").Logger(),
		},
	}
}

// Create handles POST /api/orders. Checkout is public.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PUT /api/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
