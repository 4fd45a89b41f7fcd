package handler

import (
	"net/http"

	"clothing-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	errors  errorWriter
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, exposeDetails bool, logger zerolog.Logger) *ProductHandler {
	logger = logger.With().Str("handler", "product").Logger()
	return &ProductHandler{
		service: service,
		errors:  errorWriter{exposeDetails: exposeDetails, logger: logger},
		logger:  logger,
	}
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products with a multipart body.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseProductForm(w, r)
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}
	h.logIgnoredImages(form)

	input, err := form.productInput()
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	product, err := h.service.Create(r.Context(), input, form.images)
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} with a multipart body.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := parseProductForm(w, r)
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}
	h.logIgnoredImages(form)

	update, err := form.productUpdate()
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), update, form.images)
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

func (h *ProductHandler) logIgnoredImages(form *productForm) {
	if form.ignored > 0 {
		h.logger.Warn().Int("ignored", form.ignored).Msg("ignoring images beyond the product limit")
	}
}
