package transport

import (
	"fmt"
	"net/http"

	"catalog-storefront/internal/domain"
	"catalog-storefront/internal/middleware"
	"catalog-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, admin Middleware) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Get("/featured", h.GetFeatured)
		r.Get("/search", h.Search)
		r.Get("/related", h.GetRelated)
		r.Get("/slug/{slug}", h.GetBySlug)
		r.Get("/category/{name}", h.ListByCategory)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.Create)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetAll(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetFeatured serves the homepage product selection
func (h *ProductHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetFeatured(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// GetRelated expects ?category=<name>&exclude=<product id>
func (h *ProductHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	excludeID, err := uuid.Parse(query.Get("exclude"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, fmt.Errorf("%w: exclude must be a product id", domain.ErrInvalidInput))
		return
	}

	products, err := h.productService.GetRelated(r.Context(), query.Get("category"), excludeID)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListByCategory(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Search expects ?q=<terms>. A missing query returns an empty list.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	product, err := h.productService.Create(r.Context(), req)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
