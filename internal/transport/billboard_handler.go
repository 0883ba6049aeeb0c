package transport

import (
	"net/http"

	"catalog-storefront/internal/domain"
	"catalog-storefront/internal/middleware"
	"catalog-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BillboardHandler handles HTTP requests for billboard operations
type BillboardHandler struct {
	billboardService service.BillboardService
	logger           *zap.Logger
}

// NewBillboardHandler creates a new BillboardHandler
func NewBillboardHandler(billboardService service.BillboardService, logger *zap.Logger) *BillboardHandler {
	return &BillboardHandler{
		billboardService: billboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers all billboard routes
func (h *BillboardHandler) RegisterRoutes(r chi.Router, admin Middleware) {
	r.Route("/api/billboards", func(r chi.Router) {
		r.Get("/", h.GetAll)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.Create)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// GetAll returns billboards joined with their product's name and slug
func (h *BillboardHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	billboards, err := h.billboardService.GetAll(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, billboards)
}

func (h *BillboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBillboardRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	billboard, err := h.billboardService.Create(r.Context(), req)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Billboard created",
		zap.String("billboard_id", billboard.ID.String()),
		zap.String("product_id", billboard.ProductID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, billboard)
}

func (h *BillboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	if err := h.billboardService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
