package transport

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"catalog-storefront/internal/middleware"
	"catalog-storefront/internal/service"
	"catalog-storefront/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UploadHandler issues upload locations, receives uploaded content and
// serves stored assets
type UploadHandler struct {
	uploadService service.UploadService
	logger        *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService service.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// RegisterRoutes registers upload and asset routes. uploadLimit guards the
// token redemption endpoint.
func (h *UploadHandler) RegisterRoutes(r chi.Router, admin, uploadLimit Middleware) {
	r.Route("/api/uploads", func(r chi.Router) {
		r.With(admin).Post("/", h.IssueUploadLocation)
		r.With(uploadLimit).Post("/{token}", h.Upload)
	})
	r.Get("/api/assets/{id}", h.ServeAsset)
}

func (h *UploadHandler) IssueUploadLocation(w http.ResponseWriter, r *http.Request) {
	location, err := h.uploadService.IssueUploadLocation(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, location)
}

// Upload stores the raw request body under a new asset id
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.uploadService.Upload(r.Context(), chi.URLParam(r, "token"), contentType, r.Body)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *UploadHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.uploadService.OpenAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "asset not found")
			return
		}
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	defer asset.Close()

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(asset.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, asset); err != nil {
		h.logger.Warn("Asset stream interrupted", zap.String("asset_id", chi.URLParam(r, "id")), zap.Error(err))
	}
}
