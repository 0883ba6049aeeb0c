package transport

import (
	"context"
	"io"
	"strings"

	"catalog-storefront/internal/domain"
	"catalog-storefront/internal/storage"

	"github.com/google/uuid"
)

// Stub services record their inputs and return canned results

type stubProductService struct {
	products    []*domain.Product
	err         error
	lastCreate  domain.CreateProductRequest
	lastQuery   string
	lastExclude uuid.UUID
	lastName    string
	deleted     []uuid.UUID
}

func (s *stubProductService) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	s.lastCreate = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: uuid.New(), Name: req.Name, Slug: domain.Slugify(req.Name), ImageAssetIDs: req.ImageAssetIDs}, nil
}

func (s *stubProductService) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) GetFeatured(ctx context.Context) ([]*domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductService) GetRelated(ctx context.Context, category string, excludeID uuid.UUID) ([]*domain.Product, error) {
	s.lastName = category
	s.lastExclude = excludeID
	return s.products, s.err
}

func (s *stubProductService) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	s.lastName = category
	return s.products, s.err
}

func (s *stubProductService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	s.lastQuery = query
	return s.products, s.err
}

func (s *stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

type stubCategoryService struct {
	categories []*domain.Category
	err        error
	lastID     uuid.UUID
	lastReq    domain.CategoryRequest
}

func (s *stubCategoryService) Create(ctx context.Context, req domain.CategoryRequest) (*domain.Category, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Category{ID: uuid.New(), Name: req.Name, ImageAssetID: req.ImageAssetID}, nil
}

func (s *stubCategoryService) GetAll(ctx context.Context) ([]*domain.Category, error) {
	return s.categories, s.err
}

func (s *stubCategoryService) Update(ctx context.Context, id uuid.UUID, req domain.CategoryRequest) (*domain.Category, error) {
	s.lastID = id
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Category{ID: id, Name: req.Name, ImageAssetID: req.ImageAssetID}, nil
}

func (s *stubCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	s.lastID = id
	return s.err
}

type stubBillboardService struct {
	views   []*domain.BillboardView
	err     error
	created int
}

func (s *stubBillboardService) Create(ctx context.Context, req domain.CreateBillboardRequest) (*domain.Billboard, error) {
	s.created++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Billboard{ID: uuid.New(), Title: req.Title, ProductID: req.ProductID, ImageAssetID: req.ImageAssetID}, nil
}

func (s *stubBillboardService) GetAll(ctx context.Context) ([]*domain.BillboardView, error) {
	return s.views, s.err
}

func (s *stubBillboardService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

type stubUploadService struct {
	assets          map[string]string
	lastContentType string
}

func (s *stubUploadService) IssueUploadLocation(ctx context.Context) (*domain.UploadLocation, error) {
	return &domain.UploadLocation{URL: "http://localhost:8080/api/uploads/" + uuid.NewString(), Method: "POST"}, nil
}

func (s *stubUploadService) Upload(ctx context.Context, token, contentType string, body io.Reader) (*domain.UploadResult, error) {
	if token != "valid" {
		return nil, storage.ErrUploadTokenInvalid
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	s.assets[id] = string(content)
	s.lastContentType = contentType
	return &domain.UploadResult{AssetID: id}, nil
}

func (s *stubUploadService) OpenAsset(ctx context.Context, assetID string) (*storage.Asset, error) {
	content, ok := s.assets[assetID]
	if !ok {
		return nil, storage.ErrAssetNotFound
	}
	return &storage.Asset{
		ReadCloser:  io.NopCloser(strings.NewReader(content)),
		ContentType: "image/webp",
		Size:        int64(len(content)),
	}, nil
}
