package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-storefront/internal/domain"
	"catalog-storefront/internal/repository"
	"catalog-storefront/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// FeaturedLimit caps the homepage selection of newest products
	FeaturedLimit = 12

	// RelatedLimit caps the "you may also like" selection
	RelatedLimit = 6
)

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetFeatured(ctx context.Context) ([]*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetRelated(ctx context.Context, category string, excludeID uuid.UUID) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
	assets      storage.AssetStore
	logger      *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, assets storage.AssetStore, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		assets:      assets,
		logger:      logger,
	}
}

// Create stores a new product. Every supplied asset id is persisted; only the
// URLs that resolve end up in Images. Slug uniqueness is left to the
// repository's unique index.
func (s *productService) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if req.Slug == "" {
		req.Slug = domain.Slugify(req.Name)
		if req.Slug == "" {
			return nil, fmt.Errorf("%w: cannot derive a slug from name %q", domain.ErrInvalidInput, req.Name)
		}
	}
	req.Features = compactFeatures(req.Features)

	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	images, err := s.resolveImages(ctx, req.ImageAssetIDs)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:               uuid.New(),
		Name:             req.Name,
		Slug:             req.Slug,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
		Images:           images,
		ImageAssetIDs:    append([]string{}, req.ImageAssetIDs...),
		Features:         req.Features,
		Category:         req.Category,
		BestFor:          req.BestFor,
		BestForColor:     req.BestForColor,
		Details: domain.ProductDetails{
			ActiveIngredients:   req.ActiveIngredients,
			HowToUse:            req.HowToUse,
			InactiveIngredients: "",
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if missing := product.UnresolvedImageCount(); missing > 0 {
		s.logger.Warn("Product stored with unresolved images",
			zap.String("product_id", product.ID.String()),
			zap.Int("unresolved", missing),
		)
	}

	return product, nil
}

// GetAll returns every product, newest first
func (s *productService) GetAll(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetFeatured returns at most FeaturedLimit of the newest products
func (s *productService) GetFeatured(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx, FeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			s.logger.Error("Slug uniqueness violated", zap.String("slug", slug))
		}
		return nil, fmt.Errorf("failed to get product by slug: %w", err)
	}
	return product, nil
}

// GetRelated returns up to RelatedLimit products of the same category in
// insertion order, never including excludeID
func (s *productService) GetRelated(ctx context.Context, category string, excludeID uuid.UUID) ([]*domain.Product, error) {
	products, err := s.productRepo.ListByCategory(ctx, category, &excludeID, RelatedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list related products: %w", err)
	}
	return products, nil
}

// ListByCategory returns every product of a category in insertion order
func (s *productService) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	products, err := s.productRepo.ListByCategory(ctx, category, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return products, nil
}

// Search matches product names. An empty query matches nothing.
func (s *productService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return []*domain.Product{}, nil
	}

	products, err := s.productRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Delete removes every bound image asset, then the product. Asset deletion is
// best effort: failures are logged and do not stop the record from being
// removed. Billboards linking to the product are left untouched.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find product: %w", err)
	}

	var g errgroup.Group
	for _, assetID := range product.ImageAssetIDs {
		assetID := assetID
		g.Go(func() error {
			if err := s.assets.Delete(ctx, assetID); err != nil {
				s.logger.Warn("Failed to delete product image",
					zap.String("product_id", id.String()),
					zap.String("asset_id", assetID),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// resolveImages resolves all asset ids concurrently and returns the URLs that
// resolved, in input order. Unresolvable assets are skipped; any other
// failure aborts.
func (s *productService) resolveImages(ctx context.Context, assetIDs []string) ([]string, error) {
	urls := make([]string, len(assetIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, assetID := range assetIDs {
		i, assetID := i, assetID
		g.Go(func() error {
			url, err := s.assets.ResolveURL(gctx, assetID)
			if err != nil {
				if errors.Is(err, domain.ErrAssetUnresolvable) {
					s.logger.Warn("Dropping unresolvable product image", zap.String("asset_id", assetID))
					return nil
				}
				return fmt.Errorf("failed to resolve asset %s: %w", assetID, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	images := make([]string, 0, len(urls))
	for _, url := range urls {
		if url != "" {
			images = append(images, url)
		}
	}
	return images, nil
}

// compactFeatures drops blank feature lines, keeping display order
func compactFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
