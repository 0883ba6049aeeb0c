package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-storefront/internal/domain"
	"catalog-storefront/internal/repository"
	"catalog-storefront/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Create(ctx context.Context, req domain.CategoryRequest) (*domain.Category, error)
	GetAll(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, req domain.CategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	assets       storage.AssetStore
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, assets storage.AssetStore, logger *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		assets:       assets,
		logger:       logger,
	}
}

// Create adds a category with a unique name. An image that cannot be resolved
// is kept bound with a nil ImageURL.
func (s *categoryService) Create(ctx context.Context, req domain.CategoryRequest) (*domain.Category, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrCategoryAlreadyExists
	}

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if !req.ClearsImage() {
		category.ImageAssetID = req.ImageAssetID
	}

	if category.HasImage() {
		category.ImageURL, err = s.resolveOptional(ctx, *category.ImageAssetID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// GetAll returns every category, newest first
func (s *categoryService) GetAll(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Update always rewrites the name. When a different image asset is supplied
// the old asset is deleted before the new one is resolved and bound; an empty
// asset id deletes the old asset and leaves the category without an image;
// without one the current binding is kept.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req domain.CategoryRequest) (*domain.Category, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	// Reject a rename onto another category before any asset is touched
	if req.Name != category.Name {
		existing, err := s.categoryRepo.FindByName(ctx, req.Name)
		if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, fmt.Errorf("failed to check existing category: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, repository.ErrCategoryAlreadyExists
		}
	}

	switch {
	case req.ClearsImage():
		if category.HasImage() {
			if err := s.deleteAsset(ctx, *category.ImageAssetID); err != nil {
				return nil, err
			}
		}
		category.ImageAssetID = nil
		category.ImageURL = nil

	case req.ImageAssetID != nil && !sameAsset(category.ImageAssetID, *req.ImageAssetID):
		if category.HasImage() {
			if err := s.deleteAsset(ctx, *category.ImageAssetID); err != nil {
				return nil, err
			}
		}

		imageURL, err := s.resolveOptional(ctx, *req.ImageAssetID)
		if err != nil {
			return nil, err
		}

		assetID := *req.ImageAssetID
		category.ImageAssetID = &assetID
		category.ImageURL = imageURL
	}

	category.Name = req.Name

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// Delete removes the bound image asset, if any, then the category
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find category: %w", err)
	}

	if category.HasImage() {
		if err := s.deleteAsset(ctx, *category.ImageAssetID); err != nil {
			return err
		}
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

// resolveOptional returns nil, not an error, for an unresolvable asset
func (s *categoryService) resolveOptional(ctx context.Context, assetID string) (*string, error) {
	url, err := s.assets.ResolveURL(ctx, assetID)
	if err != nil {
		if errors.Is(err, domain.ErrAssetUnresolvable) {
			s.logger.Warn("Category image could not be resolved", zap.String("asset_id", assetID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve category image: %w", err)
	}
	return &url, nil
}

func (s *categoryService) deleteAsset(ctx context.Context, assetID string) error {
	return deleteBoundAsset(ctx, s.assets, s.logger, assetID)
}

func sameAsset(current *string, candidate string) bool {
	return current != nil && *current == candidate
}

// deleteBoundAsset deletes an asset whose record is about to be rebound or
// removed. An asset that is already gone counts as deleted.
func deleteBoundAsset(ctx context.Context, assets storage.AssetStore, logger *zap.Logger, assetID string) error {
	if err := assets.Delete(ctx, assetID); err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			logger.Warn("Bound asset already missing", zap.String("asset_id", assetID))
			return nil
		}
		return fmt.Errorf("failed to delete asset %s: %w", assetID, err)
	}
	return nil
}
