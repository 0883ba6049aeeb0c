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
	"golang.org/x/sync/errgroup"
)

// maxProductLookups bounds concurrent product reads while joining billboards
const maxProductLookups = 8

// BillboardService defines the interface for billboard business logic
type BillboardService interface {
	Create(ctx context.Context, req domain.CreateBillboardRequest) (*domain.Billboard, error)
	GetAll(ctx context.Context) ([]*domain.BillboardView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type billboardService struct {
	billboardRepo repository.BillboardRepository
	productRepo   repository.ProductRepository
	assets        storage.AssetStore
	logger        *zap.Logger
}

// NewBillboardService creates a new instance of BillboardService
func NewBillboardService(
	billboardRepo repository.BillboardRepository,
	productRepo repository.ProductRepository,
	assets storage.AssetStore,
	logger *zap.Logger,
) BillboardService {
	return &billboardService{
		billboardRepo: billboardRepo,
		productRepo:   productRepo,
		assets:        assets,
		logger:        logger,
	}
}

// Create stores a billboard for an existing product. The image must resolve;
// nothing is written otherwise.
func (s *billboardService) Create(ctx context.Context, req domain.CreateBillboardRequest) (*domain.Billboard, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, fmt.Errorf("failed to find linked product: %w", err)
	}

	imageURL, err := s.assets.ResolveURL(ctx, req.ImageAssetID)
	if err != nil {
		return nil, fmt.Errorf("could not get image URL: %w", err)
	}

	billboard := &domain.Billboard{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		ProductID:    req.ProductID,
		ImageAssetID: req.ImageAssetID,
		ImageURL:     imageURL,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.billboardRepo.Create(ctx, billboard); err != nil {
		return nil, fmt.Errorf("failed to create billboard: %w", err)
	}

	return billboard, nil
}

// GetAll returns every billboard, newest first, joined with the linked
// product's current name and slug. A deleted product yields
// domain.MissingProductName and an empty slug.
func (s *billboardService) GetAll(ctx context.Context) ([]*domain.BillboardView, error) {
	billboards, err := s.billboardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list billboards: %w", err)
	}

	views := make([]*domain.BillboardView, len(billboards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProductLookups)
	for i, billboard := range billboards {
		i, billboard := i, billboard
		g.Go(func() error {
			view := &domain.BillboardView{Billboard: *billboard}

			product, err := s.productRepo.FindByID(gctx, billboard.ProductID)
			switch {
			case err == nil:
				view.ProductName = product.Name
				view.ProductSlug = product.Slug
			case errors.Is(err, repository.ErrProductNotFound):
				view.ProductName = domain.MissingProductName
				view.ProductSlug = ""
			default:
				return fmt.Errorf("failed to join product %s: %w", billboard.ProductID, err)
			}

			views[i] = view
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return views, nil
}

// Delete removes the billboard's image asset, then the billboard
func (s *billboardService) Delete(ctx context.Context, id uuid.UUID) error {
	billboard, err := s.billboardRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find billboard: %w", err)
	}

	if err := deleteBoundAsset(ctx, s.assets, s.logger, billboard.ImageAssetID); err != nil {
		return err
	}

	if err := s.billboardRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete billboard: %w", err)
	}

	return nil
}
