package service

import (
	"context"
	"fmt"
	"io"

	"catalog-storefront/internal/domain"
	"catalog-storefront/internal/storage"

	"go.uber.org/zap"
)

// UploadService mediates asset uploads for every entity type
type UploadService interface {
	// IssueUploadLocation forwards the asset store's one-time upload target
	IssueUploadLocation(ctx context.Context) (*domain.UploadLocation, error)
	// Upload writes content sent to a previously issued location
	Upload(ctx context.Context, token, contentType string, body io.Reader) (*domain.UploadResult, error)
	OpenAsset(ctx context.Context, assetID string) (*storage.Asset, error)
}

type uploadService struct {
	assets   storage.AssetStore
	receiver storage.UploadReceiver
	logger   *zap.Logger
}

// NewUploadService creates a new instance of UploadService
func NewUploadService(assets storage.AssetStore, receiver storage.UploadReceiver, logger *zap.Logger) UploadService {
	return &uploadService{
		assets:   assets,
		receiver: receiver,
		logger:   logger,
	}
}

func (s *uploadService) IssueUploadLocation(ctx context.Context) (*domain.UploadLocation, error) {
	location, err := s.assets.IssueUploadLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to issue upload location: %w", err)
	}
	return location, nil
}

func (s *uploadService) Upload(ctx context.Context, token, contentType string, body io.Reader) (*domain.UploadResult, error) {
	result, err := s.receiver.Consume(ctx, token, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.Info("Asset uploaded",
		zap.String("asset_id", result.AssetID),
		zap.String("content_type", contentType),
	)
	return result, nil
}

func (s *uploadService) OpenAsset(ctx context.Context, assetID string) (*storage.Asset, error) {
	return s.receiver.Open(ctx, assetID)
}
