// Package storage implements the asset store: binary objects in a
// gocloud.dev bucket addressed by opaque asset ids.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"catalog-storefront/internal/domain"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

const assetKeyPrefix = "assets/"

var (
	ErrAssetNotFound  = fmt.Errorf("asset not found: %w", domain.ErrAssetUnresolvable)
	ErrUploadTooLarge = fmt.Errorf("upload exceeds size limit: %w", domain.ErrInvalidInput)
)

// AssetStore is the catalog's view of binary object storage
type AssetStore interface {
	IssueUploadLocation(ctx context.Context) (*domain.UploadLocation, error)
	// ResolveURL returns a retrievable URL, or ErrAssetNotFound
	ResolveURL(ctx context.Context, assetID string) (string, error)
	Delete(ctx context.Context, assetID string) error
}

// UploadReceiver accepts content sent to an issued upload location and
// serves stored assets back.
type UploadReceiver interface {
	Consume(ctx context.Context, token, contentType string, body io.Reader) (*domain.UploadResult, error)
	Open(ctx context.Context, assetID string) (*Asset, error)
}

// Asset is an open stored object. Callers must Close it.
type Asset struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

// Options configures a BlobStore
type Options struct {
	// PublicBaseURL prefixes upload and asset URLs, without trailing slash
	PublicBaseURL  string
	UploadTokenTTL time.Duration
	MaxUploadBytes int64
	// SignedUploads hands out the bucket's signed PUT URLs instead of
	// token URLs served by this process. Requires an s3:// or gs:// bucket.
	SignedUploads bool
}

// BlobStore implements AssetStore and UploadReceiver on a gocloud.dev bucket
type BlobStore struct {
	bucket *blob.Bucket
	tokens TokenRegistry
	opts   Options
	now    func() time.Time
}

// OpenBucket opens a bucket from a URL such as mem://, file:///path,
// s3://bucket?region=... or gs://bucket
func OpenBucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %q: %w", bucketURL, err)
	}
	return bucket, nil
}

// NewBlobStore creates a BlobStore
func NewBlobStore(bucket *blob.Bucket, tokens TokenRegistry, opts Options) *BlobStore {
	if opts.UploadTokenTTL <= 0 {
		opts.UploadTokenTTL = time.Hour
	}
	return &BlobStore{
		bucket: bucket,
		tokens: tokens,
		opts:   opts,
		now:    time.Now,
	}
}

func (s *BlobStore) IssueUploadLocation(ctx context.Context) (*domain.UploadLocation, error) {
	expiresAt := s.now().Add(s.opts.UploadTokenTTL).UTC()

	if s.opts.SignedUploads {
		assetID := uuid.NewString()
		url, err := s.bucket.SignedURL(ctx, assetKey(assetID), &blob.SignedURLOptions{
			Expiry: s.opts.UploadTokenTTL,
			Method: http.MethodPut,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to sign upload url: %w", err)
		}
		return &domain.UploadLocation{
			URL:       url,
			Method:    http.MethodPut,
			AssetID:   assetID,
			ExpiresAt: expiresAt,
		}, nil
	}

	token, err := s.tokens.Issue(ctx, s.opts.UploadTokenTTL)
	if err != nil {
		return nil, err
	}

	return &domain.UploadLocation{
		URL:       fmt.Sprintf("%s/api/uploads/%s", s.opts.PublicBaseURL, token),
		Method:    http.MethodPost,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *BlobStore) ResolveURL(ctx context.Context, assetID string) (string, error) {
	if !isAssetID(assetID) {
		return "", ErrAssetNotFound
	}

	exists, err := s.bucket.Exists(ctx, assetKey(assetID))
	if err != nil {
		return "", fmt.Errorf("failed to check asset %s: %w", assetID, err)
	}
	if !exists {
		return "", ErrAssetNotFound
	}

	return s.assetURL(assetID), nil
}

func (s *BlobStore) Delete(ctx context.Context, assetID string) error {
	if !isAssetID(assetID) {
		return ErrAssetNotFound
	}

	if err := s.bucket.Delete(ctx, assetKey(assetID)); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ErrAssetNotFound
		}
		return fmt.Errorf("failed to delete asset %s: %w", assetID, err)
	}
	return nil
}

// Consume redeems an upload token and stores body as a new asset
func (s *BlobStore) Consume(ctx context.Context, token, contentType string, body io.Reader) (*domain.UploadResult, error) {
	if err := s.tokens.Redeem(ctx, token); err != nil {
		return nil, err
	}

	assetID := uuid.NewString()

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bucket.NewWriter(wctx, assetKey(assetID), &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("failed to open asset writer: %w", err)
	}

	src := body
	if s.opts.MaxUploadBytes > 0 {
		src = io.LimitReader(body, s.opts.MaxUploadBytes+1)
	}

	n, err := io.Copy(w, src)
	if err == nil && s.opts.MaxUploadBytes > 0 && n > s.opts.MaxUploadBytes {
		err = ErrUploadTooLarge
	}
	if err != nil {
		// Cancelling before Close discards the partial object.
		cancel()
		_ = w.Close()
		if errors.Is(err, ErrUploadTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to write asset: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to store asset: %w", err)
	}

	return &domain.UploadResult{AssetID: assetID}, nil
}

func (s *BlobStore) Open(ctx context.Context, assetID string) (*Asset, error) {
	if !isAssetID(assetID) {
		return nil, ErrAssetNotFound
	}

	r, err := s.bucket.NewReader(ctx, assetKey(assetID), nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to open asset %s: %w", assetID, err)
	}

	return &Asset{ReadCloser: r, ContentType: r.ContentType(), Size: r.Size()}, nil
}

func (s *BlobStore) assetURL(assetID string) string {
	return fmt.Sprintf("%s/api/assets/%s", s.opts.PublicBaseURL, assetID)
}

func assetKey(assetID string) string {
	return assetKeyPrefix + assetID
}

func isAssetID(assetID string) bool {
	_, err := uuid.Parse(assetID)
	return err == nil
}
