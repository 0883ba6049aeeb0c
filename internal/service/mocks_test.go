package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog-storefront/internal/domain"
	"catalog-storefront/internal/repository"
	"catalog-storefront/internal/storage"

	"github.com/google/uuid"
)

// Mock repositories for testing. Each keeps insertion order so the ordering
// rules of the SQL implementations can be reproduced.

type mockProductRepository struct {
	mu       sync.Mutex
	products []*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.Slug == product.Slug {
			return repository.ErrSlugTaken
		}
	}
	m.products = append(m.products, product)
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context, limit int) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Product, len(m.products))
	for i := range m.products {
		out[i] = m.products[len(m.products)-1-i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockProductRepository) ListByCategory(ctx context.Context, category string, exclude *uuid.UUID, limit int) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Product{}
	for _, p := range m.products {
		if p.Category != category || (exclude != nil && p.ID == *exclude) {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Product{}
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

// put stores a product directly, bypassing the service
func (m *mockProductRepository) put(name, category string, createdAt time.Time) *domain.Product {
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Slug:      domain.Slugify(name),
		Category:  category,
		CreatedAt: createdAt,
	}
	m.products = append(m.products, product)
	return product
}

type mockCategoryRepository struct {
	categories []*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if _, err := m.FindByName(ctx, category.Name); err == nil {
		return repository.ErrCategoryAlreadyExists
	}
	m.categories = append(m.categories, category)
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.ID != category.ID && c.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	for i, c := range m.categories {
		if c.ID == category.ID {
			updated := *category
			m.categories[i] = &updated
			return nil
		}
	}
	return repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, c := range m.categories {
		if c.ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			found := *c
			return &found, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			found := *c
			return &found, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.categories))
	for i := len(m.categories) - 1; i >= 0; i-- {
		out = append(out, m.categories[i])
	}
	return out, nil
}

type mockBillboardRepository struct {
	billboards []*domain.Billboard
}

func newMockBillboardRepository() *mockBillboardRepository {
	return &mockBillboardRepository{}
}

func (m *mockBillboardRepository) Create(ctx context.Context, billboard *domain.Billboard) error {
	m.billboards = append(m.billboards, billboard)
	return nil
}

func (m *mockBillboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, b := range m.billboards {
		if b.ID == id {
			m.billboards = append(m.billboards[:i], m.billboards[i+1:]...)
			return nil
		}
	}
	return repository.ErrBillboardNotFound
}

func (m *mockBillboardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Billboard, error) {
	for _, b := range m.billboards {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repository.ErrBillboardNotFound
}

func (m *mockBillboardRepository) List(ctx context.Context) ([]*domain.Billboard, error) {
	out := make([]*domain.Billboard, 0, len(m.billboards))
	for i := len(m.billboards) - 1; i >= 0; i-- {
		out = append(out, m.billboards[i])
	}
	return out, nil
}

// mockAssetStore is an in-memory asset store that counts resolve and delete
// calls per asset id.
type mockAssetStore struct {
	mu         sync.Mutex
	assets     map[string][]byte
	resolved   map[string]int
	deleted    map[string]int
	failDelete error
	calls      []string
}

func newMockAssetStore() *mockAssetStore {
	return &mockAssetStore{
		assets:   make(map[string][]byte),
		resolved: make(map[string]int),
		deleted:  make(map[string]int),
	}
}

// add stores content and returns its asset id
func (m *mockAssetStore) add(content string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.assets[id] = []byte(content)
	return id
}

func (m *mockAssetStore) url(assetID string) string {
	return "https://shop.example.com/api/assets/" + assetID
}

func (m *mockAssetStore) IssueUploadLocation(ctx context.Context) (*domain.UploadLocation, error) {
	return &domain.UploadLocation{
		URL:       "https://shop.example.com/api/uploads/" + uuid.NewString(),
		Method:    "POST",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *mockAssetStore) ResolveURL(ctx context.Context, assetID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resolved[assetID]++
	m.calls = append(m.calls, "resolve:"+assetID)
	if _, ok := m.assets[assetID]; !ok {
		return "", storage.ErrAssetNotFound
	}
	return m.url(assetID), nil
}

func (m *mockAssetStore) Delete(ctx context.Context, assetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted[assetID]++
	m.calls = append(m.calls, "delete:"+assetID)
	if m.failDelete != nil {
		return m.failDelete
	}
	if _, ok := m.assets[assetID]; !ok {
		return storage.ErrAssetNotFound
	}
	delete(m.assets, assetID)
	return nil
}

func (m *mockAssetStore) Consume(ctx context.Context, token, contentType string, body io.Reader) (*domain.UploadResult, error) {
	if token == "" {
		return nil, storage.ErrUploadTokenInvalid
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return &domain.UploadResult{AssetID: m.add(string(content))}, nil
}

func (m *mockAssetStore) Open(ctx context.Context, assetID string) (*storage.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.assets[assetID]
	if !ok {
		return nil, storage.ErrAssetNotFound
	}
	return &storage.Asset{
		ReadCloser:  io.NopCloser(strings.NewReader(string(content))),
		ContentType: "image/png",
		Size:        int64(len(content)),
	}, nil
}

func (m *mockAssetStore) totalDeletes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.deleted {
		total += n
	}
	return total
}

func (m *mockAssetStore) totalResolves() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.resolved {
		total += n
	}
	return total
}

var errStoreDown = errors.New("store unavailable")

// failingProductRepository fails every lookup with a non-domain error
type failingProductRepository struct {
	*mockProductRepository
}

func (f failingProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return nil, fmt.Errorf("query failed: %w", errStoreDown)
}

// duplicateSlugProductRepository reports more than one row for every slug
type duplicateSlugProductRepository struct {
	*mockProductRepository
}

func (d duplicateSlugProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return nil, repository.ErrDuplicateSlug
}
