package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"catalog-storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrProductNotFound = fmt.Errorf("product %w", domain.ErrNotFound)
	ErrSlugTaken       = fmt.Errorf("product slug already in use: %w", domain.ErrConflict)
	// ErrDuplicateSlug signals that the slug index was bypassed and more than
	// one product shares a slug.
	ErrDuplicateSlug = errors.New("more than one product shares this slug")
)

const productColumns = `id, name, slug, short_description, full_description, images, image_asset_ids,
	features, category, best_for, best_for_color, active_ingredients, how_to_use,
	inactive_ingredients, created_at`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	// List returns products newest first. limit <= 0 returns every product.
	List(ctx context.Context, limit int) ([]*domain.Product, error)
	// ListByCategory returns products of a category in insertion order,
	// skipping exclude when it is non-nil. limit <= 0 returns every match.
	ListByCategory(ctx context.Context, category string, exclude *uuid.UUID, limit int) ([]*domain.Product, error)
	// Search matches query terms against product names only, most relevant first
	Search(ctx context.Context, query string) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product. A slug collision returns ErrSlugTaken.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Slug,
		product.ShortDescription,
		product.FullDescription,
		nonNil(product.Images),
		nonNil(product.ImageAssetIDs),
		nonNil(product.Features),
		product.Category,
		product.BestFor,
		product.BestForColor,
		product.Details.ActiveIngredients,
		product.Details.HowToUse,
		product.Details.InactiveIngredients,
		product.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "products_slug_key") {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Delete removes a product from the database
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindBySlug retrieves the single product with the given slug
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1 LIMIT 2`

	products, err := r.query(ctx, "find product by slug", query, slug)
	if err != nil {
		return nil, err
	}

	switch len(products) {
	case 0:
		return nil, ErrProductNotFound
	case 1:
		return products[0], nil
	default:
		return nil, ErrDuplicateSlug
	}
}

func (r *productRepository) List(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, seq DESC`
	args := []interface{}{}

	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	return r.query(ctx, "list products", query, args...)
}

func (r *productRepository) ListByCategory(ctx context.Context, category string, exclude *uuid.UUID, limit int) ([]*domain.Product, error) {
	whereClause := "WHERE category = $1"
	args := []interface{}{category}

	if exclude != nil {
		args = append(args, *exclude)
		whereClause += fmt.Sprintf(" AND id <> $%d", len(args))
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY seq ASC`, productColumns, whereClause)

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.query(ctx, "list products by category", query, args...)
}

func (r *productRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	tsQuery := prefixTSQuery(query)
	if tsQuery == "" {
		return []*domain.Product{}, nil
	}

	searchQuery := `
		SELECT ` + productColumns + `
		FROM products
		WHERE to_tsvector('simple', name) @@ to_tsquery('simple', $1)
		ORDER BY ts_rank(to_tsvector('simple', name), to_tsquery('simple', $1)) DESC,
		         created_at DESC, seq DESC
	`

	return r.query(ctx, "search products", searchQuery, tsQuery)
}

func (r *productRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.ShortDescription,
		&product.FullDescription,
		pq.Array(&product.Images),
		pq.Array(&product.ImageAssetIDs),
		pq.Array(&product.Features),
		&product.Category,
		&product.BestFor,
		&product.BestForColor,
		&product.Details.ActiveIngredients,
		&product.Details.HowToUse,
		&product.Details.InactiveIngredients,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Images = nonNil(product.Images)
	product.ImageAssetIDs = nonNil(product.ImageAssetIDs)
	product.Features = nonNil(product.Features)
	return product, nil
}

// prefixTSQuery turns free text into a tsquery matching any of its words, the
// last one as a prefix so partially typed input still matches:
// "hydra ser" -> "hydra | ser:*". Punctuation is dropped so user input can
// never produce a tsquery syntax error.
func prefixTSQuery(input string) string {
	terms := strings.FieldsFunc(strings.ToLower(input), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(terms) == 0 {
		return ""
	}

	terms[len(terms)-1] += ":*"
	return strings.Join(terms, " | ")
}
