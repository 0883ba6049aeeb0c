package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrBillboardNotFound = fmt.Errorf("billboard %w", domain.ErrNotFound)
)

// BillboardRepository defines the interface for billboard data access
type BillboardRepository interface {
	Create(ctx context.Context, billboard *domain.Billboard) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Billboard, error)
	// List returns every billboard, newest first
	List(ctx context.Context) ([]*domain.Billboard, error)
}

type billboardRepository struct {
	db *sql.DB
}

// NewBillboardRepository creates a new instance of BillboardRepository
func NewBillboardRepository(db *sql.DB) BillboardRepository {
	return &billboardRepository{db: db}
}

func (r *billboardRepository) Create(ctx context.Context, billboard *domain.Billboard) error {
	query := `
		INSERT INTO billboards (id, title, description, product_id, image_asset_id, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		billboard.ID,
		billboard.Title,
		billboard.Description,
		billboard.ProductID,
		billboard.ImageAssetID,
		billboard.ImageURL,
		billboard.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create billboard: %w", err)
	}

	return nil
}

func (r *billboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM billboards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete billboard: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBillboardNotFound
	}

	return nil
}

func (r *billboardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Billboard, error) {
	query := `
		SELECT id, title, description, product_id, image_asset_id, image_url, created_at
		FROM billboards
		WHERE id = $1
	`

	billboard := &domain.Billboard{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&billboard.ID,
		&billboard.Title,
		&billboard.Description,
		&billboard.ProductID,
		&billboard.ImageAssetID,
		&billboard.ImageURL,
		&billboard.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillboardNotFound
		}
		return nil, fmt.Errorf("failed to find billboard by ID: %w", err)
	}

	return billboard, nil
}

func (r *billboardRepository) List(ctx context.Context) ([]*domain.Billboard, error) {
	query := `
		SELECT id, title, description, product_id, image_asset_id, image_url, created_at
		FROM billboards
		ORDER BY created_at DESC, seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list billboards: %w", err)
	}
	defer rows.Close()

	billboards := []*domain.Billboard{}
	for rows.Next() {
		billboard := &domain.Billboard{}
		err := rows.Scan(
			&billboard.ID,
			&billboard.Title,
			&billboard.Description,
			&billboard.ProductID,
			&billboard.ImageAssetID,
			&billboard.ImageURL,
			&billboard.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan billboard: %w", err)
		}
		billboards = append(billboards, billboard)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating billboards: %w", err)
	}

	return billboards, nil
}
