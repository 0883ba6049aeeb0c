package domain

import (
	"time"

	"github.com/google/uuid"
)

// MissingProductName is shown for billboards whose linked product was deleted
const MissingProductName = "Product Not Found"

// Billboard is a homepage promotion linking an image to a product
type Billboard struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ProductID    uuid.UUID `json:"productId"`
	ImageAssetID string    `json:"imageStorageId"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BillboardView is a billboard joined with its product's current name and slug
type BillboardView struct {
	Billboard
	ProductName string `json:"productName"`
	ProductSlug string `json:"productSlug"`
}

// CreateBillboardRequest is the payload for a new billboard
type CreateBillboardRequest struct {
	Title        string    `json:"title" validate:"required,max=255"`
	Description  string    `json:"description"`
	ProductID    uuid.UUID `json:"productId" validate:"required"`
	ImageAssetID string    `json:"imageStorageId" validate:"required"`
}
