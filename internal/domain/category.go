package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a product category. Products reference it by Name.
type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ImageAssetID *string   `json:"imageStorageId,omitempty"`
	ImageURL     *string   `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasImage reports whether an asset is bound to the category
func (c *Category) HasImage() bool {
	return c.ImageAssetID != nil && *c.ImageAssetID != ""
}

// CategoryRequest is the payload for creating or updating a category.
// An absent imageStorageId keeps the current image; an empty one clears it.
type CategoryRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	ImageAssetID *string `json:"imageStorageId" validate:"omitnil,max=255"`
}

// ClearsImage reports whether the request explicitly removes the image
func (r CategoryRequest) ClearsImage() bool {
	return r.ImageAssetID != nil && *r.ImageAssetID == ""
}
