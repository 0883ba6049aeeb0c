package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductDetails holds the usage and ingredient copy shown on the product page
type ProductDetails struct {
	ActiveIngredients   string `json:"activeIngredients"`
	HowToUse            string `json:"howToUse"`
	InactiveIngredients string `json:"inactiveIngredients"`
}

// Product represents a product in the catalog.
//
// Images and ImageAssetIDs are independent sequences: ImageAssetIDs keeps every
// asset bound at creation, Images keeps only the URLs that resolved. The two
// lengths differ whenever an asset could not be resolved.
type Product struct {
	ID               uuid.UUID      `json:"id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	ShortDescription string         `json:"shortDescription"`
	FullDescription  string         `json:"fullDescription"`
	Images           []string       `json:"images"`
	ImageAssetIDs    []string       `json:"imageStorageIds"`
	Features         []string       `json:"features"`
	Category         string         `json:"category"`
	BestFor          string         `json:"bestFor"`
	BestForColor     string         `json:"bestForColor"`
	Details          ProductDetails `json:"details"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// UnresolvedImageCount reports how many bound assets have no stored URL
func (p *Product) UnresolvedImageCount() int {
	return len(p.ImageAssetIDs) - len(p.Images)
}

// CreateProductRequest carries the admin form fields for a new product
type CreateProductRequest struct {
	Name              string   `json:"name" validate:"required,max=255"`
	Slug              string   `json:"slug" validate:"omitempty,slug,max=255"`
	ShortDescription  string   `json:"shortDescription"`
	FullDescription   string   `json:"fullDescription"`
	ImageAssetIDs     []string `json:"imageStorageIds" validate:"min=1,max=4,dive,required"`
	Category          string   `json:"category"`
	BestFor           string   `json:"bestFor"`
	BestForColor      string   `json:"bestForColor"`
	Features          []string `json:"features" validate:"max=4"`
	HowToUse          string   `json:"howToUse"`
	ActiveIngredients string   `json:"activeIngredients"`
}
