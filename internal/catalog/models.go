package catalog

import (
	"math"
	"time"
)

// Product is a rug in the catalog. Prices are integer minor units (PKR).
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Brand           string    `json:"brand"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	Images          []string  `json:"images"`
	Colors          []string  `json:"colors"`
	Sizes           []string  `json:"sizes"`
	OriginalPrice   int       `json:"originalPrice"`
	SalePrice       int       `json:"salePrice"`
	DiscountPercent int       `json:"discountPercent"`
	IsOnSale        bool      `json:"isOnSale"`
	IsBestSeller    bool      `json:"isBestSeller"`
	Stock           int       `json:"stock"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PrimaryImage returns the first image, the one snapshotted into carts and
// orders.
func (p *Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// HasSize reports whether size is one of the product's configured options.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// ComputeSalePrice derives the stored sale price from the original price and
// discount percent. The sale price is never stored independently of this
// formula.
func ComputeSalePrice(originalPrice, discountPercent int) int {
	return int(math.Round(float64(originalPrice) * (1 - float64(discountPercent)/100)))
}
