package domain

import "time"

// Category groups subcategories in the storefront navigation tree.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// Subcategory belongs to exactly one category and owns products.
type Subcategory struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Product is a sellable catalog item. Prices are stored in cents to
// avoid floating point rounding.
type Product struct {
	ID            string    `json:"id"`
	SubcategoryID string    `json:"subcategory_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PriceCents    int64     `json:"price_cents"`
	ImagePath     string    `json:"image_path,omitempty"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
