package dto

// CategoryRequest payload for category create/update.
type CategoryRequest struct {
	Name string `json:"name"`
}

// SubcategoryRequest payload for subcategory create/update.
type SubcategoryRequest struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// ProductRequest payload for product create/update.
type ProductRequest struct {
	SubcategoryID string `json:"subcategory_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"price_cents"`
	ImagePath     string `json:"image_path"`
	Published     bool   `json:"published"`
}
