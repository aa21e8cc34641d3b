package command

import "github.com/example/catalog-service/internal/domain/catalog"

// Category commands. Update fields are pointers: nil means "leave as is".
// For ParentID an empty string clears the parent, making the category a root.

type CreateCategory struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
}

type UpdateCategory struct {
	CategoryID  string  `json:"category_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
}

type DeleteCategory struct {
	CategoryID string `json:"category_id"`
}

// Product commands. Prices arrive as decimal currency units (12.5) and are
// converted to minor units (1250) by the handler.

type CreateProduct struct {
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"category_id"`
}

type UpdateProduct struct {
	ProductID   string   `json:"product_id"`
	Title       *string  `json:"title,omitempty"`
	Subtitle    *string  `json:"subtitle,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
}

type DeleteProduct struct {
	ProductID string `json:"product_id"`
}

type UpdateProductImage struct {
	ProductID string
	File      catalog.ImageFile
}

// Carrier commands.

type CreateCarrier struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type UpdateCarrier struct {
	CarrierID string  `json:"carrier_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
}

type DeleteCarrier struct {
	CarrierID string `json:"carrier_id"`
}
