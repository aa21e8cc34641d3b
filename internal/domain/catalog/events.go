package catalog

import "time"

// Event types published to the broker after a transaction commits.
const (
	EventCategoryCreated     = "CategoryCreated"
	EventCategoryUpdated     = "CategoryUpdated"
	EventCategoryDeleted     = "CategoryDeleted"
	EventProductCreated      = "ProductCreated"
	EventProductUpdated      = "ProductUpdated"
	EventProductMoved        = "ProductMoved"
	EventProductDeleted      = "ProductDeleted"
	EventProductImageUpdated = "ProductImageUpdated"
)

// CategoryChanged is emitted for category create/update/delete.
type CategoryChanged struct {
	CategoryID string    `json:"category_id"`
	Title      string    `json:"title,omitempty"`
	Slug       string    `json:"slug,omitempty"`
	ParentID   string    `json:"parent_id,omitempty"`
	Level      int       `json:"level"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProductChanged is emitted for product create/update/delete and image
// updates.
type ProductChanged struct {
	ProductID  string    `json:"product_id"`
	Title      string    `json:"title,omitempty"`
	Slug       string    `json:"slug,omitempty"`
	Price      Money     `json:"price,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProductMoved is emitted when a product changes category.
type ProductMoved struct {
	ProductID      string    `json:"product_id"`
	FromCategoryID string    `json:"from_category_id"`
	ToCategoryID   string    `json:"to_category_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}
