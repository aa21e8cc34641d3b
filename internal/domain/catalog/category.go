// Package catalog holds the category tree and product entities together with
// the consistency rules between them: the denormalized per-category product
// count and the derived nesting level. Cross-aggregate bookkeeping lives in
// the command handlers; the entities only enforce their own state rules.
package catalog

import "time"

const (
	titleMinLen       = 2
	titleMaxLen       = 100
	descriptionMinLen = 2
	descriptionMaxLen = 1000
)

// Category is a node of the hierarchical catalog tree. ParentID is empty for
// root categories. Level is denormalized: 0 for roots, parent level + 1
// otherwise. ProductCount mirrors the number of products currently assigned
// to this category and is maintained by the product command handlers.
type Category struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	ParentID     string    `json:"parent_id,omitempty"`
	ProductCount int       `json:"product_count"`
	Level        int       `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCategory builds a fresh category. The parent may be nil for a root
// category; the level is derived from it. Product count starts at zero.
func NewCategory(id, title, slug, description string, parent *Category, now time.Time) (*Category, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	c := &Category{
		ID:          id,
		Title:       title,
		Slug:        slug,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if parent != nil {
		if parent.ID == id {
			return nil, ErrSelfParent
		}
		c.ParentID = parent.ID
		c.Level = parent.Level + 1
	}
	return c, nil
}

// Rename sets a new title together with its regenerated slug. The slug is
// never updated on its own.
func (c *Category) Rename(title, slug string, now time.Time) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	c.Title = title
	c.Slug = slug
	c.UpdatedAt = now
	return nil
}

// Describe replaces the description.
func (c *Category) Describe(description string, now time.Time) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	c.Description = description
	c.UpdatedAt = now
	return nil
}

// SetParent moves the category under a new parent, recomputing the level.
// A nil parent makes the category a root.
func (c *Category) SetParent(parent *Category, now time.Time) error {
	if parent == nil {
		c.ParentID = ""
		c.Level = 0
		c.UpdatedAt = now
		return nil
	}
	if parent.ID == c.ID {
		return ErrSelfParent
	}
	c.ParentID = parent.ID
	c.Level = parent.Level + 1
	c.UpdatedAt = now
	return nil
}

// ReparentUnder recomputes the level after an ancestor moved. Used when a
// subtree is relocated and descendant levels have to follow.
func (c *Category) ReparentUnder(parent *Category, now time.Time) {
	c.Level = parent.Level + 1
	c.UpdatedAt = now
}

// AddProduct records one more product assigned to this category.
func (c *Category) AddProduct(now time.Time) {
	c.ProductCount++
	c.UpdatedAt = now
}

// RemoveProduct records one product leaving this category. The count never
// goes below zero.
func (c *Category) RemoveProduct(now time.Time) error {
	if c.ProductCount == 0 {
		return ErrProductCountInvalid
	}
	c.ProductCount--
	c.UpdatedAt = now
	return nil
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == ""
}

// Touch bumps the update timestamp without changing anything else.
func (c *Category) Touch(now time.Time) {
	c.UpdatedAt = now
}

func validateTitle(title string) error {
	if n := len([]rune(title)); n < titleMinLen || n > titleMaxLen {
		return ErrInvalidTitle
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return nil
	}
	if n := len([]rune(description)); n < descriptionMinLen || n > descriptionMaxLen {
		return ErrInvalidDescription
	}
	return nil
}
