package catalog

import "time"

// Image is the optional product picture reference. Actual file storage is a
// repository concern; the entity only tracks the filename and when it changed.
type Image struct {
	Filename  string    `json:"filename"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product belongs to exactly one category at a time. Price is Money in minor
// currency units.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       Money     `json:"price"`
	Slug        string    `json:"slug"`
	CategoryID  string    `json:"category_id"`
	Image       *Image    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProduct builds a fresh product. Category existence is checked by the
// command handler before this is called, not here.
func NewProduct(id, title, slug, subtitle, description string, price Money, categoryID string, now time.Time) (*Product, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if categoryID == "" {
		return nil, ErrMissingCategory
	}

	return &Product{
		ID:          id,
		Title:       title,
		Slug:        slug,
		Subtitle:    subtitle,
		Description: description,
		Price:       price,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Rename sets a new title together with its regenerated slug.
func (p *Product) Rename(title, slug string, now time.Time) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	p.Title = title
	p.Slug = slug
	p.UpdatedAt = now
	return nil
}

// Reprice replaces the price.
func (p *Product) Reprice(price Money, now time.Time) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	p.Price = price
	p.UpdatedAt = now
	return nil
}

// SetSubtitle replaces the subtitle.
func (p *Product) SetSubtitle(subtitle string, now time.Time) {
	p.Subtitle = subtitle
	p.UpdatedAt = now
}

// SetDescription replaces the description.
func (p *Product) SetDescription(description string, now time.Time) {
	p.Description = description
	p.UpdatedAt = now
}

// MoveTo reassigns the product to another category. The corresponding count
// adjustments on both categories are the caller's responsibility and must
// happen in the same transaction.
func (p *Product) MoveTo(categoryID string, now time.Time) error {
	if categoryID == "" {
		return ErrMissingCategory
	}
	p.CategoryID = categoryID
	p.UpdatedAt = now
	return nil
}

// SetImage records a new image filename.
func (p *Product) SetImage(filename string, now time.Time) {
	p.Image = &Image{Filename: filename, UpdatedAt: now}
	p.UpdatedAt = now
}

// Touch bumps the update timestamp without changing anything else.
func (p *Product) Touch(now time.Time) {
	p.UpdatedAt = now
}
