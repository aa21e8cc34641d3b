// Package carrier holds the shipping carrier entity and its persistence
// collaborator. Carriers follow the same handler/transaction discipline as
// the catalog, just without cross-aggregate bookkeeping.
package carrier

import (
	"context"
	"errors"
	"time"

	"github.com/example/catalog-service/internal/domain/catalog"
)

var (
	ErrCarrierNotFound = errors.New("carrier not found")
	ErrInvalidTitle    = errors.New("carrier title is required")
	ErrInvalidPrice    = errors.New("carrier price must be positive")
)

// Carrier is a shipping option with a flat price in minor currency units.
type Carrier struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Price     catalog.Money `json:"price"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewCarrier builds a fresh carrier.
func NewCarrier(id, title string, price catalog.Money, now time.Time) (*Carrier, error) {
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	return &Carrier{
		ID:        id,
		Title:     title,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update applies a new title and price.
func (c *Carrier) Update(title string, price catalog.Money, now time.Time) error {
	if title == "" {
		return ErrInvalidTitle
	}
	if price <= 0 {
		return ErrInvalidPrice
	}
	c.Title = title
	c.Price = price
	c.UpdatedAt = now
	return nil
}

// Repository is the persistence collaborator for carriers. Lookups return
// (nil, nil) when nothing matches.
type Repository interface {
	NextIdentity() string
	FindByID(ctx context.Context, id string) (*Carrier, error)
	FindAll(ctx context.Context) ([]*Carrier, error)
	Save(ctx context.Context, c *Carrier) error
	Delete(ctx context.Context, c *Carrier) error
}
