// Package query implements the public read side. Handlers assemble the
// denormalized tree read models from flat category rows and never write.
package query

import (
	"context"

	"github.com/example/catalog-service/internal/domain/carrier"
	"github.com/example/catalog-service/internal/domain/catalog"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchParams filters product search. Zero values mean "no filter".
type SearchParams struct {
	Query      string
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	Limit      int
	Offset     int
}

// SearchResult is one page of products plus the unpaged total.
type SearchResult struct {
	Products []*catalog.Product `json:"products"`
	Total    int                `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// ReadStore is the storage surface the read side needs. The postgres store
// implements it.
type ReadStore interface {
	AllCategories(ctx context.Context) ([]*catalog.Category, error)
	ProductByID(ctx context.Context, id string) (*catalog.Product, error)
	SearchProducts(ctx context.Context, params SearchParams) ([]*catalog.Product, int, error)
	AllCarriers(ctx context.Context) ([]*carrier.Carrier, error)
}

type Handler struct {
	store ReadStore
}

func NewHandler(store ReadStore) *Handler {
	return &Handler{store: store}
}

// CategoryForest returns all categories as nested root nodes.
func (h *Handler) CategoryForest(ctx context.Context) ([]*catalog.Node, error) {
	nodes, err := h.store.AllCategories(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.AssembleForest(nodes), nil
}

// CategoryItem returns one category with its parent and children.
func (h *Handler) CategoryItem(ctx context.Context, id string) (*catalog.CategoryItem, error) {
	nodes, err := h.store.AllCategories(ctx)
	if err != nil {
		return nil, err
	}
	item := catalog.AssembleItem(nodes, id)
	if item == nil {
		return nil, catalog.ErrCategoryNotFound
	}
	return item, nil
}

// CategoryTree returns one category with its ancestor chain.
func (h *Handler) CategoryTree(ctx context.Context, id string) (*catalog.CategoryTree, error) {
	nodes, err := h.store.AllCategories(ctx)
	if err != nil {
		return nil, err
	}
	tree := catalog.AssembleTree(nodes, id)
	if tree == nil {
		return nil, catalog.ErrCategoryNotFound
	}
	return tree, nil
}

// Product returns a product together with its category's ancestor chain.
func (h *Handler) Product(ctx context.Context, id string) (*catalog.ProductView, error) {
	p, err := h.store.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, catalog.ErrProductNotFound
	}
	nodes, err := h.store.AllCategories(ctx)
	if err != nil {
		return nil, err
	}
	tree := catalog.AssembleTree(nodes, p.CategoryID)
	if tree == nil {
		return nil, catalog.ErrCategoryNotFound
	}
	return &catalog.ProductView{Product: p, Tree: tree}, nil
}

// SearchProducts runs a filtered, paged product search. The limit is clamped
// to [1, 100] with a default of 20.
func (h *Handler) SearchProducts(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Limit <= 0 {
		params.Limit = defaultSearchLimit
	}
	if params.Limit > maxSearchLimit {
		params.Limit = maxSearchLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	products, total, err := h.store.SearchProducts(ctx, params)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	return &SearchResult{
		Products: products,
		Total:    total,
		Limit:    params.Limit,
		Offset:   params.Offset,
	}, nil
}

// Carriers lists all shipping carriers.
func (h *Handler) Carriers(ctx context.Context) ([]*carrier.Carrier, error) {
	return h.store.AllCarriers(ctx)
}
