package store

import (
	"context"

	"github.com/example/catalog-service/internal/domain/carrier"
	"github.com/example/catalog-service/internal/domain/catalog"
	"github.com/example/catalog-service/internal/query"
)

// ReadStore bundles the per-aggregate stores behind the read side's
// storage interface.
type ReadStore struct {
	categories *CategoryStore
	products   *ProductStore
	carriers   *CarrierStore
}

func NewReadStore(categories *CategoryStore, products *ProductStore, carriers *CarrierStore) *ReadStore {
	return &ReadStore{categories: categories, products: products, carriers: carriers}
}

func (r *ReadStore) AllCategories(ctx context.Context) ([]*catalog.Category, error) {
	return r.categories.All(ctx)
}

func (r *ReadStore) ProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	return r.products.FindByID(ctx, id)
}

func (r *ReadStore) SearchProducts(ctx context.Context, params query.SearchParams) ([]*catalog.Product, int, error) {
	return r.products.Search(ctx, params)
}

func (r *ReadStore) AllCarriers(ctx context.Context) ([]*carrier.Carrier, error) {
	return r.carriers.FindAll(ctx)
}
