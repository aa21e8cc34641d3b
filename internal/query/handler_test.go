package query

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/catalog-service/internal/domain/carrier"
	"github.com/example/catalog-service/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

// fakeReadStore serves canned rows and applies search filters in memory.
type fakeReadStore struct {
	categories []*catalog.Category
	products   []*catalog.Product
	carriers   []*carrier.Carrier
	err        error
}

func (f *fakeReadStore) AllCategories(context.Context) ([]*catalog.Category, error) {
	return f.categories, f.err
}

func (f *fakeReadStore) ProductByID(_ context.Context, id string) (*catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeReadStore) SearchProducts(_ context.Context, params SearchParams) ([]*catalog.Product, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []*catalog.Product
	for _, p := range f.products {
		if params.Query != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(params.Query)) {
			continue
		}
		if params.CategoryID != "" && p.CategoryID != params.CategoryID {
			continue
		}
		if params.MinPrice != nil && p.Price < catalog.MoneyFromDecimal(*params.MinPrice) {
			continue
		}
		if params.MaxPrice != nil && p.Price > catalog.MoneyFromDecimal(*params.MaxPrice) {
			continue
		}
		matched = append(matched, p)
	}
	total := len(matched)
	if params.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[params.Offset:]
	if len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, total, nil
}

func (f *fakeReadStore) AllCarriers(context.Context) ([]*carrier.Carrier, error) {
	return f.carriers, f.err
}

func cat(id, title, parentID string, level int) *catalog.Category {
	return &catalog.Category{
		ID: id, Title: title, Slug: strings.ToLower(title),
		ParentID: parentID, Level: level,
		CreatedAt: testNow, UpdatedAt: testNow,
	}
}

func prod(id, title, categoryID string, price catalog.Money) *catalog.Product {
	return &catalog.Product{
		ID: id, Title: title, Slug: strings.ToLower(title),
		Price: price, CategoryID: categoryID,
		CreatedAt: testNow, UpdatedAt: testNow,
	}
}

// ============================================
// Category Query Tests
// ============================================

func TestHandler_CategoryForest(t *testing.T) {
	store := &fakeReadStore{categories: []*catalog.Category{
		cat("root-1", "Men", "", 0),
		cat("root-2", "Women", "", 0),
		cat("child-1", "Shoes", "root-1", 1),
	}}
	h := NewHandler(store)

	forest, err := h.CategoryForest(context.Background())

	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Equal(t, "root-1", forest[0].ID)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "child-1", forest[0].Children[0].ID)
	assert.Empty(t, forest[1].Children)
}

func TestHandler_CategoryItem(t *testing.T) {
	store := &fakeReadStore{categories: []*catalog.Category{
		cat("root-1", "Men", "", 0),
		cat("child-1", "Shoes", "root-1", 1),
		cat("child-2", "Shirts", "root-1", 1),
	}}
	h := NewHandler(store)

	item, err := h.CategoryItem(context.Background(), "root-1")

	require.NoError(t, err)
	assert.Equal(t, "root-1", item.Category.ID)
	assert.Nil(t, item.Parent)
	assert.Len(t, item.Children, 2)
}

func TestHandler_CategoryItem_NotFound(t *testing.T) {
	h := NewHandler(&fakeReadStore{})

	item, err := h.CategoryItem(context.Background(), "ghost")

	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	assert.Nil(t, item)
}

func TestHandler_CategoryTree_Ancestors(t *testing.T) {
	store := &fakeReadStore{categories: []*catalog.Category{
		cat("root-1", "Men", "", 0),
		cat("child-1", "Shoes", "root-1", 1),
		cat("grand-1", "Sneakers", "child-1", 2),
	}}
	h := NewHandler(store)

	tree, err := h.CategoryTree(context.Background(), "grand-1")

	require.NoError(t, err)
	assert.Equal(t, "grand-1", tree.Category.ID)
	// Immediate parent first, root last.
	require.Len(t, tree.Ancestors, 2)
	assert.Equal(t, "child-1", tree.Ancestors[0].ID)
	assert.Equal(t, "root-1", tree.Ancestors[1].ID)
}

func TestHandler_CategoryForest_StoreError(t *testing.T) {
	h := NewHandler(&fakeReadStore{err: errors.New("connection refused")})

	forest, err := h.CategoryForest(context.Background())

	assert.Error(t, err)
	assert.Nil(t, forest)
}

// ============================================
// Product Query Tests
// ============================================

func TestHandler_Product(t *testing.T) {
	store := &fakeReadStore{
		categories: []*catalog.Category{
			cat("root-1", "Men", "", 0),
			cat("child-1", "Shoes", "root-1", 1),
		},
		products: []*catalog.Product{prod("prod-1", "Sneaker", "child-1", 1250)},
	}
	h := NewHandler(store)

	view, err := h.Product(context.Background(), "prod-1")

	require.NoError(t, err)
	assert.Equal(t, "prod-1", view.Product.ID)
	assert.Equal(t, "child-1", view.Tree.Category.ID)
	require.Len(t, view.Tree.Ancestors, 1)
	assert.Equal(t, "root-1", view.Tree.Ancestors[0].ID)
}

func TestHandler_Product_NotFound(t *testing.T) {
	h := NewHandler(&fakeReadStore{})

	view, err := h.Product(context.Background(), "ghost")

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Nil(t, view)
}

func TestHandler_Product_BrokenCategoryReference(t *testing.T) {
	store := &fakeReadStore{
		products: []*catalog.Product{prod("prod-1", "Sneaker", "gone", 1250)},
	}
	h := NewHandler(store)

	view, err := h.Product(context.Background(), "prod-1")

	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	assert.Nil(t, view)
}

// ============================================
// Search Tests
// ============================================

func searchFixture() *Handler {
	return NewHandler(&fakeReadStore{
		products: []*catalog.Product{
			prod("prod-1", "Runner Sneaker", "cat-shoes", 5000),
			prod("prod-2", "Trail Sneaker", "cat-shoes", 9000),
			prod("prod-3", "Wool Sweater", "cat-knits", 7000),
		},
	})
}

func TestHandler_SearchProducts_ByQuery(t *testing.T) {
	h := searchFixture()

	res, err := h.SearchProducts(context.Background(), SearchParams{Query: "sneaker"})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Products, 2)
}

func TestHandler_SearchProducts_ByCategoryAndPrice(t *testing.T) {
	h := searchFixture()
	min := 60.0

	res, err := h.SearchProducts(context.Background(), SearchParams{
		CategoryID: "cat-shoes",
		MinPrice:   &min,
	})

	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "prod-2", res.Products[0].ID)
}

func TestHandler_SearchProducts_Paging(t *testing.T) {
	h := searchFixture()

	res, err := h.SearchProducts(context.Background(), SearchParams{Limit: 2, Offset: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "prod-3", res.Products[0].ID)
	assert.Equal(t, 2, res.Limit)
	assert.Equal(t, 2, res.Offset)
}

func TestHandler_SearchProducts_DefaultsAndClamps(t *testing.T) {
	h := searchFixture()

	res, err := h.SearchProducts(context.Background(), SearchParams{Limit: 5000, Offset: -3})

	require.NoError(t, err)
	assert.Equal(t, 100, res.Limit)
	assert.Equal(t, 0, res.Offset)

	res, err = h.SearchProducts(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Limit)
}

func TestHandler_SearchProducts_NoMatches(t *testing.T) {
	h := searchFixture()

	res, err := h.SearchProducts(context.Background(), SearchParams{Query: "nonexistent"})

	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
}

// ============================================
// Carrier Query Tests
// ============================================

func TestHandler_Carriers(t *testing.T) {
	h := NewHandler(&fakeReadStore{carriers: []*carrier.Carrier{
		{ID: "carrier-1", Title: "DHL", Price: 499},
	}})

	carriers, err := h.Carriers(context.Background())

	require.NoError(t, err)
	require.Len(t, carriers, 1)
	assert.Equal(t, "DHL", carriers[0].Title)
}
