package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/catalog-service/internal/clock"
	"github.com/example/catalog-service/internal/domain/carrier"
	"github.com/example/catalog-service/internal/domain/catalog"
	"github.com/example/catalog-service/internal/infrastructure/store/mocks"
	"github.com/example/catalog-service/internal/slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

type fixture struct {
	handler  *Handler
	cats     *mocks.MockCategoryRepository
	prods    *mocks.MockProductRepository
	carriers *mocks.MockCarrierRepository
	tx       *mocks.MockTransactor
	events   *mocks.MockPublisher
}

func newFixture() *fixture {
	f := &fixture{
		cats:     mocks.NewMockCategoryRepository(),
		prods:    mocks.NewMockProductRepository(),
		carriers: mocks.NewMockCarrierRepository(),
		tx:       &mocks.MockTransactor{},
		events:   &mocks.MockPublisher{},
	}
	f.handler = NewHandler(f.cats, f.prods, f.carriers, f.tx,
		clock.Fixed{Instant: testNow}, slug.Generator{}, f.events)
	return f
}

func seedCategory(f *fixture, id, title, parentID string, level, count int) *catalog.Category {
	c := &catalog.Category{
		ID:           id,
		Title:        title,
		Slug:         slug.Generate(title),
		ParentID:     parentID,
		Level:        level,
		ProductCount: count,
		CreatedAt:    testNow.Add(-time.Hour),
		UpdatedAt:    testNow.Add(-time.Hour),
	}
	f.cats.Seed(c)
	return c
}

func seedProduct(f *fixture, id, title, categoryID string, price catalog.Money) *catalog.Product {
	p := &catalog.Product{
		ID:         id,
		Title:      title,
		Slug:       slug.Generate(title),
		Price:      price,
		CategoryID: categoryID,
		CreatedAt:  testNow.Add(-time.Hour),
		UpdatedAt:  testNow.Add(-time.Hour),
	}
	f.prods.Seed(p)
	return p
}

type fakeImage struct {
	name  string
	valid bool
}

func (f fakeImage) Valid() bool      { return f.valid }
func (f fakeImage) Filename() string { return f.name }
func (f fakeImage) Bytes() []byte    { return nil }

// ============================================
// Create Category Tests
// ============================================

func TestHandler_CreateCategory_Root(t *testing.T) {
	f := newFixture()

	item, err := f.handler.CreateCategory(context.Background(), CreateCategory{Title: "My category"})

	require.NoError(t, err)
	assert.Equal(t, "My category", item.Category.Title)
	assert.Equal(t, "my-category", item.Category.Slug)
	assert.Equal(t, 0, item.Category.Level)
	assert.Equal(t, 0, item.Category.ProductCount)
	assert.Nil(t, item.Parent)
	assert.Empty(t, item.Children)
	assert.Equal(t, 1, f.tx.Calls)
	assert.Equal(t, testNow, item.Category.CreatedAt)
}

func TestHandler_CreateCategory_WithParent(t *testing.T) {
	f := newFixture()
	seedCategory(f, "parent-1", "Parent", "", 2, 0)

	item, err := f.handler.CreateCategory(context.Background(), CreateCategory{
		Title:    "Child",
		ParentID: "parent-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, item.Category.Level)
	require.NotNil(t, item.Parent)
	assert.Equal(t, "parent-1", item.Parent.ID)
}

func TestHandler_CreateCategory_ParentNotFound(t *testing.T) {
	f := newFixture()

	item, err := f.handler.CreateCategory(context.Background(), CreateCategory{
		Title:    "Child",
		ParentID: "ghost",
	})

	assert.ErrorIs(t, err, catalog.ErrParentCategoryNotFound)
	assert.Nil(t, item)
	assert.Empty(t, f.cats.SaveCalls)
	assert.Equal(t, 1, f.tx.RolledBack)
}

func TestHandler_CreateCategory_ReloadFailure(t *testing.T) {
	f := newFixture()
	f.cats.ItemReloadFails = true

	item, err := f.handler.CreateCategory(context.Background(), CreateCategory{Title: "My category"})

	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	assert.Nil(t, item)
	assert.Equal(t, 1, f.tx.RolledBack)
}

func TestHandler_CreateCategory_PublishesEvent(t *testing.T) {
	f := newFixture()

	_, err := f.handler.CreateCategory(context.Background(), CreateCategory{Title: "My category"})

	require.NoError(t, err)
	require.Len(t, f.events.PublishCalls, 1)
	assert.Equal(t, catalog.EventCategoryCreated, f.events.PublishCalls[0].EventType)
}

// ============================================
// Update Category Tests
// ============================================

func TestHandler_UpdateCategory_RenameRegeneratesSlug(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-1", "Old title", "", 0, 0)
	title := "Brand New Title"

	item, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{
		CategoryID: "cat-1",
		Title:      &title,
	})

	require.NoError(t, err)
	assert.Equal(t, "Brand New Title", item.Category.Title)
	assert.Equal(t, "brand-new-title", item.Category.Slug)
	assert.Equal(t, testNow, item.Category.UpdatedAt)
}

func TestHandler_UpdateCategory_NotFound(t *testing.T) {
	f := newFixture()
	title := "Title"

	item, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{
		CategoryID: "ghost",
		Title:      &title,
	})

	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	assert.Nil(t, item)
}

func TestHandler_UpdateCategory_SelfParent(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-1", "Loop", "", 0, 0)
	parentID := "cat-1"

	item, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{
		CategoryID: "cat-1",
		ParentID:   &parentID,
	})

	assert.ErrorIs(t, err, catalog.ErrSelfParent)
	assert.Nil(t, item)
	// No write happened.
	assert.Empty(t, f.cats.SaveCalls)
	assert.Equal(t, 1, f.tx.RolledBack)
}

func TestHandler_UpdateCategory_ParentNotFound(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-1", "Orphan", "", 0, 0)
	parentID := "ghost"

	_, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{
		CategoryID: "cat-1",
		ParentID:   &parentID,
	})

	assert.ErrorIs(t, err, catalog.ErrParentCategoryNotFound)
	assert.Empty(t, f.cats.SaveCalls)
}

func TestHandler_UpdateCategory_Reparent(t *testing.T) {
	f := newFixture()
	seedCategory(f, "root-1", "Root", "", 0, 0)
	seedCategory(f, "cat-1", "Movable", "", 0, 0)
	parentID := "root-1"

	item, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{
		CategoryID: "cat-1",
		ParentID:   &parentID,
	})

	require.NoError(t, err)
	assert.Equal(t, "root-1", item.Category.ParentID)
	assert.Equal(t, 1, item.Category.Level)
}

func TestHandler_UpdateCategory_ReparentCascadesLevels(t *testing.T) {
	f := newFixture()
	seedCategory(f, "deep", "Deep", "", 3, 0)
	seedCategory(f, "mover", "Mover", "", 0, 0)
	seedCategory(f, "child", "Child", "mover", 1, 0)
	seedCategory(f, "grandchild", "Grandchild", "child", 2, 0)
	parentID := "deep"

	item, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{
		CategoryID: "mover",
		ParentID:   &parentID,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, item.Category.Level)
	assert.Equal(t, 5, f.cats.Stored("child").Level)
	assert.Equal(t, 6, f.cats.Stored("grandchild").Level)
}

func TestHandler_UpdateCategory_RejectsChildAsParent(t *testing.T) {
	f := newFixture()
	seedCategory(f, "parent", "Parent", "", 0, 0)
	seedCategory(f, "child", "Child", "parent", 1, 0)
	parentID := "child"

	item, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{
		CategoryID: "parent",
		ParentID:   &parentID,
	})

	assert.ErrorIs(t, err, catalog.ErrCycleParent)
	assert.Nil(t, item)
	assert.Empty(t, f.cats.SaveCalls)
	assert.Equal(t, 1, f.tx.RolledBack)
	// Stored levels stay consistent.
	assert.Equal(t, 0, f.cats.Stored("parent").Level)
	assert.Equal(t, 1, f.cats.Stored("child").Level)
}

func TestHandler_UpdateCategory_RejectsDescendantAsParent(t *testing.T) {
	f := newFixture()
	seedCategory(f, "root", "Root", "", 0, 0)
	seedCategory(f, "mid", "Mid", "root", 1, 0)
	seedCategory(f, "leaf", "Leaf", "mid", 2, 0)
	parentID := "leaf"

	_, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{
		CategoryID: "root",
		ParentID:   &parentID,
	})

	assert.ErrorIs(t, err, catalog.ErrCycleParent)
	assert.Empty(t, f.cats.SaveCalls)
}

func TestHandler_UpdateCategory_ClearParent(t *testing.T) {
	f := newFixture()
	seedCategory(f, "root-1", "Root", "", 0, 0)
	seedCategory(f, "cat-1", "Nested", "root-1", 1, 0)
	parentID := ""

	item, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{
		CategoryID: "cat-1",
		ParentID:   &parentID,
	})

	require.NoError(t, err)
	assert.Empty(t, item.Category.ParentID)
	assert.Equal(t, 0, item.Category.Level)
}

func TestHandler_UpdateCategory_OmittedFieldsUntouched(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-1", "Keep title", "", 0, 0)

	item, err := f.handler.UpdateCategory(context.Background(), UpdateCategory{CategoryID: "cat-1"})

	require.NoError(t, err)
	assert.Equal(t, "Keep title", item.Category.Title)
	assert.Equal(t, "keep-title", item.Category.Slug)
	// updatedAt is always bumped.
	assert.Equal(t, testNow, item.Category.UpdatedAt)
}

// ============================================
// Delete Category Tests
// ============================================

func TestHandler_DeleteCategory_Success(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-1", "Empty", "", 0, 0)

	err := f.handler.DeleteCategory(context.Background(), DeleteCategory{CategoryID: "cat-1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"cat-1"}, f.cats.DeleteCalls)
	assert.Nil(t, f.cats.Stored("cat-1"))
}

func TestHandler_DeleteCategory_NotFound(t *testing.T) {
	f := newFixture()

	err := f.handler.DeleteCategory(context.Background(), DeleteCategory{CategoryID: "ghost"})

	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
}

func TestHandler_DeleteCategory_WithProducts(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-1", "Busy", "", 0, 3)

	err := f.handler.DeleteCategory(context.Background(), DeleteCategory{CategoryID: "cat-1"})

	assert.ErrorIs(t, err, catalog.ErrCategoryNotEmpty)
	assert.Empty(t, f.cats.DeleteCalls)
}

func TestHandler_DeleteCategory_WithChildren(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-1", "Parent", "", 0, 0)
	seedCategory(f, "cat-2", "Child", "cat-1", 1, 0)

	err := f.handler.DeleteCategory(context.Background(), DeleteCategory{CategoryID: "cat-1"})

	assert.ErrorIs(t, err, catalog.ErrCategoryNotEmpty)
	assert.Empty(t, f.cats.DeleteCalls)
}

// ============================================
// Create Product Tests
// ============================================

func TestHandler_CreateProduct_Success(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-1", "Shoes", "", 0, 0)

	view, err := f.handler.CreateProduct(context.Background(), CreateProduct{
		Title:      "Runner Sneaker",
		Subtitle:   "Limited",
		Price:      12.5,
		CategoryID: "cat-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "runner-sneaker", view.Product.Slug)
	// Decimal input is converted to minor units by the handler.
	assert.Equal(t, catalog.Money(1250), view.Product.Price)
	assert.Equal(t, "cat-1", view.Product.CategoryID)
	assert.Equal(t, "cat-1", view.Tree.Category.ID)

	// Count invariant: category now holds one product.
	assert.Equal(t, 1, f.cats.Stored("cat-1").ProductCount)
}

func TestHandler_CreateProduct_CategoryNotFound(t *testing.T) {
	f := newFixture()

	view, err := f.handler.CreateProduct(context.Background(), CreateProduct{
		Title:      "Orphan",
		Price:      10,
		CategoryID: "ghost",
	})

	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	assert.Nil(t, view)
	assert.Empty(t, f.prods.SaveCalls)
}

func TestHandler_CreateProduct_InvalidPrice(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-1", "Shoes", "", 0, 0)

	view, err := f.handler.CreateProduct(context.Background(), CreateProduct{
		Title:      "Freebie",
		Price:      0,
		CategoryID: "cat-1",
	})

	assert.ErrorIs(t, err, catalog.ErrInvalidPrice)
	assert.Nil(t, view)
	assert.Equal(t, 0, f.cats.Stored("cat-1").ProductCount)
}

// ============================================
// Update Product Tests
// ============================================

func TestHandler_UpdateProduct_Move(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-a", "From", "", 0, 1)
	seedCategory(f, "cat-b", "To", "", 0, 0)
	seedProduct(f, "prod-1", "Sneaker", "cat-a", 1000)
	target := "cat-b"

	view, err := f.handler.UpdateProduct(context.Background(), UpdateProduct{
		ProductID:  "prod-1",
		CategoryID: &target,
	})

	require.NoError(t, err)
	assert.Equal(t, "cat-b", view.Product.CategoryID)
	assert.Equal(t, 0, f.cats.Stored("cat-a").ProductCount)
	assert.Equal(t, 1, f.cats.Stored("cat-b").ProductCount)
	assert.Equal(t, "cat-b", view.Tree.Category.ID)
}

func TestHandler_UpdateProduct_MovePublishesEvent(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-a", "From", "", 0, 1)
	seedCategory(f, "cat-b", "To", "", 0, 0)
	seedProduct(f, "prod-1", "Sneaker", "cat-a", 1000)
	target := "cat-b"

	_, err := f.handler.UpdateProduct(context.Background(), UpdateProduct{
		ProductID:  "prod-1",
		CategoryID: &target,
	})

	require.NoError(t, err)
	var types []string
	for _, call := range f.events.PublishCalls {
		types = append(types, call.EventType)
	}
	assert.Contains(t, types, catalog.EventProductMoved)
	assert.Contains(t, types, catalog.EventProductUpdated)
}

func TestHandler_UpdateProduct_SameCategoryNoCountChange(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-a", "Home", "", 0, 1)
	seedProduct(f, "prod-1", "Sneaker", "cat-a", 1000)
	same := "cat-a"

	_, err := f.handler.UpdateProduct(context.Background(), UpdateProduct{
		ProductID:  "prod-1",
		CategoryID: &same,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, f.cats.Stored("cat-a").ProductCount)
	assert.Empty(t, f.cats.SaveCalls)
}

func TestHandler_UpdateProduct_TargetCategoryNotFound(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-a", "Home", "", 0, 1)
	seedProduct(f, "prod-1", "Sneaker", "cat-a", 1000)
	target := "ghost"

	view, err := f.handler.UpdateProduct(context.Background(), UpdateProduct{
		ProductID:  "prod-1",
		CategoryID: &target,
	})

	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	assert.Nil(t, view)
	assert.Equal(t, 1, f.cats.Stored("cat-a").ProductCount)
	assert.Empty(t, f.prods.SaveCalls)
}

func TestHandler_UpdateProduct_NotFound(t *testing.T) {
	f := newFixture()

	view, err := f.handler.UpdateProduct(context.Background(), UpdateProduct{ProductID: "ghost"})

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Nil(t, view)
}

func TestHandler_UpdateProduct_RenameAndReprice(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-a", "Home", "", 0, 1)
	seedProduct(f, "prod-1", "Old name", "cat-a", 1000)
	title := "New Name"
	price := 19.99

	view, err := f.handler.UpdateProduct(context.Background(), UpdateProduct{
		ProductID: "prod-1",
		Title:     &title,
		Price:     &price,
	})

	require.NoError(t, err)
	assert.Equal(t, "New Name", view.Product.Title)
	assert.Equal(t, "new-name", view.Product.Slug)
	assert.Equal(t, catalog.Money(1999), view.Product.Price)
}

func TestHandler_UpdateProduct_MoveFailureRollsBack(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-a", "From", "", 0, 1)
	seedCategory(f, "cat-b", "To", "", 0, 0)
	seedProduct(f, "prod-1", "Sneaker", "cat-a", 1000)
	target := "cat-b"

	// Fail the second category save (the increment on cat-b).
	saves := 0
	f.cats.SaveCallback = func(c *catalog.Category) error {
		saves++
		if saves == 2 {
			return errors.New("simulated database error")
		}
		return nil
	}

	view, err := f.handler.UpdateProduct(context.Background(), UpdateProduct{
		ProductID:  "prod-1",
		CategoryID: &target,
	})

	assert.Error(t, err)
	assert.Nil(t, view)
	// The product save never ran, and the transactor rolled back.
	assert.Empty(t, f.prods.SaveCalls)
	assert.Equal(t, 1, f.tx.RolledBack)
	assert.Empty(t, f.events.PublishCalls)
}

// ============================================
// Delete Product Tests
// ============================================

func TestHandler_DeleteProduct_Success(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-a", "Home", "", 0, 2)
	seedProduct(f, "prod-1", "Sneaker", "cat-a", 1000)

	err := f.handler.DeleteProduct(context.Background(), DeleteProduct{ProductID: "prod-1"})

	require.NoError(t, err)
	assert.Equal(t, 1, f.cats.Stored("cat-a").ProductCount)
	assert.Equal(t, []string{"prod-1"}, f.prods.DeleteCalls)
}

func TestHandler_DeleteProduct_NotFound(t *testing.T) {
	f := newFixture()

	err := f.handler.DeleteProduct(context.Background(), DeleteProduct{ProductID: "ghost"})

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestHandler_DeleteProduct_BrokenCategoryReference(t *testing.T) {
	f := newFixture()
	seedProduct(f, "prod-1", "Sneaker", "gone-category", 1000)

	err := f.handler.DeleteProduct(context.Background(), DeleteProduct{ProductID: "prod-1"})

	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	// Nothing was deleted.
	assert.Empty(t, f.prods.DeleteCalls)
	assert.NotNil(t, f.prods.Stored("prod-1"))
}

// ============================================
// Update Product Image Tests
// ============================================

func TestHandler_UpdateProductImage_Success(t *testing.T) {
	f := newFixture()
	seedCategory(f, "cat-a", "Home", "", 0, 1)
	seedProduct(f, "prod-1", "Sneaker", "cat-a", 1000)

	view, err := f.handler.UpdateProductImage(context.Background(), UpdateProductImage{
		ProductID: "prod-1",
		File:      fakeImage{name: "sneaker.webp", valid: true},
	})

	require.NoError(t, err)
	require.NotNil(t, view.Product.Image)
	assert.Equal(t, "sneaker.webp", view.Product.Image.Filename)
	assert.Equal(t, "cat-a", view.Tree.Category.ID)
}

func TestHandler_UpdateProductImage_InvalidFile(t *testing.T) {
	f := newFixture()
	seedProduct(f, "prod-1", "Sneaker", "cat-a", 1000)

	view, err := f.handler.UpdateProductImage(context.Background(), UpdateProductImage{
		ProductID: "prod-1",
		File:      fakeImage{valid: false},
	})

	assert.ErrorIs(t, err, catalog.ErrInvalidImage)
	assert.Nil(t, view)
	// Validation happens before any persistence.
	assert.Empty(t, f.prods.UpdateImageCalls)
	assert.Equal(t, 0, f.tx.Calls)
}

func TestHandler_UpdateProductImage_ProductNotFound(t *testing.T) {
	f := newFixture()

	view, err := f.handler.UpdateProductImage(context.Background(), UpdateProductImage{
		ProductID: "ghost",
		File:      fakeImage{name: "x.webp", valid: true},
	})

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Nil(t, view)
}

// ============================================
// Carrier Tests
// ============================================

func TestHandler_CreateCarrier(t *testing.T) {
	f := newFixture()

	c, err := f.handler.CreateCarrier(context.Background(), CreateCarrier{Title: "DHL", Price: 4.99})

	require.NoError(t, err)
	assert.Equal(t, "DHL", c.Title)
	assert.Equal(t, catalog.Money(499), c.Price)
}

func TestHandler_UpdateCarrier_NotFound(t *testing.T) {
	f := newFixture()

	c, err := f.handler.UpdateCarrier(context.Background(), UpdateCarrier{
		CarrierID: "ghost",
		Title:     "DHL",
		Price:     4.99,
	})

	assert.ErrorIs(t, err, carrier.ErrCarrierNotFound)
	assert.Nil(t, c)
}

func TestHandler_DeleteCarrier(t *testing.T) {
	f := newFixture()
	f.carriers.Seed(&carrier.Carrier{ID: "carrier-1", Title: "UPS", Price: 599})

	err := f.handler.DeleteCarrier(context.Background(), DeleteCarrier{CarrierID: "carrier-1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"carrier-1"}, f.carriers.DeleteCalls)
}
