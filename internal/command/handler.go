// Package command implements the admin write side. Every handler runs its
// loads and writes inside one transaction supplied by the Transactor; the
// cross-aggregate rule that a category's product count always matches its
// assigned products is enforced here, not by the store.
package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/catalog-service/internal/clock"
	"github.com/example/catalog-service/internal/domain/carrier"
	"github.com/example/catalog-service/internal/domain/catalog"
)

// SlugGenerator derives URL slugs from titles. Uniqueness is enforced by the
// store, not here.
type SlugGenerator interface {
	Generate(title string) string
}

// EventPublisher pushes domain events to the broker after a transaction
// commits. Publishing is best-effort; a failed publish never rolls back a
// committed write.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

type Handler struct {
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	carriers   carrier.Repository
	tx         catalog.Transactor
	clock      clock.Clock
	slugs      SlugGenerator
	events     EventPublisher
}

func NewHandler(
	categories catalog.CategoryRepository,
	products catalog.ProductRepository,
	carriers carrier.Repository,
	tx catalog.Transactor,
	clk clock.Clock,
	slugs SlugGenerator,
	events EventPublisher,
) *Handler {
	return &Handler{
		categories: categories,
		products:   products,
		carriers:   carriers,
		tx:         tx,
		clock:      clk,
		slugs:      slugs,
		events:     events,
	}
}

// ============================================
// Category commands
// ============================================

// CreateCategory creates a category, deriving level from the optional parent,
// and returns it reloaded as a CategoryItem.
func (h *Handler) CreateCategory(ctx context.Context, cmd CreateCategory) (*catalog.CategoryItem, error) {
	var item *catalog.CategoryItem
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := h.clock.Now()
		id := h.categories.NextIdentity()
		slug := h.slugs.Generate(cmd.Title)

		var parent *catalog.Category
		if cmd.ParentID != "" {
			var err error
			parent, err = h.categories.FindByID(ctx, cmd.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return catalog.ErrParentCategoryNotFound
			}
		}

		c, err := catalog.NewCategory(id, cmd.Title, slug, cmd.Description, parent, now)
		if err != nil {
			return err
		}
		if err := h.categories.Save(ctx, c); err != nil {
			return err
		}

		// Defensive reload against a broken read path.
		item, err = h.categories.FindItemByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return catalog.ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.publish(ctx, item.Category.ID, catalog.EventCategoryCreated, catalog.CategoryChanged{
		CategoryID: item.Category.ID,
		Title:      item.Category.Title,
		Slug:       item.Category.Slug,
		ParentID:   item.Category.ParentID,
		Level:      item.Category.Level,
		OccurredAt: item.Category.CreatedAt,
	})
	return item, nil
}

// UpdateCategory applies the provided fields. A changed title regenerates the
// slug; a changed parent recomputes levels for the whole moved subtree.
func (h *Handler) UpdateCategory(ctx context.Context, cmd UpdateCategory) (*catalog.CategoryItem, error) {
	var item *catalog.CategoryItem
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := h.clock.Now()

		c, err := h.categories.FindByID(ctx, cmd.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return catalog.ErrCategoryNotFound
		}

		reparented := false
		if cmd.ParentID != nil {
			if *cmd.ParentID == c.ID {
				return catalog.ErrSelfParent
			}
			var parent *catalog.Category
			if *cmd.ParentID != "" {
				parent, err = h.categories.FindByID(ctx, *cmd.ParentID)
				if err != nil {
					return err
				}
				if parent == nil {
					return catalog.ErrParentCategoryNotFound
				}
				if err := h.ensureNotDescendant(ctx, c.ID, parent); err != nil {
					return err
				}
			}
			if err := c.SetParent(parent, now); err != nil {
				return err
			}
			reparented = true
		}

		if cmd.Title != nil {
			if err := c.Rename(*cmd.Title, h.slugs.Generate(*cmd.Title), now); err != nil {
				return err
			}
		}
		if cmd.Description != nil {
			if err := c.Describe(*cmd.Description, now); err != nil {
				return err
			}
		}

		c.Touch(now)
		if err := h.categories.Save(ctx, c); err != nil {
			return err
		}
		if reparented {
			if err := h.recomputeSubtreeLevels(ctx, c, now); err != nil {
				return err
			}
		}

		item, err = h.categories.FindItemByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if item == nil {
			return catalog.ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.publish(ctx, item.Category.ID, catalog.EventCategoryUpdated, catalog.CategoryChanged{
		CategoryID: item.Category.ID,
		Title:      item.Category.Title,
		Slug:       item.Category.Slug,
		ParentID:   item.Category.ParentID,
		Level:      item.Category.Level,
		OccurredAt: item.Category.UpdatedAt,
	})
	return item, nil
}

// DeleteCategory removes an empty category. Categories that still hold
// products or child categories are refused to keep the count invariant.
func (h *Handler) DeleteCategory(ctx context.Context, cmd DeleteCategory) error {
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := h.clock.Now()

		c, err := h.categories.FindByID(ctx, cmd.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return catalog.ErrCategoryNotFound
		}
		if c.ProductCount > 0 {
			return catalog.ErrCategoryNotEmpty
		}
		children, err := h.categories.FindChildren(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return catalog.ErrCategoryNotEmpty
		}

		c.Touch(now)
		return h.categories.Delete(ctx, c)
	})
	if err != nil {
		return err
	}

	h.publish(ctx, cmd.CategoryID, catalog.EventCategoryDeleted, catalog.CategoryChanged{
		CategoryID: cmd.CategoryID,
		OccurredAt: h.clock.Now(),
	})
	return nil
}

// ensureNotDescendant walks the new parent's ancestor chain inside the
// current transaction and rejects the move when the chain reaches the
// category being reparented. Without this check a move under a descendant
// would commit a parent cycle.
func (h *Handler) ensureNotDescendant(ctx context.Context, id string, parent *catalog.Category) error {
	seen := map[string]bool{}
	for cur := parent; cur != nil; {
		if cur.ID == id {
			return catalog.ErrCycleParent
		}
		if cur.ParentID == "" || seen[cur.ID] {
			return nil
		}
		seen[cur.ID] = true
		next, err := h.categories.FindByID(ctx, cur.ParentID)
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

// recomputeSubtreeLevels walks the descendants of a moved category and
// re-derives their levels so the level invariant holds for the whole tree.
func (h *Handler) recomputeSubtreeLevels(ctx context.Context, parent *catalog.Category, now time.Time) error {
	return h.relevelChildren(ctx, parent, now, map[string]bool{parent.ID: true})
}

// relevelChildren is the recursion behind recomputeSubtreeLevels. The seen
// set stops the walk on an already-visited node so a corrupt parent chain in
// storage degrades into an error instead of unbounded recursion.
func (h *Handler) relevelChildren(ctx context.Context, parent *catalog.Category, now time.Time, seen map[string]bool) error {
	children, err := h.categories.FindChildren(ctx, parent.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if seen[child.ID] {
			return catalog.ErrCycleParent
		}
		seen[child.ID] = true
		child.ReparentUnder(parent, now)
		if err := h.categories.Save(ctx, child); err != nil {
			return err
		}
		if err := h.relevelChildren(ctx, child, now, seen); err != nil {
			return err
		}
	}
	return nil
}

// ============================================
// Product commands
// ============================================

// CreateProduct creates a product in an existing category and bumps that
// category's product count in the same transaction.
func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*catalog.ProductView, error) {
	var view *catalog.ProductView
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := h.clock.Now()
		id := h.products.NextIdentity()
		slug := h.slugs.Generate(cmd.Title)

		c, err := h.categories.FindByID(ctx, cmd.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return catalog.ErrCategoryNotFound
		}

		p, err := catalog.NewProduct(id, cmd.Title, slug, cmd.Subtitle, cmd.Description,
			catalog.MoneyFromDecimal(cmd.Price), c.ID, now)
		if err != nil {
			return err
		}
		if err := h.products.Save(ctx, p); err != nil {
			return err
		}

		c.AddProduct(now)
		if err := h.categories.Save(ctx, c); err != nil {
			return err
		}

		tree, err := h.categories.FindTreeByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if tree == nil {
			return catalog.ErrCategoryNotFound
		}
		view = &catalog.ProductView{Product: p, Tree: tree}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.publish(ctx, view.Product.ID, catalog.EventProductCreated, catalog.ProductChanged{
		ProductID:  view.Product.ID,
		Title:      view.Product.Title,
		Slug:       view.Product.Slug,
		Price:      view.Product.Price,
		CategoryID: view.Product.CategoryID,
		OccurredAt: view.Product.CreatedAt,
	})
	return view, nil
}

// UpdateProduct applies the provided fields. A category change decrements the
// old category's count and increments the new one's atomically with the
// product save.
func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) (*catalog.ProductView, error) {
	var view *catalog.ProductView
	var movedFrom string
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := h.clock.Now()

		p, err := h.products.FindByID(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return catalog.ErrProductNotFound
		}

		if cmd.CategoryID != nil && *cmd.CategoryID != p.CategoryID {
			next, err := h.categories.FindByID(ctx, *cmd.CategoryID)
			if err != nil {
				return err
			}
			if next == nil {
				return catalog.ErrCategoryNotFound
			}
			prev, err := h.categories.FindByID(ctx, p.CategoryID)
			if err != nil {
				return err
			}
			if prev == nil {
				return catalog.ErrCategoryNotFound
			}

			if err := prev.RemoveProduct(now); err != nil {
				return err
			}
			if err := h.categories.Save(ctx, prev); err != nil {
				return err
			}
			next.AddProduct(now)
			if err := h.categories.Save(ctx, next); err != nil {
				return err
			}
			movedFrom = prev.ID
			if err := p.MoveTo(next.ID, now); err != nil {
				return err
			}
		}

		if cmd.Title != nil {
			if err := p.Rename(*cmd.Title, h.slugs.Generate(*cmd.Title), now); err != nil {
				return err
			}
		}
		if cmd.Subtitle != nil {
			p.SetSubtitle(*cmd.Subtitle, now)
		}
		if cmd.Description != nil {
			p.SetDescription(*cmd.Description, now)
		}
		if cmd.Price != nil {
			if err := p.Reprice(catalog.MoneyFromDecimal(*cmd.Price), now); err != nil {
				return err
			}
		}

		p.Touch(now)
		if err := h.products.Save(ctx, p); err != nil {
			return err
		}

		tree, err := h.categories.FindTreeByID(ctx, p.CategoryID)
		if err != nil {
			return err
		}
		if tree == nil {
			return catalog.ErrCategoryNotFound
		}
		view = &catalog.ProductView{Product: p, Tree: tree}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if movedFrom != "" {
		h.publish(ctx, view.Product.ID, catalog.EventProductMoved, catalog.ProductMoved{
			ProductID:      view.Product.ID,
			FromCategoryID: movedFrom,
			ToCategoryID:   view.Product.CategoryID,
			OccurredAt:     view.Product.UpdatedAt,
		})
	}
	h.publish(ctx, view.Product.ID, catalog.EventProductUpdated, catalog.ProductChanged{
		ProductID:  view.Product.ID,
		Title:      view.Product.Title,
		Slug:       view.Product.Slug,
		Price:      view.Product.Price,
		CategoryID: view.Product.CategoryID,
		OccurredAt: view.Product.UpdatedAt,
	})
	return view, nil
}

// DeleteProduct removes a product and decrements its owning category's count.
// The category is resolved before anything is deleted; a broken reference
// aborts the whole transaction.
func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := h.clock.Now()

		p, err := h.products.FindByID(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return catalog.ErrProductNotFound
		}

		c, err := h.categories.FindByID(ctx, p.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return catalog.ErrCategoryNotFound
		}

		if err := c.RemoveProduct(now); err != nil {
			return err
		}
		if err := h.categories.Save(ctx, c); err != nil {
			return err
		}

		p.Touch(now)
		return h.products.Delete(ctx, p)
	})
	if err != nil {
		return err
	}

	h.publish(ctx, cmd.ProductID, catalog.EventProductDeleted, catalog.ProductChanged{
		ProductID:  cmd.ProductID,
		OccurredAt: h.clock.Now(),
	})
	return nil
}

// UpdateProductImage validates the upload before any persistence, then
// delegates storage plus association to the repository.
func (h *Handler) UpdateProductImage(ctx context.Context, cmd UpdateProductImage) (*catalog.ProductView, error) {
	if cmd.File == nil || !cmd.File.Valid() {
		return nil, catalog.ErrInvalidImage
	}

	var view *catalog.ProductView
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := h.products.UpdateImage(ctx, cmd.ProductID, cmd.File)
		if err != nil {
			return err
		}
		if p == nil {
			return catalog.ErrProductNotFound
		}

		tree, err := h.categories.FindTreeByID(ctx, p.CategoryID)
		if err != nil {
			return err
		}
		if tree == nil {
			return catalog.ErrCategoryNotFound
		}
		view = &catalog.ProductView{Product: p, Tree: tree}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.publish(ctx, view.Product.ID, catalog.EventProductImageUpdated, catalog.ProductChanged{
		ProductID:  view.Product.ID,
		CategoryID: view.Product.CategoryID,
		OccurredAt: view.Product.UpdatedAt,
	})
	return view, nil
}

// ============================================
// Carrier commands
// ============================================

func (h *Handler) CreateCarrier(ctx context.Context, cmd CreateCarrier) (*carrier.Carrier, error) {
	var c *carrier.Carrier
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = carrier.NewCarrier(h.carriers.NextIdentity(), cmd.Title,
			catalog.MoneyFromDecimal(cmd.Price), h.clock.Now())
		if err != nil {
			return err
		}
		return h.carriers.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (h *Handler) UpdateCarrier(ctx context.Context, cmd UpdateCarrier) (*carrier.Carrier, error) {
	var c *carrier.Carrier
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = h.carriers.FindByID(ctx, cmd.CarrierID)
		if err != nil {
			return err
		}
		if c == nil {
			return carrier.ErrCarrierNotFound
		}
		if err := c.Update(cmd.Title, catalog.MoneyFromDecimal(cmd.Price), h.clock.Now()); err != nil {
			return err
		}
		return h.carriers.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (h *Handler) DeleteCarrier(ctx context.Context, cmd DeleteCarrier) error {
	return h.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := h.carriers.FindByID(ctx, cmd.CarrierID)
		if err != nil {
			return err
		}
		if c == nil {
			return carrier.ErrCarrierNotFound
		}
		return h.carriers.Delete(ctx, c)
	})
}

func (h *Handler) publish(ctx context.Context, key, eventType string, payload any) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ctx, key, eventType, payload); err != nil {
		slog.Warn("event publish failed", "type", eventType, "key", key, "error", err)
	}
}
