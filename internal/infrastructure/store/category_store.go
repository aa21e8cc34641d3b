package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/catalog-service/internal/domain/catalog"
)

// CategoryStore manages categories in the database. Lookups made inside a
// transaction take a row lock so concurrent count updates serialize.
type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, title, slug, description, parent_id, product_count, level, created_at, updated_at`

func scanCategory(scanner interface{ Scan(...any) error }) (*catalog.Category, error) {
	var c catalog.Category
	var parentID sql.NullString
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description,
		&parentID, &c.ProductCount, &c.Level, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ParentID = parentID.String
	return &c, nil
}

func (s *CategoryStore) NextIdentity() string {
	return uuid.New().String()
}

// FindByID retrieves a category. Returns nil when absent.
func (s *CategoryStore) FindByID(ctx context.Context, id string) (*catalog.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	if inTx(ctx) {
		query += ` FOR UPDATE`
	}
	c, err := scanCategory(conn(ctx, s.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindItemByID loads the category plus its parent and children in one pass
// and assembles the item read model.
func (s *CategoryStore) FindItemByID(ctx context.Context, id string) (*catalog.CategoryItem, error) {
	rows, err := conn(ctx, s.db).QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE id = $1
		   OR parent_id = $1
		   OR id = (SELECT parent_id FROM categories WHERE id = $1)
		ORDER BY level, created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("find category item: %w", err)
	}
	nodes, err := collectCategories(rows)
	if err != nil {
		return nil, err
	}
	return catalog.AssembleItem(nodes, id), nil
}

// FindTreeByID loads the category and its ancestor chain with a recursive
// CTE and assembles the tree read model.
func (s *CategoryStore) FindTreeByID(ctx context.Context, id string) (*catalog.CategoryTree, error) {
	rows, err := conn(ctx, s.db).QueryContext(ctx, `
		WITH RECURSIVE chain AS (
			SELECT `+categoryColumns+` FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id, c.title, c.slug, c.description, c.parent_id,
			       c.product_count, c.level, c.created_at, c.updated_at
			FROM categories c
			JOIN chain ON chain.parent_id = c.id
		)
		SELECT * FROM chain`, id)
	if err != nil {
		return nil, fmt.Errorf("find category tree: %w", err)
	}
	nodes, err := collectCategories(rows)
	if err != nil {
		return nil, err
	}
	return catalog.AssembleTree(nodes, id), nil
}

func (s *CategoryStore) FindChildren(ctx context.Context, id string) ([]*catalog.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE parent_id = $1 ORDER BY created_at`
	if inTx(ctx) {
		query += ` FOR UPDATE`
	}
	rows, err := conn(ctx, s.db).QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("find category children: %w", err)
	}
	return collectCategories(rows)
}

// All returns every category, for the read side to assemble trees from.
func (s *CategoryStore) All(ctx context.Context) ([]*catalog.Category, error) {
	rows, err := conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY level, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return collectCategories(rows)
}

// Save upserts the category row.
func (s *CategoryStore) Save(ctx context.Context, c *catalog.Category) error {
	_, err := conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO categories (id, title, slug, description, parent_id, product_count, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			description = EXCLUDED.description,
			parent_id = EXCLUDED.parent_id,
			product_count = EXCLUDED.product_count,
			level = EXCLUDED.level,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.Title, c.Slug, c.Description, nullableID(c.ParentID),
		c.ProductCount, c.Level, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, c *catalog.Category) error {
	if _, err := conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1`, c.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func collectCategories(rows *sql.Rows) ([]*catalog.Category, error) {
	defer rows.Close()
	var nodes []*catalog.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		nodes = append(nodes, c)
	}
	return nodes, rows.Err()
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
