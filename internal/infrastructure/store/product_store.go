package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/example/catalog-service/internal/domain/catalog"
	"github.com/example/catalog-service/internal/query"
)

// ProductStore manages products in the database. Uploaded images land in
// uploadDir under their generated filename.
type ProductStore struct {
	db        *sql.DB
	uploadDir string
}

func NewProductStore(db *sql.DB, uploadDir string) *ProductStore {
	return &ProductStore{db: db, uploadDir: uploadDir}
}

const productColumns = `id, title, subtitle, description, price, slug, category_id, image_filename, image_updated_at, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*catalog.Product, error) {
	var p catalog.Product
	var imageFilename sql.NullString
	var imageUpdatedAt sql.NullTime
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Subtitle, &p.Description, &p.Price, &p.Slug,
		&p.CategoryID, &imageFilename, &imageUpdatedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageFilename.Valid {
		p.Image = &catalog.Image{
			Filename:  imageFilename.String,
			UpdatedAt: imageUpdatedAt.Time,
		}
	}
	return &p, nil
}

func (s *ProductStore) NextIdentity() string {
	return uuid.New().String()
}

// FindByID retrieves a product. Returns nil when absent.
func (s *ProductStore) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if inTx(ctx) {
		q += ` FOR UPDATE`
	}
	p, err := scanProduct(conn(ctx, s.db).QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// Save upserts the product row.
func (s *ProductStore) Save(ctx context.Context, p *catalog.Product) error {
	var imageFilename any
	var imageUpdatedAt any
	if p.Image != nil {
		imageFilename = p.Image.Filename
		imageUpdatedAt = p.Image.UpdatedAt
	}
	_, err := conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO products (id, title, subtitle, description, price, slug, category_id, image_filename, image_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			subtitle = EXCLUDED.subtitle,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			slug = EXCLUDED.slug,
			category_id = EXCLUDED.category_id,
			image_filename = EXCLUDED.image_filename,
			image_updated_at = EXCLUDED.image_updated_at,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.Title, p.Subtitle, p.Description, p.Price, p.Slug,
		p.CategoryID, imageFilename, imageUpdatedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, p *catalog.Product) error {
	if _, err := conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM products WHERE id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// UpdateImage writes the upload to disk and points the product row at it.
// Returns nil when the product does not exist.
func (s *ProductStore) UpdateImage(ctx context.Context, id string, file catalog.ImageFile) (*catalog.Product, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	path := filepath.Join(s.uploadDir, file.Filename())
	if err := os.WriteFile(path, file.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write product image: %w", err)
	}

	now := time.Now().UTC()
	p.SetImage(file.Filename(), now)
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Search runs a filtered, paged product search. The total is taken from a
// window function so one query serves both the page and the count.
func (s *ProductStore) Search(ctx context.Context, params query.SearchParams) ([]*catalog.Product, int, error) {
	q := `SELECT ` + productColumns + `, COUNT(*) OVER() AS total FROM products WHERE 1=1`
	var args []any

	if params.Query != "" {
		args = append(args, "%"+params.Query+"%")
		q += fmt.Sprintf(" AND (title ILIKE $%d OR subtitle ILIKE $%d)", len(args), len(args))
	}
	if params.CategoryID != "" {
		args = append(args, params.CategoryID)
		q += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if params.MinPrice != nil {
		args = append(args, int64(catalog.MoneyFromDecimal(*params.MinPrice)))
		q += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if params.MaxPrice != nil {
		args = append(args, int64(catalog.MoneyFromDecimal(*params.MaxPrice)))
		q += fmt.Sprintf(" AND price <= $%d", len(args))
	}

	args = append(args, params.Limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, params.Offset)
	q += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := conn(ctx, s.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	var total int
	for rows.Next() {
		var p catalog.Product
		var imageFilename sql.NullString
		var imageUpdatedAt sql.NullTime
		err := rows.Scan(
			&p.ID, &p.Title, &p.Subtitle, &p.Description, &p.Price, &p.Slug,
			&p.CategoryID, &imageFilename, &imageUpdatedAt, &p.CreatedAt, &p.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		if imageFilename.Valid {
			p.Image = &catalog.Image{Filename: imageFilename.String, UpdatedAt: imageUpdatedAt.Time}
		}
		products = append(products, &p)
	}
	return products, total, rows.Err()
}
