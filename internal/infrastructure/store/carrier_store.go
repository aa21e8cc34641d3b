package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/catalog-service/internal/domain/carrier"
)

// CarrierStore manages shipping carriers in the database.
type CarrierStore struct {
	db *sql.DB
}

func NewCarrierStore(db *sql.DB) *CarrierStore {
	return &CarrierStore{db: db}
}

const carrierColumns = `id, title, price, created_at, updated_at`

func scanCarrier(scanner interface{ Scan(...any) error }) (*carrier.Carrier, error) {
	var c carrier.Carrier
	if err := scanner.Scan(&c.ID, &c.Title, &c.Price, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CarrierStore) NextIdentity() string {
	return uuid.New().String()
}

func (s *CarrierStore) FindByID(ctx context.Context, id string) (*carrier.Carrier, error) {
	q := `SELECT ` + carrierColumns + ` FROM carriers WHERE id = $1`
	if inTx(ctx) {
		q += ` FOR UPDATE`
	}
	c, err := scanCarrier(conn(ctx, s.db).QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find carrier by id: %w", err)
	}
	return c, nil
}

func (s *CarrierStore) FindAll(ctx context.Context) ([]*carrier.Carrier, error) {
	rows, err := conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+carrierColumns+` FROM carriers ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list carriers: %w", err)
	}
	defer rows.Close()

	var carriers []*carrier.Carrier
	for rows.Next() {
		c, err := scanCarrier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan carrier: %w", err)
		}
		carriers = append(carriers, c)
	}
	return carriers, rows.Err()
}

func (s *CarrierStore) Save(ctx context.Context, c *carrier.Carrier) error {
	_, err := conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO carriers (id, title, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.Title, c.Price, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save carrier: %w", err)
	}
	return nil
}

func (s *CarrierStore) Delete(ctx context.Context, c *carrier.Carrier) error {
	if _, err := conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM carriers WHERE id = $1`, c.ID); err != nil {
		return fmt.Errorf("delete carrier: %w", err)
	}
	return nil
}
