package shipping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("shipping config not found")

type Repo struct{ DB *pgxpool.Pool }

const configCols = `id, country, free_shipping_threshold, shipping_fee, is_active, created_at, updated_at`

func scanConfig(row pgx.Row) (*Config, error) {
	var c Config
	err := row.Scan(&c.ID, &c.Country, &c.FreeShippingThreshold, &c.Fee, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) FindByCountry(ctx context.Context, country string) (*Config, error) {
	return scanConfig(r.DB.QueryRow(ctx,
		`SELECT `+configCols+` FROM shipping_fees WHERE country=$1`, country))
}

func (r *Repo) FindActiveByCountry(ctx context.Context, country string) (*Config, error) {
	return scanConfig(r.DB.QueryRow(ctx,
		`SELECT `+configCols+` FROM shipping_fees WHERE country=$1 AND is_active`, country))
}

// UpsertByCountry creates or replaces the single config row for a country.
// Returns the stored config and whether it was newly created.
func (r *Repo) UpsertByCountry(ctx context.Context, country string, threshold, fee int, active bool) (*Config, bool, error) {
	var created bool
	err := r.DB.QueryRow(ctx, `
		INSERT INTO shipping_fees (id, country, free_shipping_threshold, shipping_fee, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now(),now())
		ON CONFLICT (country) DO UPDATE SET
			free_shipping_threshold = EXCLUDED.free_shipping_threshold,
			shipping_fee = EXCLUDED.shipping_fee,
			is_active = EXCLUDED.is_active,
			updated_at = now()
		RETURNING (xmax = 0)`,
		uuid.NewString(), country, threshold, fee, active).Scan(&created)
	if err != nil {
		return nil, false, err
	}
	c, err := r.FindByCountry(ctx, country)
	return c, created, err
}
