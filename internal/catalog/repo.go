package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by the store when no product matches.
var ErrNotFound = errors.New("product not found")

const productCols = `id, title, brand, category, description, images, colors, sizes,
	original_price, sale_price, discount_percent, is_on_sale, is_best_seller,
	stock, is_active, created_at, updated_at`

type Repo struct{ DB *pgxpool.Pool }

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Title, &p.Brand, &p.Category, &p.Description,
		&p.Images, &p.Colors, &p.Sizes,
		&p.OriginalPrice, &p.SalePrice, &p.DiscountPercent, &p.IsOnSale, &p.IsBestSeller,
		&p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, p *Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products (`+productCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,now(),now())`,
		p.ID, p.Title, p.Brand, p.Category, p.Description, p.Images, p.Colors, p.Sizes,
		p.OriginalPrice, p.SalePrice, p.DiscountPercent, p.IsOnSale, p.IsBestSeller,
		p.Stock, p.IsActive)
	return err
}

func (r *Repo) Update(ctx context.Context, p *Product) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET title=$2, brand=$3, category=$4, description=$5,
			images=$6, colors=$7, sizes=$8, original_price=$9, sale_price=$10,
			discount_percent=$11, is_on_sale=$12, is_best_seller=$13, stock=$14,
			is_active=$15, updated_at=now()
		WHERE id=$1`,
		p.ID, p.Title, p.Brand, p.Category, p.Description, p.Images, p.Colors, p.Sizes,
		p.OriginalPrice, p.SalePrice, p.DiscountPercent, p.IsOnSale, p.IsBestSeller,
		p.Stock, p.IsActive)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Product, error) {
	return scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
}

// GetMany batch-fetches products by id in one query. Missing ids are simply
// absent from the result.
func (r *Repo) GetMany(ctx context.Context, ids []string) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	params := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE id IN (`+strings.Join(params, ",")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) List(ctx context.Context, f Filter) ([]*Product, int, error) {
	f.Normalize()
	where, args := f.whereClause()

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	q := `SELECT ` + productCols + ` FROM products` + where + f.orderClause() +
		fmt.Sprintf(` LIMIT %d OFFSET %d`, f.Limit, offset)
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
