package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockDecrement is one product's reservation applied at checkout.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, email, username, phone_number, address, country, city, postal_code,
	items, total_price, shipping_fee, status, payment_method, currency,
	cancel_reason, tracking_number, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var items []byte
	err := row.Scan(&o.ID, &o.Email, &o.Username, &o.PhoneNumber, &o.Address, &o.Country,
		&o.City, &o.PostalCode, &items, &o.TotalPrice, &o.ShippingFee, &o.Status,
		&o.PaymentMethod, &o.Currency, &o.CancelReason, &o.TrackingNumber,
		&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateWithStockDecrements persists the order and applies every stock
// decrement in one transaction. The conditional UPDATE (stock >= qty) is the
// backstop against checkouts racing past the service-level stock check: if
// any product comes up short the whole checkout rolls back and no stock
// moves.
func (r *Repo) CreateWithStockDecrements(ctx context.Context, o *Order, decs []StockDecrement) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, d := range decs {
		ct, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2`, d.ProductID, d.Quantity)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("%w for product %s", ErrInsufficientStock, d.ProductID)
		}
	}

	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, email, username, phone_number, address, country, city, postal_code,
			items, total_price, shipping_fee, status, payment_method, currency,
			cancel_reason, tracking_number, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,now(),now())
		RETURNING created_at, updated_at`,
		o.ID, o.Email, o.Username, o.PhoneNumber, o.Address, o.Country, o.City, o.PostalCode,
		items, o.TotalPrice, o.ShippingFee, o.Status, o.PaymentMethod, o.Currency,
		o.CancelReason, o.TrackingNumber).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
}

// FindByIDAndEmail is the ownership check for guest-facing cancellation.
func (r *Repo) FindByIDAndEmail(ctx context.Context, id, email string) (*Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id=$1 AND email=$2`, id, email))
}

func (r *Repo) ListByEmail(ctx context.Context, email string) ([]*Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderCols+` FROM orders WHERE email=$1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListFilter enumerates the admin listing criteria.
type ListFilter struct {
	Email         string
	Status        Status
	PaymentMethod PaymentMethod
	Page          int
	Limit         int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f *ListFilter) whereClause() (string, []any) {
	var conds []string
	var args []any
	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if f.Email != "" {
		conds = append(conds, "email = "+next())
		args = append(args, f.Email)
	}
	if f.Status != "" {
		conds = append(conds, "status = "+next())
		args = append(args, f.Status)
	}
	if f.PaymentMethod != "" {
		conds = append(conds, "payment_method = "+next())
		args = append(args, f.PaymentMethod)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]*Order, int, error) {
	f.Normalize()
	where, args := f.whereClause()

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	rows, err := r.DB.Query(ctx, `SELECT `+orderCols+` FROM orders`+where+
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, f.Limit, offset), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectOrders(rows)
	return out, total, err
}

// Update persists the mutable fields: status, cancel reason, tracking number.
func (r *Repo) Update(ctx context.Context, o *Order) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET status=$2, cancel_reason=$3, tracking_number=$4, updated_at=now()
		WHERE id=$1`, o.ID, o.Status, o.CancelReason, o.TrackingNumber)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectOrders(rows pgx.Rows) ([]*Order, error) {
	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
