package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("cart not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) FindBySession(ctx context.Context, sessionID string) (*Cart, error) {
	var c Cart
	var items []byte
	err := r.DB.QueryRow(ctx, `
		SELECT id, session_id, items, total_price, created_at, updated_at
		FROM carts WHERE session_id=$1`, sessionID).
		Scan(&c.ID, &c.SessionID, &items, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &c.Items); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Create(ctx context.Context, c *Cart) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	items, err := json.Marshal(itemsOrEmpty(c.Items))
	if err != nil {
		return err
	}
	return r.DB.QueryRow(ctx, `
		INSERT INTO carts (id, session_id, items, total_price, created_at, updated_at)
		VALUES ($1,$2,$3,$4,now(),now())
		RETURNING created_at, updated_at`,
		c.ID, c.SessionID, items, c.TotalPrice).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// Save rewrites the item list and total in one statement.
func (r *Repo) Save(ctx context.Context, c *Cart) error {
	items, err := json.Marshal(itemsOrEmpty(c.Items))
	if err != nil {
		return err
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE carts SET items=$2, total_price=$3, updated_at=now()
		WHERE session_id=$1`, c.SessionID, items, c.TotalPrice)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteBySession(ctx context.Context, sessionID string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM carts WHERE session_id=$1`, sessionID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// itemsOrEmpty keeps the stored JSON an array, never null.
func itemsOrEmpty(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
