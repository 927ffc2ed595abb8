package order

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/kasir-pos/internal/db"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	CreateItem(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, limit, offset int) ([]Order, int, error)
	ListByUsers(ctx context.Context, userIDs []int64) ([]Order, error)
	Items(ctx context.Context, orderIDs []int64) ([]Item, error)
	ReceiptCodeExists(ctx context.Context, code string) (bool, error)
}

type PGRepo struct{ db db.DBTX }

func NewPGRepo(q db.DBTX) *PGRepo { return &PGRepo{db: q} }

const orderColumns = `id, user_id, payment_type_id, total_price, total_paid, total_return, receipt_code, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(&o.ID, &o.UserID, &o.PaymentID, &o.TotalPrice, &o.TotalPaid, &o.TotalReturn,
		&o.ReceiptCode, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, payment_type_id, total_price, total_paid, total_return, receipt_code, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`, o.UserID, o.PaymentID, o.TotalPrice, o.TotalPaid, o.TotalReturn, o.ReceiptCode).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *PGRepo) CreateItem(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO order_products (order_id, product_id, qty, total_price, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`, it.OrderID, it.ProductID, it.Qty, it.TotalPrice).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Order, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders ORDER BY id LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out, err := collectOrders(rows)
	return out, total, err
}

func (r *PGRepo) ListByUsers(ctx context.Context, userIDs []int64) ([]Order, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE user_id = ANY($1) ORDER BY id
	`, userIDs)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *PGRepo) Items(ctx context.Context, orderIDs []int64) ([]Item, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, qty, total_price, created_at, updated_at
		FROM order_products
		WHERE order_id = ANY($1)
		ORDER BY id
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Qty, &it.TotalPrice, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) ReceiptCodeExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE receipt_code=$1)`, code).Scan(&ok)
	return ok, err
}
