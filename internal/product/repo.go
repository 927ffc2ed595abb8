// Package product provides the repository interface and PostgreSQL implementation for managing products.
package product

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/kasir-pos/internal/category"
	"github.com/MikeMC777/kasir-pos/internal/db"
	"github.com/MikeMC777/kasir-pos/internal/validate"
)

const (
	nameConstraint = "products_name_key"
	skuConstraint  = "products_sku_key"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetMany(ctx context.Context, ids []int64) ([]Product, error)
	List(ctx context.Context, q Query) ([]Product, int, error)
	Taken(ctx context.Context, column, value string, exceptID int64) (bool, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, p *Product) error
	AdjustStock(ctx context.Context, id, delta int64) (int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PGRepo struct{ db db.DBTX }

func NewPGRepo(q db.DBTX) *PGRepo { return &PGRepo{db: q} }

const selectProduct = `
	SELECT p.id, p.name, p.sku, p.stock, p.price, p.image, p.category_id, p.created_at, p.updated_at,
	       c.id, c.name, c.created_at, c.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p Product
		c category.Category
	)
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Stock, &p.Price, &p.Image, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

func collect(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, sku, stock, price, image, category_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`, p.Name, p.SKU, p.Stock, p.Price, p.Image, p.CategoryID).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return uniqueErr(err)
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx, selectProduct+` WHERE p.id=$1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) GetMany(ctx context.Context, ids []int64) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, selectProduct+` WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// List applies the category and exact-name filters, combinable.
func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	const where = ` WHERE ($1::bigint IS NULL OR p.category_id = $1) AND ($2::text IS NULL OR p.name = $2)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, q.CategoryID, q.Name).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, selectProduct+where+` ORDER BY p.id LIMIT $3 OFFSET $4`,
		q.CategoryID, q.Name, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}
	out, err := collect(rows)
	return out, total, err
}

// Taken reports whether column (name or sku) already holds value on another row.
func (r *PGRepo) Taken(ctx context.Context, column, value string, exceptID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sql := `SELECT EXISTS (SELECT 1 FROM products WHERE name=$1 AND id<>$2)`
	if column == "sku" {
		sql = `SELECT EXISTS (SELECT 1 FROM products WHERE sku=$1 AND id<>$2)`
	}
	var taken bool
	err := r.db.QueryRow(ctx, sql, value, exceptID).Scan(&taken)
	return taken, err
}

func (r *PGRepo) CategoryExists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id=$1)`, id).Scan(&ok)
	return ok, err
}

func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, sku = $3, stock = $4, price = $5, image = $6, category_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, p.ID, p.Name, p.SKU, p.Stock, p.Price, p.Image, p.CategoryID).Scan(&p.UpdatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	return uniqueErr(err)
}

// AdjustStock adds delta (usually negative) to the stock and returns the new
// value. Stock is allowed to go below zero.
func (r *PGRepo) AdjustStock(ctx context.Context, id, delta int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var stock int64
	err := r.db.QueryRow(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING stock
	`, id, delta).Scan(&stock)
	if db.IsNoRows(err) {
		return 0, ErrNotFound
	}
	return stock, err
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if db.IsForeignKeyViolation(err, "") {
		return false, validate.InUseError("product")
	}
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func uniqueErr(err error) error {
	switch {
	case db.IsUniqueViolation(err, nameConstraint):
		return takenErr("name")
	case db.IsUniqueViolation(err, skuConstraint):
		return takenErr("sku")
	}
	return err
}
