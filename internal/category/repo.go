package category

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/kasir-pos/internal/db"
	"github.com/MikeMC777/kasir-pos/internal/validate"
)

const nameConstraint = "categories_name_key"

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	GetMany(ctx context.Context, ids []int64) ([]Category, error)
	List(ctx context.Context, limit, offset int) ([]Category, int, error)
	NameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type PGRepo struct{ db db.DBTX }

func NewPGRepo(q db.DBTX) *PGRepo { return &PGRepo{db: q} }

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGRepo) Create(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, created_at, updated_at)
		VALUES ($1,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`, c.Name).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if db.IsUniqueViolation(err, nameConstraint) {
		return nameTakenErr()
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c, err := scanCategory(r.db.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at FROM categories WHERE id=$1
	`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *PGRepo) GetMany(ctx context.Context, ids []int64) ([]Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, created_at, updated_at FROM categories WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Category, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories ORDER BY id LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE name=$1 AND id<>$2)`, name, exceptID).Scan(&taken)
	return taken, err
}

func (r *PGRepo) Update(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		UPDATE categories SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, c.ID, c.Name).Scan(&c.UpdatedAt)
	switch {
	case db.IsNoRows(err):
		return ErrNotFound
	case db.IsUniqueViolation(err, nameConstraint):
		return nameTakenErr()
	}
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if db.IsForeignKeyViolation(err, "") {
		return false, validate.InUseError("category")
	}
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
