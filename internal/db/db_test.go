package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "order_products_product_id_fkey"}
	wrapped := fmt.Errorf("delete product: %w", fk)

	assert.True(t, IsForeignKeyViolation(wrapped, ""))
	assert.True(t, IsForeignKeyViolation(wrapped, "order_products_product_id_fkey"))
	assert.False(t, IsForeignKeyViolation(wrapped, "orders_user_id_fkey"))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}, ""))
	assert.False(t, IsForeignKeyViolation(errors.New("boom"), ""))
	assert.False(t, IsForeignKeyViolation(nil, ""))
}

func TestIsUniqueViolation(t *testing.T) {
	uniq := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	assert.True(t, IsUniqueViolation(uniq, ""))
	assert.True(t, IsUniqueViolation(uniq, "users_email_key"))
	assert.False(t, IsUniqueViolation(uniq, "products_sku_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("other")))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(0))
	assert.Equal(t, 0, Offset(1))
	assert.Equal(t, 20, Offset(3))
}
