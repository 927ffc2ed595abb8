// Package db owns the Postgres pool and the transaction plumbing shared by the
// repositories.
package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so a repository built on
// it runs either standalone or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Runner runs fn with a value R bound to a single transaction. Any error
// returned by fn rolls the whole transaction back.
type Runner[R any] interface {
	InTx(ctx context.Context, fn func(R) error) error
}

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	log.Printf("[db] connected (max conns %d)", pool.Config().MaxConns)
	return pool, nil
}

// WithTx begins a transaction, hands it to fn and commits when fn succeeds.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// TxBinder is the Postgres Runner: bind builds the transaction-scoped value
// (usually a repository or a bundle of them) from the open pgx.Tx.
type TxBinder[R any] struct {
	pool *pgxpool.Pool
	bind func(DBTX) R
}

func Bind[R any](pool *pgxpool.Pool, bind func(DBTX) R) *TxBinder[R] {
	return &TxBinder[R]{pool: pool, bind: bind}
}

func (b *TxBinder[R]) InTx(ctx context.Context, fn func(R) error) error {
	return WithTx(ctx, b.pool, func(tx pgx.Tx) error {
		return fn(b.bind(tx))
	})
}

// IsUniqueViolation reports whether err is a Postgres unique_violation,
// optionally restricted to one constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsForeignKeyViolation reports whether err is a Postgres foreign_key_violation,
// e.g. deleting a row that other rows still reference.
func IsForeignKeyViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }
