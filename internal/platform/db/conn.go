package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queryable is the subset of pgx the repositories need; satisfied by both
// *pgxpool.Pool and pgx.Tx so repositories can run inside a transaction
// placed on the context.
type Queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type connKey struct{}

// WithConn returns a context carrying an explicit connection (usually a
// transaction) that repositories will prefer over their pool.
func WithConn(ctx context.Context, conn Queryable) context.Context {
	return context.WithValue(ctx, connKey{}, conn)
}

// ConnFromContext returns the connection placed on the context, or nil.
func ConnFromContext(ctx context.Context) Queryable {
	conn, _ := ctx.Value(connKey{}).(Queryable)
	return conn
}

// InTx runs fn with a transaction bound to the context. Repository calls made
// through that context share the transaction; it commits when fn returns nil
// and rolls back otherwise.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(WithConn(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
