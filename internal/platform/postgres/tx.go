// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sherry00124/ImChat/internal/platform/dberr"
)

// DBTX is the statement surface shared by [*pgxpool.Pool] and [pgx.Tx].
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// Executor returns the transaction carried by ctx, or pool when there is none.
func Executor(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// UnitOfWork opens rollback-capable transactions on a pool.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork constructs a [UnitOfWork] bound to pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// WithinTx runs fn inside a single transaction.
//
// The transaction is committed when fn returns nil and rolled back on any
// error, panic or context cancellation. Stores called with the context handed
// to fn join the transaction through [Executor]. Nested calls reuse the outer
// transaction instead of opening a second one.
func (uow *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	err := pgx.BeginFunc(ctx, uow.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})

	return dberr.Wrap(err, "transaction")
}
