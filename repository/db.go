// Package repository holds the sqlx data access layer. Mutations that must
// be atomic run inside Transact; the open transaction rides in the context so
// repos on different entities can share it.
package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

type txKey struct{}

func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// ext returns the transaction bound to ctx when one is present, otherwise the
// plain connection pool.
func ext(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

func transact(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(withTx(ctx, tx))
	if err != nil {
		return err
	}
	return tx.Commit()
}

// IsDuplicate reports whether err is a MySQL duplicate-key violation, used to
// surface unique-email and unique-sku conflicts.
func IsDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func pageClause(page, limit int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}
