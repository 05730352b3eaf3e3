package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type dbTransaction struct {
	tx *gorm.DB

	// joined is true when the transaction was opened by an outer caller. A
	// joined transaction is committed or rolled back only by its owner.
	joined bool
	done   bool
}

// DB returns the running transaction if there is one, otherwise the database
// stored by WithDB.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !t.done {
		return t.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("not found database in context")
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction and stores it in the returned
// context. If ctx already carries a running transaction, the returned context
// joins it.
func WithDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !t.done {
		return context.WithValue(ctx, txKey{}, &dbTransaction{tx: t.tx, joined: true})
	}

	return context.WithValue(ctx, txKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the transaction opened by WithDBTransaction.
func WithCommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(txKey{}).(*dbTransaction)
	if !ok || t.done {
		return nil
	}

	t.done = true
	if t.joined {
		return nil
	}

	return t.tx.Commit().Error
}

// WithRollbackDBTransaction is safe to defer right after WithDBTransaction, it
// does nothing if the transaction has been committed.
func WithRollbackDBTransaction(ctx context.Context) {
	t, ok := ctx.Value(txKey{}).(*dbTransaction)
	if !ok || t.done {
		return
	}

	t.done = true
	if t.joined {
		return
	}

	if err := t.tx.Rollback().Error; err != nil {
		Logger(ctx).Warnf("Cannot rollback transaction: %v", err)
	}
}
