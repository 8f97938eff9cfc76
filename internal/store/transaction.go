package store

import (
	"context"
	"log/slog"

	"gorm.io/gorm"
)

type txKey struct{}

type txState struct {
	tx    *gorm.DB
	hooks []func(context.Context)
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type GormTransactor struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewTransactor(db *gorm.DB, logger *slog.Logger) *GormTransactor {
	return &GormTransactor{db: db, logger: logger}
}

// WithinTransaction joins the transaction already carried by ctx, or opens a new one.
// Hooks registered with AfterCommit run only after the outermost transaction commits.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{}
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		return fn(context.WithValue(ctx, txKey{}, state))
	})
	if err != nil {
		t.logger.Debug("transaction rolled back", "error", err)
		return err
	}

	for _, hook := range state.hooks {
		hook(ctx)
	}
	return nil
}

// DB returns the transaction bound to ctx, or fallback scoped to ctx.
func DB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok && state.tx != nil {
		return state.tx
	}
	return fallback.WithContext(ctx)
}

// AfterCommit defers fn until the surrounding transaction commits.
// Without a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		state.hooks = append(state.hooks, fn)
		return
	}
	fn(ctx)
}

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*txState)
	return ok
}
