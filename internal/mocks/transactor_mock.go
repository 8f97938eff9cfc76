package mocks

import "context"

// Transactor runs the unit of work inline, for service specs backed by in-memory repositories.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}
