package repository

import "context"

// TxManager runs a function inside a single storage transaction. Every
// ledger-mutating operation on an order runs through this so that
// payment writes, stock writes and the status change commit as one
// atomic unit; any error rolls the whole unit back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
