package repository

import (
	"context"

	"gorm.io/gorm"

	domainRepo "github.com/mabatisales/mabati-api/internal/domain/repository"
)

type txKey struct{}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager backed by a gorm transaction. The
// transaction handle travels in the context so every repository call
// made inside the function joins the same transaction.
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the transaction handle from ctx when present, falling
// back to the repository's own connection.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
