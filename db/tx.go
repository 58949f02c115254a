package db

import (
	"context"

	"gorm.io/gorm"
)

// WithTx runs fn as one unit of work in its own transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
// Concurrent writers to the same row are ordered by the engine's isolation level.
func WithTx(ctx context.Context, gdb *gorm.DB, fn func(tx *gorm.DB) error) error {
	return gdb.WithContext(ctx).Transaction(fn)
}
