package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is the shared persistence foundation embedded by the booking and
// inventory repositories.
type Base struct {
	db *gorm.DB
}

// NewBase wraps the provided GORM connection. WithTx-style rebinding is done
// by constructing a fresh Base over the transaction handle.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
