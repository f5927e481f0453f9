// Package transactions persists the local transaction catalogue in SQLite.
//
// Rows are returned newest first (by date, then id). Dates are stored as
// Unix milliseconds in UTC.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/txviewer/internal/models"
)

type Repository interface {
	// Insert adds a transaction; the ID must be set.
	Insert(ctx context.Context, tx *models.Transaction) error

	// Count returns the number of stored transactions.
	Count(ctx context.Context) (int, error)

	// List returns up to limit transactions starting at offset.
	List(ctx context.Context, offset, limit int) ([]models.Transaction, error)

	// GetByID returns common.ErrorNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*models.Transaction, error)

	// Search matches query case-insensitively against description, merchant,
	// category and the amount text. An empty category matches any category.
	Search(ctx context.Context, query string, category models.Category) ([]models.Transaction, error)
}
