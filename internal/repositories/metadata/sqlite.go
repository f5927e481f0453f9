package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/txviewer/internal/common"
	"github.com/dmitrijs2005/txviewer/internal/dbx"
)

const (
	selectSlot = `SELECT value FROM metadata WHERE key = ?`
	upsertSlot = `INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	deleteSlot = `DELETE FROM metadata WHERE key = ?`
	deleteAll  = `DELETE FROM metadata`
)

// SQLiteRepository keeps slots in the metadata table. Values are BLOBs and
// never NULL, so a stored empty value still reads back as non-nil.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("failed to read slot: %w: empty key", common.ErrorInvalidArgument)
	}

	var value []byte
	switch err := r.db.QueryRowContext(ctx, selectSlot, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("failed to write slot: %w: empty key", common.ErrorInvalidArgument)
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.ExecContext(ctx, upsertSlot, key, value); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, deleteSlot, key); err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}
	return nil
}

// Clear drops every slot: the session and the passcode enrolment alike.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteAll); err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	return nil
}
