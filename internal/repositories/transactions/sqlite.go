package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/common"
	"github.com/dmitrijs2005/txviewer/internal/dbx"
	"github.com/dmitrijs2005/txviewer/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const selectColumns = `id, amount, occurred_at, description, type, category, merchant, location, reference, balance`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("failed to insert transaction: %w: empty id", common.ErrorInvalidArgument)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (`+selectColumns+`, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		tx.ID, tx.Amount, tx.Date.UTC().UnixMilli(), tx.Description, string(tx.Type), string(tx.Category),
		nullString(tx.Merchant), nullString(tx.Location), nullString(tx.Reference), nullFloat(tx.Balance),
		searchKey(tx),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) List(ctx context.Context, offset, limit int) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+selectColumns+` FROM transactions
		ORDER BY occurred_at DESC, id ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return collect(rows)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM transactions WHERE id = ?`, id)

	tx, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}
	return tx, nil
}

func (r *SQLiteRepository) Search(ctx context.Context, query string, category models.Category) ([]models.Transaction, error) {
	var (
		where []string
		args  []any
	)

	if q := strings.TrimSpace(query); q != "" {
		where = append(where, `(
			search_text LIKE ? ESCAPE '\' OR
			CAST(amount AS TEXT) LIKE ? ESCAPE '\'
		)`)
		args = append(args, "%"+escapeLike(fold(q))+"%", "%"+escapeLike(q)+"%")
	}
	if category != "" {
		where = append(where, `category = ?`)
		args = append(args, string(category))
	}

	stmt := `SELECT ` + selectColumns + ` FROM transactions`
	if len(where) > 0 {
		stmt += ` WHERE ` + strings.Join(where, ` AND `)
	}
	stmt += ` ORDER BY occurred_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	return collect(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Transaction, error) {
	var (
		tx                            models.Transaction
		occurredAt                    int64
		txType, category              string
		merchant, location, reference sql.NullString
		balance                       sql.NullFloat64
	)

	err := s.Scan(&tx.ID, &tx.Amount, &occurredAt, &tx.Description, &txType, &category,
		&merchant, &location, &reference, &balance)
	if err != nil {
		return nil, err
	}

	tx.Date = time.UnixMilli(occurredAt).UTC()
	tx.Type = models.TransactionType(txType)
	tx.Category = models.Category(category)
	tx.Merchant = stringPtr(merchant)
	tx.Location = stringPtr(location)
	tx.Reference = stringPtr(reference)
	if balance.Valid {
		b := balance.Float64
		tx.Balance = &b
	}
	return &tx, nil
}

func collect(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	result := make([]models.Transaction, 0)
	for rows.Next() {
		tx, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		result = append(result, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return result, nil
}

// searchKey is the case-folded text Search matches against: description,
// merchant and category separated by newlines.
func searchKey(tx *models.Transaction) string {
	merchant := ""
	if tx.Merchant != nil {
		merchant = *tx.Merchant
	}
	return fold(tx.Description + "\n" + merchant + "\n" + string(tx.Category))
}

// fold applies NFC and full Unicode case folding. SQLite's LOWER only
// handles ASCII, so both sides of a comparison are folded here.
func fold(s string) string {
	return norm.NFC.String(cases.Fold().String(norm.NFC.String(s)))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
