// Package models defines the transaction records shown by the viewer.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionType tells money leaving the account from money arriving.
type TransactionType string

const (
	TypeDebit  TransactionType = "debit"
	TypeCredit TransactionType = "credit"
)

var ErrUnknownType = errors.New("unknown transaction type")

func ParseType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeDebit, TypeCredit:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Transaction is one read-only ledger record. Amount is always
// non-negative; the direction is carried by Type.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      float64         `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Merchant    *string         `json:"merchant,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Reference   *string         `json:"reference,omitempty"`
	Balance     *float64        `json:"balance,omitempty"`
}

// GenerateID assigns a fresh UUID unless the transaction already has an ID.
func (t *Transaction) GenerateID() {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
}

// SignedAmount is negative for debits and positive for credits.
func (t Transaction) SignedAmount() float64 {
	if t.Type == TypeDebit {
		return -t.Amount
	}
	return t.Amount
}

// Page is one slice of the newest-first transaction list. Page numbers
// start at 1.
type Page struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	HasMore      bool          `json:"hasMore"`
}
