package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/dbx"
	"github.com/dmitrijs2005/txviewer/internal/models"
	txrepo "github.com/dmitrijs2005/txviewer/internal/repositories/transactions"
	"github.com/google/uuid"
)

// seedNamespace keeps generated ids stable across runs.
var seedNamespace = uuid.MustParse("7b0d9a52-3c1e-4f6a-9d2b-5e8c1a4f7d30")

type template struct {
	category    models.Category
	kind        models.TransactionType
	description string
	merchant    string
	location    string
	base        float64
}

var templates = []template{
	{models.CategoryGrocery, models.TypeDebit, "Weekly groceries", "Whole Foods Market", "San Francisco, CA", 86.42},
	{models.CategoryRestaurant, models.TypeDebit, "Dinner", "Olive Garden", "Oakland, CA", 54.10},
	{models.CategoryGas, models.TypeDebit, "Fuel", "Shell", "Daly City, CA", 48.75},
	{models.CategoryShopping, models.TypeDebit, "Online order", "Amazon", "", 129.99},
	{models.CategoryEntertainment, models.TypeDebit, "Streaming subscription", "Netflix", "", 15.49},
	{models.CategoryUtilities, models.TypeDebit, "Electricity bill", "PG&E", "", 112.30},
	{models.CategoryHealthcare, models.TypeDebit, "Pharmacy", "CVS Pharmacy", "San Mateo, CA", 23.85},
	{models.CategoryEducation, models.TypeDebit, "Online course", "Coursera", "", 49.00},
	{models.CategoryTravel, models.TypeDebit, "Flight", "United Airlines", "SFO", 342.60},
	{models.CategoryTransfer, models.TypeDebit, "Transfer to savings", "", "", 500.00},
	{models.CategorySalary, models.TypeCredit, "Salary deposit", "Acme Corp", "", 4250.00},
	{models.CategoryInvestment, models.TypeCredit, "Dividend payment", "Vanguard", "", 87.16},
	{models.CategoryOther, models.TypeDebit, "ATM withdrawal", "", "Market St ATM", 60.00},
	{models.CategoryTransfer, models.TypeCredit, "Transfer from John", "", "", 120.00},
	{models.CategoryRestaurant, models.TypeDebit, "Coffee", "Starbucks", "San Francisco, CA", 6.45},
}

const openingBalance = 8500.00

// Generate builds n deterministic transactions ending at now, newest first,
// spaced a few hours apart. The running balance is computed oldest to
// newest.
func Generate(n int, now time.Time) []models.Transaction {
	if n <= 0 {
		return nil
	}

	out := make([]models.Transaction, n)
	for i := 0; i < n; i++ {
		tpl := templates[i%len(templates)]

		// Vary the amount a little per occurrence.
		round := float64(i / len(templates))
		amount := math.Round((tpl.base+round*3.17)*100) / 100

		tx := models.Transaction{
			ID:          uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("tx-%d", i))).String(),
			Amount:      amount,
			Date:        now.Add(-time.Duration(i) * 7 * time.Hour).Truncate(time.Minute),
			Description: tpl.description,
			Type:        tpl.kind,
			Category:    tpl.category,
		}
		if tpl.merchant != "" {
			tx.Merchant = ptr(tpl.merchant)
		}
		if tpl.location != "" {
			tx.Location = ptr(tpl.location)
		}
		tx.Reference = ptr(fmt.Sprintf("REF%08d", 10_000_000+i*7919%90_000_000))
		out[i] = tx
	}

	balance := openingBalance
	for i := n - 1; i >= 0; i-- {
		balance = math.Round((balance+out[i].SignedAmount())*100) / 100
		out[i].Balance = ptr(balance)
	}
	return out
}

// Seed fills an empty catalogue with Generate(n, now). It reports how many
// rows were inserted; a catalogue that already has rows is left alone.
func Seed(ctx context.Context, db *sql.DB, n int, now time.Time) (int, error) {
	inserted := 0
	err := dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := txrepo.NewSQLiteRepository(tx)

		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, t := range Generate(n, now) {
			if err := repo.Insert(ctx, &t); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed transactions: %w", err)
	}
	return inserted, nil
}

func ptr[T any](v T) *T {
	return &v
}
