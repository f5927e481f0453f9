package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/txviewer/internal/common"
	"github.com/dmitrijs2005/txviewer/internal/format"
	"github.com/dmitrijs2005/txviewer/internal/models"
)

// Show opens a transaction by id or by its #n position in the last list.
func (a *App) Show(ctx context.Context, args []string) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		printlnFn("Usage: show <id|#n>")
		return errors.New("missing transaction reference")
	}

	tx, err := a.resolve(ctx, args[0])
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			printlnFn("Transaction not found.")
			return err
		}
		a.report(ctx, err)
		return err
	}

	a.mu.Lock()
	a.screen = ScreenDetail
	a.detail = tx
	a.mu.Unlock()

	a.renderDetail(ctx, *tx)
	return nil
}

// Reveal unlocks the sensitive fields of the open transaction, or of the
// one named in args, with a fresh challenge.
func (a *App) Reveal(ctx context.Context, args []string) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	var tx *models.Transaction
	if len(args) > 0 {
		found, err := a.resolve(ctx, args[0])
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				printlnFn("Transaction not found.")
				return err
			}
			a.report(ctx, err)
			return err
		}
		tx = found
	} else {
		a.mu.Lock()
		tx = a.detail
		a.mu.Unlock()
	}
	if tx == nil {
		printlnFn("Usage: reveal [id|#n] (or open a transaction with 'show' first)")
		return errors.New("no transaction selected")
	}

	if _, err := a.coord.Unlocks().Unlock(ctx, tx.ID); err != nil {
		a.report(ctx, err)
		return err
	}

	a.mu.Lock()
	a.screen = ScreenDetail
	a.detail = tx
	a.mu.Unlock()

	a.renderDetail(ctx, *tx)
	return nil
}

// Back returns from the detail screen to the last list.
func (a *App) Back(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	a.screen = ScreenHistory
	a.detail = nil
	items := a.current
	p := a.page
	a.mu.Unlock()

	if p.Page > 0 {
		a.renderPage(ctx, p)
		return nil
	}
	if len(items) > 0 {
		a.renderRows(ctx, items)
		return nil
	}
	return a.Refresh(ctx)
}

func (a *App) resolve(ctx context.Context, ref string) (*models.Transaction, error) {
	if strings.HasPrefix(ref, "#") {
		n, err := strconv.Atoi(ref[1:])

		a.mu.Lock()
		items := a.current
		a.mu.Unlock()

		if err != nil || n < 1 || n > len(items) {
			return nil, common.ErrorNotFound
		}
		tx := items[n-1]
		return &tx, nil
	}
	return a.provider.GetByID(ctx, ref)
}

func (a *App) renderDetail(ctx context.Context, tx models.Transaction) {
	visible := a.coord.Unlocks().IsUnlocked(ctx, tx.ID)

	printlnFn(format.Heading(format.Icon(tx.Category) + " " + tx.Description))
	printlnFn(format.ColorAmount(tx, format.Sensitive(format.Amount(tx), visible)))
	printlnFn(format.Muted(format.Date(tx.Date)))
	printlnFn()

	printlnFn(format.Heading("Transaction Information"))
	printlnFn(format.Row("Type", format.Title(string(tx.Type))))
	printlnFn(format.Row("Category", format.Category(tx.Category)))
	if tx.Merchant != nil {
		printlnFn(format.Row("Merchant", *tx.Merchant))
	}
	if tx.Location != nil {
		printlnFn(format.Row("Location", *tx.Location))
	}
	if tx.Reference != nil {
		printlnFn(format.Row("Reference", format.Sensitive(*tx.Reference, visible)))
	}
	if tx.Balance != nil {
		printlnFn(format.Row("Account Balance", format.Balance(tx.Balance, visible)))
	}
	printlnFn(format.Row("Transaction ID", tx.ID))

	if !visible {
		printlnFn()
		printlnFn(format.Warn("Sensitive details are hidden. Type 'reveal' to unlock them."))
	}
}
