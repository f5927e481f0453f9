package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/txviewer/internal/format"
	"github.com/dmitrijs2005/txviewer/internal/models"
	"github.com/dmitrijs2005/txviewer/internal/transactions"
	"github.com/mattn/go-runewidth"
)

// List shows the requested page (1 when omitted) and drops any search.
func (a *App) List(ctx context.Context, args []string) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			printlnFn("Usage: list [page]")
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}
	return a.showPage(ctx, page)
}

// Next shows the page after the last one listed.
func (a *App) Next(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	last := a.page
	searching := a.query != "" || a.category != ""
	a.mu.Unlock()

	if searching {
		printlnFn("Search results are not paged. Type 'clear' to return to the list.")
		return nil
	}
	if last.Page == 0 {
		return a.showPage(ctx, 1)
	}
	if !last.HasMore {
		printlnFn("No more transactions.")
		return nil
	}
	return a.showPage(ctx, last.Page+1)
}

// Refresh reloads the first page.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	p, err := a.provider.Refresh(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	a.setPage(p)
	a.renderPage(ctx, p)
	return nil
}

// Search filters by free text and an optional --category (or -c) value.
func (a *App) Search(ctx context.Context, args []string) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	query, category, ok := parseSearchArgs(args)
	if !ok {
		printlnFn("Usage: search <text> [--category c]")
		printlnFn("Categories: all, " + joinCategories())
		return fmt.Errorf("invalid search arguments")
	}

	items, err := a.provider.Search(ctx, query, category)
	if err != nil {
		a.report(ctx, err)
		return err
	}

	a.mu.Lock()
	a.screen = ScreenHistory
	a.detail = nil
	a.query, a.category = query, category
	a.current = items
	a.page = models.Page{}
	a.mu.Unlock()

	if len(items) == 0 {
		printlnFn("No transactions found.")
		return nil
	}
	printlnFn(format.Heading(fmt.Sprintf("%d result(s)", len(items))))
	a.renderRows(ctx, items)
	return nil
}

// ClearFilters drops the search and shows the first page again.
func (a *App) ClearFilters(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	return a.showPage(ctx, 1)
}

func (a *App) showPage(ctx context.Context, page int) error {
	p, err := a.provider.List(ctx, page, a.pageSize())
	if err != nil {
		a.report(ctx, err)
		return err
	}
	a.setPage(p)
	a.renderPage(ctx, p)
	return nil
}

func (a *App) setPage(p models.Page) {
	a.mu.Lock()
	a.screen = ScreenHistory
	a.detail = nil
	a.query, a.category = "", ""
	a.page = p
	a.current = p.Transactions
	a.mu.Unlock()
}

func (a *App) renderPage(ctx context.Context, p models.Page) {
	if p.Total == 0 {
		printlnFn("No transactions yet.")
		return
	}
	if len(p.Transactions) == 0 {
		printlnFn(fmt.Sprintf("Page %d is empty.", p.Page))
		return
	}

	size := a.pageSize()
	pages := (p.Total + size - 1) / size
	if pages < p.Page {
		pages = p.Page
	}
	printlnFn(format.Heading(fmt.Sprintf("Transactions, page %d of %d (%d total)", p.Page, pages, p.Total)))
	a.renderRows(ctx, p.Transactions)
	if p.HasMore {
		printlnFn(format.Muted("Type 'next' for more."))
	}
}

func (a *App) renderRows(ctx context.Context, items []models.Transaction) {
	now := a.now()
	unlocks := a.coord.Unlocks()
	for i, tx := range items {
		amount := format.Sensitive(format.Amount(tx), unlocks.IsUnlocked(ctx, tx.ID))
		printlnFn(fmt.Sprintf("#%-3d %s %s %-24s %s",
			i+1,
			format.Icon(tx.Category),
			runewidth.FillRight(truncate(tx.Description, 28), 28),
			format.RelativeDate(tx.Date, now),
			format.ColorAmount(tx, amount),
		))
	}
}

func (a *App) pageSize() int {
	if a.config.PageSize < 1 {
		return transactions.DefaultPageSize
	}
	return a.config.PageSize
}

// parseSearchArgs splits "text ... --category c" into its parts. At least
// one of text or category must be present.
func parseSearchArgs(args []string) (query, category string, ok bool) {
	var words []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--category" || arg == "-c":
			if i+1 >= len(args) {
				return "", "", false
			}
			category = args[i+1]
			i++
		case strings.HasPrefix(arg, "--category="):
			category = strings.TrimPrefix(arg, "--category=")
		default:
			words = append(words, arg)
		}
	}
	query = strings.Join(words, " ")
	if query == "" && category == "" {
		return "", "", false
	}
	return query, category, true
}

func joinCategories() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// truncate shortens s to n terminal cells.
func truncate(s string, n int) string {
	return runewidth.Truncate(s, n, "…")
}
