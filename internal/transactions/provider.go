// Package transactions serves the transaction catalogue to the viewer:
// newest-first pages, single lookups and free-text search.
package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/txviewer/internal/logging"
	"github.com/dmitrijs2005/txviewer/internal/models"
	txrepo "github.com/dmitrijs2005/txviewer/internal/repositories/transactions"
	"golang.org/x/text/unicode/norm"
)

const DefaultPageSize = 20

// CategoryAll in a search means "any category".
const CategoryAll = "all"

var ErrInvalidPage = errors.New("invalid page")

type Provider interface {
	// List returns the 1-based page of transactions, newest first.
	List(ctx context.Context, page, pageSize int) (models.Page, error)

	// GetByID returns common.ErrorNotFound when id is unknown.
	GetByID(ctx context.Context, id string) (*models.Transaction, error)

	// Refresh returns the first page at the default page size.
	Refresh(ctx context.Context) (models.Page, error)

	// Search returns every transaction whose description, merchant,
	// category or amount contains query, optionally limited to category.
	Search(ctx context.Context, query, category string) ([]models.Transaction, error)
}

type SQLProvider struct {
	repo     txrepo.Repository
	logger   logging.Logger
	pageSize int
}

// NewSQLProvider serves repo. A non-positive pageSize means DefaultPageSize.
func NewSQLProvider(repo txrepo.Repository, logger logging.Logger, pageSize int) *SQLProvider {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &SQLProvider{repo: repo, logger: logger, pageSize: pageSize}
}

// PageSize is the size used by Refresh.
func (p *SQLProvider) PageSize() int {
	return p.pageSize
}

func (p *SQLProvider) List(ctx context.Context, page, pageSize int) (models.Page, error) {
	if page < 1 || pageSize < 1 {
		return models.Page{}, fmt.Errorf("%w: page %d, size %d", ErrInvalidPage, page, pageSize)
	}

	total, err := p.repo.Count(ctx)
	if err != nil {
		return models.Page{}, err
	}

	items, err := p.repo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return models.Page{}, err
	}
	if items == nil {
		items = []models.Transaction{}
	}

	return models.Page{
		Transactions: items,
		Total:        total,
		Page:         page,
		HasMore:      page*pageSize < total,
	}, nil
}

func (p *SQLProvider) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	return p.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (p *SQLProvider) Refresh(ctx context.Context) (models.Page, error) {
	p.logger.Debug(ctx, "refreshing transactions")
	return p.List(ctx, 1, p.pageSize)
}

func (p *SQLProvider) Search(ctx context.Context, query, category string) ([]models.Transaction, error) {
	var cat models.Category
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, CategoryAll) {
		parsed, err := models.ParseCategory(c)
		if err != nil {
			return nil, err
		}
		cat = parsed
	}

	// Composed and decomposed forms of the same text must match.
	query = norm.NFC.String(strings.TrimSpace(query))
	if query == "" && cat == "" {
		return []models.Transaction{}, nil
	}

	items, err := p.repo.Search(ctx, query, cat)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Transaction{}
	}
	return items, nil
}
