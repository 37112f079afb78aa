package crawler

import (
	"context"
	"fmt"

	"docketlabeler/pkg/courtlistener"
	"docketlabeler/pkg/logger"
)

// Catalog is the remote source of docket entry pages
type Catalog interface {
	FetchPage(ctx context.Context, cursor *string) (*courtlistener.Page, error)
}

// CursorStore persists the resume position
type CursorStore interface {
	Load() (*string, error)
	Save(cursor *string) error
}

// Paginator walks the catalog one page per call and checkpoints the cursor
// after every successful fetch
type Paginator struct {
	catalog   Catalog
	store     CursorStore
	cursor    *string
	exhausted bool
	pages     int
	logger    logger.Logger
}

// NewPaginator resumes from the cursor saved in store
func NewPaginator(catalog Catalog, store CursorStore, log logger.Logger) (*Paginator, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	cursor, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cursor: %w", err)
	}

	return &Paginator{
		catalog: catalog,
		store:   store,
		cursor:  cursor,
		logger:  log.WithField("component", "paginator"),
	}, nil
}

// Cursor returns the position the next call will fetch from
func (p *Paginator) Cursor() *string {
	return p.cursor
}

// Exhausted reports whether the last fetched page had no successor
func (p *Paginator) Exhausted() bool {
	return p.exhausted
}

// Pages returns the number of pages fetched so far
func (p *Paginator) Pages() int {
	return p.pages
}

// NextPage fetches the page at the current cursor, then advances and
// persists the cursor before returning the page's items. A failed fetch
// leaves the cursor untouched.
func (p *Paginator) NextPage(ctx context.Context) ([]courtlistener.RawItem, error) {
	requested := p.cursor

	page, err := p.catalog.FetchPage(ctx, requested)
	if err != nil {
		p.logger.WithError(err).WarnWithFields("Page fetch failed", map[string]interface{}{
			"cursor": requested,
		})
		return nil, err
	}

	if err := p.store.Save(page.Next); err != nil {
		return nil, fmt.Errorf("failed to checkpoint cursor: %w", err)
	}
	p.cursor = page.Next
	p.exhausted = page.Next == nil
	p.pages++

	logger.LogPage(p.logger, requested, len(page.Items), page.Next)

	return page.Items, nil
}
