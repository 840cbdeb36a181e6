package boxbulk

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	paginatorFetchMetricName = "paginator_fetch"
	paginatorPagesMetricName = "paginator_pages"
)

// Page is one bounded slice of a remote collection.
type Page struct {
	Entries []Record
	// TotalCount is the collection size reported by the remote side, 0 if unknown.
	TotalCount int
}

// PageFetcher fetches the page of a remote collection the cursor points to.
type PageFetcher func(ctx context.Context, cursor PageCursor) (*Page, error)

// Printer renders a single record to the console.
type Printer func(record Record)

// PageCursor points to a page of a remote collection. It only lives for one listing call.
type PageCursor struct {
	Offset int
	Size   int
}

// Next returns the cursor of the following page.
func (c PageCursor) Next() PageCursor {
	return PageCursor{Offset: c.Offset + c.Size, Size: c.Size}
}

// Terminal reports whether the page fetched at the cursor is the last one: it's short or empty,
// or the total count reported by the remote side has been reached.
func (c PageCursor) Terminal(page *Page) bool {
	n := len(page.Entries)
	if n == 0 || n < c.Size {
		return true
	}
	return page.TotalCount > 0 && c.Offset+n >= page.TotalCount
}

// PagerState defines the state of an interactive listing.
type PagerState int

const (
	// PagerStateAwaitingInput means a page has been rendered and the user decides whether to go on.
	PagerStateAwaitingInput PagerState = iota
	// PagerStateDone means the listing is over.
	PagerStateDone
)

// String converts a PagerState to string.
func (s PagerState) String() string {
	switch s {
	case PagerStateAwaitingInput:
		return "awaiting_input"
	case PagerStateDone:
		return "done"
	}
	return fmt.Sprintf("pager_state(%d)", int(s))
}

// Paginator walks remote collections page by page.
type Paginator struct {
	pageSize int
	metrics  MetricsTracker
	logger   *zap.Logger
}

// NewPaginator returns a preconfigured Paginator struct. A non-positive page size falls back
// to DefaultPageSize.
func NewPaginator(pageSize int, logger *zap.Logger, metricsTracker MetricsTracker) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	metricsTracker.Add(paginatorFetchMetricName, "Time taken to fetch a single page")
	metricsTracker.Add(paginatorPagesMetricName, "Pages fetched by the last listing")
	return &Paginator{
		pageSize: pageSize,
		metrics:  metricsTracker,
		logger:   logger,
	}
}

// PageSize returns the number of entries requested per page.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// All fetches the whole collection and returns its entries in remote order. Nothing is rendered.
func (p *Paginator) All(ctx context.Context, fetch PageFetcher) ([]Record, error) {
	p.logger.Info("paginator start", zap.String("mode", "all"), zap.Int("page_size", p.pageSize))
	var entries []Record
	cursor := PageCursor{Size: p.pageSize}
	pages := 0
	for {
		page, err := p.fetch(ctx, fetch, cursor)
		if err != nil {
			return nil, err
		}
		pages++
		entries = append(entries, page.Entries...)
		if cursor.Terminal(page) {
			break
		}
		cursor = cursor.Next()
	}
	p.metrics.Set(paginatorPagesMetricName, fmt.Sprintf("%d", pages))
	p.logger.Info("paginator end", zap.Int("pages", pages), zap.Int("entries", len(entries)))
	return entries, nil
}

// Interactive renders the collection one page at a time. After every page that isn't terminal
// the prompter decides whether the next page gets fetched; a terminal page ends the listing
// without prompting.
func (p *Paginator) Interactive(ctx context.Context, fetch PageFetcher, printer Printer, prompter Prompter) error {
	p.logger.Info("paginator start", zap.String("mode", "interactive"), zap.Int("page_size", p.pageSize))
	cursor := PageCursor{Size: p.pageSize}
	state := PagerStateAwaitingInput
	pages := 0
	for state != PagerStateDone {
		page, err := p.fetch(ctx, fetch, cursor)
		if err != nil {
			return err
		}
		pages++
		for _, entry := range page.Entries {
			printer(entry)
		}
		if cursor.Terminal(page) {
			state = PagerStateDone
			continue
		}
		state, err = p.await(prompter)
		if err != nil {
			return err
		}
		cursor = cursor.Next()
	}
	p.metrics.Set(paginatorPagesMetricName, fmt.Sprintf("%d", pages))
	p.logger.Info("paginator end", zap.Int("pages", pages))
	return nil
}

// await asks the prompter whether to continue. The quit input and the end of the input both
// finish the listing.
func (p *Paginator) await(prompter Prompter) (PagerState, error) {
	input, err := prompter.Prompt(ContinuePrompt)
	if err == io.EOF {
		return PagerStateDone, nil
	}
	if err != nil {
		return PagerStateDone, fmt.Errorf("prompt error: %v", err)
	}
	if IsQuit(input) {
		return PagerStateDone, nil
	}
	return PagerStateAwaitingInput, nil
}

func (p *Paginator) fetch(ctx context.Context, fetch PageFetcher, cursor PageCursor) (*Page, error) {
	p.logger.Debug("fetch page", zap.Int("offset", cursor.Offset), zap.Int("size", cursor.Size))
	p.metrics.Start(paginatorFetchMetricName)
	page, err := fetch(ctx, cursor)
	p.metrics.Stop(paginatorFetchMetricName)
	if err != nil {
		return nil, fmt.Errorf("fetch page at offset %d: %w", cursor.Offset, err)
	}
	if page == nil {
		page = &Page{}
	}
	return page, nil
}
