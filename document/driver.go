package document

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pagetext/text"
)

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger for page failures and progress. By default
// nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithParallelism sets how many pages are extracted at once. Values below
// one mean one page at a time. The result is the same for any value.
func WithParallelism(n int) Option {
	return func(d *Driver) {
		d.parallelism = max(n, 1)
	}
}

// WithPages restricts extraction to the given 1-based page numbers.
// Duplicates are ignored and pages are always extracted in document order.
func WithPages(numbers ...int) Option {
	return func(d *Driver) {
		d.pages = slices.Clone(numbers)
	}
}

// WithExtractor sets the text extractor used for every page.
func WithExtractor(ex *text.Extractor) Option {
	return func(d *Driver) {
		if ex != nil {
			d.extractor = ex
		}
	}
}

// Driver extracts the text of every page of a document.
type Driver struct {
	logger      *slog.Logger
	parallelism int
	pages       []int
	extractor   *text.Extractor
}

// NewDriver creates a driver that extracts all pages sequentially.
func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		logger:      slog.New(slog.DiscardHandler),
		parallelism: 1,
		extractor:   text.NewExtractor(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run extracts the selected pages of store. Pages that fail are recorded in
// the result and do not stop the run. An error is returned only if the pages
// cannot be listed, a selected page does not exist, or ctx is done.
func (d *Driver) Run(ctx context.Context, store Store) (*Result, error) {
	refs, err := store.Pages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	selected, err := d.selectPages(refs)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("extracting pages",
		"total", len(refs),
		"selected", len(selected),
		"parallelism", d.parallelism,
	)

	result := &Result{
		TotalPages: len(refs),
		Pages:      make([]PageResult, len(selected)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallelism)
	for i, ref := range selected {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each goroutine writes only its own slot.
			result.Pages[i] = d.extractPage(store, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.logger.Debug("extraction complete",
		"pages", len(result.Pages),
		"failed", len(result.Failed()),
	)
	return result, nil
}

// extractPage fetches and extracts a single page.
func (d *Driver) extractPage(store Store, ref PageRef) PageResult {
	res := PageResult{Number: ref.Number}

	data, err := store.PageContent(ref)
	if err != nil {
		d.logger.Warn("could not get page content", "page", ref.Number, "error", err)
		res.Status = StatusContentUnavailable
		res.Err = fmt.Errorf("%w: page %d: %w", ErrContentUnavailable, ref.Number, err)
		return res
	}

	txt, err := d.extractor.ExtractFromBytes(data)
	if err != nil {
		d.logger.Warn("failed to extract page text", "page", ref.Number, "error", err)
		res.Status = StatusExtractionFailed
		res.Err = fmt.Errorf("page %d: %w", ref.Number, err)
		return res
	}

	res.Status = StatusOK
	res.Text = txt
	return res
}

// selectPages returns the refs for the configured page numbers, in document
// order, or all refs if no pages were selected.
func (d *Driver) selectPages(refs []PageRef) ([]PageRef, error) {
	if len(d.pages) == 0 {
		return refs, nil
	}

	wanted := make(map[int]bool, len(d.pages))
	for _, n := range d.pages {
		wanted[n] = true
	}

	selected := make([]PageRef, 0, len(wanted))
	for _, ref := range refs {
		if wanted[ref.Number] {
			selected = append(selected, ref)
			delete(wanted, ref.Number)
		}
	}

	if len(wanted) > 0 {
		missing := slices.Sorted(maps.Keys(wanted))
		return nil, fmt.Errorf("%w: page %d (document has %d pages)", ErrPageOutOfRange, missing[0], len(refs))
	}
	return selected, nil
}
