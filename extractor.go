package pagetext

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pagetext/document"
	"github.com/tsawler/pagetext/reader"
	"github.com/tsawler/pagetext/text"
)

// Extractor provides a fluent interface for extracting text from PDFs.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining. Terminal methods
// open the file for the duration of the call and do not modify the
// Extractor, so they too may be called from several goroutines.
type Extractor struct {
	// Source
	filename string
	store    document.Store // set by FromStore; never closed here

	// Lifecycle
	mu     sync.Mutex
	reader *reader.Reader // opened by PageCount and released by Close

	// Configuration
	options ExtractOptions
}

// clone creates a copy of the Extractor with a deep copy of options.
// The file held open for PageCount stays with the original.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		store:    e.store,
		options:  e.options.clone(),
	}
}

// openReader opens the Extractor's file with the configured backend.
func (e *Extractor) openReader() (*reader.Reader, error) {
	if e.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}

	var (
		r   *reader.Reader
		err error
	)
	if e.options.backend != 0 {
		r, err = reader.OpenWith(e.filename, e.options.backend)
	} else {
		r, err = reader.Open(e.filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return r, nil
}

// openStore returns the store for one terminal operation and a function
// that releases it.
func (e *Extractor) openStore() (document.Store, func() error, error) {
	if e.store != nil {
		return e.store, func() error { return nil }, nil
	}

	r, err := e.openReader()
	if err != nil {
		return nil, nil, err
	}
	return r, r.Close, nil
}

// Close releases the file held open by PageCount. A store passed to
// FromStore is left open. It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.reader == nil {
		return nil
	}
	err := e.reader.Close()
	e.reader = nil
	return err
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	text, _, err := pagetext.Open("doc.pdf").Pages(1, 3, 5).Text()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
// A range whose end is before its start makes the terminal operation fail
// with document.ErrPageOutOfRange.
//
// Example:
//
//	text, _, err := pagetext.Open("doc.pdf").PageRange(5, 10).Text()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if end < start {
		newExt.options.err = fmt.Errorf("%w: invalid page range %d-%d",
			document.ErrPageOutOfRange, start, end)
		return newExt
	}
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Parallel extracts up to n pages at once. The output does not depend on n.
func (e *Extractor) Parallel(n int) *Extractor {
	newExt := e.clone()
	newExt.options.parallelism = max(n, 1)
	return newExt
}

// Backend opens the file with the given backend only, instead of trying
// each backend in turn. It has no effect on an Extractor from FromStore.
func (e *Extractor) Backend(b reader.Backend) *Extractor {
	newExt := e.clone()
	newExt.options.backend = b
	return newExt
}

// Normalize applies a Unicode normalization form to each page's text.
//
// Example:
//
//	text, _, err := pagetext.Open("doc.pdf").Normalize(norm.NFC).Text()
func (e *Extractor) Normalize(form norm.Form) *Extractor {
	newExt := e.clone()
	newExt.options.normalize = true
	newExt.options.form = form
	return newExt
}

// Operators restricts extraction to the given text-showing operators, for
// example "TJ". Other operators never contribute text.
func (e *Extractor) Operators(ops ...string) *Extractor {
	newExt := e.clone()
	newExt.options.operators = append(newExt.options.operators, ops...)
	return newExt
}

// Context sets the context checked between pages. A nil ctx is ignored.
func (e *Extractor) Context(ctx context.Context) *Extractor {
	newExt := e.clone()
	if ctx != nil {
		newExt.options.ctx = ctx
	}
	return newExt
}

// Logger sets the logger that receives page failures.
func (e *Extractor) Logger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = logger
	return newExt
}

// ============================================================================
// Terminal Methods
// ============================================================================

// Results extracts the configured pages and returns one result per page.
// This is a terminal operation; a file opened for it is closed before it
// returns.
//
// Example:
//
//	res, err := pagetext.Open("document.pdf").Results()
//	for _, p := range res.Pages {
//	    fmt.Println(p.Number, p.Status)
//	}
func (e *Extractor) Results() (*document.Result, error) {
	if e.options.err != nil {
		return nil, e.options.err
	}

	store, release, err := e.openStore()
	if err != nil {
		return nil, err
	}
	defer release()

	return document.NewDriver(e.driverOptions()...).Run(e.options.ctx, store)
}

// Text extracts and returns the text of the configured pages, separated by
// blank lines. This is a terminal operation.
//
// Pages that yield no text are reported as warnings and do not fail the
// call. The error is set only if the document cannot be opened or its pages
// listed, or a selected page does not exist.
//
// Example:
//
//	text, warnings, err := pagetext.Open("document.pdf").Text()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagetext.FormatWarnings(warnings))
//	}
func (e *Extractor) Text() (string, []Warning, error) {
	res, err := e.Results()
	if err != nil {
		return "", nil, err
	}

	var (
		result   strings.Builder
		warnings []Warning
	)
	for _, p := range res.Pages {
		if !p.OK() {
			warnings = append(warnings, warningFor(p))
			continue
		}
		if result.Len() > 0 && len(p.Text) > 0 {
			result.WriteString("\n\n")
		}
		result.WriteString(p.Text)
	}

	return result.String(), warnings, nil
}

// WriteTo writes a text report of the configured pages to w: a UTF-8
// byte-order mark, the page count, and a labeled section per page.
// This is a terminal operation.
func (e *Extractor) WriteTo(w io.Writer) (int64, error) {
	res, err := e.Results()
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	err = document.WriteText(cw, res, document.TextOptions{BOM: true})
	return cw.n, err
}

// WriteHTML writes the configured pages to w as HTML sections.
// This is a terminal operation.
func (e *Extractor) WriteHTML(w io.Writer) error {
	res, err := e.Results()
	if err != nil {
		return err
	}
	return document.WriteHTML(w, res)
}

// PageCount returns the number of pages in the document.
// Note: This keeps the file open until Close is called.
//
// Example:
//
//	ext := pagetext.Open("document.pdf")
//	defer ext.Close()
//	count, err := ext.PageCount()
func (e *Extractor) PageCount() (int, error) {
	store := e.store
	if store == nil {
		e.mu.Lock()
		defer e.mu.Unlock()

		if e.reader == nil {
			r, err := e.openReader()
			if err != nil {
				return 0, err
			}
			e.reader = r
		}
		store = e.reader
	}

	refs, err := store.Pages()
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return len(refs), nil
}

// driverOptions translates the configuration for document.Driver.
func (e *Extractor) driverOptions() []document.Option {
	opts := []document.Option{
		document.WithParallelism(e.options.parallelism),
		document.WithExtractor(text.NewExtractor(e.extractorOptions()...)),
	}
	if len(e.options.pages) > 0 {
		opts = append(opts, document.WithPages(e.options.pages...))
	}
	if e.options.logger != nil {
		opts = append(opts, document.WithLogger(e.options.logger))
	}
	return opts
}

func (e *Extractor) extractorOptions() []text.Option {
	var opts []text.Option
	if e.options.normalize {
		opts = append(opts, text.WithNormalization(e.options.form))
	}
	if e.options.operators != nil {
		ops := e.options.operators
		opts = append(opts, text.WithOperatorFilter(func(op string) bool {
			return slices.Contains(ops, op)
		}))
	}
	return opts
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
