// Package document runs page text extraction over a whole PDF document.
//
// A [Store] supplies the pages of a document and the decoded content stream
// of each page. The [Driver] fetches and extracts every page and records one
// [PageResult] per page, in document order:
//
//	store := document.NewMemoryStore(
//	    document.MemoryPage{Content: []byte("BT (Hello) Tj ET")},
//	    document.MemoryPage{Err: errors.New("missing /Contents")},
//	)
//	res, err := document.NewDriver(document.WithParallelism(4)).Run(ctx, store)
//
// A page whose content cannot be fetched is marked
// [StatusContentUnavailable] and a page whose content stream cannot be
// tokenized is marked [StatusExtractionFailed]. Neither stops the run; only
// failing to list the pages does.
//
// # Output
//
// [WriteText] renders a result as a plain text report with a labeled
// section per page. [WriteHTML] renders the same sections as HTML.
package document
