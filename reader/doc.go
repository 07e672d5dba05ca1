// Package reader opens PDF files and supplies their page content streams.
//
// The document structure (cross-reference table, page tree, stream filters)
// is read by a third-party parser, the backend. [Open] tries each of
// [Backends] in turn and keeps the first that accepts the file; [OpenWith]
// uses a single backend:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	res, err := document.NewDriver().Run(ctx, r)
//
// A [Reader] implements document.Store. The content of a page with several
// content streams is returned as one buffer, the streams separated by a
// newline. A backend that panics on a damaged page fails only that page.
package reader
