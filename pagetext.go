// Package pagetext provides a fluent API for extracting the text of PDF
// pages from their content streams.
//
// Basic usage:
//
//	text, warnings, err := pagetext.Open("document.pdf").Text()
//	if err != nil {
//	    // the file could not be opened or its pages listed
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagetext.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := pagetext.Open("report.pdf").
//	    Pages(1, 2, 3).
//	    Parallel(4).
//	    Normalize(norm.NFC).
//	    Text()
//
// Pages whose content cannot be read or tokenized do not fail the call;
// they are reported as warnings. The document, reader, text, contentstream
// and pdfstring packages expose the lower layers.
package pagetext

import (
	"github.com/tsawler/pagetext/document"
)

// Open opens a PDF file and returns an Extractor for fluent configuration.
// Each terminal operation, such as Text(), opens the file and closes it
// before returning.
//
// Example:
//
//	text, warnings, err := pagetext.Open("document.pdf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromStore creates an Extractor over pages supplied by store, for example
// an already opened *reader.Reader or a *document.MemoryStore.
// The caller is responsible for closing the store.
//
// Example:
//
//	r, err := reader.OpenWith("document.pdf", reader.BackendPDFCPU)
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	text, warnings, err := pagetext.FromStore(r).Text()
func FromStore(store document.Store) *Extractor {
	return &Extractor{
		store:   store,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := pagetext.Must(pagetext.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text() and panics if the error
// is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	text := pagetext.MustText(pagetext.Open("document.pdf").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
