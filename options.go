package pagetext

import (
	"context"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pagetext/reader"
)

// ExtractOptions holds configuration for text extraction.
type ExtractOptions struct {
	// Page selection (1-indexed)
	pages []int

	// Opening
	backend reader.Backend // zero tries every backend

	// Processing options
	parallelism int
	normalize   bool
	form        norm.Form
	operators   []string // text-showing operators to use; nil means all

	ctx    context.Context
	logger *slog.Logger

	err error // configuration error reported by terminal operations
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:       nil, // nil means all pages
		parallelism: 1,
		ctx:         context.Background(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	if o.operators != nil {
		newOpts.operators = append([]string(nil), o.operators...)
	}

	return newOpts
}
