package text

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pagetext/contentstream"
	"github.com/tsawler/pagetext/pdfstring"
)

// ErrExtractionFailed is matched (via errors.Is) by errors returned when a
// page's content stream cannot be tokenized.
var ErrExtractionFailed = errors.New("text extraction failed")

// Option configures an Extractor.
type Option func(*Extractor)

// WithNormalization applies the Unicode normalization form to the text of
// each page, e.g. norm.NFC.
func WithNormalization(form norm.Form) Option {
	return func(e *Extractor) {
		e.form = form
		e.normalize = true
	}
}

// WithOperatorFilter restricts the text-showing operators that contribute
// text to those for which keep returns true. Operators that do not show text
// never contribute, whatever keep returns.
func WithOperatorFilter(keep func(operator string) bool) Option {
	return func(e *Extractor) {
		e.keep = keep
	}
}

// Extractor extracts text from content stream operations
type Extractor struct {
	form      norm.Form
	normalize bool
	keep      func(operator string) bool
}

// NewExtractor creates a new text extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = NewExtractor()

// ExtractPageText tokenizes a page's content stream and returns its text.
// The error, which wraps ErrExtractionFailed, is returned only when the
// stream cannot be tokenized.
func ExtractPageText(data []byte) (string, error) {
	return defaultExtractor.ExtractFromBytes(data)
}

// Extract returns the text shown by operations, in stream order.
func (e *Extractor) Extract(operations []contentstream.Operation) string {
	var sb strings.Builder
	for _, op := range operations {
		e.processOperation(&sb, op)
	}

	if e.normalize {
		return e.form.String(sb.String())
	}
	return sb.String()
}

// ExtractFromBytes parses and extracts text from raw content stream data
func (e *Extractor) ExtractFromBytes(data []byte) (string, error) {
	operations, err := contentstream.Parse(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	return e.Extract(operations), nil
}

// processOperation appends the text shown by a single operation
func (e *Extractor) processOperation(sb *strings.Builder, op contentstream.Operation) {
	switch op.Operator {
	case "Tj", "'", `"`:
		if !e.wants(op.Operator) || len(op.Operands) == 0 {
			return
		}
		// Only the first operand is considered. For " that is the word
		// spacing, so the operator shows nothing here.
		if str, ok := op.Operands[0].(contentstream.String); ok {
			pdfstring.DecodeTo(sb, str)
			sb.WriteByte(' ')
		}
	case "TJ":
		if !e.wants(op.Operator) || len(op.Operands) == 0 {
			return
		}
		arr, ok := op.Operands[0].(contentstream.Array)
		if !ok {
			return
		}
		for _, item := range arr {
			// Numbers are kerning adjustments, not text.
			if str, ok := item.(contentstream.String); ok {
				pdfstring.DecodeTo(sb, str)
			}
		}
		sb.WriteByte(' ')
	}
}

func (e *Extractor) wants(operator string) bool {
	return e.keep == nil || e.keep(operator)
}
