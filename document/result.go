package document

import (
	"errors"
	"fmt"
)

var (
	// ErrContentUnavailable is matched by the error of a page whose content
	// could not be fetched from the store.
	ErrContentUnavailable = errors.New("page content unavailable")

	// ErrPageOutOfRange is returned when a selected page does not exist.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Status is the outcome of extracting one page.
type Status int

const (
	StatusOK                 Status = iota // text extracted
	StatusContentUnavailable               // the store could not supply the content
	StatusExtractionFailed                 // the content stream could not be tokenized
)

// String returns the status as used in rendered output.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusContentUnavailable:
		return "content-unavailable"
	case StatusExtractionFailed:
		return "extraction-failed"
	default:
		return "unknown"
	}
}

// PageResult is the outcome of one page.
type PageResult struct {
	Number int
	Status Status
	Text   string // set when Status is StatusOK
	Err    error  // set otherwise
}

// OK reports whether text was extracted from the page.
func (p PageResult) OK() bool {
	return p.Status == StatusOK
}

// Message returns the placeholder line rendered for a failed page, or ""
// for a page with text.
func (p PageResult) Message() string {
	switch p.Status {
	case StatusContentUnavailable:
		return fmt.Sprintf("Could not get content for page %d", p.Number)
	case StatusExtractionFailed:
		return fmt.Sprintf("Failed to extract text from page %d", p.Number)
	default:
		return ""
	}
}

// Result holds the outcome of every extracted page, in document order.
type Result struct {
	TotalPages int          // pages in the document, selected or not
	Pages      []PageResult // one per extracted page
}

// Failed returns the pages that did not yield text.
func (r *Result) Failed() []PageResult {
	var failed []PageResult
	for _, p := range r.Pages {
		if !p.OK() {
			failed = append(failed, p)
		}
	}
	return failed
}

// Page returns the result for a page number.
func (r *Result) Page(number int) (PageResult, bool) {
	for _, p := range r.Pages {
		if p.Number == number {
			return p, true
		}
	}
	return PageResult{}, false
}
