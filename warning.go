package pagetext

import (
	"fmt"
	"strings"

	"github.com/tsawler/pagetext/document"
)

// Warning describes a page that produced no text.
type Warning struct {
	Page    int             // 1-based page number
	Status  document.Status // why the page has no text
	Message string          // the placeholder line for the page
	Err     error           // underlying cause
}

// String formats the warning with its cause.
func (w Warning) String() string {
	if w.Err == nil {
		return w.Message
	}
	return fmt.Sprintf("%s: %v", w.Message, w.Err)
}

// FormatWarnings joins warnings into a single line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

func warningFor(p document.PageResult) Warning {
	return Warning{
		Page:    p.Number,
		Status:  p.Status,
		Message: p.Message(),
		Err:     p.Err,
	}
}
