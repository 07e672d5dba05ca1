package document

import "fmt"

// PageRef identifies one page of a document.
type PageRef struct {
	Number int // 1-based page number
	Handle any // store-specific page identifier
}

// Store is the source of a document's pages.
//
// A Store used by a Driver with parallelism above one must be safe for
// concurrent calls to PageContent.
type Store interface {
	// Pages lists the pages in document order.
	Pages() ([]PageRef, error)

	// PageContent returns the filter-decoded content stream of a page.
	PageContent(ref PageRef) ([]byte, error)
}

// MemoryPage is one page of a MemoryStore: either content or the error
// returned when the content is requested.
type MemoryPage struct {
	Content []byte
	Err     error
}

// MemoryStore is a Store holding already-decoded content streams.
type MemoryStore struct {
	pages []MemoryPage
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store with the given pages, numbered from 1.
func NewMemoryStore(pages ...MemoryPage) *MemoryStore {
	return &MemoryStore{pages: pages}
}

// Add appends a page with the given content stream.
func (s *MemoryStore) Add(content []byte) {
	s.pages = append(s.pages, MemoryPage{Content: content})
}

// AddUnavailable appends a page whose content cannot be fetched.
func (s *MemoryStore) AddUnavailable(err error) {
	s.pages = append(s.pages, MemoryPage{Err: err})
}

// Pages lists the pages in the order they were added.
func (s *MemoryStore) Pages() ([]PageRef, error) {
	refs := make([]PageRef, len(s.pages))
	for i := range s.pages {
		refs[i] = PageRef{Number: i + 1, Handle: i}
	}
	return refs, nil
}

// PageContent returns the content of the referenced page.
func (s *MemoryStore) PageContent(ref PageRef) ([]byte, error) {
	idx, ok := ref.Handle.(int)
	if !ok || idx < 0 || idx >= len(s.pages) {
		return nil, fmt.Errorf("memory store has no page with handle %v", ref.Handle)
	}

	page := s.pages[idx]
	if page.Err != nil {
		return nil, page.Err
	}
	return page.Content, nil
}
