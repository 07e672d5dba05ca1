package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/tsawler/pagetext/document"
)

var (
	// ErrNotPDF is returned when a file does not start with a PDF header.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrNoBackend is returned when no backend could open a file.
	ErrNoBackend = errors.New("no backend could open the PDF")
)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Backend selects the third-party parser that reads the document structure.
type Backend int

const (
	BackendLedongthuc Backend = iota + 1 // github.com/ledongthuc/pdf
	BackendDslipak                       // github.com/dslipak/pdf
	BackendPDFCPU                        // github.com/pdfcpu/pdfcpu
)

// Backends lists the backends in the order Open tries them.
var Backends = []Backend{BackendLedongthuc, BackendDslipak, BackendPDFCPU}

// String returns the backend name
func (b Backend) String() string {
	switch b {
	case BackendLedongthuc:
		return "ledongthuc"
	case BackendDslipak:
		return "dslipak"
	case BackendPDFCPU:
		return "pdfcpu"
	default:
		return "Backend(" + strconv.Itoa(int(b)) + ")"
	}
}

// ParseBackend returns the backend with the given name.
func ParseBackend(name string) (Backend, error) {
	for _, b := range Backends {
		if strings.EqualFold(name, b.String()) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown backend %q", name)
}

// source is a document opened by a backend. Page numbers are 1-based.
type source interface {
	numPages() int
	pageContent(page int) ([]byte, error)
	close() error
}

// Reader represents a PDF file opened for page content extraction. It
// implements document.Store.
//
// Backends are not safe for concurrent use, so calls into the backend are
// serialized.
type Reader struct {
	file     *os.File
	fileSize int64
	version  PDFVersion
	backend  Backend

	mu  sync.Mutex
	src source
}

var _ document.Store = (*Reader)(nil)

// Open opens a PDF file with the first backend in Backends that accepts it.
func Open(filename string) (*Reader, error) {
	return open(filename, Backends)
}

// OpenWith opens a PDF file with the given backend only.
func OpenWith(filename string, backend Backend) (*Reader, error) {
	return open(filename, []Backend{backend})
}

func open(filename string, backends []Backend) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, err := newReader(file, filename, backends)
	if err != nil {
		file.Close()
		return nil, err
	}
	return reader, nil
}

func newReader(file *os.File, filename string, backends []Backend) (*Reader, error) {
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	reader := &Reader{
		file:     file,
		fileSize: fileInfo.Size(),
	}

	version, err := parseHeader(file)
	if err != nil {
		return nil, err
	}
	reader.version = version

	var errs []error
	for _, b := range backends {
		src, err := openBackend(b, file, reader.fileSize, filename)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b, err))
			continue
		}
		reader.backend = b
		reader.src = src
		return reader, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrNoBackend, errors.Join(errs...))
}

// openBackend opens the document with one backend. A panic inside the
// backend is reported as an error.
func openBackend(b Backend, file *os.File, size int64, filename string) (src source, err error) {
	defer func() {
		if v := recover(); v != nil {
			src, err = nil, fmt.Errorf("panic while opening: %v", v)
		}
	}()

	switch b {
	case BackendLedongthuc:
		return openLedongthuc(file, size)
	case BackendDslipak:
		return openDslipak(file, size)
	case BackendPDFCPU:
		return openPDFCPU(filename)
	default:
		return nil, fmt.Errorf("unknown backend %d", int(b))
	}
}

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)`)

// parseHeader parses the PDF header (%PDF-x.y)
func parseHeader(r io.ReaderAt) (PDFVersion, error) {
	header := make([]byte, 8)
	n, err := r.ReadAt(header, 0)
	if n < len(header) {
		if err == nil || err == io.EOF {
			return PDFVersion{}, fmt.Errorf("%w: header too short: %d bytes", ErrNotPDF, n)
		}
		return PDFVersion{}, fmt.Errorf("failed to read header: %w", err)
	}

	headerStr := string(header)
	if !strings.HasPrefix(headerStr, "%PDF-") {
		return PDFVersion{}, fmt.Errorf("%w: invalid header %q", ErrNotPDF, headerStr)
	}

	matches := versionPattern.FindStringSubmatch(headerStr[5:])
	if matches == nil {
		return PDFVersion{}, fmt.Errorf("%w: invalid version %q", ErrNotPDF, headerStr[5:])
	}

	major, _ := strconv.Atoi(matches[1])
	minor, _ := strconv.Atoi(matches[2])
	return PDFVersion{Major: major, Minor: minor}, nil
}

// Close closes the PDF file
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.src != nil {
		errs = append(errs, r.src.close())
		r.src = nil
	}
	if r.file != nil {
		errs = append(errs, r.file.Close())
		r.file = nil
	}
	return errors.Join(errs...)
}

// Version returns the PDF version from the file header
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Backend returns the backend that opened the file
func (r *Reader) Backend() Backend {
	return r.backend
}

// FileSize returns the size of the PDF file in bytes
func (r *Reader) FileSize() int64 {
	return r.fileSize
}

// PageCount returns the number of pages in the PDF
func (r *Reader) PageCount() (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.src == nil {
		return 0, errors.New("reader is closed")
	}

	defer r.recoverInto(&err, "counting pages")
	return r.src.numPages(), nil
}

// Pages lists the pages in document order. The handle of each page is its
// page number.
func (r *Reader) Pages() ([]document.PageRef, error) {
	n, err := r.PageCount()
	if err != nil {
		return nil, err
	}

	refs := make([]document.PageRef, n)
	for i := range refs {
		refs[i] = document.PageRef{Number: i + 1, Handle: i + 1}
	}
	return refs, nil
}

// PageContent returns the decoded content streams of a page, joined by
// newlines. A page without content yields an empty buffer.
func (r *Reader) PageContent(ref document.PageRef) (data []byte, err error) {
	page, ok := ref.Handle.(int)
	if !ok {
		return nil, fmt.Errorf("invalid page handle %v", ref.Handle)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.src == nil {
		return nil, errors.New("reader is closed")
	}
	defer r.recoverInto(&err, fmt.Sprintf("reading page %d", page))

	if n := r.src.numPages(); page < 1 || page > n {
		return nil, fmt.Errorf("page %d out of range [1, %d]", page, n)
	}
	return r.src.pageContent(page)
}

// recoverInto turns a backend panic into an error. It must be deferred.
func (r *Reader) recoverInto(err *error, what string) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%s backend panicked while %s: %v", r.backend, what, v)
	}
}
