package reader

import (
	"io"

	lpdf "github.com/ledongthuc/pdf"
)

type ledongthucSource struct {
	reader *lpdf.Reader
}

func openLedongthuc(f io.ReaderAt, size int64) (source, error) {
	r, err := lpdf.NewReader(f, size)
	if err != nil {
		return nil, err
	}
	return &ledongthucSource{reader: r}, nil
}

func (s *ledongthucSource) numPages() int {
	return s.reader.NumPage()
}

func (s *ledongthucSource) pageContent(page int) ([]byte, error) {
	contents := s.reader.Page(page).V.Key("Contents")
	return readContents(contents, contents.Kind() == lpdf.Array)
}

// The file belongs to the Reader.
func (s *ledongthucSource) close() error {
	return nil
}
