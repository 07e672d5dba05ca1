package reader

import (
	"io"

	dpdf "github.com/dslipak/pdf"
)

type dslipakSource struct {
	reader *dpdf.Reader
}

func openDslipak(f io.ReaderAt, size int64) (source, error) {
	r, err := dpdf.NewReader(f, size)
	if err != nil {
		return nil, err
	}
	return &dslipakSource{reader: r}, nil
}

func (s *dslipakSource) numPages() int {
	return s.reader.NumPage()
}

func (s *dslipakSource) pageContent(page int) ([]byte, error) {
	contents := s.reader.Page(page).V.Key("Contents")
	return readContents(contents, contents.Kind() == dpdf.Array)
}

func (s *dslipakSource) close() error {
	return nil
}
