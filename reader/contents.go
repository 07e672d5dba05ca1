package reader

import (
	"bytes"
	"fmt"
	"io"
)

// rscValue is the part of the Value API shared by ledongthuc/pdf and
// dslipak/pdf, which both descend from rsc.io/pdf.
type rscValue[V any] interface {
	IsNull() bool
	Len() int
	Index(i int) V
	Reader() io.ReadCloser
}

// readContents reads a page's /Contents value, which is either a single
// stream or an array of streams.
func readContents[V rscValue[V]](contents V, isArray bool) ([]byte, error) {
	if contents.IsNull() {
		return []byte{}, nil
	}

	if !isArray {
		return readStream(contents)
	}

	streams := make([][]byte, 0, contents.Len())
	for i := 0; i < contents.Len(); i++ {
		data, err := readStream(contents.Index(i))
		if err != nil {
			return nil, fmt.Errorf("content stream %d: %w", i, err)
		}
		streams = append(streams, data)
	}
	return joinStreams(streams), nil
}

func readStream[V rscValue[V]](v V) ([]byte, error) {
	rc := v.Reader()
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read content stream: %w", err)
	}
	return data, nil
}

// joinStreams concatenates the content streams of a page. The streams form
// one content stream, but a token may not span two of them, so a newline
// separates them.
func joinStreams(streams [][]byte) []byte {
	if len(streams) == 0 {
		return []byte{}
	}
	return bytes.Join(streams, []byte{'\n'})
}
