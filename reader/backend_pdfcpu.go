package reader

import (
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

type pdfcpuSource struct {
	ctx *model.Context
}

// pdfcpu otherwise creates a configuration directory under the user's home
// the first time it is used.
var disablePDFCPUConfig = sync.OnceFunc(api.DisableConfigDir)

// openPDFCPU reads and validates the whole file. pdfcpu reads from the path
// itself and does not keep the file open.
func openPDFCPU(filename string) (source, error) {
	disablePDFCPUConfig()

	ctx, err := api.ReadContextFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	return &pdfcpuSource{ctx: ctx}, nil
}

func (s *pdfcpuSource) numPages() int {
	return s.ctx.PageCount
}

func (s *pdfcpuSource) pageContent(page int) ([]byte, error) {
	pageDict, _, _, err := s.ctx.PageDict(page, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get page dict: %w", err)
	}
	if pageDict == nil {
		return nil, fmt.Errorf("page %d not found", page)
	}

	switch v := pageDict["Contents"].(type) {
	case nil:
		return []byte{}, nil
	case types.Array:
		streams := make([][]byte, 0, len(v))
		for i, item := range v {
			data, err := s.readStream(item)
			if err != nil {
				return nil, fmt.Errorf("content stream %d: %w", i, err)
			}
			streams = append(streams, data)
		}
		return joinStreams(streams), nil
	default:
		return s.readStream(v)
	}
}

// readStream dereferences and decodes one content stream.
func (s *pdfcpuSource) readStream(obj types.Object) ([]byte, error) {
	if ref, ok := obj.(*types.IndirectRef); ok {
		obj = *ref
	}

	streamDict, _, err := s.ctx.DereferenceStreamDict(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference stream: %w", err)
	}
	if streamDict == nil {
		// A reference to a missing object is null.
		return []byte{}, nil
	}

	if err := streamDict.Decode(); err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}
	return streamDict.Content, nil
}

func (s *pdfcpuSource) close() error {
	return nil
}
