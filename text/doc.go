// Package text extracts the text of a PDF page from its content stream.
//
// # Text Extraction
//
// Only the text-showing operators contribute to the result:
//
//   - Tj, ' and " append their first operand, if it is a string, followed
//     by one space
//   - TJ appends every string element of its array operand with no
//     separator, then one space after the whole array
//
// Numeric kerning adjustments inside TJ arrays and every other operator
// (positioning, graphics state, path painting) are ignored. String bytes are
// decoded with [pdfstring.Decode].
//
//	txt, err := text.ExtractPageText(contentData)
//	if errors.Is(err, text.ErrExtractionFailed) {
//	    // the content stream could not be tokenized
//	}
//
// # Options
//
// An [Extractor] built with [NewExtractor] can normalize the page text and
// restrict the operators that contribute:
//
//	ex := text.NewExtractor(
//	    text.WithNormalization(norm.NFC),
//	    text.WithOperatorFilter(func(op string) bool { return op == "TJ" }),
//	)
//	txt := ex.Extract(ops)
//
// An Extractor holds no per-page state and may be shared between goroutines.
package text
