// Package contentstream tokenizes PDF content streams.
//
// Content streams contain the instructions for rendering page content,
// including text display, graphics operations, and image placement. The
// input is the filter-decoded stream data of one page.
//
// # Content Stream Operations
//
// PDF content streams consist of operators and their operands:
//
//	parser := contentstream.NewParser(streamData)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// Operations can also be read one at a time with [Parser.Next], which
// returns io.EOF at the end of the stream.
//
// # Operand Types
//
// Operands form a closed set of types implementing [Operand]:
//   - Numbers ([Int], [Real])
//   - Strings ([String]), holding raw undecoded bytes
//   - Names ([Name])
//   - Arrays ([Array]) and dictionaries ([Dict])
//   - [Bool], [Null], and [Keyword] for bare words inside arrays
//
// # Damaged Streams
//
// Operands left over at the end of the stream without an operator, or cut
// off in the middle, are dropped. Input that cannot be tokenized at all
// (for example an unmatched ')' or a bad hex digit) fails with a
// [*SyntaxError], which matches [ErrSyntax].
package contentstream
