package contentstream

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// MaxNestingDepth is the deepest level of array and dictionary nesting the
// parser accepts before reporting a syntax error.
const MaxNestingDepth = 64

// ErrSyntax is matched (via errors.Is) by every *SyntaxError.
var ErrSyntax = errors.New("content stream syntax error")

// errTruncated reports that the input ended in the middle of an operand.
var errTruncated = errors.New("content stream truncated")

// SyntaxError describes a content stream that is not well formed.
type SyntaxError struct {
	Offset int    // byte offset of the offending input
	Msg    string // what was wrong
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("content stream syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Parser parses PDF content streams into a sequence of operations.
// Each operation consists of an operator and its operands.
//
// A Parser keeps its own operand stack, so different parsers can be used
// concurrently. A single Parser is not safe for concurrent use.
type Parser struct {
	data     []byte
	pos      int
	operands []Operand
	err      error // sticky; io.EOF once the input is exhausted
}

// NewParser creates a new content stream parser for the given data.
// The data must already be filter-decoded.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse parses data and returns all operations in order.
func Parse(data []byte) ([]Operation, error) {
	return NewParser(data).Parse()
}

// Parse parses the rest of the content stream and returns all operations in
// order. On a syntax error no operations are returned.
func (p *Parser) Parse() ([]Operation, error) {
	ops := make([]Operation, 0)
	for {
		op, err := p.Next()
		if err == io.EOF {
			return ops, nil
		}
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
}

// Next returns the next operation in the stream. It returns io.EOF when
// the stream is exhausted, and a *SyntaxError if the stream is malformed.
// Errors are sticky: once Next fails, every later call returns the same
// error.
//
// Operands that are not followed by an operator before the end of the
// input, including an operand cut off in the middle, are dropped.
func (p *Parser) Next() (Operation, error) {
	if p.err != nil {
		return Operation{}, p.err
	}

	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return p.finish()
		}

		if isRegular(p.data[p.pos]) {
			word := p.readWord()
			if operand, ok := wordOperand(word); ok {
				p.operands = append(p.operands, operand)
				continue
			}
			return p.emit(string(word)), nil
		}

		operand, err := p.parseDelimited(0)
		if err == errTruncated {
			p.pos = len(p.data)
			return p.finish()
		}
		if err != nil {
			p.operands = nil
			p.err = err
			return Operation{}, err
		}
		p.operands = append(p.operands, operand)
	}
}

// finish ends parsing, dropping any pending operands.
func (p *Parser) finish() (Operation, error) {
	p.operands = nil
	p.err = io.EOF
	return Operation{}, io.EOF
}

// emit turns the operand stack into an operation for operator and clears
// the stack.
func (p *Parser) emit(operator string) Operation {
	op := Operation{
		Operator: operator,
		Operands: p.operands,
	}
	p.operands = nil

	if operator == "ID" {
		p.skipInlineImageData()
	}
	return op
}

// skipInlineImageData moves past the binary data that follows an ID
// operator and stops at the EI keyword that ends it.
func (p *Parser) skipInlineImageData() {
	// A single white-space byte separates ID from the image data.
	if p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}

	for i := p.pos; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		if !isWhitespace(p.data[i-1]) {
			continue
		}
		if i+2 < len(p.data) && isRegular(p.data[i+2]) {
			continue
		}
		p.pos = i
		return
	}
	p.pos = len(p.data)
}

// parseDelimited parses an operand that starts with a delimiter character.
func (p *Parser) parseDelimited(depth int) (Operand, error) {
	switch c := p.data[p.pos]; c {
	case '(':
		return p.parseString()
	case '<':
		if p.pos+1 >= len(p.data) {
			return nil, errTruncated
		}
		if p.data[p.pos+1] == '<' {
			return p.parseDict(depth)
		}
		return p.parseHexString()
	case '[':
		return p.parseArray(depth)
	case '/':
		return p.parseName(), nil
	default:
		return nil, p.syntaxErrorf("unexpected %q", c)
	}
}

// parseValue parses an operand nested inside an array or a dictionary,
// where bare words are values rather than operators.
func (p *Parser) parseValue(depth int) (Operand, error) {
	if isRegular(p.data[p.pos]) {
		word := p.readWord()
		if operand, ok := wordOperand(word); ok {
			return operand, nil
		}
		return Keyword(word), nil
	}
	return p.parseDelimited(depth)
}

// readWord reads a run of regular characters.
func (p *Parser) readWord() []byte {
	start := p.pos
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		p.pos++
	}
	return p.data[start:p.pos]
}

// wordOperand converts a bare word to a number, boolean or null operand.
// It reports false if the word is an operator.
func wordOperand(word []byte) (Operand, bool) {
	switch string(word) {
	case "true":
		return Bool(true), true
	case "false":
		return Bool(false), true
	case "null":
		return Null{}, true
	}
	return parseNumber(word)
}

// parseNumber parses an integer or real number. A word is a number if it
// is an optional sign followed by digits with at most one decimal point.
func parseNumber(word []byte) (Operand, bool) {
	i := 0
	if i < len(word) && (word[i] == '+' || word[i] == '-') {
		i++
	}

	digits, hasDecimal := 0, false
	for ; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !hasDecimal:
			hasDecimal = true
		default:
			return nil, false
		}
	}
	if digits == 0 {
		return nil, false
	}

	numStr := string(word)
	if !hasDecimal {
		if val, err := strconv.ParseInt(numStr, 10, 64); err == nil {
			return Int(val), true
		}
	}

	// The syntax has been checked, so the only possible error is a range
	// error, for which ParseFloat returns ±Inf.
	val, _ := strconv.ParseFloat(numStr, 64)
	return Real(val), true
}

// parseString parses a literal string (...) with escape sequence handling.
func (p *Parser) parseString() (Operand, error) {
	p.pos++ // skip '('

	result := []byte{}
	depth := 1 // parenthesis nesting

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		switch c {
		case '\\':
			if p.pos >= len(p.data) {
				return nil, errTruncated
			}
			result = p.parseEscape(result)
		case '(':
			depth++
			result = append(result, c)
		case ')':
			depth--
			if depth == 0 {
				return String(result), nil
			}
			result = append(result, c)
		case '\r':
			// An unescaped end-of-line marker reads as a single newline.
			if p.pos < len(p.data) && p.data[p.pos] == '\n' {
				p.pos++
			}
			result = append(result, '\n')
		default:
			result = append(result, c)
		}
	}

	return nil, errTruncated
}

// parseEscape handles the character after a backslash in a literal string.
func (p *Parser) parseEscape(result []byte) []byte {
	next := p.data[p.pos]
	p.pos++

	switch next {
	case 'n':
		return append(result, '\n')
	case 'r':
		return append(result, '\r')
	case 't':
		return append(result, '\t')
	case 'b':
		return append(result, '\b')
	case 'f':
		return append(result, '\f')
	case '\r':
		// Line continuation
		if p.pos < len(p.data) && p.data[p.pos] == '\n' {
			p.pos++
		}
		return result
	case '\n':
		// Line continuation
		return result
	case '0', '1', '2', '3', '4', '5', '6', '7':
		// \ddd with one to three octal digits; high-order overflow is ignored
		octalVal := int(next - '0')
		for i := 0; i < 2 && p.pos < len(p.data); i++ {
			digit := p.data[p.pos]
			if digit < '0' || digit > '7' {
				break
			}
			octalVal = octalVal*8 + int(digit-'0')
			p.pos++
		}
		return append(result, byte(octalVal))
	default:
		// Covers \( \) \\ and unknown escapes, where the backslash is ignored.
		return append(result, next)
	}
}

// parseHexString parses a hexadecimal string <...>.
func (p *Parser) parseHexString() (Operand, error) {
	p.pos++ // skip '<'

	result := []byte{}
	var high byte
	odd := false

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		switch {
		case c == '>':
			if odd {
				// Odd number of digits: the last one is followed by an implied 0.
				result = append(result, high<<4)
			}
			return String(result), nil
		case isWhitespace(c):
		case isHexDigit(c):
			if odd {
				result = append(result, high<<4|hexValue(c))
			} else {
				high = hexValue(c)
			}
			odd = !odd
		default:
			return nil, &SyntaxError{Offset: p.pos - 1, Msg: fmt.Sprintf("invalid hex digit %q", c)}
		}
	}

	return nil, errTruncated
}

// parseName parses a name object /Name with # escape handling.
func (p *Parser) parseName() Name {
	p.pos++ // skip '/'

	var result []byte
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if !isRegular(c) {
			break
		}

		if c == '#' && p.pos+2 < len(p.data) &&
			isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			result = append(result, hexValue(p.data[p.pos+1])<<4|hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}

		result = append(result, c)
		p.pos++
	}

	return Name(result)
}

// parseArray parses an array [...] of operands.
func (p *Parser) parseArray(depth int) (Operand, error) {
	if depth >= MaxNestingDepth {
		return nil, p.syntaxErrorf("arrays and dictionaries nested deeper than %d", MaxNestingDepth)
	}
	p.pos++ // skip '['

	arr := Array{}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, errTruncated
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}

		obj, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// parseDict parses a dictionary <<...>>. Dictionaries appear as operands of
// marked-content operators and inside inline images.
func (p *Parser) parseDict(depth int) (Operand, error) {
	if depth >= MaxNestingDepth {
		return nil, p.syntaxErrorf("arrays and dictionaries nested deeper than %d", MaxNestingDepth)
	}
	p.pos += 2 // skip '<<'

	dict := Dict{}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, errTruncated
		}
		if p.atDictEnd() {
			p.pos += 2
			return dict, nil
		}

		if p.data[p.pos] != '/' {
			return nil, p.syntaxErrorf("dictionary key must be a name")
		}
		key := p.parseName()

		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, errTruncated
		}
		if p.atDictEnd() {
			return nil, p.syntaxErrorf("dictionary key %s has no value", key)
		}

		value, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		dict[key] = value
	}
}

// atDictEnd reports whether the input continues with ">>".
func (p *Parser) atDictEnd() bool {
	return p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>'
}

// skipWhitespace advances past PDF whitespace characters and comments.
func (p *Parser) skipWhitespace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		if !isWhitespace(c) {
			return
		}
		p.pos++
	}
}

func (p *Parser) syntaxErrorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// Helper functions

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

// isRegular reports whether c can be part of a bare word.
func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}

// isHexDigit reports whether c is a hexadecimal digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
