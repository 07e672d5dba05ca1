package contentstream

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Operand is a value that appears as an argument to a content stream
// operator. The set of implementations is closed: Null, Bool, Int, Real,
// String, Name, Array, Dict and Keyword.
type Operand interface {
	Kind() Kind
	String() string

	isOperand()
}

// Kind identifies the concrete type of an Operand.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindReal
	KindString
	KindName
	KindArray
	KindDict
	KindKeyword
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindReal:
		return "Real"
	case KindString:
		return "String"
	case KindName:
		return "Name"
	case KindArray:
		return "Array"
	case KindDict:
		return "Dict"
	case KindKeyword:
		return "Keyword"
	default:
		return "Unknown"
	}
}

// Null is the PDF null object.
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }
func (Null) isOperand()     {}

// Bool is a PDF boolean.
type Bool bool

func (b Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) isOperand() {}

// Int is a PDF integer.
type Int int64

func (i Int) Kind() Kind     { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) isOperand()       {}

// Real is a PDF real number.
type Real float64

func (r Real) Kind() Kind     { return KindReal }
func (r Real) String() string { return strconv.FormatFloat(float64(r), 'f', -1, 64) }
func (Real) isOperand()       {}

// String holds the raw bytes of a literal or hexadecimal PDF string, after
// escape processing. The bytes are not decoded; their text encoding is only
// known to the consumer.
type String []byte

func (s String) Kind() Kind { return KindString }

// String returns the bytes in PDF hexadecimal string syntax, so that the
// result is printable whatever the string contains.
func (s String) String() string { return fmt.Sprintf("<%X>", []byte(s)) }
func (String) isOperand()       {}

// Name is a PDF name, stored without the leading slash.
type Name string

func (n Name) Kind() Kind     { return KindName }
func (n Name) String() string { return "/" + string(n) }
func (Name) isOperand()       {}

// Array is an ordered sequence of operands. For TJ the order is the order
// of the glyph run.
type Array []Operand

func (a Array) Kind() Kind { return KindArray }
func (a Array) String() string {
	parts := make([]string, len(a))
	for i, obj := range a {
		parts[i] = obj.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
func (Array) isOperand() {}

// Dict is a PDF dictionary, as used by marked-content and inline image
// operators.
type Dict map[Name]Operand

func (d Dict) Kind() Kind { return KindDict }

// String formats the dictionary with its keys sorted.
func (d Dict) String() string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("/%s %s", key, d[Name(key)].String())
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}
func (Dict) isOperand() {}

// Keyword is a bare word found inside an array or dictionary. Outside of
// those, bare words are operators and never become operands.
type Keyword string

func (k Keyword) Kind() Kind     { return KindKeyword }
func (k Keyword) String() string { return string(k) }
func (Keyword) isOperand()       {}

// Operation is a single content stream operation: an operator and the
// operands that preceded it, in stream order.
type Operation struct {
	Operator string    // e.g. "Tj", "Tm", "q"
	Operands []Operand // in stream order
}

// String formats the operation the way it appears in a content stream.
func (op Operation) String() string {
	var sb strings.Builder
	for _, o := range op.Operands {
		sb.WriteString(o.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(op.Operator)
	return sb.String()
}
