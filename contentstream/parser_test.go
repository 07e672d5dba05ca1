package contentstream

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestParseSimpleOperator tests parsing a simple operator with no operands
func TestParseSimpleOperator(t *testing.T) {
	input := []byte("q")
	parser := NewParser(input)

	ops, err := parser.Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}

	if ops[0].Operator != "q" {
		t.Errorf("expected operator 'q', got %q", ops[0].Operator)
	}

	if len(ops[0].Operands) != 0 {
		t.Errorf("expected 0 operands, got %d", len(ops[0].Operands))
	}
}

// TestParseOperatorWithInteger tests an operator with integer operand
func TestParseOperatorWithInteger(t *testing.T) {
	ops, err := Parse([]byte("100 Tz"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}

	val, ok := ops[0].Operands[0].(Int)
	if !ok {
		t.Fatalf("expected Int operand, got %T", ops[0].Operands[0])
	}
	if val != 100 {
		t.Errorf("expected value 100, got %d", val)
	}
}

// TestParseOperatorWithReal tests an operator with real number operand
func TestParseOperatorWithReal(t *testing.T) {
	ops, err := Parse([]byte("1.5 w"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	val, ok := ops[0].Operands[0].(Real)
	if !ok {
		t.Fatalf("expected Real operand, got %T", ops[0].Operands[0])
	}
	if val != 1.5 {
		t.Errorf("expected value 1.5, got %f", val)
	}
}

// TestParseOperatorWithString tests an operator with string operand
func TestParseOperatorWithString(t *testing.T) {
	ops, err := Parse([]byte("(Hello World) Tj"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ops[0].Operator != "Tj" {
		t.Errorf("expected operator 'Tj', got %q", ops[0].Operator)
	}

	val, ok := ops[0].Operands[0].(String)
	if !ok {
		t.Fatalf("expected String operand, got %T", ops[0].Operands[0])
	}
	if string(val) != "Hello World" {
		t.Errorf("expected 'Hello World', got %q", val)
	}
}

// TestParseOperatorWithName tests an operator with name operand
func TestParseOperatorWithName(t *testing.T) {
	ops, err := Parse([]byte("/F1 12 Tf"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []Operation{{Operator: "Tf", Operands: []Operand{Name("F1"), Int(12)}}}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
}

// TestParseRealWorld tests a more realistic content stream
func TestParseRealWorld(t *testing.T) {
	input := []byte(`BT
/F1 12 Tf
1 0 0 1 72 720 Tm
0 Tc
0 Tw
(The quick brown fox) Tj
0 -14 Td
(jumps over the lazy dog.) Tj
ET`)

	ops, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expectedOps := []string{"BT", "Tf", "Tm", "Tc", "Tw", "Tj", "Td", "Tj", "ET"}
	if len(ops) != len(expectedOps) {
		t.Fatalf("expected %d operations, got %d", len(expectedOps), len(ops))
	}
	for i, expected := range expectedOps {
		if ops[i].Operator != expected {
			t.Errorf("operation %d: expected %q, got %q", i, expected, ops[i].Operator)
		}
	}
}

// TestParseTextShowingOperators tests the quote operators and TJ arrays,
// which start with characters other than letters.
func TestParseTextShowingOperators(t *testing.T) {
	input := []byte(`(a) ' 1 2 (b) " [(He) -250 (llo)] TJ T*`)

	ops, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []Operation{
		{Operator: "'", Operands: []Operand{String("a")}},
		{Operator: `"`, Operands: []Operand{Int(1), Int(2), String("b")}},
		{Operator: "TJ", Operands: []Operand{Array{String("He"), Int(-250), String("llo")}}},
		{Operator: "T*"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
}

// TestParseStringWithOctalEscape tests string with octal escape sequences
func TestParseStringWithOctalEscape(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple string", "(ABC) Tj", "ABC"},
		{"single digit octal", "(\\0) Tj", "\x00"},
		{"two digit octal", "(\\77) Tj", "?"},
		{"three digit octal for accented e", "(R\\351gulier) Tj", "R\xe9gulier"},
		{"three digit octal for registered trademark", "(TYLENOL\\256) Tj", "TYLENOL\xae"},
		{"octal overflow wraps", "(\\777) Tj", "\xff"},
		{"octal followed by digit", "(\\0538) Tj", "+8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			str, ok := ops[0].Operands[0].(String)
			if !ok {
				t.Fatalf("expected String, got %T", ops[0].Operands[0])
			}
			if string(str) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, str)
			}
		})
	}
}

// TestParseStringWithBackslashEscapes tests various escape sequences
func TestParseStringWithBackslashEscapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"backslash-n", `(\n)`, "\n"},
		{"backslash-r", `(\r)`, "\r"},
		{"backslash-t", `(\t)`, "\t"},
		{"backslash-b", `(\b)`, "\b"},
		{"backslash-f", `(\f)`, "\f"},
		{"backslash-paren-open", `(\()`, "("},
		{"backslash-paren-close", `(\))`, ")"},
		{"backslash-backslash", `(\\)`, "\\"},
		{"unknown escape", `(\q)`, "q"},
		{"line continuation LF", "(Hello\\\nWorld)", "HelloWorld"},
		{"line continuation CRLF", "(Hello\\\r\nWorld)", "HelloWorld"},
		{"bare CRLF", "(a\r\nb)", "a\nb"},
		{"bare CR", "(a\rb)", "a\nb"},
		{"nested parentheses", "(a (b) c)", "a (b) c"},
		{"empty", "()", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Parse([]byte(tt.input + " Tj"))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			str, ok := ops[0].Operands[0].(String)
			if !ok {
				t.Fatalf("expected String, got %T", ops[0].Operands[0])
			}
			if string(str) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, str)
			}
		})
	}
}

// TestParseHexString tests hexadecimal strings
func TestParseHexString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []byte
	}{
		{"uppercase", "<48656C6C6F>", []byte("Hello")},
		{"lowercase", "<48656c6c6f>", []byte("Hello")},
		{"embedded whitespace", "<48 65 6C\n6C 6F>", []byte("Hello")},
		{"odd length", "<414>", []byte{0x41, 0x40}},
		{"empty", "<>", []byte{}},
		{"utf-16 with bom", "<FEFF00410042>", []byte{0xFE, 0xFF, 0x00, 0x41, 0x00, 0x42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Parse([]byte(tt.input + " Tj"))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			str, ok := ops[0].Operands[0].(String)
			if !ok {
				t.Fatalf("expected String, got %T", ops[0].Operands[0])
			}
			if diff := cmp.Diff(tt.expected, []byte(str)); diff != "" {
				t.Errorf("bytes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestParseNumbers tests the accepted number forms
func TestParseNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected Operand
	}{
		{".5", Real(0.5)},
		{"-.5", Real(-0.5)},
		{"12.", Real(12)},
		{"+3", Int(3)},
		{"-250", Int(-250)},
		{"0", Int(0)},
		{"99999999999999999999", Real(1e20)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ops, err := Parse([]byte(tt.input + " w"))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(ops) != 1 || len(ops[0].Operands) != 1 {
				t.Fatalf("expected one operation with one operand, got %v", ops)
			}
			if ops[0].Operands[0] != tt.expected {
				t.Errorf("expected %v (%T), got %v (%T)",
					tt.expected, tt.expected, ops[0].Operands[0], ops[0].Operands[0])
			}
		})
	}
}

// TestParseBoolAndNull tests the keyword operands
func TestParseBoolAndNull(t *testing.T) {
	ops, err := Parse([]byte("true false null 3 op"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []Operation{{
		Operator: "op",
		Operands: []Operand{Bool(true), Bool(false), Null{}, Int(3)},
	}}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
}

// TestParseNameWithSpecialChars tests names with # escapes
func TestParseNameWithSpecialChars(t *testing.T) {
	tests := []struct {
		input    string
		expected Name
	}{
		{"/Name#20With#20Spaces", "Name With Spaces"},
		{"/A#2", "A#2"},
		{"/A#zz", "A#zz"},
		{"/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ops, err := Parse([]byte(tt.input + " cs"))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			name, ok := ops[0].Operands[0].(Name)
			if !ok {
				t.Fatalf("expected Name, got %T", ops[0].Operands[0])
			}
			if name != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, name)
			}
		})
	}
}

// TestParseDict tests dictionary parsing in content streams
func TestParseDict(t *testing.T) {
	input := []byte("/Span <</ActualText (x) /MCID 3 /Nested <</A [1 2]>>>> BDC EMC")

	ops, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []Operation{
		{Operator: "BDC", Operands: []Operand{
			Name("Span"),
			Dict{
				"ActualText": String("x"),
				"MCID":       Int(3),
				"Nested":     Dict{"A": Array{Int(1), Int(2)}},
			},
		}},
		{Operator: "EMC"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
}

// TestParseArrayNested tests nested array parsing
func TestParseArrayNested(t *testing.T) {
	ops, err := Parse([]byte("[[1 2] [3 4] []] Do"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := Array{Array{Int(1), Int(2)}, Array{Int(3), Int(4)}, Array{}}
	if diff := cmp.Diff(Operand(want), ops[0].Operands[0]); diff != "" {
		t.Errorf("array mismatch (-want +got):\n%s", diff)
	}
}

// TestParseArrayKeywords tests bare words inside arrays
func TestParseArrayKeywords(t *testing.T) {
	ops, err := Parse([]byte("[/DeviceRGB foo true] cs"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := Array{Name("DeviceRGB"), Keyword("foo"), Bool(true)}
	if diff := cmp.Diff(Operand(want), ops[0].Operands[0]); diff != "" {
		t.Errorf("array mismatch (-want +got):\n%s", diff)
	}
}

// TestParseWithComments tests parsing with PDF comments
func TestParseWithComments(t *testing.T) {
	input := []byte("BT % comment (not a string\n/F1 12 Tf\r(Hello) Tj %trailing\nET %")

	ops, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expectedOps := []string{"BT", "Tf", "Tj", "ET"}
	if len(ops) != len(expectedOps) {
		t.Fatalf("expected %d operations, got %d", len(expectedOps), len(ops))
	}
	for i, expected := range expectedOps {
		if ops[i].Operator != expected {
			t.Errorf("operation %d: expected %q, got %q", i, expected, ops[i].Operator)
		}
	}
	if s, ok := ops[2].Operands[0].(String); !ok || string(s) != "Hello" {
		t.Errorf("expected Tj operand 'Hello', got %v", ops[2].Operands[0])
	}
}

// TestParseInlineImage tests that inline image data is skipped
func TestParseInlineImage(t *testing.T) {
	input := []byte("q BI /W 2 /H 1 /BPC 8 /CS /G ID \x00)(\xffEIx\nEI Q")

	ops, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []Operation{
		{Operator: "q"},
		{Operator: "BI"},
		{Operator: "ID", Operands: []Operand{
			Name("W"), Int(2), Name("H"), Int(1), Name("BPC"), Int(8), Name("CS"), Name("G"),
		}},
		{Operator: "EI"},
		{Operator: "Q"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
}

// TestParseInlineImageUnterminated tests image data running to the end
func TestParseInlineImageUnterminated(t *testing.T) {
	ops, err := Parse([]byte("BI /W 1 ID \x01\x02 (x) Tj"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(ops) != 2 || ops[0].Operator != "BI" || ops[1].Operator != "ID" {
		t.Errorf("expected BI ID, got %v", ops)
	}
}

// TestParseTruncated tests that cut-off trailing operands are dropped
func TestParseTruncated(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"operands without operator", "(Hello) Tj 1 0 0", []string{"Tj"}},
		{"unterminated string", "(Hello) Tj (World", []string{"Tj"}},
		{"unterminated escape", "BT (abc\\", []string{"BT"}},
		{"unterminated array", "BT [(a) (b)", []string{"BT"}},
		{"unterminated dict", "BT <</A 1", []string{"BT"}},
		{"dict key at end", "BT <</A", []string{"BT"}},
		{"unterminated hex string", "BT <4142", []string{"BT"}},
		{"lone angle bracket", "q <", []string{"q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			var got []string
			for _, op := range ops {
				got = append(got, op.Operator)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("operators mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestParseSyntaxErrors tests input that cannot be tokenized
func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"unmatched close paren", "(a) Tj ) Tj", 7},
		{"close paren in array", "[1 2)] TJ", 4},
		{"unmatched bracket", "] TJ", 0},
		{"unmatched angle", "> Tj", 0},
		{"brace", "{ }", 0},
		{"invalid hex digit", "<4G> Tj", 2},
		{"non-name dict key", "<< 1 2 >> BDC", 3},
		{"key without value", "<</A>> BDC", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatalf("expected error, got operations %v", ops)
			}
			if ops != nil {
				t.Errorf("expected no operations on error, got %v", ops)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("expected ErrSyntax, got %v", err)
			}

			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if syntaxErr.Offset != tt.offset {
				t.Errorf("expected offset %d, got %d (%v)", tt.offset, syntaxErr.Offset, err)
			}
		})
	}
}

// TestParseNestingLimit tests that absurdly deep nesting is rejected
func TestParseNestingLimit(t *testing.T) {
	input := strings.Repeat("[", 100) + strings.Repeat("]", 100) + " TJ"

	_, err := Parse([]byte(input))
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}

	input = strings.Repeat("[", 10) + strings.Repeat("]", 10) + " TJ"
	if _, err := Parse([]byte(input)); err != nil {
		t.Fatalf("unexpected error for shallow nesting: %v", err)
	}
}

// TestParseEmptyInput tests empty and whitespace-only input
func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t\r  ", "% only a comment"} {
		ops, err := Parse([]byte(input))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		if len(ops) != 0 {
			t.Errorf("Parse(%q): expected 0 operations, got %d", input, len(ops))
		}
	}
}

// TestNext tests reading operations one at a time
func TestNext(t *testing.T) {
	parser := NewParser([]byte("BT (Hi) Tj ET"))

	var got []string
	for {
		op, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		got = append(got, op.Operator)
	}

	if diff := cmp.Diff([]string{"BT", "Tj", "ET"}, got); diff != "" {
		t.Errorf("operators mismatch (-want +got):\n%s", diff)
	}

	// EOF is sticky
	if _, err := parser.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after end, got %v", err)
	}
}

// TestNextErrorIsSticky tests that a syntax error is returned repeatedly
func TestNextErrorIsSticky(t *testing.T) {
	parser := NewParser([]byte("q ) Q"))

	op, err := parser.Next()
	if err != nil || op.Operator != "q" {
		t.Fatalf("expected q, got %v, %v", op, err)
	}

	_, err1 := parser.Next()
	_, err2 := parser.Next()
	if !errors.Is(err1, ErrSyntax) || err1 != err2 {
		t.Errorf("expected the same syntax error twice, got %v and %v", err1, err2)
	}
}

// TestParsersAreIndependent tests concurrent parsers do not share operands
func TestParsersAreIndependent(t *testing.T) {
	input := []byte("/F1 12 Tf 1 0 0 1 72 720 Tm [(He) -250 (llo)] TJ")
	want, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([][]Operation, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Parse(input)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("parser %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

// TestOperandString tests the debug formatting of operands
func TestOperandString(t *testing.T) {
	tests := []struct {
		operand  Operand
		expected string
	}{
		{Array{Int(1), Real(2.5), Name("F1"), String("A"), Bool(true), Null{}, Keyword("x")},
			"[1 2.5 /F1 <41> true null x]"},
		{Dict{"B": Int(2), "A": Int(1)}, "<</A 1 /B 2>>"},
		{Bool(false), "false"},
	}

	for _, tt := range tests {
		if got := tt.operand.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}

	op := Operation{Operator: "Tj", Operands: []Operand{String("Hi")}}
	if got := op.String(); got != "<4869> Tj" {
		t.Errorf("expected %q, got %q", "<4869> Tj", got)
	}
}

// TestKindString tests kind names
func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindNull:    "Null",
		KindString:  "String",
		KindArray:   "Array",
		KindKeyword: "Keyword",
		Kind(99):    "Unknown",
	}
	for kind, expected := range tests {
		if kind.String() != expected {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), kind.String(), expected)
		}
	}

	if (String("x")).Kind() != KindString || (Array{}).Kind() != KindArray {
		t.Error("unexpected Kind for String or Array")
	}
}

// TestHexValue tests hex digit conversion
func TestHexValue(t *testing.T) {
	tests := []struct {
		input    byte
		expected byte
	}{
		{'0', 0}, {'9', 9}, {'a', 10}, {'f', 15}, {'A', 10}, {'F', 15}, {'g', 0},
	}

	for _, tt := range tests {
		if got := hexValue(tt.input); got != tt.expected {
			t.Errorf("hexValue(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

// TestCharacterClasses tests the lexical character classes
func TestCharacterClasses(t *testing.T) {
	for _, c := range []byte("()<>[]{}/%") {
		if !isDelimiter(c) || isRegular(c) {
			t.Errorf("%q should be a delimiter", c)
		}
	}
	for _, c := range []byte{' ', '\t', '\r', '\n', '\f', 0} {
		if !isWhitespace(c) || isRegular(c) {
			t.Errorf("%q should be whitespace", c)
		}
	}
	for _, c := range []byte("aZ09'\"*.-+#") {
		if !isRegular(c) {
			t.Errorf("%q should be regular", c)
		}
	}
}

func FuzzParse(f *testing.F) {
	f.Add([]byte("BT /F1 12 Tf (Hello) Tj [(a) -3 (b)] TJ ET"))
	f.Add([]byte("BI /W 1 ID \x00 EI"))
	f.Add([]byte("<</A [1 (x) <41>]>> BDC"))
	f.Add([]byte("(unterminated"))

	f.Fuzz(func(t *testing.T, data []byte) {
		ops, err := Parse(data)
		if err != nil {
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}
		for _, op := range ops {
			if op.Operator == "" {
				t.Fatalf("empty operator in %v", ops)
			}
		}
	})
}
