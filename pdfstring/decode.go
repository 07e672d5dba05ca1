package pdfstring

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// DecodeRule identifies the rule Decode uses for a byte run.
type DecodeRule int

const (
	RuleUTF8        DecodeRule = iota // valid UTF-8
	RuleUTF16BE                       // FE FF byte-order mark
	RuleDocEncoding                   // byte-wise fallback
)

// String returns the name of the rule.
func (r DecodeRule) String() string {
	switch r {
	case RuleUTF8:
		return "UTF-8"
	case RuleUTF16BE:
		return "UTF-16BE"
	case RuleDocEncoding:
		return "PDFDocEncoding"
	default:
		return "Unknown"
	}
}

// docEncodingHigh maps bytes 0x80-0x9F. Entries left at zero have no
// mapping and decode to U+FFFD.
var docEncodingHigh = [32]rune{
	0x91 - 0x80: '\'',
	0x92 - 0x80: '\'',
	0x93 - 0x80: '“', // left double quotation mark
	0x94 - 0x80: '”', // right double quotation mark
	0x96 - 0x80: '–', // en dash
	0x97 - 0x80: '—', // em dash
	0x99 - 0x80: '™', // trade mark sign
}

// Rule reports which decoding rule applies to b.
func Rule(b []byte) DecodeRule {
	if utf8.Valid(b) {
		return RuleUTF8
	}
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		return RuleUTF16BE
	}
	return RuleDocEncoding
}

// Decode converts the raw bytes of a PDF string into text.
func Decode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	DecodeTo(&sb, b)
	return sb.String()
}

// DecodeTo decodes b like Decode and appends the result to sb.
func DecodeTo(sb *strings.Builder, b []byte) {
	switch Rule(b) {
	case RuleUTF8:
		sb.Write(b)
	case RuleUTF16BE:
		decodeUTF16BE(sb, b[2:])
	default:
		decodeDocEncoding(sb, b)
	}
}

// decodeUTF16BE writes one character per 16-bit unit. Surrogate halves are
// not combined into pairs and are dropped; an odd trailing byte is ignored.
func decodeUTF16BE(sb *strings.Builder, b []byte) {
	for i := 0; i+1 < len(b); i += 2 {
		r := rune(b[i])<<8 | rune(b[i+1])
		if utf16.IsSurrogate(r) {
			continue
		}
		sb.WriteRune(r)
	}
}

// decodeDocEncoding writes exactly one character per byte.
func decodeDocEncoding(sb *strings.Builder, b []byte) {
	for _, c := range b {
		switch {
		case c >= 0x80 && c <= 0x9F:
			r := docEncodingHigh[c-0x80]
			if r == 0 {
				r = utf8.RuneError
			}
			sb.WriteRune(r)
		default:
			// Every byte value outside 0x80-0x9F is a valid scalar value.
			sb.WriteRune(rune(c))
		}
	}
}
