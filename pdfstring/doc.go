// Package pdfstring decodes the raw bytes of PDF string operands into text.
//
// PDF strings carry no encoding tag, so [Decode] applies a fixed fallback
// chain and the first rule that applies wins:
//
//  1. the whole run is valid UTF-8: it is used as is
//  2. the run starts with the byte-order mark FE FF: the rest is read as
//     big-endian 16-bit code units, one character per unit
//  3. otherwise every byte becomes one character, using a small
//     PDFDocEncoding approximation for 0x80-0x9F and the byte's own value
//     for everything else
//
// Decoding never fails. Bytes and code units that have no character are
// replaced with U+FFFD or dropped.
//
//	s := pdfstring.Decode([]byte{0xFE, 0xFF, 0x00, 0x41, 0x00, 0x42}) // "AB"
package pdfstring
