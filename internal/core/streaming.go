package core

// streaming.go provides the text transforms applied to a price file before parsing:
//
//   - DelimiterReader: rewrites bare commas to semicolons while leaving quoted spans intact
//   - cleanSource: drops a UTF-8 BOM and replaces invalid UTF-8 with '?'
//
// The transforms never touch the source file; they run on the read path only.

import (
	"bytes"
	"io"
	"strings"
)

const (
	// FieldDelimiter is the delimiter every price file uses after normalization.
	FieldDelimiter = ';'

	quoteChar  = '"'
	strayComma = ','
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// delimiterState tracks whether the scan position is inside a quoted span.
// A quote opens a span only at the start of a field, optionally after blanks;
// a quote in the middle of an unquoted field is plain text. Inside a span a
// doubled quote is an escaped quote. Commas and quotes are single bytes in
// UTF-8, so the rewrite can be done in place without decoding runes.
type delimiterState struct {
	inQuotes bool
	closing  bool // a quote was seen inside a span; the next byte decides
	midField bool // the current field already holds non-blank text
}

// apply rewrites bare commas in p and returns the number of commas replaced.
func (s *delimiterState) apply(p []byte) int {
	replaced := 0
	for i, b := range p {
		if s.closing {
			s.closing = false
			if b == quoteChar {
				continue
			}
			s.inQuotes = false
		}

		switch {
		case s.inQuotes:
			if b == quoteChar {
				s.closing = true
			}
		case b == quoteChar && !s.midField:
			s.inQuotes = true
			s.midField = true
		case b == strayComma:
			p[i] = FieldDelimiter
			replaced++
			s.midField = false
		case b == FieldDelimiter || b == '\n' || b == '\r':
			s.midField = false
		case b == ' ' || b == '\t':
		default:
			s.midField = true
		}
	}
	return replaced
}

// DelimiterReader wraps an io.Reader and replaces every comma that is not
// inside a quoted field with a semicolon. Quote state is carried
// across Read calls, so spans split between buffers are handled correctly.
type DelimiterReader struct {
	reader   io.Reader
	state    delimiterState
	Replaced int // Number of commas rewritten so far
}

// NewDelimiterReader creates a new delimiter-normalizing reader.
func NewDelimiterReader(r io.Reader) *DelimiterReader {
	return &DelimiterReader{reader: r}
}

// Read implements io.Reader.
func (r *DelimiterReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.Replaced += r.state.apply(p[:n])
	}
	return n, err
}

// NormalizeDelimiters returns content with every bare comma replaced by a
// semicolon. Commas inside double-quoted spans are preserved verbatim.
// Applying it to already-normalized content returns identical content.
func NormalizeDelimiters(content string) string {
	if !strings.ContainsRune(content, strayComma) {
		return content
	}
	buf := []byte(content)
	var state delimiterState
	state.apply(buf)
	return string(buf)
}

// cleanSource strips a leading UTF-8 BOM and replaces invalid UTF-8 sequences
// with '?'. It reports whether any bytes were replaced.
func cleanSource(data []byte) ([]byte, bool) {
	data = bytes.TrimPrefix(data, utf8BOM)
	cleaned := bytes.ToValidUTF8(data, []byte("?"))
	return cleaned, !bytes.Equal(cleaned, data)
}
