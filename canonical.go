package ecbox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Canonicalize returns the JSON serialization of v.
//
// Map keys are sorted and struct fields keep their declaration order. HTML
// characters are not escaped and there is no trailing newline, so strings,
// numbers and plain objects serialize the same way JSON.stringify would.
// Channels, functions, NaN/Inf, pointer cycles and strings that are not valid
// UTF-8 yield ErrSerialization. Invalid bytes are never coerced to U+FFFD.
func Canonicalize(v any) (string, error) {
	b, err := canonicalBytes(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func canonicalBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	if !utf8.Valid(out) || hasReplacementEscape(out) {
		return nil, fmt.Errorf("%w: invalid UTF-8 in string", ErrSerialization)
	}
	return out, nil
}

// replacementEscape is what encoding/json writes in place of invalid UTF-8.
// A genuine U+FFFD rune is written as raw bytes instead.
var replacementEscape = []byte(`\ufffd`)

// hasReplacementEscape reports whether b contains a \ufffd escape that is not
// itself part of an escaped backslash.
func hasReplacementEscape(b []byte) bool {
	for i := 0; i < len(b); {
		j := bytes.Index(b[i:], replacementEscape)
		if j < 0 {
			return false
		}
		j += i
		n := 0
		for k := j - 1; k >= 0 && b[k] == '\\'; k-- {
			n++
		}
		if n%2 == 0 {
			return true
		}
		i = j + 1
	}
	return false
}

// parseCanonical is the reverse of canonicalBytes.
func parseCanonical(b []byte, out any) error {
	if !utf8.Valid(b) {
		return fmt.Errorf("%w: invalid UTF-8", ErrDeserialization)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return nil
}
