package ecbox

import (
	"fmt"

	"github.com/templexxx/xhex"
)

// BytesToHex returns the lowercase hex encoding of b.
func BytesToHex(b []byte) string {
	dst := make([]byte, len(b)*2)
	xhex.Encode(dst, b)
	return string(dst)
}

// HexToBytes decodes a lowercase hex string, the form BytesToHex produces.
// Odd length, uppercase or any other non-hex digit yields ErrMalformedInput,
// so each byte string has exactly one accepted encoding.
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length hex string", ErrMalformedInput)
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return nil, fmt.Errorf("%w: invalid hex digit %q at %d", ErrMalformedInput, c, i)
		}
	}
	dst := make([]byte, len(s)/2)
	if len(s) == 0 {
		return dst, nil
	}
	if err := xhex.Decode(dst, []byte(s)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return dst, nil
}
