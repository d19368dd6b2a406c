package ecbox

import "encoding/base64"

// padWithZeros left-pads b with zero bytes up to length n.
func padWithZeros(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	padded := make([]byte, n)
	copy(padded[n-len(b):], b)
	return padded
}

// JWE uses Base64url encoding, which is Base64 encoding without padding.
func base64urlEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func base64urlDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
