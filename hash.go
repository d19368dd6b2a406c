package ecbox

import (
	"crypto/sha256"
)

// Digest returns SHA-256 over the canonical JSON serialization of v.
func Digest(v any) ([]byte, error) {
	b, err := canonicalBytes(v)
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(b)
	return h[:], nil
}

// DigestHex is Digest encoded as hex.
func DigestHex(v any) (string, error) {
	d, err := Digest(v)
	if err != nil {
		return "", err
	}
	return BytesToHex(d), nil
}

// signingDigest is the hash a signature covers: the digest of the canonical
// string, which is itself serialized again as a JSON string before hashing.
// Signatures produced by other implementations of this format rely on it.
func signingDigest(payload any) ([]byte, error) {
	s, err := Canonicalize(payload)
	if err != nil {
		return nil, err
	}
	return Digest(s)
}
