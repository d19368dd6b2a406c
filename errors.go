package ecbox

import "errors"

var (
	// ErrMalformedInput is returned when a hex string, JSON document or mnemonic
	// cannot be decoded.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidKey is returned when a secret or a public key is not valid for the curve.
	ErrInvalidKey = errors.New("invalid key")

	// ErrEntropy is returned when the entropy source fails or keeps producing
	// values that are not valid secrets.
	ErrEntropy = errors.New("entropy source failed")

	// ErrSerialization is returned when a value cannot be serialized to JSON.
	ErrSerialization = errors.New("value is not serializable")

	// ErrEncryption is returned by the encrypt operations.
	ErrEncryption = errors.New("encryption failed")

	// ErrDecryption is returned by the decrypt operations, including on
	// authentication failure.
	ErrDecryption = errors.New("decryption failed")

	// ErrDeserialization is returned when decrypted plaintext is not valid JSON
	// for the requested type.
	ErrDeserialization = errors.New("plaintext is not valid JSON")
)
