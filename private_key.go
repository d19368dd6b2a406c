package ecbox

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
)

const (
	PBKDF2_ITER = 16384
	PBKDF2_SIZE = 32

	// SecretLength is the length of a secret in bytes.
	SecretLength = 32

	// maxSecretAttempts bounds the candidates drawn by GenerateSecret. A
	// uniform source is rejected with probability below 2^-127 per draw.
	maxSecretAttempts = 128
)

// GenerateSecret creates a new random secret using the default suite.
func GenerateSecret() (string, error) {
	return defaultSuite.GenerateSecret()
}

// GenerateSecret creates a new random secret, reading from the suite's entropy
// source. Candidates that are zero or not below the curve order are discarded;
// if no valid candidate turns up, the error is ErrEntropy.
func (s *Suite) GenerateSecret() (string, error) {
	key, err := newPrivateKeyFromRand(s.entropy)
	if err != nil {
		return "", err
	}
	defer key.Zero()
	return BytesToHex(key.Serialize()), nil
}

func newPrivateKeyFromRand(r io.Reader) (*secp256k1.PrivateKey, error) {
	var buf [SecretLength]byte
	defer clear(buf[:])
	for i := 0; i < maxSecretAttempts; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: failed to read entropy: %w", ErrEntropy, err)
		}
		var scalar secp256k1.ModNScalar
		overflow := scalar.SetByteSlice(buf[:])
		if overflow || scalar.IsZero() {
			continue
		}
		return secp256k1.NewPrivateKey(&scalar), nil
	}
	return nil, fmt.Errorf("%w: no valid secret in %d candidates", ErrEntropy, maxSecretAttempts)
}

// parseSecret decodes a hex secret. The secret must be exactly 32 bytes,
// non-zero and below the curve order.
func parseSecret(secret string) (*secp256k1.PrivateKey, error) {
	b, err := HexToBytes(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return privateKeyFromBytes(b)
}

func privateKeyFromBytes(b []byte) (*secp256k1.PrivateKey, error) {
	if len(b) != SecretLength {
		return nil, fmt.Errorf("%w: secret must be %d bytes, got %d", ErrInvalidKey, SecretLength, len(b))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow {
		return nil, fmt.Errorf("%w: secret is not below the curve order", ErrInvalidKey)
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: secret is zero", ErrInvalidKey)
	}
	return secp256k1.NewPrivateKey(&scalar), nil
}

// DerivePublicKey returns the compressed (33 bytes) public key for the secret, as hex.
func DerivePublicKey(secret string) (string, error) {
	key, err := parseSecret(secret)
	if err != nil {
		return "", err
	}
	defer key.Zero()
	return BytesToHex(key.PubKey().SerializeCompressed()), nil
}

// SecretFromPassword derives a secret from password using PBKDF2.
// See https://en.wikipedia.org/wiki/PBKDF2.
func SecretFromPassword(password, salt []byte) (string, error) {
	b := pbkdf2.Key(password, salt, PBKDF2_ITER, PBKDF2_SIZE, sha256.New)
	key, err := privateKeyFromBytes(b)
	if err != nil {
		return "", err
	}
	defer key.Zero()
	return BytesToHex(key.Serialize()), nil
}

// SecretToMnemonic returns a 24 word mnemonic phrase which can be used to recover the secret.
func SecretToMnemonic(secret string) (string, error) {
	key, err := parseSecret(secret)
	if err != nil {
		return "", err
	}
	defer key.Zero()
	return bip39.NewMnemonic(padWithZeros(key.Serialize(), SecretLength))
}

// SecretFromMnemonic recovers a secret from a mnemonic phrase created by SecretToMnemonic.
func SecretFromMnemonic(mnemonic string) (string, error) {
	b, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	key, err := privateKeyFromBytes(padWithZeros(b, SecretLength))
	if err != nil {
		return "", err
	}
	defer key.Zero()
	return BytesToHex(key.Serialize()), nil
}
