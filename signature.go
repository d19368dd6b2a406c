package ecbox

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"go.uber.org/zap"
)

// Sign signs (ECDSA) payload with the secret and returns the DER-encoded
// signature as hex. See Suite.Sign.
func Sign[T any](secret string, payload T) (string, error) {
	return defaultSuite.Sign(secret, payload)
}

// Verify reports whether signature is a valid signature of payload by the
// owner of publicKey. See Suite.Verify.
func Verify[T any](payload T, signature, publicKey string) bool {
	return defaultSuite.Verify(payload, signature, publicKey)
}

// Sign signs (ECDSA) the signing digest of payload with the secret. Nonces are
// derived per RFC 6979 and S is normalized to the lower half of the order, so
// the same secret and payload always produce the same signature.
// See https://en.wikipedia.org/wiki/Elliptic_Curve_Digital_Signature_Algorithm.
func (s *Suite) Sign(secret string, payload any) (string, error) {
	hash, err := signingDigest(payload)
	if err != nil {
		return "", err
	}
	key, err := parseSecret(secret)
	if err != nil {
		return "", err
	}
	defer key.Zero()
	return BytesToHex(ecdsa.Sign(key, hash).Serialize()), nil
}

// Verify reports whether signature is a valid signature of payload by the
// owner of publicKey. It never fails: a malformed signature or key, a payload
// that cannot be serialized and a mismatch all yield false.
func (s *Suite) Verify(payload any, signature, publicKey string) bool {
	if err := verifySignature(payload, signature, publicKey); err != nil {
		s.logger.Debug("signature rejected", zap.Error(err))
		return false
	}
	return true
}

// errSignatureMismatch is returned when the signature is well formed but does
// not match the payload and key.
var errSignatureMismatch = fmt.Errorf("signature does not match")

func verifySignature(payload any, signature, publicKey string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("verification panicked: %v", r)
		}
	}()
	hash, err := signingDigest(payload)
	if err != nil {
		return err
	}
	key, err := parsePublicKey(publicKey)
	if err != nil {
		return err
	}
	sigBytes, err := HexToBytes(signature)
	if err != nil {
		return err
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if !sig.Verify(hash, key) {
		return errSignatureMismatch
	}
	return nil
}
