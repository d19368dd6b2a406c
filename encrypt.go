package ecbox

import (
	"fmt"

	eciesgo "github.com/ecies/go/v2"
	"go.uber.org/zap"
)

// Encrypt encrypts data for the owner of publicKey. See Suite.Encrypt.
func Encrypt[T any](data T, publicKey string) (string, error) {
	return defaultSuite.Encrypt(data, publicKey)
}

// Decrypt decrypts a message produced by Encrypt into a value of type T.
// See Suite.DecryptInto.
func Decrypt[T any](message, secret string) (T, error) {
	return DecryptWith[T](defaultSuite, message, secret)
}

// DecryptWith is Decrypt using the given suite.
func DecryptWith[T any](s *Suite, message, secret string) (T, error) {
	var v T
	err := s.DecryptInto(message, secret, &v)
	return v, err
}

// Encrypt serializes data to JSON and encrypts it (ECIES) for the owner of
// publicKey, which may be compressed or uncompressed. The result is the
// envelope transport string, see Envelope.String.
func (s *Suite) Encrypt(data any, publicKey string) (string, error) {
	env, err := s.seal(data, publicKey)
	if err != nil {
		s.logger.Debug("encryption failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrEncryption, err)
	}
	return env.String(), nil
}

func (s *Suite) seal(data any, publicKey string) (*Envelope, error) {
	plaintext, err := canonicalBytes(data)
	if err != nil {
		return nil, err
	}
	key, err := parsePublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	recipient, err := eciesgo.NewPublicKeyFromBytes(key.SerializeUncompressed())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	b, err := eciesgo.Encrypt(recipient, plaintext)
	if err != nil {
		return nil, err
	}
	return envelopeFromECIES(b)
}

// DecryptInto decrypts message with the secret and unmarshals the plaintext
// JSON into out, which must be a non-nil pointer.
//
// A malformed message or secret, and any tampering with the envelope, yield
// ErrDecryption. If the plaintext does not unmarshal into out, the error is
// ErrDeserialization.
func (s *Suite) DecryptInto(message, secret string, out any) error {
	plaintext, err := s.open(message, secret)
	if err != nil {
		s.logger.Debug("decryption failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrDecryption, err)
	}
	return parseCanonical(plaintext, out)
}

func (s *Suite) open(message, secret string) ([]byte, error) {
	env, err := ParseEnvelope(message)
	if err != nil {
		return nil, err
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	key, err := parseSecret(secret)
	if err != nil {
		return nil, err
	}
	defer key.Zero()
	plaintext, err := eciesgo.Decrypt(eciesgo.NewPrivateKeyFromBytes(key.Serialize()), env.eciesBytes())
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}
