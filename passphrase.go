package ecbox

import (
	"fmt"

	"github.com/go-jose/go-jose/v3"
	"go.uber.org/zap"
	"golang.org/x/crypto/scrypt"
	"lukechampine.com/frand"
)

// saltHeader is the protected JWE header carrying the scrypt salt, base64url encoded.
const saltHeader jose.HeaderKey = "x-salt"

const saltLength = 32

// EncryptWithPassphrase encrypts data with a key derived from passphrase.
// See Suite.EncryptWithPassphrase.
func EncryptWithPassphrase[T any](data T, passphrase string) (string, error) {
	return defaultSuite.EncryptWithPassphrase(data, passphrase)
}

// DecryptWithPassphrase decrypts a message produced by EncryptWithPassphrase
// into a value of type T.
func DecryptWithPassphrase[T any](message, passphrase string) (T, error) {
	var v T
	err := defaultSuite.DecryptWithPassphraseInto(message, passphrase, &v)
	return v, err
}

// EncryptWithPassphrase serializes data to JSON and encrypts it with a key
// derived from passphrase using scrypt. The result is a JWE in JSON
// serialization (A256GCM, direct key). The salt travels in the protected
// header, so it is authenticated along with the ciphertext.
// Key derivation algorithm is described in https://www.tarsnap.com/scrypt/scrypt.pdf.
func (s *Suite) EncryptWithPassphrase(data any, passphrase string) (string, error) {
	message, err := s.sealWithPassphrase(data, passphrase)
	if err != nil {
		s.logger.Debug("passphrase encryption failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrEncryption, err)
	}
	return message, nil
}

func (s *Suite) sealWithPassphrase(data any, passphrase string) (string, error) {
	if passphrase == "" {
		return "", fmt.Errorf("%w: empty passphrase", ErrMalformedInput)
	}
	plaintext, err := canonicalBytes(data)
	if err != nil {
		return "", err
	}
	salt := frand.Bytes(saltLength)
	key, err := s.deriveKey([]byte(passphrase), salt)
	if err != nil {
		return "", err
	}
	opts := (&jose.EncrypterOptions{}).WithHeader(saltHeader, base64urlEncode(salt))
	encrypter, err := jose.NewEncrypter(jose.A256GCM,
		jose.Recipient{Algorithm: jose.DIRECT, Key: key}, opts)
	if err != nil {
		return "", err
	}
	object, err := encrypter.Encrypt(plaintext)
	if err != nil {
		return "", err
	}
	return object.FullSerialize(), nil
}

// DecryptWithPassphraseInto decrypts a message produced by
// EncryptWithPassphrase and unmarshals the plaintext JSON into out.
func (s *Suite) DecryptWithPassphraseInto(message, passphrase string, out any) error {
	plaintext, err := s.openWithPassphrase(message, passphrase)
	if err != nil {
		s.logger.Debug("passphrase decryption failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrDecryption, err)
	}
	return parseCanonical(plaintext, out)
}

func (s *Suite) openWithPassphrase(message, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: empty passphrase", ErrMalformedInput)
	}
	object, err := jose.ParseEncrypted(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	salt, err := passphraseSalt(object.Header)
	if err != nil {
		return nil, err
	}
	key, err := s.deriveKey([]byte(passphrase), salt)
	if err != nil {
		return nil, err
	}
	return object.Decrypt(key)
}

// passphraseSalt extracts the scrypt salt from the JWE header.
func passphraseSalt(header jose.Header) ([]byte, error) {
	encoded, ok := header.ExtraHeaders[saltHeader].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s header", ErrMalformedInput, saltHeader)
	}
	salt, err := base64urlDecode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(salt) != saltLength {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrMalformedInput, saltLength, len(salt))
	}
	return salt, nil
}

// deriveKey creates a 32 bytes symmetric encryption key from password and salt.
func (s *Suite) deriveKey(password, salt []byte) ([]byte, error) {
	return scrypt.Key(password, salt, s.scryptN, deriveKey_r, deriveKey_p, deriveKey_keyLen)
}
