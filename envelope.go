package ecbox

import (
	"encoding/json"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Sizes of the ECIES fields, in bytes.
const (
	EphemPublicKeyLength = 65
	IVLength             = 16
	MACLength            = 16
)

// Transport names of the envelope fields.
const (
	fieldIV             = "iv"
	fieldEphemPublicKey = "ephemPublicKey"
	fieldCiphertext     = "ciphertext"
	fieldMAC            = "mac"
)

// Envelope is an ECIES encrypted message.
//
// EphemPublicKey is the sender's one-time public key (uncompressed), IV is the
// AES-GCM nonce, MAC is the GCM authentication tag and Ciphertext is the
// encrypted payload.
type Envelope struct {
	IV             []byte
	EphemPublicKey []byte
	Ciphertext     []byte
	MAC            []byte
}

// envelopeJSON is the transport form of Envelope: every field hex-encoded.
type envelopeJSON struct {
	IV             string `json:"iv"`
	EphemPublicKey string `json:"ephemPublicKey"`
	Ciphertext     string `json:"ciphertext"`
	MAC            string `json:"mac"`
}

// envelopeFromECIES splits the output of the ECIES primitive, laid out as
// ephemeral public key || nonce || tag || ciphertext.
func envelopeFromECIES(b []byte) (*Envelope, error) {
	const headerLength = EphemPublicKeyLength + IVLength + MACLength
	if len(b) <= headerLength {
		return nil, fmt.Errorf("unexpected ECIES output length %d", len(b))
	}
	return &Envelope{
		EphemPublicKey: b[:EphemPublicKeyLength],
		IV:             b[EphemPublicKeyLength : EphemPublicKeyLength+IVLength],
		MAC:            b[EphemPublicKeyLength+IVLength : headerLength],
		Ciphertext:     b[headerLength:],
	}, nil
}

// eciesBytes reassembles the input expected by the ECIES primitive.
func (e *Envelope) eciesBytes() []byte {
	b := make([]byte, 0, len(e.EphemPublicKey)+len(e.IV)+len(e.MAC)+len(e.Ciphertext))
	b = append(b, e.EphemPublicKey...)
	b = append(b, e.IV...)
	b = append(b, e.MAC...)
	return append(b, e.Ciphertext...)
}

// Validate checks the field sizes and that the ephemeral public key is an
// uncompressed point on the curve.
func (e *Envelope) Validate() error {
	if len(e.EphemPublicKey) != EphemPublicKeyLength || e.EphemPublicKey[0] != 0x04 {
		return fmt.Errorf("%w: ephemeral public key must be %d bytes uncompressed", ErrMalformedInput,
			EphemPublicKeyLength)
	}
	if _, err := secp256k1.ParsePubKey(e.EphemPublicKey); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(e.IV) != IVLength {
		return fmt.Errorf("%w: iv must be %d bytes, got %d", ErrMalformedInput, IVLength, len(e.IV))
	}
	if len(e.MAC) != MACLength {
		return fmt.Errorf("%w: mac must be %d bytes, got %d", ErrMalformedInput, MACLength, len(e.MAC))
	}
	if len(e.Ciphertext) == 0 {
		return fmt.Errorf("%w: empty ciphertext", ErrMalformedInput)
	}
	return nil
}

// String returns the transport form: a JSON object mapping each field name to
// its hex encoding.
func (e *Envelope) String() string {
	b, err := json.Marshal(envelopeJSON{
		IV:             BytesToHex(e.IV),
		EphemPublicKey: BytesToHex(e.EphemPublicKey),
		Ciphertext:     BytesToHex(e.Ciphertext),
		MAC:            BytesToHex(e.MAC),
	})
	if err != nil {
		// Only strings are marshaled.
		panic(err)
	}
	return string(b)
}

// ParseEnvelope parses the transport form produced by Envelope.String.
// Every member must be a hex string, and the four ECIES fields must be
// present. Other members are decoded and ignored.
func ParseEnvelope(message string) (*Envelope, error) {
	var fields map[string]string
	if err := json.Unmarshal([]byte(message), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	decoded := make(map[string][]byte, len(fields))
	for name, value := range fields {
		b, err := HexToBytes(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		decoded[name] = b
	}
	for _, name := range []string{fieldIV, fieldEphemPublicKey, fieldCiphertext, fieldMAC} {
		if _, ok := decoded[name]; !ok {
			return nil, fmt.Errorf("%w: missing field %q", ErrMalformedInput, name)
		}
	}
	return &Envelope{
		IV:             decoded[fieldIV],
		EphemPublicKey: decoded[fieldEphemPublicKey],
		Ciphertext:     decoded[fieldCiphertext],
		MAC:            decoded[fieldMAC],
	}, nil
}
