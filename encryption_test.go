package ecbox

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	eciesgo "github.com/ecies/go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Encryption_String(t *testing.T) {
	assert := assert.New(t)

	secret, pub := newKeyPair(t)

	dataStr := "encrypt this!"
	encrypted, err := Encrypt(dataStr, pub)
	assert.NoError(err)
	decrypted, err := Decrypt[string](encrypted, secret)
	assert.NoError(err)
	assert.Equal(dataStr, decrypted)

	// Decoding into an untyped value yields the same string.
	untyped, err := Decrypt[any](encrypted, secret)
	assert.NoError(err)
	assert.Equal(dataStr, untyped)
}

func Test_Encryption_Object(t *testing.T) {
	assert := assert.New(t)

	secret, pub := newKeyPair(t)

	dataObj := map[string]string{"encrypt": "this!"}
	encrypted, err := Encrypt(dataObj, pub)
	assert.NoError(err)
	decrypted, err := Decrypt[map[string]string](encrypted, secret)
	assert.NoError(err)
	assert.Equal("this!", decrypted["encrypt"])

	nested := map[string]any{
		"n":    float64(1),
		"list": []any{"a", true, nil, 2.5},
		"obj":  map[string]any{"deep": map[string]any{}},
	}
	encrypted, err = Encrypt(nested, pub)
	assert.NoError(err)
	untyped, err := Decrypt[any](encrypted, secret)
	assert.NoError(err)
	assert.Equal(any(nested), untyped)
}

func Test_Encryption_Struct(t *testing.T) {
	assert := assert.New(t)

	secret, pub := newKeyPair(t)

	msg := message{
		Address:    "03d0715aa0b6f72fc09b048b4819e6fec86ab0fa1e43d1423e58e7aca89c150dc1",
		AppID:      "Snyder's Uke",
		Data:       messageData{Contents: "<script>&</script>"},
		Signatures: []string{"a", "b"},
		TTL:        1,
		Type:       "log",
	}
	encrypted, err := Encrypt(msg, pub)
	assert.NoError(err)
	decrypted, err := Decrypt[message](encrypted, secret)
	assert.NoError(err)
	assert.Equal(msg, decrypted)
}

func Test_Encryption_UncompressedRecipient(t *testing.T) {
	assert := assert.New(t)

	secret, pub := newKeyPair(t)
	uncompressed, err := DecompressPublicKey(pub)
	assert.NoError(err)

	encrypted, err := Encrypt(12345, uncompressed)
	assert.NoError(err)
	decrypted, err := Decrypt[int](encrypted, secret)
	assert.NoError(err)
	assert.Equal(12345, decrypted)
}

func Test_Encryption_TransportFormat(t *testing.T) {
	assert := assert.New(t)

	_, pub := newKeyPair(t)
	encrypted, err := Encrypt("hello", pub)
	assert.NoError(err)

	var fields map[string]string
	assert.NoError(json.Unmarshal([]byte(encrypted), &fields))
	assert.Len(fields, 4)
	for name, value := range fields {
		_, err := HexToBytes(value)
		assert.NoError(err, name)
	}
	assert.Len(fields["iv"], 2*IVLength)
	assert.Len(fields["mac"], 2*MACLength)
	assert.Len(fields["ephemPublicKey"], 2*EphemPublicKeyLength)
	assert.Len(fields["ciphertext"], 2*len(`"hello"`))

	env, err := ParseEnvelope(encrypted)
	assert.NoError(err)
	assert.NoError(env.Validate())
	assert.Equal(encrypted, env.String())

	// Fields are written in a fixed order.
	prefix := `{"iv":"` + fields["iv"] + `","ephemPublicKey":"`
	assert.Equal(prefix, encrypted[:len(prefix)])
}

func Test_Encryption_Randomized(t *testing.T) {
	assert := assert.New(t)

	_, pub := newKeyPair(t)
	encrypted1, err := Encrypt("same", pub)
	assert.NoError(err)
	encrypted2, err := Encrypt("same", pub)
	assert.NoError(err)
	assert.NotEqual(encrypted1, encrypted2)
}

func Test_Encryption_TamperedFields(t *testing.T) {
	assert := assert.New(t)

	secret, pub := newKeyPair(t)
	encrypted, err := Encrypt(map[string]any{"encrypt": "this!"}, pub)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal([]byte(encrypted), &fields))

	for name, value := range fields {
		for _, i := range []int{0, 1, len(value) / 2, len(value) - 1} {
			tampered := map[string]string{}
			for k, v := range fields {
				tampered[k] = v
			}
			tampered[name] = mutateHex(value, i)
			b, err := json.Marshal(tampered)
			require.NoError(t, err)

			_, err = Decrypt[any](string(b), secret)
			assert.ErrorIs(err, ErrDecryption, "%s at %d", name, i)
		}

		// The same bytes in upper case are not the same message.
		i := strings.IndexAny(value, "abcdef")
		if i < 0 {
			continue
		}
		tampered := map[string]string{}
		for k, v := range fields {
			tampered[k] = v
		}
		tampered[name] = value[:i] + strings.ToUpper(value[i:i+1]) + value[i+1:]
		b, err := json.Marshal(tampered)
		require.NoError(t, err)
		_, err = Decrypt[any](string(b), secret)
		assert.ErrorIs(err, ErrDecryption, "%s upper case", name)
		assert.ErrorIs(err, ErrMalformedInput, "%s upper case", name)
	}

	// The untouched message still decrypts.
	_, err = Decrypt[any](encrypted, secret)
	assert.NoError(err)
}

func Test_Encryption_WrongSecret(t *testing.T) {
	assert := assert.New(t)

	_, pub := newKeyPair(t)
	otherSecret, _ := newKeyPair(t)

	encrypted, err := Encrypt("secret message", pub)
	assert.NoError(err)
	_, err = Decrypt[string](encrypted, otherSecret)
	assert.ErrorIs(err, ErrDecryption)

	_, err = Decrypt[string](encrypted, "zz")
	assert.ErrorIs(err, ErrDecryption)
	assert.ErrorIs(err, ErrInvalidKey)
}

func Test_Encryption_MalformedMessage(t *testing.T) {
	assert := assert.New(t)

	secret, pub := newKeyPair(t)
	encrypted, err := Encrypt("hello", pub)
	require.NoError(t, err)
	var fields map[string]string
	require.NoError(t, json.Unmarshal([]byte(encrypted), &fields))

	without := func(name string) string {
		m := map[string]string{}
		for k, v := range fields {
			if k != name {
				m[k] = v
			}
		}
		b, err := json.Marshal(m)
		require.NoError(t, err)
		return string(b)
	}
	with := func(name, value string) string {
		m := map[string]string{}
		for k, v := range fields {
			m[k] = v
		}
		m[name] = value
		b, err := json.Marshal(m)
		require.NoError(t, err)
		return string(b)
	}

	for _, msg := range []string{
		"",
		"not json",
		"[]",
		`{"iv": 1}`,
		without("iv"),
		without("mac"),
		without("ephemPublicKey"),
		without("ciphertext"),
		with("iv", "zz"),
		with("iv", fields["iv"][2:]),
		with("mac", fields["mac"]+"00"),
		with("ciphertext", ""),
		with("extra", "xyz"),
		with("ephemPublicKey", generatorCompressed),
	} {
		_, err := Decrypt[string](msg, secret)
		assert.ErrorIs(err, ErrDecryption, msg)
		assert.ErrorIs(err, ErrMalformedInput, msg)
	}

	// Unknown hex members are ignored.
	decrypted, err := Decrypt[string](with("extra", "abcd"), secret)
	assert.NoError(err)
	assert.Equal("hello", decrypted)
}

func Test_Encryption_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := Encrypt("data", "")
	assert.ErrorIs(err, ErrEncryption)
	assert.ErrorIs(err, ErrInvalidKey)

	_, err = Encrypt("data", generatorCompressed[:64])
	assert.ErrorIs(err, ErrEncryption)
	assert.ErrorIs(err, ErrInvalidKey)

	_, err = Encrypt(make(chan int), generatorCompressed)
	assert.ErrorIs(err, ErrEncryption)
	assert.ErrorIs(err, ErrSerialization)

	_, err = Encrypt("pay \xff", generatorCompressed)
	assert.ErrorIs(err, ErrEncryption)
	assert.ErrorIs(err, ErrSerialization)

	// Plaintext of the wrong type.
	secret, pub := newKeyPair(t)
	encrypted, err := Encrypt("text", pub)
	assert.NoError(err)
	_, err = Decrypt[int](encrypted, secret)
	assert.ErrorIs(err, ErrDeserialization)
	assert.NotErrorIs(err, ErrDecryption)
}

func Test_Encryption_InvalidUTF8Plaintext(t *testing.T) {
	assert := assert.New(t)

	secret, pub := newKeyPair(t)
	key, err := parsePublicKey(pub)
	require.NoError(t, err)
	recipient, err := eciesgo.NewPublicKeyFromBytes(key.SerializeUncompressed())
	require.NoError(t, err)

	b, err := eciesgo.Encrypt(recipient, []byte("\"pay \xff\""))
	require.NoError(t, err)
	env, err := envelopeFromECIES(b)
	require.NoError(t, err)

	_, err = Decrypt[string](env.String(), secret)
	assert.ErrorIs(err, ErrDeserialization)
	assert.NotErrorIs(err, ErrDecryption)
}

func Test_Encryption_Concurrent(t *testing.T) {
	assert := assert.New(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			secret, err := GenerateSecret()
			assert.NoError(err)
			pub, err := DerivePublicKey(secret)
			assert.NoError(err)

			payload := map[string]int{"i": i}
			sig, err := Sign(secret, payload)
			assert.NoError(err)
			assert.True(Verify(payload, sig, pub))

			encrypted, err := Encrypt(payload, pub)
			assert.NoError(err)
			decrypted, err := Decrypt[map[string]int](encrypted, secret)
			assert.NoError(err)
			assert.Equal(payload, decrypted)
		}(i)
	}
	wg.Wait()
}
