/*
Package ecbox ties together several common packages and makes it easy to sign and
encrypt arbitrary JSON-serializable data with elliptic curve keys (secp256k1, used by Bitcoin).

Every value crossing the API is a string: keys, signatures and digests are lowercase hex,
and encrypted messages are a single JSON object whose members are hex-encoded ECIES fields.

These operations include:

-- Generating secrets, and deriving them from a mnemonic or a password

-- Deriving the compressed public key, and its Bitcoin and Ethereum addresses

-- Signing any JSON-serializable value and verifying the signature with the public key

-- Encrypting any JSON-serializable value for a public key (ECIES), and decrypting it with the secret

-- Encrypting any JSON-serializable value with a passphrase (JWE)

Values are serialized with encoding/json before they are hashed or encrypted. Map keys are
emitted in sorted order, struct fields in declaration order, so a signature only verifies
against a value that serializes to the same bytes.

See the examples for more information.
*/
package ecbox
