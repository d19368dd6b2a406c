package ecbox

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// parsePublicKey decodes a hex public key in SEC compressed (33 bytes) or
// uncompressed (65 bytes) format. The point must be on the curve.
func parsePublicKey(publicKey string) (*secp256k1.PublicKey, error) {
	b, err := HexToBytes(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	key, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}

// CompressPublicKey returns the public key in SEC compressed format. The result
// is 33 bytes long.
func CompressPublicKey(publicKey string) (string, error) {
	key, err := parsePublicKey(publicKey)
	if err != nil {
		return "", err
	}
	return BytesToHex(key.SerializeCompressed()), nil
}

// DecompressPublicKey returns the public key in SEC uncompressed format. The result
// is 65 bytes long.
func DecompressPublicKey(publicKey string) (string, error) {
	key, err := parsePublicKey(publicKey)
	if err != nil {
		return "", err
	}
	return BytesToHex(key.SerializeUncompressed()), nil
}

// BitcoinAddress returns the Bitcoin (P2PKH, mainnet) address for the public key,
// computed over its compressed form.
func BitcoinAddress(publicKey string) (string, error) {
	key, err := parsePublicKey(publicKey)
	if err != nil {
		return "", err
	}
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(key.SerializeCompressed()),
		&chaincfg.MainNetParams)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// EthereumAddress returns the checksummed Ethereum address for the public key.
func EthereumAddress(publicKey string) (string, error) {
	key, err := parsePublicKey(publicKey)
	if err != nil {
		return "", err
	}
	// Last 20 bytes of keccak256 over X || Y.
	hash := crypto.Keccak256(key.SerializeUncompressed()[1:])
	return common.BytesToAddress(hash[12:]).Hex(), nil
}
