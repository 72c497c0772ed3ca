package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// SignatureSize is the length of a serialized Schnorr signature.
const SignatureSize = 64

// Signer signs 32-byte digests with a Schnorr/secp256k1 private key.
type Signer interface {
	// Sign produces a 64-byte Schnorr signature over a 32-byte digest.
	Sign(hash []byte) ([]byte, error)
	// SchnorrPublicKey returns the 32-byte x-only public key.
	SchnorrPublicKey() []byte
}

// PrivateKey wraps a secp256k1 private key for Schnorr signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	key := secp256k1.PrivKeyFromBytes(b)
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromHex creates a PrivateKey from a 64-character hex string.
func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("private key is not valid hex: %w", err)
	}
	return PrivateKeyFromBytes(b)
}

// Sign produces a 64-byte Schnorr signature over a 32-byte digest.
func (pk *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	sig, err := schnorr.Sign(pk.key, hash)
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// SchnorrPublicKey returns the 32-byte x-only public key used in
// Schnorr addresses and signature verification.
func (pk *PrivateKey) SchnorrPublicKey() []byte {
	return schnorr.SerializePubKey(pk.key.PubKey())
}

// Address returns the Schnorr pay-to-pubkey address for this key.
func (pk *PrivateKey) Address() (types.Address, error) {
	return types.NewAddress(types.AddrSchnorrPubKey, pk.SchnorrPublicKey())
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// VerifySignature checks a Schnorr signature against a 32-byte digest
// and a 32-byte x-only public key. Returns false on any error.
func VerifySignature(hash, signature, publicKey []byte) bool {
	pubKey, err := schnorr.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pubKey)
}
