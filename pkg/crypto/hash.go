// Package crypto provides the cryptographic primitives the faucet relies
// on: BLAKE3-256 hashing and Schnorr/secp256k1 signing.
package crypto

import (
	"github.com/kaspatech/kaspa-faucet/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}
