// Package types defines core primitive types shared across the faucet:
// hashes, addresses, outpoints, and script public keys.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Hash represents a 256-bit hash value, including transaction IDs.
type Hash [HashSize]byte

// SubnetworkIDSize is the length of a subnetwork ID in bytes.
const SubnetworkIDSize = 20

// SubnetworkID identifies the subnetwork a transaction belongs to.
// The zero value is the native subnetwork, which all faucet spends use.
type SubnetworkID [SubnetworkIDSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(decoded) != HashSize {
		return fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(decoded))
	}
	copy(h[:], decoded)
	return nil
}

// HexToHash converts a hex string to a Hash.
// Returns an error if the string is not exactly 64 hex characters.
func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// IsNative returns true if the subnetwork ID is the native (all-zero) one.
func (s SubnetworkID) IsNative() bool {
	return s == SubnetworkID{}
}

// String returns the hex-encoded subnetwork ID.
func (s SubnetworkID) String() string {
	return hex.EncodeToString(s[:])
}

// MarshalJSON encodes the subnetwork ID as a hex string.
func (s SubnetworkID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a hex string into a subnetwork ID.
func (s *SubnetworkID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*s = SubnetworkID{}
		return nil
	}
	decoded, err := hex.DecodeString(str)
	if err != nil {
		return fmt.Errorf("invalid subnetwork hex: %w", err)
	}
	if len(decoded) != SubnetworkIDSize {
		return fmt.Errorf("subnetwork ID must be %d bytes, got %d", SubnetworkIDSize, len(decoded))
	}
	copy(s[:], decoded)
	return nil
}
