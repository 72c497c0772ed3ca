package types

import (
	"encoding/json"
	"fmt"
)

// Address HRP (human-readable part) constants, one per network.
const (
	MainnetHRP = "kaspa"
	TestnetHRP = "kaspatest"
	DevnetHRP  = "kaspadev"
	SimnetHRP  = "kaspasim"
)

// AddressVersion discriminates how an address payload is interpreted.
type AddressVersion byte

const (
	// AddrSchnorrPubKey is a 32-byte x-only schnorr public key.
	AddrSchnorrPubKey AddressVersion = 0x00
	// AddrECDSAPubKey is a 33-byte compressed ECDSA public key.
	AddrECDSAPubKey AddressVersion = 0x01
	// AddrScriptHash is a 32-byte hash of a redeem script.
	AddrScriptHash AddressVersion = 0x08
)

// MaxAddressPayload is the largest payload size across address versions.
const MaxAddressPayload = 33

// activeHRP is the address prefix used by String() and ParseAddress().
// Set once at startup via SetAddressHRP(). Default is mainnet.
var activeHRP = MainnetHRP

// SetAddressHRP sets the active address prefix (call once at startup).
func SetAddressHRP(hrp string) {
	activeHRP = hrp
}

// GetAddressHRP returns the currently active address prefix.
func GetAddressHRP() string {
	return activeHRP
}

// payloadSize returns the payload length for a version, or -1 if the
// version is unknown.
func payloadSize(v AddressVersion) int {
	switch v {
	case AddrSchnorrPubKey, AddrScriptHash:
		return 32
	case AddrECDSAPubKey:
		return 33
	default:
		return -1
	}
}

// Address is a versioned public key (or script hash) payload. The zero
// value is a valid but unusable all-zero schnorr address.
type Address struct {
	Version AddressVersion

	// Payload holds the version-determined number of bytes; the unused
	// tail stays zero so addresses compare with ==.
	Payload [MaxAddressPayload]byte
}

// NewAddress builds an address from a version and payload bytes.
func NewAddress(version AddressVersion, payload []byte) (Address, error) {
	size := payloadSize(version)
	if size < 0 {
		return Address{}, fmt.Errorf("unknown address version %#02x", byte(version))
	}
	if len(payload) != size {
		return Address{}, fmt.Errorf("address version %#02x requires %d payload bytes, got %d",
			byte(version), size, len(payload))
	}
	a := Address{Version: version}
	copy(a.Payload[:], payload)
	return a, nil
}

// PayloadBytes returns the version-sized payload slice.
func (a Address) PayloadBytes() []byte {
	size := payloadSize(a.Version)
	if size < 0 {
		return nil
	}
	return a.Payload[:size]
}

// IsZero returns true for the zero-value address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the encoded address (e.g. "kaspatest:qq...").
func (a Address) String() string {
	s, err := Bech32Encode(activeHRP, a.PayloadBytes(), byte(a.Version))
	if err != nil {
		// Unrepresentable version; surface something greppable.
		return activeHRP + ":<invalid>"
	}
	return s
}

// MarshalJSON encodes the address as its string form.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an encoded address string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses an encoded address and enforces that its prefix
// matches the active network. A well-formed address for another network
// is rejected, which is what a testnet faucet wants for mainnet inputs.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}
	prefix, payload, version, err := Bech32Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address: %w", err)
	}
	if prefix != activeHRP {
		return Address{}, fmt.Errorf("address prefix %q does not match network prefix %q", prefix, activeHRP)
	}
	addr, err := NewAddress(AddressVersion(version), payload)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address: %w", err)
	}
	return addr, nil
}
