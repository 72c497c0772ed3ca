package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAddress_String(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(TestnetHRP)

	var payload [32]byte
	payload[0] = 0xab
	payload[31] = 0xcd
	a, err := NewAddress(AddrSchnorrPubKey, payload[:])
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}

	s := a.String()
	if !strings.HasPrefix(s, "kaspatest:") {
		t.Errorf("String() should start with 'kaspatest:', got %s", s)
	}
}

func TestAddress_String_Mainnet(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(MainnetHRP)

	a, err := NewAddress(AddrSchnorrPubKey, make([]byte, 32))
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	if !strings.HasPrefix(a.String(), "kaspa:") {
		t.Errorf("String() should start with 'kaspa:', got %s", a.String())
	}
}

func TestAddress_Roundtrip(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(TestnetHRP)

	payload := make([]byte, 32)
	for i := range payload {
		payload[i] = byte(0xe0 - i)
	}
	a, err := NewAddress(AddrSchnorrPubKey, payload)
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}

	parsed, err := ParseAddress(a.String())
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if parsed != a {
		t.Errorf("roundtrip mismatch: %v != %v", parsed, a)
	}
}

func TestAddress_Roundtrip_ECDSA(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(TestnetHRP)

	payload := make([]byte, 33)
	payload[0] = 0x03
	a, err := NewAddress(AddrECDSAPubKey, payload)
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}

	parsed, err := ParseAddress(a.String())
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if parsed.Version != AddrECDSAPubKey {
		t.Errorf("version = %#02x, want %#02x", parsed.Version, AddrECDSAPubKey)
	}
	if parsed != a {
		t.Errorf("roundtrip mismatch")
	}
}

func TestParseAddress_WrongNetwork(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	// Encode for mainnet, parse on testnet.
	SetAddressHRP(MainnetHRP)
	a, err := NewAddress(AddrSchnorrPubKey, make([]byte, 32))
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	mainnetStr := a.String()

	SetAddressHRP(TestnetHRP)
	if _, err := ParseAddress(mainnetStr); err == nil {
		t.Error("expected error for mainnet address on testnet")
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(TestnetHRP)

	cases := []string{
		"",
		"kaspatest",
		"kaspatest:",
		"kaspatest:qqqqq",
		"not-an-address",
		"kaspatest:bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	}
	for _, c := range cases {
		if _, err := ParseAddress(c); err == nil {
			t.Errorf("ParseAddress(%q): expected error", c)
		}
	}
}

func TestParseAddress_UnknownVersion(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(TestnetHRP)

	encoded, err := Bech32Encode(TestnetHRP, make([]byte, 32), 0x7f)
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}
	if _, err := ParseAddress(encoded); err == nil {
		t.Error("expected error for unknown address version")
	}
}

func TestNewAddress_PayloadLength(t *testing.T) {
	if _, err := NewAddress(AddrSchnorrPubKey, make([]byte, 20)); err == nil {
		t.Error("expected error for 20-byte schnorr payload")
	}
	if _, err := NewAddress(AddrECDSAPubKey, make([]byte, 32)); err == nil {
		t.Error("expected error for 32-byte ECDSA payload")
	}
	if _, err := NewAddress(AddressVersion(0x42), make([]byte, 32)); err == nil {
		t.Error("expected error for unknown version")
	}
}

func TestAddress_JSON(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(TestnetHRP)

	payload := make([]byte, 32)
	payload[5] = 0x99
	a, err := NewAddress(AddrSchnorrPubKey, payload)
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back Address
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != a {
		t.Errorf("JSON roundtrip mismatch: %v != %v", back, a)
	}
}

func TestAddress_PayloadBytes(t *testing.T) {
	a, err := NewAddress(AddrSchnorrPubKey, make([]byte, 32))
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	if len(a.PayloadBytes()) != 32 {
		t.Errorf("schnorr payload length = %d, want 32", len(a.PayloadBytes()))
	}

	b, err := NewAddress(AddrECDSAPubKey, make([]byte, 33))
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	if len(b.PayloadBytes()) != 33 {
		t.Errorf("ecdsa payload length = %d, want 33", len(b.PayloadBytes()))
	}
}
