package types

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestPayToAddressScript_Schnorr(t *testing.T) {
	var payload [MaxAddressPayload]byte
	for i := 0; i < 32; i++ {
		payload[i] = byte(i)
	}
	addr := Address{Version: AddrSchnorrPubKey, Payload: payload}

	spk := PayToAddressScript(addr)
	if spk.Version != 0 {
		t.Errorf("Version = %d, want 0", spk.Version)
	}
	if len(spk.Script) != 34 {
		t.Fatalf("script length = %d, want 34", len(spk.Script))
	}
	if spk.Script[0] != opData32 {
		t.Errorf("script[0] = %#x, want %#x", spk.Script[0], opData32)
	}
	if spk.Script[33] != opCheckSig {
		t.Errorf("script[33] = %#x, want %#x", spk.Script[33], opCheckSig)
	}
	if !bytes.Equal(spk.Script[1:33], payload[:32]) {
		t.Error("script pubkey bytes do not match address payload")
	}
}

func TestPayToAddressScript_ECDSA(t *testing.T) {
	var payload [MaxAddressPayload]byte
	payload[0] = 0x02
	addr := Address{Version: AddrECDSAPubKey, Payload: payload}

	spk := PayToAddressScript(addr)
	if len(spk.Script) != 35 {
		t.Fatalf("script length = %d, want 35", len(spk.Script))
	}
	if spk.Script[0] != opData33 {
		t.Errorf("script[0] = %#x, want %#x", spk.Script[0], opData33)
	}
	if spk.Script[34] != opCheckSigECDSA {
		t.Errorf("script[34] = %#x, want %#x", spk.Script[34], opCheckSigECDSA)
	}
}

func TestPayToAddressScript_ScriptHash(t *testing.T) {
	var payload [MaxAddressPayload]byte
	addr := Address{Version: AddrScriptHash, Payload: payload}

	spk := PayToAddressScript(addr)
	if len(spk.Script) != 35 {
		t.Fatalf("script length = %d, want 35", len(spk.Script))
	}
	if spk.Script[0] != opBlake2b {
		t.Errorf("script[0] = %#x, want %#x", spk.Script[0], opBlake2b)
	}
	if spk.Script[1] != opData32 {
		t.Errorf("script[1] = %#x, want %#x", spk.Script[1], opData32)
	}
	if spk.Script[34] != opEqual {
		t.Errorf("script[34] = %#x, want %#x", spk.Script[34], opEqual)
	}
}

func TestScriptPublicKey_SchnorrPublicKey(t *testing.T) {
	var payload [MaxAddressPayload]byte
	for i := 0; i < 32; i++ {
		payload[i] = byte(i + 1)
	}
	addr := Address{Version: AddrSchnorrPubKey, Payload: payload}

	spk := PayToAddressScript(addr)
	pk, ok := spk.SchnorrPublicKey()
	if !ok {
		t.Fatal("SchnorrPublicKey() should succeed for a pay-to-pubkey script")
	}
	if !bytes.Equal(pk, payload[:32]) {
		t.Error("extracted key does not match address payload")
	}

	ecdsa := PayToAddressScript(Address{Version: AddrECDSAPubKey, Payload: payload})
	if _, ok := ecdsa.SchnorrPublicKey(); ok {
		t.Error("SchnorrPublicKey() should fail for an ECDSA script")
	}
	if _, ok := (ScriptPublicKey{}).SchnorrPublicKey(); ok {
		t.Error("SchnorrPublicKey() should fail for an empty script")
	}
}

func TestScriptPublicKey_Equal(t *testing.T) {
	a := ScriptPublicKey{Version: 0, Script: []byte{0x20, 0x01}}
	b := ScriptPublicKey{Version: 0, Script: []byte{0x20, 0x01}}
	c := ScriptPublicKey{Version: 1, Script: []byte{0x20, 0x01}}
	d := ScriptPublicKey{Version: 0, Script: []byte{0x20, 0x02}}

	if !a.Equal(b) {
		t.Error("identical scripts should be equal")
	}
	if a.Equal(c) {
		t.Error("different versions should not be equal")
	}
	if a.Equal(d) {
		t.Error("different scripts should not be equal")
	}
}

func TestScriptPublicKey_JSON(t *testing.T) {
	spk := ScriptPublicKey{Version: 0, Script: []byte{0x20, 0xaa, 0xac}}
	data, err := json.Marshal(spk)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"scriptPublicKey":"20aaac"`) {
		t.Errorf("JSON = %s, want hex-encoded script", data)
	}

	var back ScriptPublicKey
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(spk) {
		t.Errorf("JSON roundtrip mismatch: %+v != %+v", back, spk)
	}

	var bad ScriptPublicKey
	if err := json.Unmarshal([]byte(`{"version":0,"scriptPublicKey":"zz"}`), &bad); err == nil {
		t.Error("expected error for invalid script hex")
	}
}
