package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
)

// Script opcodes the faucet emits. Only standard pay-to-address forms are
// ever constructed; anything else on the wire is opaque bytes.
const (
	opData32        = 0x20
	opData33        = 0x21
	opEqual         = 0x87
	opBlake2b       = 0xaa
	opCheckSigECDSA = 0xab
	opCheckSig      = 0xac
)

// ScriptPublicKey is the locking condition attached to an output.
type ScriptPublicKey struct {
	Version uint16 `json:"version"`
	Script  []byte `json:"scriptPublicKey"`
}

// scriptPublicKeyJSON is the wire representation with the script hex-encoded.
type scriptPublicKeyJSON struct {
	Version uint16 `json:"version"`
	Script  string `json:"scriptPublicKey"`
}

// MarshalJSON encodes the script public key with hex-encoded script bytes.
func (s ScriptPublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(scriptPublicKeyJSON{
		Version: s.Version,
		Script:  hex.EncodeToString(s.Script),
	})
}

// UnmarshalJSON decodes a script public key with hex-encoded script bytes.
func (s *ScriptPublicKey) UnmarshalJSON(data []byte) error {
	var j scriptPublicKeyJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	s.Version = j.Version
	s.Script = nil
	if j.Script != "" {
		b, err := hex.DecodeString(j.Script)
		if err != nil {
			return err
		}
		s.Script = b
	}
	return nil
}

// Equal reports whether two script public keys are identical.
func (s ScriptPublicKey) Equal(o ScriptPublicKey) bool {
	return s.Version == o.Version && bytes.Equal(s.Script, o.Script)
}

// SchnorrPublicKey extracts the x-only public key from a Schnorr
// pay-to-pubkey script. Returns false for any other script form.
func (s ScriptPublicKey) SchnorrPublicKey() ([]byte, bool) {
	if len(s.Script) != 34 || s.Script[0] != opData32 || s.Script[33] != opCheckSig {
		return nil, false
	}
	return s.Script[1:33], true
}

// PayToAddressScript builds the standard locking script for an address:
// a pubkey push plus the matching checksig opcode, or the script-hash
// template for AddrScriptHash.
func PayToAddressScript(a Address) ScriptPublicKey {
	payload := a.PayloadBytes()
	var script []byte
	switch a.Version {
	case AddrECDSAPubKey:
		script = make([]byte, 0, len(payload)+2)
		script = append(script, opData33)
		script = append(script, payload...)
		script = append(script, opCheckSigECDSA)
	case AddrScriptHash:
		script = make([]byte, 0, len(payload)+3)
		script = append(script, opBlake2b, opData32)
		script = append(script, payload...)
		script = append(script, opEqual)
	default:
		script = make([]byte, 0, len(payload)+2)
		script = append(script, opData32)
		script = append(script, payload...)
		script = append(script, opCheckSig)
	}
	return ScriptPublicKey{Version: 0, Script: script}
}
