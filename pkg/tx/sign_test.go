package tx

import (
	"testing"

	"github.com/kaspatech/kaspa-faucet/pkg/crypto"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

func TestSignAll_VerifyInput(t *testing.T) {
	txn, key, script := testTransaction(t)

	if err := SignAll(txn, key); err != nil {
		t.Fatalf("SignAll() error: %v", err)
	}

	for i := range txn.Inputs {
		if !VerifyInput(txn, i, script) {
			t.Errorf("input %d signature should verify", i)
		}
	}
}

func TestSignAll_ScriptShape(t *testing.T) {
	txn, key, _ := testTransaction(t)

	if err := SignAll(txn, key); err != nil {
		t.Fatalf("SignAll() error: %v", err)
	}

	for i, in := range txn.Inputs {
		script := in.SignatureScript
		if len(script) != crypto.SignatureSize+2 {
			t.Fatalf("input %d script length = %d, want %d", i, len(script), crypto.SignatureSize+2)
		}
		if script[0] != opData65 {
			t.Errorf("input %d script[0] = %#x, want %#x", i, script[0], opData65)
		}
		if script[len(script)-1] != sigHashAll {
			t.Errorf("input %d sighash type = %#x, want %#x", i, script[len(script)-1], sigHashAll)
		}
	}
}

func TestSignAll_DistinctSignaturesPerInput(t *testing.T) {
	txn, key, _ := testTransaction(t)

	if err := SignAll(txn, key); err != nil {
		t.Fatalf("SignAll() error: %v", err)
	}

	if string(txn.Inputs[0].SignatureScript) == string(txn.Inputs[1].SignatureScript) {
		t.Error("each input should carry its own signature")
	}
}

func TestVerifyInput_WrongKey(t *testing.T) {
	txn, key, _ := testTransaction(t)
	if err := SignAll(txn, key); err != nil {
		t.Fatalf("SignAll() error: %v", err)
	}

	other, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	otherAddr, err := other.Address()
	if err != nil {
		t.Fatalf("Address() error: %v", err)
	}
	otherScript := types.PayToAddressScript(otherAddr)

	if VerifyInput(txn, 0, otherScript) {
		t.Error("signature should not verify against another key's script")
	}
}

func TestVerifyInput_Corrupted(t *testing.T) {
	txn, key, script := testTransaction(t)
	if err := SignAll(txn, key); err != nil {
		t.Fatalf("SignAll() error: %v", err)
	}

	txn.Inputs[0].SignatureScript[1] ^= 0x01
	if VerifyInput(txn, 0, script) {
		t.Error("corrupted signature should not verify")
	}
}

func TestVerifyInput_Unsigned(t *testing.T) {
	txn, _, script := testTransaction(t)
	if VerifyInput(txn, 0, script) {
		t.Error("unsigned input should not verify")
	}
}

func TestVerifyInput_OutOfRange(t *testing.T) {
	txn, _, script := testTransaction(t)
	if VerifyInput(txn, -1, script) {
		t.Error("negative index should not verify")
	}
	if VerifyInput(txn, len(txn.Inputs), script) {
		t.Error("out-of-range index should not verify")
	}
}

func TestVerifyInput_NonPayToPubKey(t *testing.T) {
	txn, key, _ := testTransaction(t)
	if err := SignAll(txn, key); err != nil {
		t.Fatalf("SignAll() error: %v", err)
	}

	scriptHash := types.ScriptPublicKey{Script: []byte{0xaa, 0x20, 0x87}}
	if VerifyInput(txn, 0, scriptHash) {
		t.Error("non-pay-to-pubkey script should not verify")
	}
}
