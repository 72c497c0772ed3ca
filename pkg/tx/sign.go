package tx

import (
	"fmt"

	"github.com/kaspatech/kaspa-faucet/pkg/crypto"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

const (
	// sigHashAll commits a signature to all inputs and outputs.
	sigHashAll = 0x01

	// opData65 pushes the 65-byte signature-plus-sighash-type blob.
	opData65 = 0x41
)

// SignAll signs every input with the given signer. Each input's
// signature script becomes a single push of the 64-byte Schnorr
// signature over that input's digest followed by the sighash type.
// All spent outputs must be pay-to-pubkey outputs of the signer's key.
func SignAll(t *Transaction, signer crypto.Signer) error {
	for i := range t.Inputs {
		digest := t.SigningDigest(i)
		sig, err := signer.Sign(digest[:])
		if err != nil {
			return fmt.Errorf("sign input %d: %w", i, err)
		}
		script := make([]byte, 0, len(sig)+2)
		script = append(script, opData65)
		script = append(script, sig...)
		script = append(script, sigHashAll)
		t.Inputs[i].SignatureScript = script
	}
	return nil
}

// VerifyInput checks an input's signature script against the Schnorr
// pay-to-pubkey script of the output it spends. Returns false for
// missing signatures, malformed scripts, and non-pay-to-pubkey
// previous outputs.
func VerifyInput(t *Transaction, inputIndex int, prevScript types.ScriptPublicKey) bool {
	if inputIndex < 0 || inputIndex >= len(t.Inputs) {
		return false
	}
	script := t.Inputs[inputIndex].SignatureScript
	if len(script) != crypto.SignatureSize+2 {
		return false
	}
	if script[0] != opData65 || script[len(script)-1] != sigHashAll {
		return false
	}
	pubKey, ok := prevScript.SchnorrPublicKey()
	if !ok {
		return false
	}
	digest := t.SigningDigest(inputIndex)
	return crypto.VerifySignature(digest[:], script[1:1+crypto.SignatureSize], pubKey)
}
