package tx

import (
	"errors"
	"fmt"
	"math"

	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// Validation errors.
var (
	ErrNoInputs       = errors.New("transaction has no inputs")
	ErrNoOutputs      = errors.New("transaction has no outputs")
	ErrDuplicateInput = errors.New("duplicate input")
	ErrMissingSig     = errors.New("input missing signature script")
	ErrZeroOutput     = errors.New("output value is zero")
	ErrEmptyScript    = errors.New("output script is empty")
	ErrOutputOverflow = errors.New("output values overflow")
	ErrNativePayload  = errors.New("native transaction carries gas or payload")
)

// Validate checks transaction structure before submission. The node
// performs full consensus validation; this catches assembly bugs before
// they reach the wire.
func (t *Transaction) Validate() error {
	if len(t.Inputs) == 0 {
		return ErrNoInputs
	}
	if len(t.Outputs) == 0 {
		return ErrNoOutputs
	}

	seen := make(map[types.Outpoint]bool, len(t.Inputs))
	for i, in := range t.Inputs {
		if seen[in.PreviousOutpoint] {
			return fmt.Errorf("input %d: %w", i, ErrDuplicateInput)
		}
		seen[in.PreviousOutpoint] = true
		if len(in.SignatureScript) == 0 {
			return fmt.Errorf("input %d: %w", i, ErrMissingSig)
		}
	}

	var totalOutput uint64
	for i, out := range t.Outputs {
		if out.Amount == 0 {
			return fmt.Errorf("output %d: %w", i, ErrZeroOutput)
		}
		if len(out.ScriptPublicKey.Script) == 0 {
			return fmt.Errorf("output %d: %w", i, ErrEmptyScript)
		}
		if totalOutput > math.MaxUint64-out.Amount {
			return fmt.Errorf("output %d: %w", i, ErrOutputOverflow)
		}
		totalOutput += out.Amount
	}

	if t.SubnetworkID.IsNative() && (t.Gas != 0 || len(t.Payload) != 0) {
		return ErrNativePayload
	}

	return nil
}
