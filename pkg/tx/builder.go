package tx

import (
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// currentVersion is the transaction version the network accepts.
const currentVersion = 0

// Builder constructs transactions incrementally.
type Builder struct {
	tx *Transaction
}

// NewBuilder creates a new transaction builder.
func NewBuilder() *Builder {
	return &Builder{
		tx: &Transaction{Version: currentVersion},
	}
}

// AddInput adds an input spending the given outpoint. The input's
// sequence is its position in the transaction.
func (b *Builder) AddInput(prevOut types.Outpoint) *Builder {
	b.tx.Inputs = append(b.tx.Inputs, Input{
		PreviousOutpoint: prevOut,
		Sequence:         uint64(len(b.tx.Inputs)),
		SigOpCount:       1,
	})
	return b
}

// AddOutput adds an output paying amount to the given script.
func (b *Builder) AddOutput(amount uint64, script types.ScriptPublicKey) *Builder {
	b.tx.Outputs = append(b.tx.Outputs, Output{
		Amount:          amount,
		ScriptPublicKey: script,
	})
	return b
}

// SetLockTime sets the transaction lock time.
func (b *Builder) SetLockTime(lockTime uint64) *Builder {
	b.tx.LockTime = lockTime
	return b
}

// Build returns the constructed transaction. Signing is a separate
// step; see SignAll.
func (b *Builder) Build() *Transaction {
	return b.tx
}
