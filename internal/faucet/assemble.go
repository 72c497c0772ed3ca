package faucet

import (
	"github.com/kaspatech/kaspa-faucet/pkg/tx"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// Assembly is an unsigned claim transaction plus its accounting.
type Assembly struct {
	Tx     *tx.Transaction
	Change uint64 // Zero when the residual was folded into the fee.
	Fee    uint64 // Declared fee plus any folded residual.
}

// Assemble builds the unsigned transaction for a selection. The
// destination output comes first. A change output back to the faucet
// follows only when the residual meets the dust threshold; a sub-dust
// residual is left to the fee instead.
func Assemble(sel *CoinSelection, dest, change types.Address, amount, dustThreshold uint64) *Assembly {
	builder := tx.NewBuilder()
	for _, utxo := range sel.Inputs {
		builder.AddInput(utxo.Outpoint)
	}
	builder.AddOutput(amount, types.PayToAddressScript(dest))

	residual := sel.Total - amount - sel.Fee
	asm := &Assembly{Fee: sel.Fee}
	if residual >= dustThreshold {
		builder.AddOutput(residual, types.PayToAddressScript(change))
		asm.Change = residual
	} else {
		asm.Fee += residual
	}
	asm.Tx = builder.Build()
	return asm
}
