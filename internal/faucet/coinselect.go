package faucet

import (
	"github.com/kaspatech/kaspa-faucet/pkg/tx"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// CoinSelection is the funding picked for a single claim.
type CoinSelection struct {
	Inputs []types.UTXO // Selected UTXOs, in the order they were offered.
	Total  uint64       // Sum of the selected amounts.
	Fee    uint64       // Fee owed at this input count.
}

// SelectUTXOs takes candidates front to back until they cover amount
// plus the fee at the resulting input count. Each input added raises
// the fee, so coverage is re-checked after every addition. Candidates
// must already be spendable; no filtering happens here.
func SelectUTXOs(candidates []types.UTXO, amount, feePerInput uint64) (*CoinSelection, error) {
	var (
		selected []types.UTXO
		total    uint64
	)
	for _, utxo := range candidates {
		selected = append(selected, utxo)
		total += utxo.Amount
		fee := tx.FeeForInputs(len(selected), feePerInput)
		if total >= amount+fee {
			return &CoinSelection{Inputs: selected, Total: total, Fee: fee}, nil
		}
	}
	return nil, &InsufficientFundsError{
		Have: total,
		Need: amount + tx.FeeForInputs(len(candidates), feePerInput),
	}
}
