package kaspad

import (
	"context"
	"fmt"

	"github.com/kaspatech/kaspa-faucet/pkg/tx"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// InfoResult is the node's getInfo response.
type InfoResult struct {
	ServerVersion string `json:"serverVersion"`
	IsSynced      bool   `json:"isSynced"`
	IsUTXOIndexed bool   `json:"isUtxoIndexed"`
	MempoolSize   uint64 `json:"mempoolSize"`
}

// GetInfo fetches the node's version and sync state.
func (c *Client) GetInfo(ctx context.Context) (*InfoResult, error) {
	var result InfoResult
	if err := c.Call(ctx, "getInfo", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type balanceParams struct {
	Address string `json:"address"`
}

type balanceResult struct {
	Balance uint64 `json:"balance"`
}

// GetBalanceByAddress returns the confirmed balance of address in sompi.
func (c *Client) GetBalanceByAddress(ctx context.Context, address string) (uint64, error) {
	var result balanceResult
	if err := c.Call(ctx, "getBalanceByAddress", balanceParams{Address: address}, &result); err != nil {
		return 0, err
	}
	return result.Balance, nil
}

type utxosParams struct {
	Addresses []string `json:"addresses"`
}

// utxoEntry is one entry of the node's getUtxosByAddresses response.
type utxoEntry struct {
	Address  string         `json:"address"`
	Outpoint types.Outpoint `json:"outpoint"`
	Entry    struct {
		Amount          uint64                `json:"amount"`
		ScriptPublicKey types.ScriptPublicKey `json:"scriptPublicKey"`
		BlockDAAScore   uint64                `json:"blockDaaScore"`
		IsCoinbase      bool                  `json:"isCoinbase"`
	} `json:"utxoEntry"`
}

type utxosResult struct {
	Entries []utxoEntry `json:"entries"`
}

// GetUTXOsByAddress returns the spendable outputs of address, preserving
// the order the node reported them in.
func (c *Client) GetUTXOsByAddress(ctx context.Context, address string) ([]types.UTXO, error) {
	var result utxosResult
	if err := c.Call(ctx, "getUtxosByAddresses", utxosParams{Addresses: []string{address}}, &result); err != nil {
		return nil, err
	}

	utxos := make([]types.UTXO, 0, len(result.Entries))
	for _, e := range result.Entries {
		utxos = append(utxos, types.UTXO{
			Outpoint:        e.Outpoint,
			Amount:          e.Entry.Amount,
			ScriptPublicKey: e.Entry.ScriptPublicKey,
			BlockDAAScore:   e.Entry.BlockDAAScore,
			IsCoinbase:      e.Entry.IsCoinbase,
		})
	}
	return utxos, nil
}

type daaScoreResult struct {
	VirtualDAAScore uint64 `json:"virtualDaaScore"`
}

// GetVirtualDAAScore returns the DAA score of the node's virtual block.
func (c *Client) GetVirtualDAAScore(ctx context.Context) (uint64, error) {
	var result daaScoreResult
	if err := c.Call(ctx, "getVirtualDaaScore", nil, &result); err != nil {
		return 0, err
	}
	return result.VirtualDAAScore, nil
}

type submitParams struct {
	Transaction *tx.Transaction `json:"transaction"`
	AllowOrphan bool            `json:"allowOrphan"`
}

type submitResult struct {
	TransactionID string `json:"transactionId"`
}

// SubmitTransaction submits a signed transaction to the node's mempool
// and returns the transaction ID the node assigned.
func (c *Client) SubmitTransaction(ctx context.Context, txn *tx.Transaction) (types.Hash, error) {
	var result submitResult
	if err := c.Call(ctx, "submitTransaction", submitParams{Transaction: txn}, &result); err != nil {
		return types.Hash{}, err
	}
	id, err := types.HexToHash(result.TransactionID)
	if err != nil {
		return types.Hash{}, fmt.Errorf("node returned malformed transaction id %q: %w", result.TransactionID, err)
	}
	return id, nil
}
