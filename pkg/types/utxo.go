package types

// UTXO is one unspent output as reported by a node. Slices of UTXOs
// keep the node's reporting order; selection depends on it.
type UTXO struct {
	Outpoint        Outpoint
	Amount          uint64
	ScriptPublicKey ScriptPublicKey
	BlockDAAScore   uint64
	IsCoinbase      bool
}
