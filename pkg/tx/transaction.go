// Package tx defines the transaction model the faucet assembles, signs,
// and submits to a node.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/kaspatech/kaspa-faucet/pkg/crypto"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// Transaction is a native-subnetwork transaction in the shape the node's
// RPC accepts.
type Transaction struct {
	Version      uint16             `json:"version"`
	Inputs       []Input            `json:"inputs"`
	Outputs      []Output           `json:"outputs"`
	LockTime     uint64             `json:"lockTime"`
	SubnetworkID types.SubnetworkID `json:"subnetworkId"`
	Gas          uint64             `json:"gas"`
	Payload      []byte             `json:"payload"`
}

// Input spends a previous output.
type Input struct {
	PreviousOutpoint types.Outpoint `json:"previousOutpoint"`
	SignatureScript  []byte         `json:"signatureScript"`
	Sequence         uint64         `json:"sequence"`
	SigOpCount       byte           `json:"sigOpCount"`
}

// inputJSON is the wire representation of Input with the signature
// script hex-encoded.
type inputJSON struct {
	PreviousOutpoint types.Outpoint `json:"previousOutpoint"`
	SignatureScript  string         `json:"signatureScript"`
	Sequence         uint64         `json:"sequence"`
	SigOpCount       byte           `json:"sigOpCount"`
}

// MarshalJSON encodes the input with a hex-encoded signature script.
func (in Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(inputJSON{
		PreviousOutpoint: in.PreviousOutpoint,
		SignatureScript:  hex.EncodeToString(in.SignatureScript),
		Sequence:         in.Sequence,
		SigOpCount:       in.SigOpCount,
	})
}

// UnmarshalJSON decodes an input with a hex-encoded signature script.
func (in *Input) UnmarshalJSON(data []byte) error {
	var j inputJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	in.PreviousOutpoint = j.PreviousOutpoint
	in.Sequence = j.Sequence
	in.SigOpCount = j.SigOpCount
	in.SignatureScript = nil
	if j.SignatureScript != "" {
		b, err := hex.DecodeString(j.SignatureScript)
		if err != nil {
			return err
		}
		in.SignatureScript = b
	}
	return nil
}

// Output creates a new UTXO.
type Output struct {
	Amount          uint64                `json:"amount"`
	ScriptPublicKey types.ScriptPublicKey `json:"scriptPublicKey"`
}

// transactionJSON is the wire representation of Transaction with the
// payload hex-encoded.
type transactionJSON struct {
	Version      uint16             `json:"version"`
	Inputs       []Input            `json:"inputs"`
	Outputs      []Output           `json:"outputs"`
	LockTime     uint64             `json:"lockTime"`
	SubnetworkID types.SubnetworkID `json:"subnetworkId"`
	Gas          uint64             `json:"gas"`
	Payload      string             `json:"payload"`
}

// MarshalJSON encodes the transaction with a hex-encoded payload.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		Version:      t.Version,
		Inputs:       t.Inputs,
		Outputs:      t.Outputs,
		LockTime:     t.LockTime,
		SubnetworkID: t.SubnetworkID,
		Gas:          t.Gas,
		Payload:      hex.EncodeToString(t.Payload),
	})
}

// UnmarshalJSON decodes a transaction with a hex-encoded payload.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var j transactionJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	t.Version = j.Version
	t.Inputs = j.Inputs
	t.Outputs = j.Outputs
	t.LockTime = j.LockTime
	t.SubnetworkID = j.SubnetworkID
	t.Gas = j.Gas
	t.Payload = nil
	if j.Payload != "" {
		b, err := hex.DecodeString(j.Payload)
		if err != nil {
			return err
		}
		t.Payload = b
	}
	return nil
}

// serializeStripped returns the canonical byte representation with all
// signature scripts omitted. Both the transaction ID and the per-input
// signing digests are computed over this form.
//
// Format: version(2) | input_count(8) | [txid(32) + index(4) + sequence(8)
// + sigOpCount(1)]... | output_count(8) | [amount(8) + script_version(2)
// + script_len(8) + script]... | locktime(8) | subnetwork(20) | gas(8) |
// payload_len(8) | payload. All integers little-endian.
func (t *Transaction) serializeStripped() []byte {
	var buf []byte

	buf = binary.LittleEndian.AppendUint16(buf, t.Version)

	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(t.Inputs)))
	for _, in := range t.Inputs {
		buf = append(buf, in.PreviousOutpoint.TxID[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PreviousOutpoint.Index)
		buf = binary.LittleEndian.AppendUint64(buf, in.Sequence)
		buf = append(buf, in.SigOpCount)
	}

	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(t.Outputs)))
	for _, out := range t.Outputs {
		buf = binary.LittleEndian.AppendUint64(buf, out.Amount)
		buf = binary.LittleEndian.AppendUint16(buf, out.ScriptPublicKey.Version)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(out.ScriptPublicKey.Script)))
		buf = append(buf, out.ScriptPublicKey.Script...)
	}

	buf = binary.LittleEndian.AppendUint64(buf, t.LockTime)
	buf = append(buf, t.SubnetworkID[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, t.Gas)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(t.Payload)))
	buf = append(buf, t.Payload...)

	return buf
}

// ID computes the transaction ID, a BLAKE3 hash of the stripped
// serialization. Signing does not change the ID.
func (t *Transaction) ID() types.Hash {
	return crypto.Hash(t.serializeStripped())
}

// SigningDigest returns the digest an input's signature commits to. The
// digest covers the stripped transaction plus the input index and the
// sighash type, so a signature cannot be replayed on another input.
func (t *Transaction) SigningDigest(inputIndex int) types.Hash {
	buf := t.serializeStripped()
	buf = binary.LittleEndian.AppendUint32(buf, uint32(inputIndex))
	buf = append(buf, sigHashAll)
	return crypto.Hash(buf)
}

// TotalOutputValue returns the sum of all output amounts.
// Returns an error if the sum overflows uint64.
func (t *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range t.Outputs {
		if total > math.MaxUint64-out.Amount {
			return 0, fmt.Errorf("output value overflow")
		}
		total += out.Amount
	}
	return total, nil
}
