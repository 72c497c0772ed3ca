package tx

import (
	"encoding/json"
	"strings"
	"testing"
)

// FuzzTxUnmarshal tests that arbitrary JSON input does not panic
// when unmarshaled into a Transaction struct.
func FuzzTxUnmarshal(f *testing.F) {
	zeroID := strings.Repeat("00", 32)
	f.Add([]byte(`{"version":0,"inputs":[{"previousOutpoint":{"transactionId":"` + zeroID +
		`","index":0},"signatureScript":"","sequence":0,"sigOpCount":1}],"outputs":[{"amount":1000,"scriptPublicKey":{"version":0,"scriptPublicKey":"20ac"}}],"lockTime":0,"subnetworkId":"` +
		strings.Repeat("00", 20) + `","gas":0,"payload":""}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"inputs":null,"outputs":null}`))
	f.Add([]byte(`{"inputs":[{"signatureScript":"41","sequence":0}],"outputs":[{"amount":0}]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var txn Transaction
		if err := json.Unmarshal(data, &txn); err != nil {
			return
		}
		// If unmarshal succeeded, these must not panic.
		txn.ID()
		txn.Validate()
		for i := range txn.Inputs {
			txn.SigningDigest(i)
		}
	})
}
