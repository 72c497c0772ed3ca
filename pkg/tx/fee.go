package tx

// FeeForInputs returns the fee for a transaction spending numInputs
// UTXOs at the given per-input rate. One extra unit covers the fixed
// transaction overhead, so an n-input spend pays (n+1)*feePerInput.
func FeeForInputs(numInputs int, feePerInput uint64) uint64 {
	return uint64(numInputs+1) * feePerInput
}
