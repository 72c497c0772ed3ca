package config

// =============================================================================
// Network Parameters (fixed per network)
// These must match the kaspad node the faucet talks to.
// =============================================================================

// Denomination constants.
// 1 KAS = 10^8 sompi. All on-chain values are in sompi.
const (
	Decimals    = 8
	SompiPerKas = 100_000_000
)

// CoinType is the BIP-44 coin type for Kaspa key derivation (m/44'/111111').
const CoinType uint32 = 111111

// Params holds the fixed parameters of one Kaspa network.
type Params struct {
	Name NetworkType

	// HRP is the bech32 address prefix.
	HRP string

	// RPCPort is the default kaspad JSON-RPC port.
	RPCPort int

	// APIPort is the default faucet API port.
	APIPort int
}

// MainnetParams returns the mainnet network parameters.
func MainnetParams() Params {
	return Params{
		Name:    Mainnet,
		HRP:     "kaspa",
		RPCPort: 16110,
		APIPort: 3000,
	}
}

// TestnetParams returns the testnet network parameters.
func TestnetParams() Params {
	return Params{
		Name:    Testnet,
		HRP:     "kaspatest",
		RPCPort: 16210,
		APIPort: 3010,
	}
}

// DevnetParams returns the devnet network parameters.
func DevnetParams() Params {
	return Params{
		Name:    Devnet,
		HRP:     "kaspadev",
		RPCPort: 16610,
		APIPort: 3060,
	}
}

// SimnetParams returns the simnet network parameters.
func SimnetParams() Params {
	return Params{
		Name:    Simnet,
		HRP:     "kaspasim",
		RPCPort: 16510,
		APIPort: 3050,
	}
}

// ParamsFor returns the parameters for the given network.
func ParamsFor(network NetworkType) Params {
	switch network {
	case Mainnet:
		return MainnetParams()
	case Devnet:
		return DevnetParams()
	case Simnet:
		return SimnetParams()
	default:
		return TestnetParams()
	}
}
