package config

import "fmt"

// Default returns the default configuration for the given network.
// The faucet is a testnet service first; mainnet defaults exist so a
// deployment against another network only has to flip --network.
func Default(network NetworkType) *Config {
	params := ParamsFor(network)
	return &Config{
		Network: network,
		DataDir: DefaultDataDir(),
		Kaspad: KaspadConfig{
			URL:            fmt.Sprintf("http://127.0.0.1:%d", params.RPCPort),
			TimeoutSeconds: 10,
		},
		API: APIConfig{
			Addr: "0.0.0.0",
			Port: params.APIPort,
		},
		Faucet: FaucetConfig{
			Amount:               100_000_000, // 1 KAS per claim.
			ClaimIntervalSeconds: 3600,
			FeePerInput:          2000,
			DustThreshold:        1000,
			CoinbaseMaturity:     100,
			ReserveTTLSeconds:    60,
			PersistClaims:        true,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default testnet configuration.
func DefaultTestnet() *Config {
	return Default(Testnet)
}
