// Package config handles faucet configuration.
//
// Configuration is split into two categories:
//   - Network parameters: fixed per network (HRP, default ports), selected by --network
//   - Operator settings: runtime configuration, can vary per deployment
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies which Kaspa network the faucet serves.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
	Devnet  NetworkType = "devnet"
	Simnet  NetworkType = "simnet"
)

// Config holds deployment-specific runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Node connection
	Kaspad KaspadConfig

	// HTTP API server
	API APIConfig

	// Claim engine
	Faucet FaucetConfig

	// Logging
	Log LogConfig
}

// KaspadConfig holds node connection settings.
type KaspadConfig struct {
	URL            string `conf:"kaspad.url"`
	TimeoutSeconds int    `conf:"kaspad.timeout"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Addr        string   `conf:"api.addr"`
	Port        int      `conf:"api.port"`
	AllowedIPs  []string `conf:"api.allowed"`
	CORSOrigins []string `conf:"api.cors"` // Allowed CORS origins ("*" = all).
	TrustProxy  bool     `conf:"api.trust-proxy"`
}

// FaucetConfig holds the claim engine settings.
type FaucetConfig struct {
	PrivateKey           string `conf:"faucet.private-key"`         // Hex-encoded 32-byte secret.
	KeyFile              string `conf:"faucet.key-file"`            // Encrypted key file (alternative).
	KeyPassphraseFile    string `conf:"faucet.key-passphrase-file"` // Passphrase file; empty = prompt.
	Amount               uint64 `conf:"faucet.amount"`              // Sompi per claim.
	ClaimIntervalSeconds uint64 `conf:"faucet.claim-interval"`
	FeePerInput          uint64 `conf:"faucet.fee-per-input"`
	DustThreshold        uint64 `conf:"faucet.dust-threshold"`
	CoinbaseMaturity     uint64 `conf:"faucet.coinbase-maturity"` // DAA score depth.
	ReserveTTLSeconds    uint64 `conf:"faucet.reserve-ttl"`
	PersistClaims        bool   `conf:"faucet.persist-claims"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.kaspa-faucet
//	macOS:   ~/Library/Application Support/KaspaFaucet
//	Windows: %APPDATA%\KaspaFaucet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kaspa-faucet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KaspaFaucet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KaspaFaucet")
		}
		return filepath.Join(home, "AppData", "Roaming", "KaspaFaucet")
	default:
		return filepath.Join(home, ".kaspa-faucet")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// DBDir returns the claim/cooldown database directory.
func (c *Config) DBDir() string {
	return filepath.Join(c.NetworkDataDir(), "db")
}

// KeysDir returns the key file directory.
func (c *Config) KeysDir() string {
	return filepath.Join(c.NetworkDataDir(), "keys")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "faucet.conf")
}
