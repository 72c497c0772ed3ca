package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch cfg.Network {
	case Mainnet, Testnet, Devnet, Simnet:
	default:
		return fmt.Errorf("network must be %q, %q, %q, or %q", Mainnet, Testnet, Devnet, Simnet)
	}

	if cfg.Kaspad.URL == "" {
		return fmt.Errorf("kaspad.url is required")
	}
	u, err := url.Parse(cfg.Kaspad.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("kaspad.url must be an http(s) URL")
	}
	if cfg.Kaspad.TimeoutSeconds <= 0 {
		return fmt.Errorf("kaspad.timeout must be positive")
	}

	if cfg.API.Port < 0 || cfg.API.Port > 65535 {
		return fmt.Errorf("api.port must be in range [0, 65535]")
	}

	if cfg.Faucet.Amount == 0 {
		return fmt.Errorf("faucet.amount must be positive")
	}
	if cfg.Faucet.ClaimIntervalSeconds == 0 {
		return fmt.Errorf("faucet.claim-interval must be positive")
	}
	if cfg.Faucet.FeePerInput == 0 {
		return fmt.Errorf("faucet.fee-per-input must be positive")
	}
	if cfg.Faucet.DustThreshold == 0 {
		return fmt.Errorf("faucet.dust-threshold must be positive")
	}
	if cfg.Faucet.DustThreshold > cfg.Faucet.Amount {
		return fmt.Errorf("faucet.dust-threshold (%d) exceeds faucet.amount (%d)",
			cfg.Faucet.DustThreshold, cfg.Faucet.Amount)
	}
	if cfg.Faucet.ReserveTTLSeconds == 0 {
		return fmt.Errorf("faucet.reserve-ttl must be positive")
	}

	if cfg.Faucet.PrivateKey != "" && cfg.Faucet.KeyFile != "" {
		return fmt.Errorf("faucet.private-key and faucet.key-file are mutually exclusive")
	}
	if cfg.Faucet.KeyPassphraseFile != "" && cfg.Faucet.KeyFile == "" {
		return fmt.Errorf("faucet.key-passphrase-file requires faucet.key-file")
	}
	if cfg.Faucet.PrivateKey != "" {
		raw, err := hex.DecodeString(cfg.Faucet.PrivateKey)
		if err != nil || len(raw) != 32 {
			return fmt.Errorf("faucet.private-key must be 32 bytes of hex")
		}
	}

	return nil
}
