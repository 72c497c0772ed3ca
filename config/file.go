package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(value)
	case "datadir":
		cfg.DataDir = value

	// Node connection
	case "kaspad.url":
		cfg.Kaspad.URL = value
	case "kaspad.timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Kaspad.TimeoutSeconds = n

	// API
	case "api.addr":
		cfg.API.Addr = value
	case "api.port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.API.Port = port
	case "api.allowed":
		cfg.API.AllowedIPs = parseStringList(value)
	case "api.cors":
		cfg.API.CORSOrigins = parseStringList(value)
	case "api.trust-proxy":
		cfg.API.TrustProxy = parseBool(value)

	// Claim engine
	case "faucet.private-key":
		cfg.Faucet.PrivateKey = value
	case "faucet.key-file":
		cfg.Faucet.KeyFile = value
	case "faucet.key-passphrase-file":
		cfg.Faucet.KeyPassphraseFile = value
	case "faucet.amount":
		return setUint64(&cfg.Faucet.Amount, value)
	case "faucet.claim-interval":
		return setUint64(&cfg.Faucet.ClaimIntervalSeconds, value)
	case "faucet.fee-per-input":
		return setUint64(&cfg.Faucet.FeePerInput, value)
	case "faucet.dust-threshold":
		return setUint64(&cfg.Faucet.DustThreshold, value)
	case "faucet.coinbase-maturity":
		return setUint64(&cfg.Faucet.CoinbaseMaturity, value)
	case "faucet.reserve-ttl":
		return setUint64(&cfg.Faucet.ReserveTTLSeconds, value)
	case "faucet.persist-claims":
		cfg.Faucet.PersistClaims = parseBool(value)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

func setUint64(dst *uint64, value string) error {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// parseStringList parses a comma-separated list.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	defaults := Default(network)
	content := `# Kaspa Faucet Configuration
#
# Values here are overridden by command-line flags.

# Network: mainnet, testnet, devnet, or simnet
network = ` + string(network) + `

# Data directory (default: ~/.kaspa-faucet)
# datadir = ~/.kaspa-faucet

# ============================================================================
# Kaspad Node
# ============================================================================

kaspad.url = ` + defaults.Kaspad.URL + `
# Per-call timeout in seconds
kaspad.timeout = 10

# ============================================================================
# HTTP API
# ============================================================================

api.addr = 0.0.0.0
api.port = ` + strconv.Itoa(defaults.API.Port) + `

# Allowed client IPs or CIDRs, comma-separated (empty = allow all)
# api.allowed = 127.0.0.1

# CORS allowed origins ("*" for all)
# api.cors = *

# Honor X-Forwarded-For when a reverse proxy fronts the faucet
# api.trust-proxy = false

# ============================================================================
# Claims
# ============================================================================

# Exactly one of private-key / key-file must be set.
# faucet.private-key = <64 hex chars>
# faucet.key-file = ~/.kaspa-faucet/` + string(network) + `/keys/faucet.key

# Passphrase file for key-file; omitted = interactive prompt at startup
# faucet.key-passphrase-file = /run/secrets/faucet-passphrase

# Sompi paid per claim (100000000 = 1 KAS)
faucet.amount = 100000000

# Seconds an identity waits between claims
faucet.claim-interval = 3600

# Fee model: (inputs + 1) * fee-per-input sompi
faucet.fee-per-input = 2000

# Minimum change output; smaller residuals are left to the fee
faucet.dust-threshold = 1000

# DAA score confirmations before coinbase outputs are spent
faucet.coinbase-maturity = 100

# Seconds a just-spent outpoint stays out of selection
faucet.reserve-ttl = 60

# Persist cooldowns across restarts
faucet.persist-claims = true

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
