package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// Node connection
	KaspadURL     string
	KaspadTimeout int

	// API
	APIAddr    string
	APIPort    int
	APIAllowed string
	APICORS    string
	TrustProxy bool

	// Claim engine
	PrivateKey        string
	KeyFile           string
	KeyPassphraseFile string
	Amount            uint64
	ClaimInterval     uint64
	FeePerInput       uint64
	DustThreshold     uint64
	CoinbaseMaturity  uint64
	ReserveTTL        uint64
	PersistClaims     bool

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetTrustProxy    bool
	SetPersistClaims bool
	SetLogJSON       bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("faucetd", flag.ContinueOnError)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.Network, "network", "", "Network type (mainnet, testnet, devnet, simnet)")
	var testnet bool
	fs.BoolVar(&testnet, "testnet", false, "Use testnet (shorthand for --network=testnet)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Node connection
	fs.StringVar(&f.KaspadURL, "kaspad-url", "", "Kaspad JSON-RPC endpoint URL")
	fs.IntVar(&f.KaspadTimeout, "kaspad-timeout", 0, "Per-call node timeout in seconds")

	// API
	fs.StringVar(&f.APIAddr, "api-addr", "", "API listen address")
	fs.IntVar(&f.APIPort, "api-port", 0, "API listen port")
	fs.StringVar(&f.APIAllowed, "api-allowed", "", "Allowed client IPs/CIDRs for the API (comma-separated)")
	fs.StringVar(&f.APICORS, "api-cors", "", "Allowed CORS origins for the API (comma-separated)")
	fs.BoolVar(&f.TrustProxy, "trust-proxy", false, "Honor X-Forwarded-For from a reverse proxy")

	// Claim engine
	fs.StringVar(&f.PrivateKey, "private-key", "", "Hex-encoded faucet private key")
	fs.StringVar(&f.KeyFile, "key-file", "", "Path to encrypted faucet key file")
	fs.StringVar(&f.KeyPassphraseFile, "key-passphrase-file", "", "File holding the key file passphrase (omit to prompt)")
	fs.Uint64Var(&f.Amount, "amount", 0, "Sompi paid per claim")
	fs.Uint64Var(&f.ClaimInterval, "claim-interval", 0, "Seconds between claims per identity")
	fs.Uint64Var(&f.FeePerInput, "fee-per-input", 0, "Fee constant in sompi")
	fs.Uint64Var(&f.DustThreshold, "dust-threshold", 0, "Minimum change output in sompi")
	fs.Uint64Var(&f.CoinbaseMaturity, "coinbase-maturity", 0, "DAA score depth before coinbase outputs spend")
	fs.Uint64Var(&f.ReserveTTL, "reserve-ttl", 0, "Seconds a spent outpoint stays reserved")
	fs.BoolVar(&f.PersistClaims, "persist-claims", true, "Persist cooldowns across restarts")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	// Custom usage
	fs.Usage = func() {
		printUsage()
	}

	// Parse
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Handle --testnet shorthand
	if testnet {
		f.Network = "testnet"
	}
	f.SetTrustProxy = isFlagSet(fs, "trust-proxy")
	f.SetPersistClaims = isFlagSet(fs, "persist-claims")
	f.SetLogJSON = isFlagSet(fs, "log-json")

	f.Args = fs.Args()

	// Detect unparsed flags caused by positional arguments stopping the parser.
	for _, arg := range f.Args {
		if strings.HasPrefix(arg, "-") {
			fmt.Fprintf(os.Stderr, "Error: flag %q was not parsed (positional argument stopped parsing)\n", arg)
			os.Exit(1)
		}
	}

	return f
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.Network != "" {
		cfg.Network = NetworkType(f.Network)
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Node connection
	if f.KaspadURL != "" {
		cfg.Kaspad.URL = f.KaspadURL
	}
	if f.KaspadTimeout != 0 {
		cfg.Kaspad.TimeoutSeconds = f.KaspadTimeout
	}

	// API
	if f.APIAddr != "" {
		cfg.API.Addr = f.APIAddr
	}
	if f.APIPort != 0 {
		cfg.API.Port = f.APIPort
	}
	if f.APIAllowed != "" {
		cfg.API.AllowedIPs = parseStringList(f.APIAllowed)
	}
	if f.APICORS != "" {
		cfg.API.CORSOrigins = parseStringList(f.APICORS)
	}
	if f.SetTrustProxy {
		cfg.API.TrustProxy = f.TrustProxy
	}

	// Claim engine
	if f.PrivateKey != "" {
		cfg.Faucet.PrivateKey = f.PrivateKey
	}
	if f.KeyFile != "" {
		cfg.Faucet.KeyFile = f.KeyFile
	}
	if f.KeyPassphraseFile != "" {
		cfg.Faucet.KeyPassphraseFile = f.KeyPassphraseFile
	}
	if f.Amount != 0 {
		cfg.Faucet.Amount = f.Amount
	}
	if f.ClaimInterval != 0 {
		cfg.Faucet.ClaimIntervalSeconds = f.ClaimInterval
	}
	if f.FeePerInput != 0 {
		cfg.Faucet.FeePerInput = f.FeePerInput
	}
	if f.DustThreshold != 0 {
		cfg.Faucet.DustThreshold = f.DustThreshold
	}
	if f.CoinbaseMaturity != 0 {
		cfg.Faucet.CoinbaseMaturity = f.CoinbaseMaturity
	}
	if f.ReserveTTL != 0 {
		cfg.Faucet.ReserveTTLSeconds = f.ReserveTTL
	}
	if f.SetPersistClaims {
		cfg.Faucet.PersistClaims = f.PersistClaims
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	usage := `Kaspa Faucet - testnet coin dispenser

Usage:
  faucetd [options]
  faucetd --help

Commands:
  --help, -h      Show this help message
  --version, -v   Show version information

Core Options:
  --network       Network: mainnet, testnet (default), devnet, simnet
  --testnet       Shorthand for --network=testnet
  --datadir       Data directory (default: ~/.kaspa-faucet)
  --config, -c    Config file path (default: <datadir>/faucet.conf)

Node Options:
  --kaspad-url       Kaspad JSON-RPC endpoint (default: http://127.0.0.1:16210)
  --kaspad-timeout   Per-call node timeout in seconds (default: 10)

API Options:
  --api-addr      API listen address (default: 0.0.0.0)
  --api-port      API listen port (testnet: 3010)
  --api-allowed   Allowed client IPs/CIDRs (comma-separated, empty = all)
  --api-cors      Allowed CORS origins (comma-separated)
  --trust-proxy   Honor X-Forwarded-For from a reverse proxy

Claim Options:
  --private-key          Hex-encoded faucet private key
  --key-file             Path to encrypted faucet key file
  --key-passphrase-file  File holding the key file passphrase (omit to prompt)
  --amount               Sompi paid per claim (default: 100000000 = 1 KAS)
  --claim-interval       Seconds between claims per identity (default: 3600)
  --fee-per-input        Fee constant in sompi (default: 2000)
  --dust-threshold       Minimum change output in sompi (default: 1000)
  --coinbase-maturity    DAA confirmations before coinbase outputs spend (default: 100)
  --reserve-ttl          Seconds a spent outpoint stays reserved (default: 60)
  --persist-claims       Persist cooldowns across restarts (default: true)

Logging Options:
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: <datadir>/logs/faucet.log)
  --log-json      Output logs as JSON

Examples:
  # Serve testnet claims with an encrypted key file
  faucetd --key-file=~/.kaspa-faucet/testnet/keys/faucet.key

  # Custom node endpoint and claim size
  faucetd --kaspad-url=http://10.0.0.5:16210 --amount=500000000

  # Behind a reverse proxy
  faucetd --trust-proxy --api-addr=127.0.0.1

Exactly one of --private-key / --key-file must be set. Data directories
are created automatically on first start.
`
	fmt.Print(usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. Command-line flags
func Load() (*Config, *Flags, error) {
	flags := ParseFlags()

	// Handle help/version
	if flags.Help {
		printUsage()
		os.Exit(0)
	}
	if flags.Version {
		fmt.Println("faucetd version 0.1.0")
		os.Exit(0)
	}

	// Determine network first (needed for defaults)
	network := Testnet
	if flags.Network != "" {
		network = NetworkType(strings.ToLower(flags.Network))
	}

	// Start with defaults
	cfg := Default(network)

	// Override datadir if specified
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	// Auto-create data directories and default config on first start.
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	// Determine config file path
	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	// Load config file
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}

	// Apply file config
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	// Apply flags (highest precedence)
	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, flags, nil
}

// EnsureDataDirs creates the data directory structure and a default
// config file if they don't already exist. Safe to call on every
// startup.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.DBDir(),
		cfg.KeysDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	// Create default config if it doesn't exist.
	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
