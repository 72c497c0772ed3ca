// Package daemon assembles the faucet service: logging, storage, the
// spending key, the node client, the claim engine, and the HTTP API,
// behind one Start/Stop lifecycle any binary can embed.
package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kaspatech/kaspa-faucet/config"
	"github.com/kaspatech/kaspa-faucet/internal/api"
	"github.com/kaspatech/kaspa-faucet/internal/faucet"
	"github.com/kaspatech/kaspa-faucet/internal/kaspad"
	klog "github.com/kaspatech/kaspa-faucet/internal/log"
	"github.com/kaspatech/kaspa-faucet/internal/ratelimit"
	"github.com/kaspatech/kaspa-faucet/internal/storage"
	"github.com/kaspatech/kaspa-faucet/internal/wallet"
	"github.com/kaspatech/kaspa-faucet/pkg/crypto"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Daemon is a fully-initialized faucet service.
type Daemon struct {
	cfg    *config.Config
	logger zerolog.Logger

	db        storage.DB
	node      *kaspad.Client
	key       *crypto.PrivateKey
	engine    *faucet.Faucet
	apiServer *api.Server
}

// New creates and initializes a faucet daemon. It performs all setup
// (logger, storage, key, node client, claim engine, API server) but
// does not begin serving. Call Start for that.
func New(cfg *config.Config) (*Daemon, error) {
	// ── 1. Set address HRP ──────────────────────────────────────────
	params := config.ParamsFor(cfg.Network)
	types.SetAddressHRP(params.HRP)

	// ── 2. Init logger ──────────────────────────────────────────────
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "faucet.log")
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("daemon")

	logger.Info().
		Str("network", string(cfg.Network)).
		Str("kaspad", cfg.Kaspad.URL).
		Uint64("amount", cfg.Faucet.Amount).
		Msg("Starting Kaspa Faucet")

	// ── 3. Open storage ─────────────────────────────────────────────
	var db storage.DB
	if cfg.Faucet.PersistClaims {
		var err error
		db, err = storage.NewBadger(cfg.DBDir())
		if err != nil {
			return nil, fmt.Errorf("open database at %s: %w", cfg.DBDir(), err)
		}
		logger.Info().Str("path", cfg.DBDir()).Msg("Database opened")
	}
	closeDB := func() {
		if db != nil {
			db.Close()
		}
	}

	// ── 4. Faucet key ───────────────────────────────────────────────
	key, err := loadFaucetKey(cfg)
	if err != nil {
		closeDB()
		return nil, err
	}
	signer, err := faucet.NewKeySigner(key)
	if err != nil {
		key.Zero()
		closeDB()
		return nil, fmt.Errorf("derive faucet address: %w", err)
	}
	logger.Info().Str("address", signer.Address().String()).Msg("Faucet key loaded")

	// ── 5. Node client ──────────────────────────────────────────────
	nodeTimeout := time.Duration(cfg.Kaspad.TimeoutSeconds) * time.Second
	node := kaspad.NewWithTimeout(cfg.Kaspad.URL, nodeTimeout)
	probeNode(node, nodeTimeout, logger)

	// ── 6. Rate limit guard ─────────────────────────────────────────
	interval := time.Duration(cfg.Faucet.ClaimIntervalSeconds) * time.Second
	var guard *ratelimit.Guard
	if db != nil {
		guard = ratelimit.NewPersistentGuard(interval, storage.NewPrefixDB(db, "rl/"))
	} else {
		guard = ratelimit.NewGuard(interval)
	}

	// ── 7. Claim engine ─────────────────────────────────────────────
	var journal storage.DB
	if db != nil {
		journal = storage.NewPrefixDB(db, "claims/")
	}
	engine := faucet.New(faucet.Config{
		Amount:           cfg.Faucet.Amount,
		FeePerInput:      cfg.Faucet.FeePerInput,
		DustThreshold:    cfg.Faucet.DustThreshold,
		CoinbaseMaturity: cfg.Faucet.CoinbaseMaturity,
		NodeTimeout:      nodeTimeout,
		ReserveTTL:       time.Duration(cfg.Faucet.ReserveTTLSeconds) * time.Second,
	}, node, signer, guard, journal)

	// ── 8. API server ───────────────────────────────────────────────
	apiAddr := fmt.Sprintf("%s:%d", cfg.API.Addr, cfg.API.Port)
	apiServer := api.New(apiAddr, engine, cfg.API)

	return &Daemon{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		node:      node,
		key:       key,
		engine:    engine,
		apiServer: apiServer,
	}, nil
}

// Start begins serving the API.
func (d *Daemon) Start() error {
	if err := d.apiServer.Start(); err != nil {
		return err
	}
	d.logger.Info().
		Str("api", d.apiServer.Addr()).
		Msg("Faucet started successfully")
	return nil
}

// Stop performs graceful shutdown in reverse order.
func (d *Daemon) Stop() {
	if d.apiServer != nil {
		d.apiServer.Stop()
	}
	if d.engine != nil {
		d.engine.Close()
	}
	if d.key != nil {
		d.key.Zero()
	}
	if d.db != nil {
		d.db.Close()
	}
	d.logger.Info().Msg("Goodbye!")
}

// APIAddr returns the address the API server is listening on.
func (d *Daemon) APIAddr() string {
	return d.apiServer.Addr()
}

// loadFaucetKey resolves the spending key from config: an inline hex
// key or an encrypted key file unlocked with a passphrase.
func loadFaucetKey(cfg *config.Config) (*crypto.PrivateKey, error) {
	switch {
	case cfg.Faucet.PrivateKey != "":
		key, err := crypto.PrivateKeyFromHex(cfg.Faucet.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("parse faucet.private-key: %w", err)
		}
		return key, nil

	case cfg.Faucet.KeyFile != "":
		path := cfg.Faucet.KeyFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.KeysDir(), path)
		}
		passphrase, err := readPassphrase(cfg.Faucet.KeyPassphraseFile)
		if err != nil {
			return nil, err
		}
		key, err := wallet.ReadKeyFile(path, passphrase)
		for i := range passphrase {
			passphrase[i] = 0
		}
		if err != nil {
			return nil, fmt.Errorf("unlock key file %s: %w", path, err)
		}
		return key, nil

	default:
		return nil, fmt.Errorf("faucet requires one of faucet.private-key or faucet.key-file")
	}
}

// readPassphrase reads the key file passphrase from a file, or prompts
// on the terminal when no file is configured.
func readPassphrase(passphraseFile string) ([]byte, error) {
	if passphraseFile != "" {
		data, err := os.ReadFile(passphraseFile)
		if err != nil {
			return nil, fmt.Errorf("read passphrase file: %w", err)
		}
		return []byte(strings.TrimRight(string(data), "\r\n")), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal; set faucet.key-passphrase-file")
	}
	fmt.Fprint(os.Stderr, "Key file passphrase: ")
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return passphrase, nil
}

// probeNode checks node reachability at startup. The faucet still
// starts when the node is down; claims fail until it returns.
func probeNode(node *kaspad.Client, timeout time.Duration, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	info, err := node.GetInfo(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("endpoint", node.Endpoint()).Msg("Node unreachable at startup")
		return
	}
	logger.Info().
		Str("version", info.ServerVersion).
		Bool("synced", info.IsSynced).
		Bool("utxo_index", info.IsUTXOIndexed).
		Msg("Node connected")
	if !info.IsUTXOIndexed {
		logger.Warn().Msg("Node has no UTXO index; balance and UTXO queries will fail")
	}
	if !info.IsSynced {
		logger.Warn().Msg("Node is still syncing; claims may build on a stale UTXO set")
	}
}
