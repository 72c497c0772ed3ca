// faucet-cli is a command-line client for operating a kaspa-faucet service:
// key generation and recovery, key file inspection, and status/claim calls
// against a running faucetd.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kaspatech/kaspa-faucet/config"
	"github.com/kaspatech/kaspa-faucet/internal/wallet"
	"github.com/kaspatech/kaspa-faucet/pkg/crypto"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
	"golang.org/x/term"
)

// keysDir returns the key file path matching faucetd's layout:
// <datadir>/<network>/keys
func keysDir(dataDir, network string) string {
	return filepath.Join(dataDir, network, "keys")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	apiURL := ""
	dataDir := config.DefaultDataDir()
	network := string(config.Testnet)

	// Scan for --api, --datadir, and --network before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--api" && len(args) > 1:
			apiURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--api="):
			apiURL = args[0][len("--api="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	// ParamsFor falls back to testnet for unknown names; reject typos instead.
	switch config.NetworkType(network) {
	case config.Mainnet, config.Testnet, config.Devnet, config.Simnet:
	default:
		fatal("unknown network: %s", network)
	}

	// Set address HRP based on network.
	params := config.ParamsFor(config.NetworkType(network))
	types.SetAddressHRP(params.HRP)

	if apiURL == "" {
		apiURL = fmt.Sprintf("http://127.0.0.1:%d", params.APIPort)
	}
	apiURL = strings.TrimRight(apiURL, "/")

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	ksDir := keysDir(dataDir, network)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "keygen":
		cmdKeygen(cmdArgs, ksDir)
	case "derive":
		cmdDerive(cmdArgs)
	case "inspect":
		cmdInspect(cmdArgs, ksDir)
	case "status":
		cmdStatus(apiURL)
	case "claim":
		cmdClaim(apiURL, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: faucet-cli [global flags] <command> [flags]

Global flags:
  --api <url>         Faucet API endpoint (default: http://127.0.0.1:<api port>)
  --datadir <path>    Data directory (default: ~/.kaspa-faucet)
  --network <net>     mainnet, testnet (default), devnet, or simnet

Commands:
  keygen [--file <path>]          Generate a new faucet key: prints a 24-word
                                  mnemonic and writes an encrypted key file
  derive --mnemonic "..." [--file <path>]
                                  Recover the faucet key from a mnemonic
  inspect <key-file|hex-key>      Show the address of a key (never the secret)
  status                          Show faucet status
  claim <address>                 Request testnet funds for an address
`)
}

// ── keygen ──────────────────────────────────────────────────────────────

func cmdKeygen(args []string, ksDir string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	file := fs.String("file", "", "Key file path (default: <keysdir>/faucet.key)")
	fs.Parse(args)

	path := *file
	if path == "" {
		path = filepath.Join(ksDir, "faucet.key")
	}

	// Generate mnemonic.
	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	key, addr := keyFromMnemonic(mnemonic)
	defer key.Zero()

	// Prompt for passphrase (twice).
	passphrase, err := readPassword("Enter passphrase: ")
	if err != nil {
		fatal("read passphrase: %v", err)
	}
	confirm, err := readPassword("Confirm passphrase: ")
	if err != nil {
		fatal("read passphrase: %v", err)
	}
	if string(passphrase) != string(confirm) {
		fatal("passphrases do not match")
	}

	if err := wallet.WriteKeyFile(path, key, passphrase, wallet.DefaultParams()); err != nil {
		fatal("write key file: %v", err)
	}

	fmt.Printf("Key file: %s\n", path)
	fmt.Printf("Address:  %s\n", addr)
}

// ── derive ──────────────────────────────────────────────────────────────

func cmdDerive(args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (24 words)")
	file := fs.String("file", "", "Also write an encrypted key file at this path")
	fs.Parse(args)

	if *mnemonic == "" {
		fatal("Usage: faucet-cli derive --mnemonic \"word1 word2 ...\" [--file <path>]")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	key, addr := keyFromMnemonic(*mnemonic)
	defer key.Zero()

	fmt.Printf("Address: %s\n", addr)

	if *file == "" {
		return
	}

	// Prompt for passphrase (twice).
	passphrase, err := readPassword("Enter passphrase: ")
	if err != nil {
		fatal("read passphrase: %v", err)
	}
	confirm, err := readPassword("Confirm passphrase: ")
	if err != nil {
		fatal("read passphrase: %v", err)
	}
	if string(passphrase) != string(confirm) {
		fatal("passphrases do not match")
	}

	if err := wallet.WriteKeyFile(*file, key, passphrase, wallet.DefaultParams()); err != nil {
		fatal("write key file: %v", err)
	}

	fmt.Printf("Key file: %s\n", *file)
}

// keyFromMnemonic derives the faucet spending key and its address from a
// BIP-39 mnemonic.
func keyFromMnemonic(mnemonic string) (*crypto.PrivateKey, string) {
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}
	key, err := wallet.DeriveFaucetKey(seed)

	// Zero seed.
	for i := range seed {
		seed[i] = 0
	}

	if err != nil {
		fatal("derive key: %v", err)
	}
	addr, err := key.Address()
	if err != nil {
		fatal("derive address: %v", err)
	}
	return key, addr.String()
}

// ── inspect ─────────────────────────────────────────────────────────────

func cmdInspect(args []string, ksDir string) {
	if len(args) < 1 {
		fatal("Usage: faucet-cli inspect <key-file|hex-key>")
	}

	arg := args[0]

	// A 32-byte hex string is treated as a raw private key.
	if key, err := crypto.PrivateKeyFromHex(arg); err == nil {
		addr, err := key.Address()
		if err != nil {
			fatal("derive address: %v", err)
		}
		fmt.Printf("Address: %s\n", addr)
		fmt.Printf("Pubkey:  %x\n", key.SchnorrPublicKey())
		key.Zero()
		return
	}

	// Relative paths are tried as given, then under the keys directory.
	path := arg
	if _, err := os.Stat(path); err != nil && !filepath.IsAbs(path) {
		path = filepath.Join(ksDir, arg)
	}

	addr, err := wallet.InspectKeyFile(path)
	if err != nil {
		fatal("inspect key file: %v", err)
	}

	fmt.Printf("Key file: %s\n", path)
	fmt.Printf("Address:  %s\n", addr)
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(apiURL string) {
	var st struct {
		Active           bool   `json:"active"`
		FaucetAddress    string `json:"faucetAddress"`
		BalanceKas       string `json:"balanceKas"`
		NextClaimSeconds uint64 `json:"nextClaimSeconds"`
	}
	if err := apiGet(apiURL+"/status", &st); err != nil {
		fatal("status: %v", err)
	}

	fmt.Printf("Active:   %v\n", st.Active)
	fmt.Printf("Address:  %s\n", st.FaucetAddress)
	fmt.Printf("Balance:  %s KAS\n", st.BalanceKas)
	fmt.Printf("Interval: %s\n", time.Duration(st.NextClaimSeconds)*time.Second)
}

// ── claim ───────────────────────────────────────────────────────────────

func cmdClaim(apiURL string, args []string) {
	if len(args) < 1 {
		fatal("Usage: faucet-cli claim <address>")
	}

	body, err := json.Marshal(map[string]string{"address": args[0]})
	if err != nil {
		fatal("marshal request: %v", err)
	}

	resp, err := httpClient().Post(apiURL+"/claim", "application/json", bytes.NewReader(body))
	if err != nil {
		fatal("claim: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		fatal("read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if retry := resp.Header.Get("Retry-After"); retry != "" {
				fatal("%s (retry after %ss)", apiErr.Error, retry)
			}
			fatal("%s", apiErr.Error)
		}
		fatal("claim failed: HTTP %d", resp.StatusCode)
	}

	var result struct {
		TransactionID    string `json:"transactionId"`
		AmountKas        string `json:"amountKas"`
		NextClaimSeconds uint64 `json:"nextClaimSeconds"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		fatal("decode response: %v", err)
	}

	fmt.Printf("Sent %s KAS\n", result.AmountKas)
	fmt.Printf("Transaction: %s\n", result.TransactionID)
	fmt.Printf("Next claim in %s\n", time.Duration(result.NextClaimSeconds)*time.Second)
}

// ── HTTP helpers ────────────────────────────────────────────────────────

func httpClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func apiGet(url string, out interface{}) error {
	resp, err := httpClient().Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
