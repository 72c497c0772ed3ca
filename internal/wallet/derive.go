// Package wallet manages the faucet's spending key: BIP-39 mnemonic
// handling, BIP-44 derivation, and encrypted storage on disk.
package wallet

import (
	"fmt"

	"github.com/kaspatech/kaspa-faucet/config"
	"github.com/kaspatech/kaspa-faucet/pkg/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// SeedSize is the length of a derived seed in bytes (512 bits).
const SeedSize = 64

// BIP-44 derivation constants. The faucet spends from a single key at
// m/44'/111111'/0'/0/0, the first external key of the first account,
// so a wallet restored from the same mnemonic sees the faucet funds.
const (
	PurposeBIP44  = bip32.FirstHardenedChild + 44
	CoinTypeKaspa = bip32.FirstHardenedChild + config.CoinType
)

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks word count, word list membership, and checksum.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives the 512-bit BIP-39 seed from a mnemonic and
// optional passphrase.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}
	return seed, nil
}

// DeriveFaucetKey derives the faucet spending key from a BIP-39 seed.
func DeriveFaucetKey(seed []byte) (*crypto.PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	path := []uint32{PurposeBIP44, CoinTypeKaspa, bip32.FirstHardenedChild, 0, 0}
	for _, idx := range path {
		key, err = key.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", idx, err)
		}
	}
	return privateKeyFromNode(key)
}

// privateKeyFromNode extracts the raw signing key from a BIP-32 node.
func privateKeyFromNode(key *bip32.Key) (*crypto.PrivateKey, error) {
	if !key.IsPrivate {
		return nil, fmt.Errorf("public-only key cannot sign")
	}
	raw := key.Key
	// bip32 may store private keys as 33 bytes with a leading 0x00.
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	return crypto.PrivateKeyFromBytes(raw)
}
