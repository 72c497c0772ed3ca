package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kaspatech/kaspa-faucet/pkg/crypto"
)

// keyFileVersion is the current on-disk format version.
const keyFileVersion = 1

// keyFile is the on-disk JSON envelope for the encrypted faucet key.
// The address is stored in the clear so operators can check where the
// faucet pays from without decrypting.
type keyFile struct {
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	Address      string    `json:"address"`
	EncryptedKey []byte    `json:"encrypted_key"`
}

// WriteKeyFile encrypts key under passphrase and writes it to path.
// It refuses to overwrite an existing file.
func WriteKeyFile(path string, key *crypto.PrivateKey, passphrase []byte, params EncryptionParams) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %q already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}

	addr, err := key.Address()
	if err != nil {
		return fmt.Errorf("derive address: %w", err)
	}
	encrypted, err := Encrypt(key.Serialize(), passphrase, params)
	if err != nil {
		return fmt.Errorf("encrypt key: %w", err)
	}

	kf := keyFile{
		Version:      keyFileVersion,
		CreatedAt:    time.Now().UTC(),
		Address:      addr.String(),
		EncryptedKey: encrypted,
	}
	data, err := json.MarshalIndent(&kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key file: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

// ReadKeyFile decrypts the faucet key stored at path.
func ReadKeyFile(path string, passphrase []byte) (*crypto.PrivateKey, error) {
	kf, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := Decrypt(kf.EncryptedKey, passphrase)
	if err != nil {
		return nil, fmt.Errorf("decrypt key file: %w", err)
	}
	key, err := crypto.PrivateKeyFromBytes(raw)
	zeroBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse key: %w", err)
	}
	return key, nil
}

// InspectKeyFile returns the stored faucet address without decrypting.
func InspectKeyFile(path string) (string, error) {
	kf, err := readKeyFile(path)
	if err != nil {
		return "", err
	}
	return kf.Address, nil
}

func readKeyFile(path string) (*keyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	if kf.Version != keyFileVersion {
		return nil, fmt.Errorf("unsupported key file version: %d", kf.Version)
	}
	return &kf, nil
}
