package faucet

import (
	"github.com/kaspatech/kaspa-faucet/pkg/crypto"
	"github.com/kaspatech/kaspa-faucet/pkg/tx"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// Signer signs assembled claim transactions and owns the faucet
// address they spend from.
type Signer interface {
	SignTransaction(txn *tx.Transaction) error
	Address() types.Address
}

// KeySigner signs with an in-memory private key.
type KeySigner struct {
	key  *crypto.PrivateKey
	addr types.Address
}

// NewKeySigner derives the faucet address from key and returns a
// signer bound to it.
func NewKeySigner(key *crypto.PrivateKey) (*KeySigner, error) {
	addr, err := key.Address()
	if err != nil {
		return nil, err
	}
	return &KeySigner{key: key, addr: addr}, nil
}

func (s *KeySigner) SignTransaction(txn *tx.Transaction) error {
	return tx.SignAll(txn, s.key)
}

func (s *KeySigner) Address() types.Address {
	return s.addr
}
