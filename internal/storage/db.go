// Package storage provides the key-value persistence layer. The faucet
// keeps its cooldown ledger and claim journal here so restarts do not
// reset rate limits.
package storage

import "errors"

// ErrKeyNotFound is returned by Get for keys that do not exist.
var ErrKeyNotFound = errors.New("key not found")

// DB is the interface for key-value storage.
type DB interface {
	// Get retrieves a value. Returns ErrKeyNotFound for missing keys.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}
