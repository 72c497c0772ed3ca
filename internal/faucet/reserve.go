package faucet

import (
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// ReservedSet tracks outpoints spent by recently submitted claims
// until the node's UTXO index reflects the spend. Entries expire after
// the TTL so a reservation can never strand funds.
type ReservedSet struct {
	cache   *ttlcache.Cache[types.Outpoint, struct{}]
	stopped atomic.Bool
}

// NewReservedSet starts a reservation tracker whose entries live for
// ttl. Call Close when done.
func NewReservedSet(ttl time.Duration) *ReservedSet {
	rs := &ReservedSet{
		cache: ttlcache.New[types.Outpoint, struct{}](
			ttlcache.WithTTL[types.Outpoint, struct{}](ttl),
			ttlcache.WithDisableTouchOnHit[types.Outpoint, struct{}](),
		),
	}
	go rs.cache.Start()
	return rs
}

// Reserve marks outpoints as spent.
func (rs *ReservedSet) Reserve(outpoints ...types.Outpoint) {
	for _, outpoint := range outpoints {
		rs.cache.Set(outpoint, struct{}{}, ttlcache.DefaultTTL)
	}
}

// Release drops reservations before their TTL, for submissions the
// node rejected outright.
func (rs *ReservedSet) Release(outpoints ...types.Outpoint) {
	for _, outpoint := range outpoints {
		rs.cache.Delete(outpoint)
	}
}

// Contains reports whether the outpoint is reserved.
func (rs *ReservedSet) Contains(outpoint types.Outpoint) bool {
	return rs.cache.Get(outpoint) != nil
}

// Filter returns the UTXOs whose outpoints are not reserved,
// preserving order.
func (rs *ReservedSet) Filter(utxos []types.UTXO) []types.UTXO {
	unreserved := make([]types.UTXO, 0, len(utxos))
	for _, utxo := range utxos {
		if rs.cache.Get(utxo.Outpoint) == nil {
			unreserved = append(unreserved, utxo)
		}
	}
	return unreserved
}

// Len reports the number of live reservations.
func (rs *ReservedSet) Len() int {
	return rs.cache.Len()
}

// Close stops the expiry loop. It is safe to call more than once.
func (rs *ReservedSet) Close() {
	if rs.stopped.CompareAndSwap(false, true) {
		rs.cache.Stop()
	}
}
