// Package ratelimit enforces the per-identity claim cooldown.
package ratelimit

import (
	"encoding/binary"
	"sync"
	"time"

	klog "github.com/kaspatech/kaspa-faucet/internal/log"
	"github.com/kaspatech/kaspa-faucet/internal/storage"
)

// Guard admits each identity at most once per cooldown interval. The
// check and the recording of an admitted claim happen under one lock,
// so two concurrent requests for the same identity can never both pass.
type Guard struct {
	mu       sync.Mutex
	last     map[string]time.Time
	interval time.Duration
	db       storage.DB

	now func() time.Time
}

// NewGuard creates an in-memory guard with the given cooldown interval.
func NewGuard(interval time.Duration) *Guard {
	return &Guard{
		last:     make(map[string]time.Time),
		interval: interval,
		now:      time.Now,
	}
}

// NewPersistentGuard creates a guard whose admissions survive restarts.
// Entries still inside the cooldown window are loaded from db; stale
// and unreadable ones are pruned.
func NewPersistentGuard(interval time.Duration, db storage.DB) (*Guard, error) {
	g := NewGuard(interval)
	g.db = db
	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
}

// Interval returns the configured cooldown interval.
func (g *Guard) Interval() time.Duration {
	return g.interval
}

// Allow reports whether identity may claim now. On admission the claim
// time is recorded before the lock is released. On rejection the second
// return value is the time remaining until the next admission.
func (g *Guard) Allow(identity string) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.last[identity]; ok {
		elapsed := now.Sub(last)
		if elapsed < g.interval {
			return false, g.interval - elapsed
		}
	}

	g.last[identity] = now
	if g.db != nil {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(now.Unix()))
		if err := g.db.Put([]byte(identity), buf[:]); err != nil {
			klog.RateLimit.Warn().Err(err).Str("identity", identity).
				Msg("failed to persist cooldown entry")
		}
	}
	return true, 0
}

// load restores the cooldown ledger from the database. Keys map an
// identity to its last claim time as 8 little-endian bytes of unix
// seconds.
func (g *Guard) load() error {
	cutoff := g.now().Add(-g.interval)

	var stale [][]byte
	err := g.db.ForEach(nil, func(key, value []byte) error {
		if len(value) != 8 {
			stale = append(stale, append([]byte(nil), key...))
			return nil
		}
		ts := time.Unix(int64(binary.LittleEndian.Uint64(value)), 0)
		if !ts.After(cutoff) {
			stale = append(stale, append([]byte(nil), key...))
			return nil
		}
		g.last[string(key)] = ts
		return nil
	})
	if err != nil {
		return err
	}

	// Deleting during ForEach would mutate the db mid-iteration.
	for _, key := range stale {
		if err := g.db.Delete(key); err != nil {
			return err
		}
	}

	klog.RateLimit.Debug().
		Int("entries", len(g.last)).
		Int("pruned", len(stale)).
		Msg("cooldown ledger loaded")
	return nil
}
