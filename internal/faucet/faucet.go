package faucet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kaspatech/kaspa-faucet/internal/kaspad"
	klog "github.com/kaspatech/kaspa-faucet/internal/log"
	"github.com/kaspatech/kaspa-faucet/internal/ratelimit"
	"github.com/kaspatech/kaspa-faucet/internal/storage"
	"github.com/kaspatech/kaspa-faucet/pkg/tx"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
	"github.com/rs/zerolog"
)

// NodeClient is the node surface the engine drives. *kaspad.Client
// implements it; tests substitute fakes. A submission the node itself
// rejected surfaces as *kaspad.RPCError.
type NodeClient interface {
	GetUTXOsByAddress(ctx context.Context, address string) ([]types.UTXO, error)
	GetBalanceByAddress(ctx context.Context, address string) (uint64, error)
	GetVirtualDAAScore(ctx context.Context) (uint64, error)
	SubmitTransaction(ctx context.Context, txn *tx.Transaction) (types.Hash, error)
}

// Config carries the engine tunables.
type Config struct {
	Amount           uint64        // Sompi paid per claim.
	FeePerInput      uint64        // Sompi per input, plus one for the base.
	DustThreshold    uint64        // Minimum change output, in sompi.
	CoinbaseMaturity uint64        // DAA score depth before coinbase outputs spend.
	NodeTimeout      time.Duration // Deadline applied to each node call.
	ReserveTTL       time.Duration // Lifetime of spent-outpoint reservations.
}

// Faucet orchestrates claims end to end: admission, UTXO selection,
// assembly, signing, and submission.
type Faucet struct {
	cfg      Config
	node     NodeClient
	signer   Signer
	guard    *ratelimit.Guard
	reserved *ReservedSet
	journal  storage.DB
	logger   zerolog.Logger

	// spendMu serializes fetch through submit so concurrent claims can
	// never select the same outputs.
	spendMu sync.Mutex
}

// New wires a claim engine. A nil journal disables claim journaling.
func New(cfg Config, node NodeClient, signer Signer, guard *ratelimit.Guard, journal storage.DB) *Faucet {
	return &Faucet{
		cfg:      cfg,
		node:     node,
		signer:   signer,
		guard:    guard,
		reserved: NewReservedSet(cfg.ReserveTTL),
		journal:  journal,
		logger:   klog.Faucet,
	}
}

// Close stops the reservation tracker.
func (f *Faucet) Close() {
	f.reserved.Close()
}

// ClaimResult reports a paid claim.
type ClaimResult struct {
	TransactionID types.Hash
	Amount        uint64
	NextClaim     time.Duration
}

// Claim pays one claim to address on behalf of identity. The address
// is validated before the cooldown is consumed; any failure past
// admission leaves the identity on cooldown.
func (f *Faucet) Claim(ctx context.Context, identity, address string) (*ClaimResult, error) {
	dest, err := types.ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	admitted, retryAfter := f.guard.Allow(identity)
	if !admitted {
		f.logger.Debug().
			Str("identity", identity).
			Dur("retry_after", retryAfter).
			Msg("Claim rejected by cooldown")
		return nil, &RateLimitedError{RetryAfter: retryAfter}
	}

	f.spendMu.Lock()
	defer f.spendMu.Unlock()

	faucetAddr := f.signer.Address()

	fetchCtx, cancel := context.WithTimeout(ctx, f.cfg.NodeTimeout)
	utxos, err := f.node.GetUTXOsByAddress(fetchCtx, faucetAddr.String())
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: fetch UTXOs: %v", ErrNodeUnavailable, err)
	}

	candidates, err := f.spendableUTXOs(ctx, utxos)
	if err != nil {
		return nil, err
	}

	sel, err := SelectUTXOs(candidates, f.cfg.Amount, f.cfg.FeePerInput)
	if err != nil {
		return nil, err
	}

	asm := Assemble(sel, dest, faucetAddr, f.cfg.Amount, f.cfg.DustThreshold)
	if err := f.signer.SignTransaction(asm.Tx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}
	if err := asm.Tx.Validate(); err != nil {
		return nil, fmt.Errorf("signed transaction failed validation: %w", err)
	}

	outpoints := make([]types.Outpoint, len(sel.Inputs))
	for i, utxo := range sel.Inputs {
		outpoints[i] = utxo.Outpoint
	}
	f.reserved.Reserve(outpoints...)

	// Submission keeps going even if the caller disconnects mid-claim;
	// only the node timeout bounds it.
	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.cfg.NodeTimeout)
	defer cancel()
	txid, err := f.node.SubmitTransaction(submitCtx, asm.Tx)
	if err != nil {
		// A transport failure may still have delivered the spend, so
		// only a node rejection frees the reservation early; otherwise
		// it expires on its own.
		var rpcErr *kaspad.RPCError
		if errors.As(err, &rpcErr) {
			f.reserved.Release(outpoints...)
		}
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailure, err)
	}

	f.journalClaim(txid, identity, address, asm)

	f.logger.Info().
		Str("txid", txid.String()).
		Str("to", address).
		Str("identity", identity).
		Uint64("amount", f.cfg.Amount).
		Int("inputs", len(sel.Inputs)).
		Uint64("fee", asm.Fee).
		Uint64("change", asm.Change).
		Msg("Claim paid")

	return &ClaimResult{
		TransactionID: txid,
		Amount:        f.cfg.Amount,
		NextClaim:     f.guard.Interval(),
	}, nil
}

// spendableUTXOs drops reserved outpoints and immature coinbase
// outputs, preserving the node's reporting order. The DAA score is
// only fetched when a coinbase output is present.
func (f *Faucet) spendableUTXOs(ctx context.Context, utxos []types.UTXO) ([]types.UTXO, error) {
	candidates := f.reserved.Filter(utxos)

	hasCoinbase := false
	for _, utxo := range candidates {
		if utxo.IsCoinbase {
			hasCoinbase = true
			break
		}
	}
	if !hasCoinbase {
		return candidates, nil
	}

	scoreCtx, cancel := context.WithTimeout(ctx, f.cfg.NodeTimeout)
	daaScore, err := f.node.GetVirtualDAAScore(scoreCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: virtual DAA score: %v", ErrNodeUnavailable, err)
	}

	mature := make([]types.UTXO, 0, len(candidates))
	for _, utxo := range candidates {
		if utxo.IsCoinbase && utxo.BlockDAAScore+f.cfg.CoinbaseMaturity > daaScore {
			continue
		}
		mature = append(mature, utxo)
	}
	return mature, nil
}

// claimRecord is the journal entry written for each paid claim.
type claimRecord struct {
	TxID     string    `json:"transactionId"`
	Address  string    `json:"address"`
	Identity string    `json:"identity"`
	Amount   uint64    `json:"amount"`
	Fee      uint64    `json:"fee"`
	PaidAt   time.Time `json:"paidAt"`
}

func (f *Faucet) journalClaim(txid types.Hash, identity, address string, asm *Assembly) {
	if f.journal == nil {
		return
	}
	record := claimRecord{
		TxID:     txid.String(),
		Address:  address,
		Identity: identity,
		Amount:   f.cfg.Amount,
		Fee:      asm.Fee,
		PaidAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(record)
	if err == nil {
		err = f.journal.Put(txid.Bytes(), data)
	}
	if err != nil {
		f.logger.Warn().Err(err).Str("txid", txid.String()).Msg("Failed to journal claim")
	}
}

// Status is the faucet's public state.
type Status struct {
	Active    bool
	Address   types.Address
	Balance   uint64        // Sompi held; zero when the node is unreachable.
	NextClaim time.Duration // Configured claim interval.
}

// Status reports the faucet state. A node failure degrades the report
// to inactive rather than failing it.
func (f *Faucet) Status(ctx context.Context) *Status {
	st := &Status{
		Address:   f.signer.Address(),
		NextClaim: f.guard.Interval(),
	}

	callCtx, cancel := context.WithTimeout(ctx, f.cfg.NodeTimeout)
	defer cancel()
	balance, err := f.node.GetBalanceByAddress(callCtx, st.Address.String())
	if err != nil {
		f.logger.Warn().Err(err).Msg("Node unreachable for status")
		return st
	}
	st.Active = true
	st.Balance = balance
	return st
}
