// Package faucet implements the claim engine: admission, coin
// selection, transaction assembly, signing, and submission.
package faucet

import (
	"errors"
	"fmt"
	"time"
)

// Claim failure classes. The HTTP layer maps these to status codes;
// the engine itself knows nothing about transports.
var (
	ErrInvalidAddress    = errors.New("invalid address")
	ErrRateLimited       = errors.New("claim interval not elapsed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSigningFailure    = errors.New("transaction signing failed")
	ErrSubmissionFailure = errors.New("transaction submission failed")
	ErrNodeUnavailable   = errors.New("node unavailable")
)

// InsufficientFundsError reports how much the faucet held against what
// the claim required.
type InsufficientFundsError struct {
	Have uint64
	Need uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: have %d, need %d", ErrInsufficientFunds, e.Have, e.Need)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// RateLimitedError carries the wait until the identity may claim again.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
