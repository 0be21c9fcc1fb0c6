// Package ledger is the single place the application reads balances from.
// It owns the primary/fallback precedence and the retry policy.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrResourceNotFound means the account or token account does not exist on chain.
	// Readers return it instead of a zero so the reconciler can tell "empty" from "failed".
	ErrResourceNotFound = errors.New("resource not found")
	// ErrInvalidAddress means the owner or recipient is not a valid base58 public key.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrUnavailable means no source could produce a balance.
	ErrUnavailable = errors.New("ledger unavailable")
	// ErrSubmission wraps every failure to build, sign, submit or confirm a transaction.
	ErrSubmission = errors.New("transaction submission failed")
)

// Source names where a reading came from.
type Source string

const (
	SourcePrimary  Source = "sdk"
	SourceFallback Source = "fallback"
)

// Reader resolves the balance of owner in base units of asset.
type Reader interface {
	Balance(ctx context.Context, owner string, asset common.Asset) (uint64, error)
}

// Submitter moves value on chain.
type Submitter interface {
	// Transfer builds, signs and submits a transfer; it returns the signature.
	Transfer(ctx context.Context, key solana.PrivateKey, to string, asset common.Asset, units uint64) (string, error)
	// AwaitFinality blocks until the signature is confirmed, fails, or ctx ends.
	AwaitFinality(ctx context.Context, signature string) error
}

// Reading is one reconciled balance observation.
type Reading struct {
	Asset      common.Asset
	Units      uint64
	Found      bool
	Source     Source
	ObservedAt time.Time
}

// Observer receives lookup telemetry.
type Observer interface {
	ObserveLookup(source, outcome string)
	ObserveRetry()
}

type noopObserver struct{}

func (noopObserver) ObserveLookup(string, string) {}
func (noopObserver) ObserveRetry()                {}
