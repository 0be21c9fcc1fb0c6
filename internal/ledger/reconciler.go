package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Policy is the retry policy applied to the primary source.
type Policy struct {
	Attempts    uint64 // total tries, including the first
	Initial     time.Duration
	MaxInterval time.Duration
}

// DefaultPolicy tries three times starting at 250ms.
var DefaultPolicy = Policy{Attempts: 3, Initial: 250 * time.Millisecond, MaxInterval: 2 * time.Second}

// Reconciler reads balances with a fixed precedence:
// the primary source (with retries) wins; the fallback is consulted only
// when the primary fails for a reason other than a missing resource.
type Reconciler struct {
	primary  Reader
	fallback Reader
	policy   Policy
	log      *zap.Logger
	obs      Observer
	now      func() time.Time
}

// NewReconciler builds a reconciler. fallback and obs may be nil.
func NewReconciler(primary, fallback Reader, policy Policy, log *zap.Logger, obs Observer) *Reconciler {
	if policy.Attempts == 0 {
		policy.Attempts = 1
	}
	if policy.Initial <= 0 {
		policy.Initial = DefaultPolicy.Initial
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = DefaultPolicy.MaxInterval
	}
	if obs == nil {
		obs = noopObserver{}
	}
	return &Reconciler{
		primary:  primary,
		fallback: fallback,
		policy:   policy,
		log:      log.Named("ledger"),
		obs:      obs,
		now:      time.Now,
	}
}

// Balance resolves a best-effort balance. A missing resource is a zero
// balance, not an error. Both sources failing yields ErrUnavailable.
func (r *Reconciler) Balance(ctx context.Context, owner string, asset common.Asset) (Reading, error) {
	units, err := r.readPrimary(ctx, owner, asset)
	switch {
	case err == nil:
		r.obs.ObserveLookup(string(SourcePrimary), "ok")
		return r.reading(asset, units, true, SourcePrimary), nil
	case errors.Is(err, ErrResourceNotFound):
		r.obs.ObserveLookup(string(SourcePrimary), "not_found")
		return r.reading(asset, 0, false, SourcePrimary), nil
	case errors.Is(err, ErrInvalidAddress):
		return Reading{}, err
	case ctx.Err() != nil:
		return Reading{}, ctx.Err()
	}

	r.obs.ObserveLookup(string(SourcePrimary), "error")
	if r.fallback == nil {
		return Reading{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	r.log.Warn("primary balance lookup failed, using fallback",
		zap.String("owner", owner), zap.String("asset", asset.Symbol), zap.Error(err))

	fallbackUnits, ferr := r.fallback.Balance(ctx, owner, asset)
	switch {
	case ferr == nil:
		r.obs.ObserveLookup(string(SourceFallback), "ok")
		return r.reading(asset, fallbackUnits, true, SourceFallback), nil
	case errors.Is(ferr, ErrResourceNotFound):
		r.obs.ObserveLookup(string(SourceFallback), "not_found")
		return r.reading(asset, 0, false, SourceFallback), nil
	}

	r.obs.ObserveLookup(string(SourceFallback), "error")
	return Reading{}, fmt.Errorf("%w: primary: %v; fallback: %v", ErrUnavailable, err, ferr)
}

func (r *Reconciler) readPrimary(ctx context.Context, owner string, asset common.Asset) (uint64, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.Initial
	b.MaxInterval = r.policy.MaxInterval
	b.MaxElapsedTime = 0 // bounded by attempts

	var units uint64
	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 {
			r.obs.ObserveRetry()
		}
		u, err := r.primary.Balance(ctx, owner, asset)
		if err != nil {
			if errors.Is(err, ErrResourceNotFound) || errors.Is(err, ErrInvalidAddress) {
				return backoff.Permanent(err)
			}
			return err
		}
		units = u
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, r.policy.Attempts-1), ctx))
	return units, err
}

func (r *Reconciler) reading(asset common.Asset, units uint64, found bool, src Source) Reading {
	return Reading{Asset: asset, Units: units, Found: found, Source: src, ObservedAt: r.now()}
}

// SourceResult is one side of a cross-check.
type SourceResult struct {
	Units uint64
	Found bool
	Err   error
}

// Comparison reports both sources side by side.
type Comparison struct {
	Asset    common.Asset
	Primary  SourceResult
	Fallback SourceResult
}

// Agree reports whether both sources answered and returned the same value.
func (c Comparison) Agree() bool {
	return c.Primary.Err == nil && c.Fallback.Err == nil && c.Primary.Units == c.Fallback.Units
}

// CrossCheck queries both sources once, without retries, for diagnostics.
func (r *Reconciler) CrossCheck(ctx context.Context, owner string, asset common.Asset) Comparison {
	cmp := Comparison{Asset: asset}

	query := func(src Reader, out *SourceResult) {
		if src == nil {
			out.Err = errors.New("source not configured")
			return
		}
		units, err := src.Balance(ctx, owner, asset)
		switch {
		case err == nil:
			out.Units, out.Found = units, true
		case errors.Is(err, ErrResourceNotFound):
		default:
			out.Err = err
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		query(r.primary, &cmp.Primary)
	}()
	go func() {
		defer wg.Done()
		query(r.fallback, &cmp.Fallback)
	}()
	wg.Wait()

	if !cmp.Agree() {
		r.log.Info("balance sources disagree",
			zap.String("owner", owner),
			zap.String("asset", asset.Symbol),
			zap.Uint64("primary", cmp.Primary.Units),
			zap.Uint64("fallback", cmp.Fallback.Units))
	}
	return cmp
}
