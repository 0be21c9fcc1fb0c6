package ledger

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeReader struct {
	calls   atomic.Int32
	results []result // consumed in order; the last one repeats
}

type result struct {
	units uint64
	err   error
}

func (f *fakeReader) Balance(ctx context.Context, owner string, asset common.Asset) (uint64, error) {
	n := int(f.calls.Add(1)) - 1
	if n >= len(f.results) {
		n = len(f.results) - 1
	}
	return f.results[n].units, f.results[n].err
}

type countingObserver struct {
	lookups map[string]int
	retries int
}

func (c *countingObserver) ObserveLookup(source, outcome string) {
	if c.lookups == nil {
		c.lookups = map[string]int{}
	}
	c.lookups[source+"/"+outcome]++
}

func (c *countingObserver) ObserveRetry() { c.retries++ }

var fastPolicy = Policy{Attempts: 3, Initial: time.Millisecond, MaxInterval: 2 * time.Millisecond}

var errTransport = errors.New("connection reset")

func TestBalanceMissingResourceIsZero(t *testing.T) {
	primary := &fakeReader{results: []result{{err: ErrResourceNotFound}}}
	fallback := &fakeReader{results: []result{{units: 99}}}
	r := NewReconciler(primary, fallback, fastPolicy, zaptest.NewLogger(t), nil)

	got, err := r.Balance(context.Background(), "owner", common.AssetSOL)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Units)
	assert.False(t, got.Found)
	assert.Equal(t, SourcePrimary, got.Source)
	// not found is an answer, not a failure: no retries and no fallback
	assert.Equal(t, int32(1), primary.calls.Load())
	assert.Equal(t, int32(0), fallback.calls.Load())
}

func TestBalanceRetriesPrimaryBeforeFallback(t *testing.T) {
	primary := &fakeReader{results: []result{{err: errTransport}, {err: errTransport}, {units: 1500}}}
	fallback := &fakeReader{results: []result{{units: 7}}}
	obs := &countingObserver{}
	r := NewReconciler(primary, fallback, fastPolicy, zaptest.NewLogger(t), obs)

	got, err := r.Balance(context.Background(), "owner", common.AssetUSDC)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), got.Units)
	assert.Equal(t, SourcePrimary, got.Source)
	assert.Equal(t, int32(3), primary.calls.Load())
	assert.Equal(t, int32(0), fallback.calls.Load())
	assert.Equal(t, 2, obs.retries)
}

func TestBalanceFallsBackAfterPrimaryGivesUp(t *testing.T) {
	primary := &fakeReader{results: []result{{err: errTransport}}}
	fallback := &fakeReader{results: []result{{units: 42}}}
	obs := &countingObserver{}
	r := NewReconciler(primary, fallback, fastPolicy, zaptest.NewLogger(t), obs)

	got, err := r.Balance(context.Background(), "owner", common.AssetSOL)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.Units)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, int32(3), primary.calls.Load())
	assert.Equal(t, 1, obs.lookups["sdk/error"])
	assert.Equal(t, 1, obs.lookups["fallback/ok"])
}

func TestBalanceBothFailingIsUnavailable(t *testing.T) {
	primary := &fakeReader{results: []result{{err: errTransport}}}
	fallback := &fakeReader{results: []result{{err: errors.New("502 bad gateway")}}}
	r := NewReconciler(primary, fallback, fastPolicy, zaptest.NewLogger(t), nil)

	_, err := r.Balance(context.Background(), "owner", common.AssetSOL)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "502 bad gateway")
}

func TestBalanceWithoutFallback(t *testing.T) {
	primary := &fakeReader{results: []result{{err: errTransport}}}
	r := NewReconciler(primary, nil, Policy{Attempts: 1}, zaptest.NewLogger(t), nil)

	_, err := r.Balance(context.Background(), "owner", common.AssetSOL)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), primary.calls.Load())
}

func TestBalanceHonoursCancelledContext(t *testing.T) {
	primary := &fakeReader{results: []result{{err: errTransport}}}
	fallback := &fakeReader{results: []result{{units: 1}}}
	r := NewReconciler(primary, fallback, Policy{Attempts: 5, Initial: time.Second}, zaptest.NewLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Balance(ctx, "owner", common.AssetSOL)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), fallback.calls.Load())
}

func TestCrossCheck(t *testing.T) {
	primary := &fakeReader{results: []result{{units: 10}}}
	fallback := &fakeReader{results: []result{{units: 10}}}
	r := NewReconciler(primary, fallback, fastPolicy, zaptest.NewLogger(t), nil)

	cmp := r.CrossCheck(context.Background(), "owner", common.AssetSOL)
	assert.True(t, cmp.Agree())

	fallback.results = []result{{err: ErrResourceNotFound}}
	fallback.calls.Store(0)
	cmp = r.CrossCheck(context.Background(), "owner", common.AssetSOL)
	assert.False(t, cmp.Agree())
	assert.False(t, cmp.Fallback.Found)
	assert.NoError(t, cmp.Fallback.Err)
	assert.Equal(t, uint64(10), cmp.Primary.Units)
}

func TestBalanceInvalidAddressIsNotRetried(t *testing.T) {
	primary := &fakeReader{results: []result{{err: ErrInvalidAddress}}}
	fallback := &fakeReader{results: []result{{units: 5}}}
	r := NewReconciler(primary, fallback, fastPolicy, zaptest.NewLogger(t), nil)

	_, err := r.Balance(context.Background(), "not-base58", common.AssetSOL)
	require.ErrorIs(t, err, ErrInvalidAddress)
	assert.Equal(t, int32(1), primary.calls.Load())
	assert.Equal(t, int32(0), fallback.calls.Load())
}
