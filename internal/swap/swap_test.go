package swap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/model"
	"github.com/AlexZinkM/globepay/internal/store"
	"github.com/AlexZinkM/globepay/internal/transfer"
	"github.com/AlexZinkM/globepay/internal/wallet"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const self = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

type fixedWallet struct{ err error }

func (w fixedWallet) Address() (string, error) {
	if w.err != nil {
		return "", w.err
	}
	return self, nil
}

type fakeSubmitter struct {
	reqs []transfer.Request
	err  error
}

func (s *fakeSubmitter) Send(ctx context.Context, req transfer.Request) (model.TransactionRecord, error) {
	s.reqs = append(s.reqs, req)
	rec := model.TransactionRecord{ID: "tx-1", Hash: "sig", Status: model.StatusSuccess, Amount: req.Amount,
		Asset: req.Asset.Symbol, Sender: self, Recipient: req.Recipient}
	if s.err != nil {
		rec.Status = model.StatusFailed
		rec.Error = s.err.Error()
	}
	return rec, s.err
}

type countingObserver struct{ ok, failed int }

func (o *countingObserver) ObserveSwap(mode string, err error) {
	if err != nil {
		o.failed++
		return
	}
	o.ok++
}

func newEngine(t *testing.T, mode string) (*Engine, *fakeSubmitter, *store.Memory, *countingObserver) {
	t.Helper()
	sub := &fakeSubmitter{}
	records := store.NewMemory()
	obs := &countingObserver{}
	e := NewEngine(NewRateTable(0), fixedWallet{}, sub, records, Options{Mode: mode, Observer: obs}, zaptest.NewLogger(t))
	return e, sub, records, obs
}

func TestUnlistedPairTradesAtOne(t *testing.T) {
	rates := NewRateTable(0)
	rate, listed := rates.Rate("EUR", "GBP")
	assert.False(t, listed)
	assert.Equal(t, 1.0, rate)

	rate, listed = rates.Rate("sol", "usdc")
	assert.True(t, listed)
	assert.Equal(t, 150.25, rate)
}

func TestJitterStaysWithinBounds(t *testing.T) {
	rates := NewRateTable(0.01)
	for _, r := range []float64{0, 0.5, 0.999999} {
		rates.random = func() float64 { return r }
		rate, _ := rates.Rate("USDC", "USDT")
		assert.InDelta(t, 0.999, rate, 0.999*0.01+1e-9)
	}

	rates.random = func() float64 { return 0 }
	rate, _ := rates.Rate("USDC", "USDT")
	assert.InDelta(t, 0.999*0.99, rate, 1e-9)
}

func TestLoadFileOverridesRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rates:\n  SOL-USDC: 142.5\n  eur-gbp: 0.85\n"), 0o600))

	rates := NewRateTable(0)
	require.NoError(t, rates.LoadFile(path))

	rate, _ := rates.Rate("SOL", "USDC")
	assert.Equal(t, 142.5, rate)
	rate, listed := rates.Rate("EUR", "GBP")
	assert.True(t, listed)
	assert.Equal(t, 0.85, rate)
}

func TestLoadFileRejectsBadPairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rates:\n  SOLUSDC: 1\n"), 0o600))
	assert.Error(t, NewRateTable(0).LoadFile(path))

	require.NoError(t, os.WriteFile(path, []byte("rates:\n  SOL-USDC: -1\n"), 0o600))
	assert.Error(t, NewRateTable(0).LoadFile(path))
}

func TestPriceImpact(t *testing.T) {
	assert.Equal(t, "Low", PriceImpact(100))
	assert.Equal(t, "Medium", PriceImpact(100.01))
	assert.Equal(t, "Medium", PriceImpact(1000))
	assert.Equal(t, "High", PriceImpact(1000.5))
}

func TestQuote(t *testing.T) {
	e, _, _, _ := newEngine(t, config.SwapModeSimulated)

	q, err := e.Quote("SOL", "USDC", "2")
	require.NoError(t, err)
	assert.Equal(t, "2.000000000", q.FromAmount)
	assert.Equal(t, "300.500000", q.ToAmount)
	assert.Equal(t, "0.002000000", q.EstimatedFee)
	assert.Equal(t, "Low", q.PriceImpact)
	assert.True(t, q.Listed)

	q, err = e.Quote("USDC", "JPY", "500")
	require.NoError(t, err)
	assert.Equal(t, "74750", q.ToAmount)
	assert.Equal(t, "Medium", q.PriceImpact)

	_, err = e.Quote("DOGE", "USDC", "1")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
	_, err = e.Quote("SOL", "USDC", "0")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)
}

func TestSimulatedSwapIsRecorded(t *testing.T) {
	e, sub, records, obs := newEngine(t, config.SwapModeSimulated)

	rec, err := e.Execute(context.Background(), model.SwapRequest{From: "USDC", To: "EUR", Amount: "10"})
	require.NoError(t, err)
	assert.Equal(t, config.SwapModeSimulated, rec.Mode)
	assert.Equal(t, model.StatusSuccess, rec.Status)
	assert.Equal(t, "9.20", rec.ToAmount)
	raw, err := base58.Decode(rec.Hash)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Empty(t, sub.reqs)
	assert.Equal(t, 1, obs.ok)

	saved, err := records.ListSwaps(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, rec.ID, saved[0].ID)
}

func TestSelfTransferSwapSendsToOwnAddress(t *testing.T) {
	e, sub, _, _ := newEngine(t, config.SwapModeSelfTransfer)

	rec, err := e.Execute(context.Background(), model.SwapRequest{From: "SOL", To: "USDC", Amount: "0.5"})
	require.NoError(t, err)
	require.Len(t, sub.reqs, 1)
	assert.Equal(t, self, sub.reqs[0].Recipient)
	assert.Equal(t, common.AssetSOL, sub.reqs[0].Asset)
	assert.False(t, sub.reqs[0].Wait)
	assert.Equal(t, "sig", rec.Hash)
	assert.Equal(t, "75.125000", rec.ToAmount)
}

func TestSelfTransferSwapRejectsOffChainCurrency(t *testing.T) {
	e, sub, records, _ := newEngine(t, config.SwapModeSelfTransfer)

	_, err := e.Execute(context.Background(), model.SwapRequest{From: "USDT", To: "USDC", Amount: "1"})
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
	assert.Empty(t, sub.reqs)
	saved, _ := records.ListSwaps(context.Background(), 10, 0)
	assert.Empty(t, saved)
}

func TestFailedSelfTransferIsRecorded(t *testing.T) {
	e, sub, records, obs := newEngine(t, config.SwapModeSelfTransfer)
	sub.err = errors.Join(ledger.ErrSubmission, errors.New("blockhash not found"))

	rec, err := e.Execute(context.Background(), model.SwapRequest{From: "USDC", To: "SOL", Amount: "3"})
	require.ErrorIs(t, err, ledger.ErrSubmission)
	assert.Equal(t, model.StatusFailed, rec.Status)
	assert.Equal(t, 1, obs.failed)

	saved, _ := records.ListSwaps(context.Background(), 10, 0)
	require.Len(t, saved, 1)
	assert.Equal(t, model.StatusFailed, saved[0].Status)
}

func TestSwapRequiresConnectedWallet(t *testing.T) {
	e := NewEngine(NewRateTable(0), fixedWallet{err: wallet.ErrNotConnected}, &fakeSubmitter{}, store.NewMemory(),
		Options{}, zaptest.NewLogger(t))

	_, err := e.Execute(context.Background(), model.SwapRequest{From: "SOL", To: "USDC", Amount: "1"})
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	assert.Equal(t, config.SwapModeSimulated, e.Mode())
}
