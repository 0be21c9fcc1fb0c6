// Package swap converts between currencies at static rates. No exchange is
// contacted: a swap is either simulated entirely or recorded as a transfer of
// the source amount back to the sender's own address.
package swap

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/model"
	"github.com/AlexZinkM/globepay/internal/transfer"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
)

// Quotes show an estimated fee of 0.1% of the source amount.
const feeDivisor = 1000

type Wallet interface {
	Address() (string, error)
}

type Submitter interface {
	Send(ctx context.Context, req transfer.Request) (model.TransactionRecord, error)
}

type Recorder interface {
	SaveSwap(ctx context.Context, rec model.SwapRecord) error
}

type Observer interface {
	ObserveSwap(mode string, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveSwap(string, error) {}

type Options struct {
	Mode     string // config.SwapModeSimulated or config.SwapModeSelfTransfer
	Observer Observer
}

type Engine struct {
	rates     *RateTable
	wallet    Wallet
	submitter Submitter
	records   Recorder
	opts      Options
	log       *zap.Logger
	now       func() time.Time
}

func NewEngine(rates *RateTable, wallet Wallet, submitter Submitter, records Recorder, opts Options, log *zap.Logger) *Engine {
	if opts.Mode == "" {
		opts.Mode = config.SwapModeSimulated
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}
	return &Engine{
		rates:     rates,
		wallet:    wallet,
		submitter: submitter,
		records:   records,
		opts:      opts,
		log:       log.Named("swap"),
		now:       time.Now,
	}
}

func (e *Engine) Mode() string {
	return e.opts.Mode
}

func (e *Engine) Rates() model.RatesResponse {
	return model.RatesResponse{Currencies: Currencies, Rates: e.rates.Entries()}
}

// PriceImpact labels the size of a trade.
func PriceImpact(amount float64) string {
	switch {
	case amount > 1000:
		return "High"
	case amount > 100:
		return "Medium"
	}
	return "Low"
}

// Quote prices amount of from in units of to.
func (e *Engine) Quote(from, to, amount string) (model.Quote, error) {
	src, err := LookupCurrency(from)
	if err != nil {
		return model.Quote{}, err
	}
	dst, err := LookupCurrency(to)
	if err != nil {
		return model.Quote{}, err
	}
	units, err := common.ParsePositiveAmount(amount, src.Decimals)
	if err != nil {
		return model.Quote{}, err
	}

	rate, listed := e.rates.Rate(src.Symbol, dst.Symbol)
	value := common.UnitsToFloat(units, src.Decimals)

	return model.Quote{
		FromCurrency: src.Symbol,
		ToCurrency:   dst.Symbol,
		FromAmount:   common.FormatUnits(units, src.Decimals),
		ToAmount:     strconv.FormatFloat(value*rate, 'f', dst.Decimals, 64),
		Rate:         rate,
		Listed:       listed,
		PriceImpact:  PriceImpact(value),
		EstimatedFee: common.FormatUnits(units/feeDivisor, src.Decimals),
		QuotedAt:     e.now().UTC(),
	}, nil
}

// Execute performs a swap at the current quote and records it.
func (e *Engine) Execute(ctx context.Context, req model.SwapRequest) (model.SwapRecord, error) {
	rec, err := e.execute(ctx, req)
	e.opts.Observer.ObserveSwap(e.opts.Mode, err)
	if rec.ID == "" {
		return rec, err
	}

	if err != nil {
		e.log.Warn("swap failed", zap.String("from", rec.FromCurrency), zap.String("to", rec.ToCurrency),
			zap.String("amount", rec.FromAmount), zap.Error(err))
	} else {
		e.log.Info("swap executed", zap.String("mode", rec.Mode), zap.String("from", rec.FromCurrency),
			zap.String("to", rec.ToCurrency), zap.String("amount", rec.FromAmount), zap.String("signature", rec.Hash))
	}
	if serr := e.records.SaveSwap(ctx, rec); serr != nil {
		e.log.Error("failed to save swap record", zap.String("id", rec.ID), zap.Error(serr))
	}
	return rec, err
}

func (e *Engine) execute(ctx context.Context, req model.SwapRequest) (model.SwapRecord, error) {
	quote, err := e.Quote(req.From, req.To, req.Amount)
	if err != nil {
		return model.SwapRecord{}, err
	}
	address, err := e.wallet.Address()
	if err != nil {
		return model.SwapRecord{}, err
	}

	rec := model.SwapRecord{
		Mode:         e.opts.Mode,
		FromCurrency: quote.FromCurrency,
		ToCurrency:   quote.ToCurrency,
		FromAmount:   quote.FromAmount,
		ToAmount:     quote.ToAmount,
		Rate:         quote.Rate,
	}

	if e.opts.Mode == config.SwapModeSelfTransfer {
		asset, err := common.LookupAsset(quote.FromCurrency)
		if err != nil {
			return model.SwapRecord{}, fmt.Errorf("%w: %s cannot be moved on chain", ErrUnsupportedCurrency, quote.FromCurrency)
		}
		tx, err := e.submitter.Send(ctx, transfer.Request{
			Recipient: address,
			Amount:    quote.FromAmount,
			Asset:     asset,
		})
		if tx.ID == "" {
			return model.SwapRecord{}, err
		}
		rec.TransactionRecord = tx
		return rec, err
	}

	hash, err := simulatedHash()
	if err != nil {
		return model.SwapRecord{}, err
	}
	rec.TransactionRecord = model.TransactionRecord{
		ID:        uuid.NewString(),
		Hash:      hash,
		Status:    model.StatusSuccess,
		Amount:    quote.FromAmount,
		Asset:     quote.FromCurrency,
		Sender:    address,
		Recipient: address,
		Timestamp: e.now().UTC(),
	}
	return rec, nil
}

// simulatedHash looks like a transaction signature but refers to nothing on chain.
func simulatedHash() (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate swap id: %w", err)
	}
	return base58.Encode(b), nil
}
