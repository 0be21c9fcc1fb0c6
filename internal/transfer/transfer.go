package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidAmount       = common.ErrInvalidAmount
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrCooldown            = errors.New("transfer cooldown active")
)

// Wallet is the connected wallet the submitter spends from.
type Wallet interface {
	Address() (string, error)
	SigningKey() (solana.PrivateKey, error)
}

// BalanceReader is the reconciled ledger read used for the advisory balance check.
type BalanceReader interface {
	Balance(ctx context.Context, owner string, asset common.Asset) (ledger.Reading, error)
}

// Recorder persists what was submitted.
type Recorder interface {
	SaveTransfer(ctx context.Context, rec model.TransactionRecord) error
}

// Observer receives transfer telemetry.
type Observer interface {
	ObserveTransfer(err error)
}

type noopObserver struct{}

func (noopObserver) ObserveTransfer(error) {}

// Request is one transfer of Amount (decimal string) of Asset to Recipient.
// With Wait set the call returns only after the ledger confirms the transaction;
// otherwise success is assumed once the transaction is accepted for submission.
type Request struct {
	Recipient string
	Amount    string
	Asset     common.Asset
	Wait      bool
}

// Options configures a Submitter.
type Options struct {
	Cooldown       time.Duration // minimum time between transfers, zero disables
	ConfirmTimeout time.Duration
	Observer       Observer
}

// Submitter sends transfers from the connected wallet. Submissions are serialized
// while finality waits run concurrently; nothing is retried or queued.
type Submitter struct {
	wallet   Wallet
	chain    ledger.Submitter
	balances BalanceReader
	records  Recorder
	opts     Options
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	lastSent time.Time
}

func NewSubmitter(wallet Wallet, chain ledger.Submitter, balances BalanceReader, records Recorder, opts Options, log *zap.Logger) *Submitter {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = 60 * time.Second
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}
	return &Submitter{
		wallet:   wallet,
		chain:    chain,
		balances: balances,
		records:  records,
		opts:     opts,
		log:      log.Named("transfer"),
		now:      time.Now,
	}
}

// Send submits one transfer. The returned record is also saved to the record store.
func (s *Submitter) Send(ctx context.Context, req Request) (model.TransactionRecord, error) {
	return s.send(ctx, req, true)
}

// Payment is one line of a batch.
type Payment struct {
	Recipient string
	Amount    string
	Asset     common.Asset
}

// Result is the outcome of one batch line.
type Result struct {
	Record model.TransactionRecord
	Err    error
}

// SendBatch pays each line in order, waiting for finality of each one.
// A failed line does not stop the batch. The cooldown does not apply between lines.
func (s *Submitter) SendBatch(ctx context.Context, payments []Payment) []Result {
	results := make([]Result, 0, len(payments))
	for _, p := range payments {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Err: err})
			continue
		}
		rec, err := s.send(ctx, Request{Recipient: p.Recipient, Amount: p.Amount, Asset: p.Asset, Wait: true}, false)
		results = append(results, Result{Record: rec, Err: err})
	}
	return results
}

func (s *Submitter) send(ctx context.Context, req Request, cooldown bool) (model.TransactionRecord, error) {
	if req.Asset.Symbol == "" {
		req.Asset = common.AssetSOL
	}
	units, err := common.ParsePositiveAmount(req.Amount, req.Asset.Decimals)
	if err != nil {
		return model.TransactionRecord{}, err
	}

	from, err := s.wallet.Address()
	if err != nil {
		return model.TransactionRecord{}, err
	}

	rec, err := s.dispatch(ctx, from, req, units, cooldown)
	if rec.ID == "" {
		return rec, err
	}

	// Finality is awaited outside the lock so one slow confirmation does not stall other sends.
	if err == nil && req.Wait {
		err = s.await(ctx, &rec)
	}

	s.opts.Observer.ObserveTransfer(err)
	if err != nil {
		rec.Status = model.StatusFailed
		rec.Error = err.Error()
		s.log.Warn("transfer failed",
			zap.String("to", rec.Recipient), zap.String("amount", rec.Amount),
			zap.String("asset", rec.Asset), zap.String("signature", rec.Hash), zap.Error(err))
	} else {
		rec.Status = model.StatusSuccess
		s.log.Info("transfer sent",
			zap.String("to", rec.Recipient), zap.String("amount", rec.Amount),
			zap.String("asset", rec.Asset), zap.String("signature", rec.Hash), zap.Bool("confirmed", rec.Confirmed))
	}

	if serr := s.records.SaveTransfer(ctx, rec); serr != nil {
		s.log.Error("failed to save transfer record", zap.String("id", rec.ID), zap.Error(serr))
	}
	return rec, err
}

// dispatch runs the cooldown and balance checks and hands the signed transfer
// to the ledger, all under s.mu. A record without an ID was rejected before submission.
func (s *Submitter) dispatch(ctx context.Context, from string, req Request, units uint64, cooldown bool) (model.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cooldown && s.opts.Cooldown > 0 && !s.lastSent.IsZero() {
		if elapsed := s.now().Sub(s.lastSent); elapsed < s.opts.Cooldown {
			remaining := s.opts.Cooldown - elapsed
			return model.TransactionRecord{}, fmt.Errorf("%w, please wait %v", ErrCooldown, remaining.Round(time.Second))
		}
	}

	if err := s.checkBalance(ctx, from, req.Asset, units); err != nil {
		return model.TransactionRecord{}, err
	}

	rec := model.TransactionRecord{
		ID:        uuid.NewString(),
		Status:    model.StatusPending,
		Amount:    req.Asset.Format(units),
		Asset:     req.Asset.Symbol,
		Sender:    from,
		Recipient: strings.TrimSpace(req.Recipient),
		Timestamp: s.now().UTC(),
	}

	err := s.submit(ctx, &rec, req.Asset, units)
	if rec.Hash != "" {
		s.lastSent = s.now()
	}
	return rec, err
}

func (s *Submitter) submit(ctx context.Context, rec *model.TransactionRecord, asset common.Asset, units uint64) error {
	key, err := s.wallet.SigningKey()
	if err != nil {
		return err
	}
	defer clear(key)

	sig, err := s.chain.Transfer(ctx, key, rec.Recipient, asset, units)
	if err != nil {
		if errors.Is(err, ledger.ErrSubmission) || errors.Is(err, ledger.ErrInvalidAddress) {
			return err
		}
		return fmt.Errorf("%w: %v", ledger.ErrSubmission, err)
	}
	rec.Hash = sig
	return nil
}

func (s *Submitter) await(ctx context.Context, rec *model.TransactionRecord) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.opts.ConfirmTimeout)
	defer cancel()
	if err := s.chain.AwaitFinality(waitCtx, rec.Hash); err != nil {
		return err
	}
	rec.Confirmed = true
	return nil
}

// checkBalance is advisory: a failed lookup lets the transfer through and the
// ledger stays the authority on what can be spent.
func (s *Submitter) checkBalance(ctx context.Context, owner string, asset common.Asset, units uint64) error {
	if s.balances == nil {
		return nil
	}

	sol, err := s.balances.Balance(ctx, owner, common.AssetSOL)
	if err != nil {
		s.log.Warn("balance check skipped", zap.Error(err))
		return nil
	}

	if asset.Native {
		if sol.Units < common.BaseFeeLamports || units > sol.Units-common.BaseFeeLamports {
			return fmt.Errorf("%w: have %s SOL, need %s SOL plus %s SOL fee", ErrInsufficientBalance,
				common.LamportsToSOL(sol.Units), asset.Format(units), common.LamportsToSOL(common.BaseFeeLamports))
		}
		return nil
	}

	if sol.Units < common.BaseFeeLamports {
		return fmt.Errorf("%w: insufficient SOL for transaction fee (fee: %s SOL), have %s SOL", ErrInsufficientBalance,
			common.LamportsToSOL(common.BaseFeeLamports), common.LamportsToSOL(sol.Units))
	}
	tok, err := s.balances.Balance(ctx, owner, asset)
	if err != nil {
		s.log.Warn("balance check skipped", zap.Error(err))
		return nil
	}
	if tok.Units < units {
		return fmt.Errorf("%w: have %s %s, need %s", ErrInsufficientBalance, asset.Format(tok.Units), asset.Symbol, asset.Format(units))
	}
	return nil
}
