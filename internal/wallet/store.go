// Package wallet holds the connected-wallet state: address, connection flag
// and the last reconciled balance. The signing key never lives here; it is
// unlocked from the vault for one operation at a time.
package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/crypto"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/madflojo/tasks"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	pollerTaskID   = "wallet-balance-refresh"
	refreshTimeout = 30 * time.Second
)

var (
	ErrNotConnected = errors.New("wallet not connected")
	ErrNoWallet     = crypto.ErrNoWallet
)

// Vault is the key custody the store connects through.
type Vault interface {
	Exists() bool
	Address() (string, error)
	QR() ([]byte, error)
	Create(password []byte) (address, mnemonic string, err error)
	Replace(mnemonic string, password []byte) (string, error)
	Unlock(password []byte) (solana.PrivateKey, error)
	Forget() error
}

// Password yields a copy of the vault password; the caller clears it.
type Password interface {
	Bytes() ([]byte, error)
}

// BalanceReader is the reconciled ledger read.
type BalanceReader interface {
	Balance(ctx context.Context, owner string, asset common.Asset) (ledger.Reading, error)
}

// Scheduler runs the background refresh.
type Scheduler interface {
	AddWithID(id string, t *tasks.Task) error
	Del(id string)
}

// Observer receives refresh telemetry.
type Observer interface {
	ObserveRefresh(d time.Duration, err error)
	SetBalance(asset string, value float64)
}

type noopObserver struct{}

func (noopObserver) ObserveRefresh(time.Duration, error) {}
func (noopObserver) SetBalance(string, float64)          {}

// Options configures a Store.
type Options struct {
	Asset           common.Asset
	RefreshInterval time.Duration
	Network         func() string
	Scheduler       Scheduler // nil disables polling
	Observer        Observer
}

// Store is the wallet state store.
type Store struct {
	vault    Vault
	password Password
	ledger   BalanceReader
	opts     Options
	log      *zap.Logger
	group    singleflight.Group

	mu          sync.RWMutex
	connected   bool
	address     string
	generation  uint64 // bumped on connect, disconnect and network change
	balance     uint64
	source      ledger.Source
	refreshedAt time.Time
	lastError   string
}

// NewStore builds a disconnected store.
func NewStore(vault Vault, password Password, reader BalanceReader, opts Options, log *zap.Logger) *Store {
	if opts.Asset.Symbol == "" {
		opts.Asset = common.AssetSOL
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 30 * time.Second
	}
	if opts.Network == nil {
		opts.Network = func() string { return "" }
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}
	return &Store{
		vault:    vault,
		password: password,
		ledger:   reader,
		opts:     opts,
		log:      log.Named("wallet"),
	}
}

// Connect restores the wallet from the vault, or creates one when the vault is empty,
// then performs one refresh. A failed refresh is logged and recorded, not returned.
func (s *Store) Connect(ctx context.Context) (model.ConnectResponse, error) {
	if st := s.State(); st.Connected {
		return model.ConnectResponse{State: st}, nil
	}

	var (
		address, mnemonic string
		created           bool
		err               error
	)
	if s.vault.Exists() {
		address, err = s.vault.Address()
		if err != nil {
			return model.ConnectResponse{}, fmt.Errorf("failed to read wallet address: %w", err)
		}
	} else {
		address, mnemonic, err = s.create()
		if err != nil {
			return model.ConnectResponse{}, err
		}
		created = true
	}

	return s.attach(ctx, address, created, mnemonic), nil
}

// CreateNew replaces the stored wallet with a freshly generated one.
// The mnemonic is returned once. The old wallet survives a failed write.
func (s *Store) CreateNew(ctx context.Context) (model.ConnectResponse, error) {
	mnemonic, err := crypto.NewMnemonic()
	if err != nil {
		return model.ConnectResponse{}, err
	}
	address, err := s.replace(mnemonic)
	if err != nil {
		return model.ConnectResponse{}, fmt.Errorf("failed to create wallet: %w", err)
	}
	s.log.Info("wallet created", zap.String("address", address))
	return s.attach(ctx, address, true, mnemonic), nil
}

// Import replaces the stored wallet with one restored from a mnemonic.
func (s *Store) Import(ctx context.Context, mnemonic string) (model.ConnectResponse, error) {
	if !crypto.ValidMnemonic(mnemonic) {
		return model.ConnectResponse{}, crypto.ErrInvalidMnemonic
	}
	address, err := s.replace(mnemonic)
	if err != nil {
		return model.ConnectResponse{}, fmt.Errorf("failed to import wallet: %w", err)
	}
	return s.attach(ctx, address, false, ""), nil
}

func (s *Store) replace(mnemonic string) (string, error) {
	pw, err := s.password.Bytes()
	if err != nil {
		return "", err
	}
	defer clear(pw)
	return s.vault.Replace(mnemonic, pw)
}

func (s *Store) create() (string, string, error) {
	pw, err := s.password.Bytes()
	if err != nil {
		return "", "", err
	}
	defer clear(pw)

	address, mnemonic, err := s.vault.Create(pw)
	if err != nil {
		return "", "", fmt.Errorf("failed to create wallet: %w", err)
	}
	s.log.Info("wallet created", zap.String("address", address))
	return address, mnemonic, nil
}

func (s *Store) attach(ctx context.Context, address string, created bool, mnemonic string) model.ConnectResponse {
	s.mu.Lock()
	s.connected = true
	s.address = address
	s.generation++
	s.resetBalanceLocked()
	s.mu.Unlock()

	s.log.Info("wallet connected", zap.String("address", address), zap.Bool("created", created))
	s.startPoller()

	if _, err := s.Refresh(ctx); err != nil {
		s.log.Warn("initial balance refresh failed", zap.String("address", address), zap.Error(err))
	}

	resp := model.ConnectResponse{State: s.State(), Created: created, Mnemonic: mnemonic}
	if png, err := s.vault.QR(); err == nil {
		resp.QR = base64.StdEncoding.EncodeToString(png)
	}
	return resp
}

// Disconnect clears the in-memory state and stops polling. The vault file is kept.
func (s *Store) Disconnect() {
	s.stopPoller()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		s.log.Info("wallet disconnected", zap.String("address", s.address))
	}
	s.connected = false
	s.address = ""
	s.generation++
	s.resetBalanceLocked()
}

// Forget disconnects and removes the vault file.
func (s *Store) Forget() error {
	s.Disconnect()
	if err := s.vault.Forget(); err != nil {
		return err
	}
	return nil
}

func (s *Store) resetBalanceLocked() {
	s.balance = 0
	s.source = ""
	s.refreshedAt = time.Time{}
	s.lastError = ""
}

// Refresh reconciles the balance. Concurrent callers share one in-flight lookup.
// A failed lookup keeps the previous balance and records the error.
func (s *Store) Refresh(ctx context.Context) (model.WalletState, error) {
	s.mu.RLock()
	connected, address, gen := s.connected, s.address, s.generation
	s.mu.RUnlock()
	if !connected {
		return s.State(), ErrNotConnected
	}

	// The shared lookup outlives any single caller; each caller waits on its own ctx.
	key := fmt.Sprintf("%d/%s", gen, address)
	ch := s.group.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		start := time.Now()
		reading, err := s.ledger.Balance(lookupCtx, address, s.opts.Asset)
		s.opts.Observer.ObserveRefresh(time.Since(start), err)
		s.apply(gen, reading, err)
		return nil, err
	})

	select {
	case res := <-ch:
		return s.State(), res.Err
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

// apply publishes a completed lookup unless the wallet changed while it was in flight.
func (s *Store) apply(gen uint64, reading ledger.Reading, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	if err != nil {
		s.lastError = err.Error()
		s.log.Warn("balance refresh failed", zap.String("address", s.address), zap.Error(err))
		return
	}
	s.balance = reading.Units
	s.source = reading.Source
	s.refreshedAt = reading.ObservedAt
	s.lastError = ""
	s.opts.Observer.SetBalance(s.opts.Asset.Symbol, common.UnitsToFloat(reading.Units, s.opts.Asset.Decimals))
}

// OnNetworkChange drops the balance of the previous network and refreshes.
func (s *Store) OnNetworkChange(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	s.resetBalanceLocked()
	connected := s.connected
	s.mu.Unlock()

	if !connected {
		return
	}
	if _, err := s.Refresh(ctx); err != nil {
		s.log.Warn("balance refresh after network change failed", zap.Error(err))
	}
}

// State returns a snapshot of the public state.
func (s *Store) State() model.WalletState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := model.WalletState{
		Connected: s.connected,
		Address:   s.address,
		Network:   s.opts.Network(),
		Asset:     s.opts.Asset.Symbol,
		Balance:   s.opts.Asset.Format(s.balance),
		Source:    string(s.source),
		LastError: s.lastError,
	}
	if !s.refreshedAt.IsZero() {
		t := s.refreshedAt
		st.RefreshedAt = &t
	}
	return st
}

// Balance returns the cached balance in base units.
func (s *Store) Balance() (uint64, common.Asset) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance, s.opts.Asset
}

// Address returns the connected address.
func (s *Store) Address() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected {
		return "", ErrNotConnected
	}
	return s.address, nil
}

// QR returns the PNG QR code of the connected address.
func (s *Store) QR() ([]byte, error) {
	if _, err := s.Address(); err != nil {
		return nil, err
	}
	return s.vault.QR()
}

// SigningKey unlocks the key of the connected wallet.
// Caller must clear the returned key after use.
func (s *Store) SigningKey() (solana.PrivateKey, error) {
	address, err := s.Address()
	if err != nil {
		return nil, err
	}
	pw, err := s.password.Bytes()
	if err != nil {
		return nil, err
	}
	defer clear(pw)

	key, err := s.vault.Unlock(pw)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock wallet: %w", err)
	}
	if key.PublicKey().String() != address {
		clear(key)
		return nil, crypto.ErrKeyMismatch
	}
	return key, nil
}

func (s *Store) startPoller() {
	if s.opts.Scheduler == nil {
		return
	}
	s.opts.Scheduler.Del(pollerTaskID)
	err := s.opts.Scheduler.AddWithID(pollerTaskID, &tasks.Task{
		Interval: s.opts.RefreshInterval,
		TaskFunc: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), s.opts.RefreshInterval)
			defer cancel()
			_, err := s.Refresh(ctx)
			if errors.Is(err, ErrNotConnected) {
				return nil
			}
			return err
		},
		ErrFunc: func(err error) {
			s.log.Debug("scheduled refresh failed", zap.Error(err))
		},
	})
	if err != nil {
		s.log.Error("failed to schedule balance refresh", zap.Error(err))
	}
}

func (s *Store) stopPoller() {
	if s.opts.Scheduler != nil {
		s.opts.Scheduler.Del(pollerTaskID)
	}
}
