package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/crypto"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/madflojo/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// memVault keeps the key in memory instead of an encrypted file.
type memVault struct {
	mu         sync.Mutex
	key        solana.PrivateKey
	unlockAs   solana.PrivateKey // when set, Unlock returns this key instead
	replaceErr error
}

func (v *memVault) Exists() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.key != nil
}

func (v *memVault) Address() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key == nil {
		return "", crypto.ErrNoWallet
	}
	return v.key.PublicKey().String(), nil
}

func (v *memVault) QR() ([]byte, error) { return []byte("png"), nil }

func (v *memVault) Create([]byte) (string, string, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return "", "", err
	}
	v.mu.Lock()
	v.key = key
	v.mu.Unlock()
	return key.PublicKey().String(), "twelve words", nil
}

func (v *memVault) Replace(mnemonic string, _ []byte) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.replaceErr != nil {
		return "", v.replaceErr
	}
	v.key = crypto.KeyFromMnemonic(mnemonic)
	return v.key.PublicKey().String(), nil
}

func (v *memVault) Unlock([]byte) (solana.PrivateKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	src := v.key
	if v.unlockAs != nil {
		src = v.unlockAs
	}
	out := make(solana.PrivateKey, len(src))
	copy(out, src)
	return out, nil
}

func (v *memVault) Forget() error {
	v.mu.Lock()
	v.key = nil
	v.mu.Unlock()
	return nil
}

// fakeReader returns a fixed balance; gate, when set, holds the lookup until closed.
type fakeReader struct {
	mu      sync.Mutex
	units   uint64
	err     error
	calls   int
	gate    chan struct{}
	entered chan struct{}
}

func (r *fakeReader) set(units uint64, err error) {
	r.mu.Lock()
	r.units, r.err = units, err
	r.mu.Unlock()
}

func (r *fakeReader) Balance(ctx context.Context, owner string, asset common.Asset) (ledger.Reading, error) {
	r.mu.Lock()
	r.calls++
	units, err, gate, entered := r.units, r.err, r.gate, r.entered
	r.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ledger.Reading{}, ctxErr
	}
	if err != nil {
		return ledger.Reading{}, err
	}
	return ledger.Reading{Asset: asset, Units: units, Found: true, Source: ledger.SourcePrimary, ObservedAt: time.Now()}, nil
}

func (r *fakeReader) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newStore(t *testing.T, vault Vault, reader BalanceReader, sched Scheduler) *Store {
	t.Helper()
	return NewStore(vault, config.NewPassphrase([]byte("pw")), reader, Options{
		Asset:           common.AssetSOL,
		RefreshInterval: 20 * time.Millisecond,
		Network:         func() string { return config.NetworkDevnet },
		Scheduler:       sched,
	}, zaptest.NewLogger(t))
}

func TestConnectCreatesThenRestores(t *testing.T) {
	vault := &memVault{}
	reader := &fakeReader{units: 1_500_000_000}
	s := newStore(t, vault, reader, nil)
	ctx := context.Background()

	resp, err := s.Connect(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, "twelve words", resp.Mnemonic)
	assert.NotEmpty(t, resp.QR)
	assert.True(t, resp.State.Connected)
	assert.Equal(t, "1.500000000", resp.State.Balance)
	assert.Equal(t, "devnet", resp.State.Network)
	assert.Equal(t, "sdk", resp.State.Source)
	address := resp.State.Address

	s.Disconnect()
	st := s.State()
	assert.False(t, st.Connected)
	assert.Equal(t, "0.000000000", st.Balance)
	assert.Nil(t, st.RefreshedAt)
	assert.True(t, vault.Exists())

	resp, err = s.Connect(ctx)
	require.NoError(t, err)
	assert.False(t, resp.Created)
	assert.Empty(t, resp.Mnemonic)
	assert.Equal(t, address, resp.State.Address)
}

func TestConnectTwiceIsNoop(t *testing.T) {
	reader := &fakeReader{}
	s := newStore(t, &memVault{}, reader, nil)

	first, err := s.Connect(context.Background())
	require.NoError(t, err)
	second, err := s.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.State.Address, second.State.Address)
	assert.False(t, second.Created)
	assert.Equal(t, 1, reader.callCount())
}

func TestNotConnected(t *testing.T) {
	s := newStore(t, &memVault{}, &fakeReader{}, nil)

	_, err := s.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = s.Address()
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = s.QR()
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = s.SigningKey()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestFailedRefreshKeepsBalance(t *testing.T) {
	reader := &fakeReader{units: 2_000_000_000}
	s := newStore(t, &memVault{}, reader, nil)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	reader.set(0, ledger.ErrUnavailable)
	st, err := s.Refresh(context.Background())
	require.ErrorIs(t, err, ledger.ErrUnavailable)
	assert.Equal(t, "2.000000000", st.Balance)
	assert.NotEmpty(t, st.LastError)

	reader.set(3_000_000_000, nil)
	st, err = s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.000000000", st.Balance)
	assert.Empty(t, st.LastError)
}

func TestFailedInitialRefreshStillConnects(t *testing.T) {
	reader := &fakeReader{err: errors.New("rpc down")}
	s := newStore(t, &memVault{}, reader, nil)

	resp, err := s.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.State.Connected)
	assert.Equal(t, "rpc down", resp.State.LastError)
}

func TestStaleRefreshIsDropped(t *testing.T) {
	reader := &fakeReader{units: 1_000_000_000}
	s := newStore(t, &memVault{}, reader, nil)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	gate := make(chan struct{})
	entered := make(chan struct{}, 1)
	reader.mu.Lock()
	reader.units = 9_000_000_000
	reader.gate, reader.entered = gate, entered
	reader.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Refresh(context.Background())
	}()
	<-entered

	s.Disconnect()
	close(gate)
	<-done

	st := s.State()
	assert.False(t, st.Connected)
	assert.Equal(t, "0.000000000", st.Balance)
}

type refreshResult struct {
	state model.WalletState
	err   error
}

func refreshAsync(ctx context.Context, s *Store) <-chan refreshResult {
	out := make(chan refreshResult, 1)
	go func() {
		st, err := s.Refresh(ctx)
		out <- refreshResult{st, err}
	}()
	return out
}

// holdLookups blocks the next lookups until the returned release is called.
func holdLookups(r *fakeReader) (entered chan struct{}, release func()) {
	g := make(chan struct{})
	entered = make(chan struct{}, 4)
	r.mu.Lock()
	r.gate, r.entered = g, entered
	r.mu.Unlock()
	return entered, func() { close(g) }
}

func TestConcurrentRefreshesShareLookup(t *testing.T) {
	reader := &fakeReader{units: 1_000_000_000}
	s := newStore(t, &memVault{}, reader, nil)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)
	before := reader.callCount()

	reader.set(4_000_000_000, nil)
	entered, release := holdLookups(reader)

	manual := refreshAsync(context.Background(), s)
	<-entered
	timer := refreshAsync(context.Background(), s)
	time.Sleep(50 * time.Millisecond) // let the second caller join the in-flight lookup
	release()

	for _, ch := range []<-chan refreshResult{manual, timer} {
		res := <-ch
		require.NoError(t, res.err)
		assert.Equal(t, "4.000000000", res.state.Balance)
	}
	assert.Equal(t, before+1, reader.callCount())
	assert.Equal(t, "4.000000000", s.State().Balance)
}

func TestCancelledCallerDoesNotFailSharedRefresh(t *testing.T) {
	reader := &fakeReader{units: 1_000_000_000}
	s := newStore(t, &memVault{}, reader, nil)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)
	before := reader.callCount()

	reader.set(4_000_000_000, nil)
	entered, release := holdLookups(reader)

	ctx, cancel := context.WithCancel(context.Background())
	manual := refreshAsync(ctx, s)
	<-entered
	timer := refreshAsync(context.Background(), s)
	time.Sleep(50 * time.Millisecond)

	cancel()
	res := <-manual
	assert.ErrorIs(t, res.err, context.Canceled)

	release()
	res = <-timer
	require.NoError(t, res.err)
	assert.Equal(t, "4.000000000", res.state.Balance)
	assert.Empty(t, res.state.LastError)
	assert.Equal(t, before+1, reader.callCount())
}

func TestFailedReplaceKeepsWallet(t *testing.T) {
	vault := &memVault{}
	s := newStore(t, vault, &fakeReader{}, nil)
	resp, err := s.Connect(context.Background())
	require.NoError(t, err)
	address := resp.State.Address

	vault.mu.Lock()
	vault.replaceErr = errors.New("disk full")
	vault.mu.Unlock()

	_, err = s.CreateNew(context.Background())
	require.Error(t, err)
	_, err = s.Import(context.Background(), testMnemonic)
	require.Error(t, err)

	got, err := vault.Address()
	require.NoError(t, err)
	assert.Equal(t, address, got)
	st := s.State()
	assert.True(t, st.Connected)
	assert.Equal(t, address, st.Address)
}

func TestNetworkChangeResetsAndRefreshes(t *testing.T) {
	reader := &fakeReader{units: 1_000_000_000}
	s := newStore(t, &memVault{}, reader, nil)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	reader.set(0, errors.New("new cluster unreachable"))
	s.OnNetworkChange(context.Background())

	st := s.State()
	assert.True(t, st.Connected)
	assert.Equal(t, "0.000000000", st.Balance)
	assert.Equal(t, "new cluster unreachable", st.LastError)
	assert.Equal(t, 2, reader.callCount())
}

func TestImport(t *testing.T) {
	s := newStore(t, &memVault{}, &fakeReader{}, nil)

	_, err := s.Import(context.Background(), "not a mnemonic")
	assert.ErrorIs(t, err, crypto.ErrInvalidMnemonic)

	resp, err := s.Import(context.Background(), testMnemonic)
	require.NoError(t, err)
	assert.False(t, resp.Created)
	assert.Equal(t, crypto.KeyFromMnemonic(testMnemonic).PublicKey().String(), resp.State.Address)
}

func TestCreateNewReplacesWallet(t *testing.T) {
	s := newStore(t, &memVault{}, &fakeReader{}, nil)
	first, err := s.Connect(context.Background())
	require.NoError(t, err)

	second, err := s.CreateNew(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Created)
	assert.NotEqual(t, first.State.Address, second.State.Address)
}

func TestForget(t *testing.T) {
	vault := &memVault{}
	s := newStore(t, vault, &fakeReader{}, nil)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Forget())
	assert.False(t, s.State().Connected)
	assert.False(t, vault.Exists())
}

func TestSigningKey(t *testing.T) {
	vault := &memVault{}
	s := newStore(t, vault, &fakeReader{}, nil)
	resp, err := s.Connect(context.Background())
	require.NoError(t, err)

	key, err := s.SigningKey()
	require.NoError(t, err)
	assert.Equal(t, resp.State.Address, key.PublicKey().String())

	other, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	vault.mu.Lock()
	vault.unlockAs = other
	vault.mu.Unlock()

	_, err = s.SigningKey()
	assert.ErrorIs(t, err, crypto.ErrKeyMismatch)
}

func TestPollerRefreshesWhileConnected(t *testing.T) {
	sched := tasks.New()
	defer sched.Stop()

	reader := &fakeReader{units: 1}
	s := newStore(t, &memVault{}, reader, sched)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return reader.callCount() >= 3 }, 2*time.Second, 10*time.Millisecond)

	s.Disconnect()
	_, ok := sched.Tasks()[pollerTaskID]
	assert.False(t, ok)
}
