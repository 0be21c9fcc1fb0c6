package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testOwner = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	testMint  = "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"
)

// rpcStub answers JSON-RPC calls by method name.
type rpcStub struct {
	mu      sync.Mutex
	results map[string]any       // method -> result
	errors  map[string]*rpcError // method -> error
	calls   map[string]int
	params  map[string]json.RawMessage
}

func newRPCStub(t *testing.T) (*rpcStub, *httptest.Server) {
	s := &rpcStub{
		results: map[string]any{},
		errors:  map[string]*rpcError{},
		calls:   map[string]int{},
		params:  map[string]json.RawMessage{},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.calls[req.Method]++
		s.params[req.Method] = req.Params
		result, hasResult := s.results[req.Method]
		rpcErr := s.errors[req.Method]
		s.mu.Unlock()

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch {
		case rpcErr != nil:
			resp["error"] = rpcErr
		case hasResult:
			resp["result"] = result
		default:
			resp["error"] = &rpcError{Code: -32601, Message: "unsupported method " + req.Method}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *rpcStub) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func withContext(value any) map[string]any {
	return map[string]any{"context": map[string]any{"slot": 1}, "value": value}
}

func TestSolanaClientNativeBalance(t *testing.T) {
	stub, srv := newRPCStub(t)
	stub.results["getBalance"] = withContext(1500000000)

	c, err := NewSolanaClient(config.NetworkDevnet, config.Endpoints{RPCURL: srv.URL, USDCMint: testMint}, zaptest.NewLogger(t))
	require.NoError(t, err)

	units, err := c.Balance(context.Background(), testOwner, common.AssetSOL)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500000000), units)
}

func TestSolanaClientMissingAccountIsNotFound(t *testing.T) {
	stub, srv := newRPCStub(t)
	stub.results["getBalance"] = withContext(0)
	stub.errors["getTokenAccountBalance"] = &rpcError{Code: -32602, Message: "Invalid param: could not find account"}

	c, err := NewSolanaClient(config.NetworkDevnet, config.Endpoints{RPCURL: srv.URL, USDCMint: testMint}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = c.Balance(context.Background(), testOwner, common.AssetSOL)
	assert.ErrorIs(t, err, ledger.ErrResourceNotFound)

	_, err = c.Balance(context.Background(), testOwner, common.AssetUSDC)
	assert.ErrorIs(t, err, ledger.ErrResourceNotFound)
}

func TestSolanaClientTokenBalance(t *testing.T) {
	stub, srv := newRPCStub(t)
	stub.results["getTokenAccountBalance"] = withContext(map[string]any{
		"amount":         "2500000",
		"decimals":       6,
		"uiAmountString": "2.5",
	})

	c, err := NewSolanaClient(config.NetworkDevnet, config.Endpoints{RPCURL: srv.URL, USDCMint: testMint}, zaptest.NewLogger(t))
	require.NoError(t, err)

	units, err := c.Balance(context.Background(), testOwner, common.AssetUSDC)
	require.NoError(t, err)
	assert.Equal(t, uint64(2500000), units)
}

func TestSolanaClientNoMintOnNetwork(t *testing.T) {
	stub, srv := newRPCStub(t)

	c, err := NewSolanaClient(config.NetworkTestnet, config.Endpoints{RPCURL: srv.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = c.Balance(context.Background(), testOwner, common.AssetUSDC)
	assert.ErrorIs(t, err, ledger.ErrResourceNotFound)
	assert.Zero(t, stub.callCount("getTokenAccountBalance"))
}

func TestSolanaClientInvalidAddress(t *testing.T) {
	stub, srv := newRPCStub(t)

	c, err := NewSolanaClient(config.NetworkDevnet, config.Endpoints{RPCURL: srv.URL, USDCMint: testMint}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = c.Balance(context.Background(), "not an address", common.AssetSOL)
	assert.ErrorIs(t, err, ledger.ErrInvalidAddress)
	assert.Zero(t, stub.callCount("getBalance"))
}

func TestSolanaClientReconfigure(t *testing.T) {
	stubA, srvA := newRPCStub(t)
	stubA.results["getBalance"] = withContext(1)
	stubB, srvB := newRPCStub(t)
	stubB.results["getBalance"] = withContext(2)

	c, err := NewSolanaClient(config.NetworkDevnet, config.Endpoints{RPCURL: srvA.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, c.Reconfigure(config.NetworkTestnet, config.Endpoints{RPCURL: srvB.URL}))

	units, err := c.Balance(context.Background(), testOwner, common.AssetSOL)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), units)
	assert.Equal(t, config.NetworkTestnet, c.Network())
	assert.Zero(t, stubA.callCount("getBalance"))
}

func TestSolanaClientRejectsBadMint(t *testing.T) {
	_, err := NewSolanaClient(config.NetworkDevnet, config.Endpoints{RPCURL: "http://localhost", USDCMint: "bad"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestAirdropUnavailableOnMainnet(t *testing.T) {
	stub, srv := newRPCStub(t)

	c, err := NewSolanaClient(config.NetworkMainnet, config.Endpoints{RPCURL: srv.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = c.RequestAirdrop(context.Background(), testOwner, 1)
	assert.ErrorIs(t, err, ErrAirdropUnavailable)
	assert.Zero(t, stub.callCount("requestAirdrop"))
}

func TestFallbackNativeBalance(t *testing.T) {
	stub, srv := newRPCStub(t)
	stub.results["getBalance"] = withContext(42)

	c := NewFallbackClient(config.Endpoints{FallbackURL: srv.URL}, zaptest.NewLogger(t))
	units, err := c.Balance(context.Background(), testOwner, common.AssetSOL)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), units)
}

func TestFallbackTokenBalanceSumsAccounts(t *testing.T) {
	stub, srv := newRPCStub(t)
	account := func(amount string) map[string]any {
		return map[string]any{
			"pubkey": testOwner,
			"account": map[string]any{"data": map[string]any{"parsed": map[string]any{
				"type": "account",
				"info": map[string]any{"mint": testMint, "tokenAmount": map[string]any{"amount": amount, "decimals": 6}},
			}}},
		}
	}
	stub.results["getTokenAccountsByOwner"] = withContext([]any{account("1000000"), account("250000")})

	c := NewFallbackClient(config.Endpoints{FallbackURL: srv.URL, USDCMint: testMint}, zaptest.NewLogger(t))
	units, err := c.Balance(context.Background(), testOwner, common.AssetUSDC)
	require.NoError(t, err)
	assert.Equal(t, uint64(1250000), units)

	var params []json.RawMessage
	require.NoError(t, json.Unmarshal(stub.params["getTokenAccountsByOwner"], &params))
	require.Len(t, params, 3)
	assert.JSONEq(t, `{"mint":"`+testMint+`"}`, string(params[1]))
}

func TestFallbackNoTokenAccountIsNotFound(t *testing.T) {
	stub, srv := newRPCStub(t)
	stub.results["getTokenAccountsByOwner"] = withContext([]any{})

	c := NewFallbackClient(config.Endpoints{FallbackURL: srv.URL, USDCMint: testMint}, zaptest.NewLogger(t))
	_, err := c.Balance(context.Background(), testOwner, common.AssetUSDC)
	assert.ErrorIs(t, err, ledger.ErrResourceNotFound)
}

func TestFallbackTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewFallbackClient(config.Endpoints{FallbackURL: srv.URL}, zaptest.NewLogger(t))
	_, err := c.Balance(context.Background(), testOwner, common.AssetSOL)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ledger.ErrResourceNotFound)
}

func TestCoinGeckoPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "usd-coin", r.URL.Query().Get("ids"))
		prices := map[string]float64{"eur": 0.92}
		fiat := r.URL.Query().Get("vs_currencies")
		body := map[string]map[string]float64{"usd-coin": {}}
		if p, ok := prices[fiat]; ok {
			body["usd-coin"][fiat] = p
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL + "/")
	price, err := c.Price(context.Background(), "usd-coin", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 0.92, price, 1e-9)

	_, err = c.Price(context.Background(), "usd-coin", "gbp")
	assert.Error(t, err)
}

// encodedTransfer returns a getTransaction result carrying a base64 SOL transfer from payer to to.
func encodedTransfer(t *testing.T, payer, to solana.PublicKey, meta *rpc.TransactionMeta) *rpc.GetTransactionResult {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1_000_000_000, payer, to).Build()},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	var envelope rpc.TransactionResultEnvelope
	body, err := json.Marshal([]string{base64.StdEncoding.EncodeToString(raw), "base64"})
	require.NoError(t, err)
	require.NoError(t, envelope.UnmarshalJSON(body))
	return &rpc.GetTransactionResult{Slot: 42, Transaction: &envelope, Meta: meta}
}

func TestParseTransactionSOLTransfer(t *testing.T) {
	payer := solana.MustPublicKeyFromBase58(testOwner)
	to := solana.NewWallet().PublicKey()
	res := encodedTransfer(t, payer, to, &rpc.TransactionMeta{
		Fee:          5000,
		PreBalances:  []uint64{3_000_000_000, 0, 1},
		PostBalances: []uint64{1_999_995_000, 1_000_000_000, 1},
	})

	rows := parseTransaction(res, solana.Signature{1}, payer, clusterView{})
	require.Len(t, rows, 1)
	assert.Equal(t, "1.000000000", rows[0].Amount)
	assert.Equal(t, to.String(), rows[0].To)
	assert.Equal(t, "0.000005000", rows[0].FeeSOL)
}

func TestParseTransactionShortBalanceArrays(t *testing.T) {
	payer := solana.MustPublicKeyFromBase58(testOwner)
	to := solana.NewWallet().PublicKey()
	res := encodedTransfer(t, payer, to, &rpc.TransactionMeta{
		Fee:          5000,
		PreBalances:  []uint64{3_000_000_000, 0, 1},
		PostBalances: []uint64{1_999_995_000},
	})

	var rows []model.Transaction
	require.NotPanics(t, func() {
		rows = parseTransaction(res, solana.Signature{1}, payer, clusterView{})
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "1.000000000", rows[0].Amount)
	assert.Empty(t, rows[0].To)

	// the sender's side: post balances present for the owner only
	res = encodedTransfer(t, to, payer, &rpc.TransactionMeta{
		Fee:          5000,
		PreBalances:  []uint64{3_000_000_000},
		PostBalances: []uint64{1_999_995_000, 1_000_000_000},
	})
	require.NotPanics(t, func() {
		rows = parseTransaction(res, solana.Signature{2}, payer, clusterView{})
	})
	assert.Empty(t, rows)
}
