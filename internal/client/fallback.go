package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/ledger"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// FallbackClient reads balances from a public JSON-RPC endpoint without the SDK.
// It exists so a broken SDK transport does not take balance reads down with it.
type FallbackClient struct {
	mu       sync.RWMutex
	url      string
	usdcMint string

	client *http.Client
	nextID atomic.Uint64
	log    *zap.Logger
}

// NewFallbackClient creates a fallback reader for one cluster.
func NewFallbackClient(ep config.Endpoints, log *zap.Logger) *FallbackClient {
	c := &FallbackClient{
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log.Named("fallback"),
	}
	c.Reconfigure(ep)
	return c
}

// Reconfigure points the reader at another cluster.
func (c *FallbackClient) Reconfigure(ep config.Endpoints) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = ep.FallbackURL
	c.usdcMint = ep.USDCMint
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// TokenAccountInfo represents token account info from RPC
type TokenAccountInfo struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data struct {
			Parsed struct {
				Info struct {
					Mint        string `json:"mint,omitempty"`
					Owner       string `json:"owner,omitempty"`
					TokenAmount struct {
						Amount         string `json:"amount,omitempty"`
						Decimals       int    `json:"decimals,omitempty"`
						UiAmountString string `json:"uiAmountString,omitempty"`
					} `json:"tokenAmount,omitempty"`
				} `json:"info,omitempty"`
				Type string `json:"type,omitempty"`
			} `json:"parsed,omitempty"`
		} `json:"data"`
	} `json:"account"`
}

// Balance returns the balance of owner in base units.
// A missing account or token account yields ledger.ErrResourceNotFound.
func (c *FallbackClient) Balance(ctx context.Context, owner string, asset common.Asset) (uint64, error) {
	if _, err := solana.PublicKeyFromBase58(strings.TrimSpace(owner)); err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ledger.ErrInvalidAddress, owner, err)
	}
	owner = strings.TrimSpace(owner)

	c.mu.RLock()
	url, mint := c.url, c.usdcMint
	c.mu.RUnlock()

	if asset.Native {
		var out struct {
			Value uint64 `json:"value"`
		}
		if err := c.call(ctx, url, "getBalance", []any{owner, map[string]string{"commitment": "confirmed"}}, &out); err != nil {
			return 0, err
		}
		if out.Value == 0 {
			return 0, ledger.ErrResourceNotFound
		}
		return out.Value, nil
	}

	if mint == "" {
		return 0, fmt.Errorf("%s has no mint: %w", asset.Symbol, ledger.ErrResourceNotFound)
	}

	var out struct {
		Value []TokenAccountInfo `json:"value"`
	}
	params := []any{
		owner,
		map[string]string{"mint": mint},
		map[string]string{"encoding": "jsonParsed", "commitment": "confirmed"},
	}
	if err := c.call(ctx, url, "getTokenAccountsByOwner", params, &out); err != nil {
		return 0, err
	}
	if len(out.Value) == 0 {
		return 0, ledger.ErrResourceNotFound
	}

	// an owner may hold more than one account of the same mint
	var total uint64
	for _, acc := range out.Value {
		amount, err := strconv.ParseUint(acc.Account.Data.Parsed.Info.TokenAmount.Amount, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse token amount of %s: %w", acc.Pubkey, err)
		}
		total += amount
	}
	return total, nil
}

func (c *FallbackClient) call(ctx context.Context, url, method string, params []any, out any) error {
	if url == "" {
		return errors.New("fallback endpoint not configured")
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: c.nextID.Add(1), Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		if isNotFoundError(rpcResp.Error) {
			return ledger.ErrResourceNotFound
		}
		return fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
