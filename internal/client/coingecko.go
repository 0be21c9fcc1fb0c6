package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
)

// CoinGeckoIDs maps asset symbols to CoinGecko coin ids.
var CoinGeckoIDs = map[string]string{
	"SOL":  "solana",
	"USDC": "usd-coin",
}

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client; an empty baseURL uses the public API.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Price gets the price of one coin in the fiat currency, e.g. Price(ctx, "usd-coin", "usd").
func (c *CoinGeckoClient) Price(ctx context.Context, coinID, fiat string) (float64, error) {
	fiat = strings.ToLower(fiat)
	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", fiat)
	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create rate request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to get rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to get rate: status %d", resp.StatusCode)
	}

	// {"usd-coin":{"usd":1.0}}
	var priceResp map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return 0, fmt.Errorf("failed to decode rate: %w", err)
	}

	price, ok := priceResp[coinID][fiat]
	if !ok {
		return 0, fmt.Errorf("no %s price for %s", fiat, coinID)
	}
	return price, nil
}
