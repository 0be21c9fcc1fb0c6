package swap

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/model"

	"gopkg.in/yaml.v3"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Currencies known to the swap screen. Fiat entries are display only.
var Currencies = []model.Currency{
	{Symbol: "SOL", Kind: "crypto", Decimals: common.SOLDecimals, OnChain: true},
	{Symbol: "USDC", Kind: "stablecoin", Decimals: common.USDCDecimals, OnChain: true},
	{Symbol: "USDT", Kind: "stablecoin", Decimals: 6},
	{Symbol: "EUR", Kind: "fiat", Decimals: 2},
	{Symbol: "GBP", Kind: "fiat", Decimals: 2},
	{Symbol: "JPY", Kind: "fiat", Decimals: 0},
	{Symbol: "CAD", Kind: "fiat", Decimals: 2},
}

// LookupCurrency resolves a symbol case-insensitively.
func LookupCurrency(symbol string) (model.Currency, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, c := range Currencies {
		if c.Symbol == s {
			return c, nil
		}
	}
	return model.Currency{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, symbol)
}

// Mock rates keyed "FROM-TO"; they are never fetched from a market.
var defaultRates = map[string]float64{
	"SOL-USDC":  150.25,
	"USDC-SOL":  0.006655,
	"SOL-USDT":  150.1,
	"USDT-SOL":  0.006662,
	"USDC-USDT": 0.999,
	"USDT-USDC": 1.001,
	"USDC-EUR":  0.92,
	"EUR-USDC":  1.087,
	"USDC-GBP":  0.79,
	"GBP-USDC":  1.266,
	"USDC-JPY":  149.5,
	"JPY-USDC":  0.00669,
	"USDC-CAD":  1.36,
	"CAD-USDC":  0.735,
}

// RateTable holds static exchange rates. A pair that is not listed trades at 1.0.
type RateTable struct {
	mu     sync.RWMutex
	rates  map[string]float64
	jitter float64
	random func() float64 // uniform in [0, 1)
}

// NewRateTable returns the default table. Each lookup moves the rate by up to
// ±jitter (0.01 is ±1%); zero disables the fluctuation.
func NewRateTable(jitter float64) *RateTable {
	rates := make(map[string]float64, len(defaultRates))
	for k, v := range defaultRates {
		rates[k] = v
	}
	return &RateTable{rates: rates, jitter: jitter, random: rand.Float64}
}

type ratesFile struct {
	Rates map[string]float64 `yaml:"rates"`
}

// LoadFile merges rates from a YAML file of the form
//
//	rates:
//	  SOL-USDC: 142.5
func (t *RateTable) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rates file: %w", err)
	}
	var f ratesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse rates file: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for pair, rate := range f.Rates {
		from, to, ok := strings.Cut(pair, "-")
		if !ok || from == "" || to == "" {
			return fmt.Errorf("invalid pair %q in rates file", pair)
		}
		if rate <= 0 {
			return fmt.Errorf("rate for %s must be positive", pair)
		}
		t.rates[pairKey(from, to)] = rate
	}
	return nil
}

func pairKey(from, to string) string {
	return strings.ToUpper(strings.TrimSpace(from)) + "-" + strings.ToUpper(strings.TrimSpace(to))
}

// Base returns the listed rate without fluctuation.
func (t *RateTable) Base(from, to string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rate, ok := t.rates[pairKey(from, to)]
	if !ok {
		return 1, false
	}
	return rate, true
}

// Rate returns the current rate for the pair with jitter applied.
func (t *RateTable) Rate(from, to string) (float64, bool) {
	rate, listed := t.Base(from, to)
	if t.jitter > 0 {
		rate *= 1 + (t.random()-0.5)*2*t.jitter
	}
	return rate, listed
}

// Entries lists every listed pair sorted by name.
func (t *RateTable) Entries() []model.RateEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]model.RateEntry, 0, len(t.rates))
	for pair, rate := range t.rates {
		out = append(out, model.RateEntry{Pair: pair, Rate: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair < out[j].Pair })
	return out
}
