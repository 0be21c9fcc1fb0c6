package model

import "time"

// SwapRecord is a transaction record plus the cosmetic conversion applied to it.
type SwapRecord struct {
	TransactionRecord
	Mode         string  `json:"mode"` // "simulated" or "self-transfer"
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	FromAmount   string  `json:"fromAmount"`
	ToAmount     string  `json:"toAmount"`
	Rate         float64 `json:"rate"`
}

// QuoteRequest represents query parameters for GET /swap/quote
type QuoteRequest struct {
	From   string `query:"from" json:"fromCurrency" validate:"required"`
	To     string `query:"to" json:"toCurrency" validate:"required"`
	Amount string `query:"amount" json:"amount" validate:"required"`
}

// Quote represents response for GET /swap/quote
type Quote struct {
	FromCurrency string    `json:"fromCurrency"`
	ToCurrency   string    `json:"toCurrency"`
	FromAmount   string    `json:"fromAmount"`
	ToAmount     string    `json:"toAmount"`
	Rate         float64   `json:"rate"`
	Listed       bool      `json:"listed"` // false when the pair is missing and the rate defaulted to 1
	PriceImpact  string    `json:"priceImpact"`
	EstimatedFee string    `json:"estimatedFee"`
	QuotedAt     time.Time `json:"quotedAt"`
}

// RateEntry is one row of GET /swap/rates
type RateEntry struct {
	Pair string  `json:"pair"`
	Rate float64 `json:"rate"`
}

// Currency describes a currency the swap screen knows about.
type Currency struct {
	Symbol   string `json:"symbol"`
	Kind     string `json:"kind"` // crypto, stablecoin or fiat
	Decimals int    `json:"decimals"`
	OnChain  bool   `json:"onChain"`
}

// RatesResponse represents response for GET /swap/rates
type RatesResponse struct {
	Currencies []Currency  `json:"currencies"`
	Rates      []RateEntry `json:"rates"`
}

// SwapRequest represents request for POST /swaps
type SwapRequest struct {
	From   string `json:"fromCurrency" validate:"required"`
	To     string `json:"toCurrency" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}
