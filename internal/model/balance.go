package model

import "time"

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address    string    `json:"address"`
	Asset      string    `json:"asset"`
	Balance    string    `json:"balance"`
	Found      bool      `json:"found"` // false when the account or token account does not exist yet
	Source     string    `json:"source"`
	ObservedAt time.Time `json:"observedAt"`
	Fiat       string    `json:"fiat,omitempty"`
	FiatRate   string    `json:"fiatRate,omitempty"`
	FiatValue  string    `json:"fiatValue,omitempty"`
}

// BalanceRequest represents query parameters for GET /wallet/balance
type BalanceRequest struct {
	Asset string `query:"asset" default:"SOL" validate:"required,oneof=SOL USDC sol usdc"`
}

// SourceBalance is one side of a cross-check.
type SourceBalance struct {
	Balance string `json:"balance"`
	Found   bool   `json:"found"`
	Error   string `json:"error,omitempty"`
}

// CrossCheckResponse represents response for GET /wallet/balance/crosscheck
type CrossCheckResponse struct {
	Address  string        `json:"address"`
	Asset    string        `json:"asset"`
	Primary  SourceBalance `json:"primary"`
	Fallback SourceBalance `json:"fallback"`
	Agree    bool          `json:"agree"`
}
