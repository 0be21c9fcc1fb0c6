package model

import (
	"fmt"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
)

// TransactionType transaction type
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"
	TransactionTypeCredit TransactionType = "CREDIT"
)

// Transaction is one on-chain movement of SOL or USDC seen from the wallet.
type Transaction struct {
	Type        TransactionType `json:"type"`
	TxID        string          `json:"txId"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      string          `json:"amount"`
	Currency    string          `json:"currency"` // "USDC" or "SOL"
	FeeSOL      string          `json:"feeSOL"`   // SOL we paid as fee
	Timestamp   time.Time       `json:"timestamp"`
	BlockNumber int64           `json:"blockNumber"`
	Status      string          `json:"status"`
}

// TransactionDetail is the response for GET /transactions/{hash}
type TransactionDetail struct {
	TxID      string        `json:"txId"`
	Slot      uint64        `json:"slot"`
	Status    string        `json:"status"`
	FeeSOL    string        `json:"feeSOL"`
	Timestamp time.Time     `json:"timestamp"`
	Movements []Transaction `json:"movements"`
}

// HistoryResponse represents response for GET /transactions
type HistoryResponse struct {
	Address         string        `json:"address"`
	TotalIncomeUSDC string        `json:"total_income_USDC"` // USDC only
	TotalSpentUSDC  string        `json:"total_spent_USDC"`  // USDC only
	Transactions    []Transaction `json:"transactions"`
}

// HistoryRequest represents query parameters for GET /transactions
type HistoryRequest struct {
	Type      *TransactionType `query:"type"`
	TxID      *string          `query:"txId"`
	From      *time.Time       `query:"-"`
	To        *time.Time       `query:"-"`
	MinAmount *string          `query:"minAmount"`
	MaxAmount *string          `query:"maxAmount"`
	Currency  *string          `query:"currency"` // "USDC" or "SOL"
	Limit     int              `query:"limit" default:"100" validate:"gte=1,lte=1000"`
}

// Validate validates HistoryRequest filter parameters.
func (r *HistoryRequest) Validate() error {
	if r.Type != nil && *r.Type != TransactionTypeDebit && *r.Type != TransactionTypeCredit {
		return fmt.Errorf("type must be DEBIT or CREDIT")
	}
	if r.Currency != nil && *r.Currency != "USDC" && *r.Currency != "SOL" {
		return fmt.Errorf("currency must be USDC or SOL")
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	if r.MinAmount != nil && r.MaxAmount != nil {
		cmp, err := common.CompareAmounts(*r.MinAmount, *r.MaxAmount, common.SOLDecimals)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if cmp == 1 {
			return fmt.Errorf("minAmount must be less than or equal to maxAmount")
		}
	}
	return nil
}

// Match reports whether tx passes every filter in the request.
func (r *HistoryRequest) Match(tx Transaction) (bool, error) {
	if r.Type != nil && *r.Type != tx.Type {
		return false, nil
	}
	if r.TxID != nil && *r.TxID != tx.TxID {
		return false, nil
	}
	if r.Currency != nil && *r.Currency != tx.Currency {
		return false, nil
	}
	if r.From != nil && tx.Timestamp.Before(*r.From) {
		return false, nil
	}
	if r.To != nil && tx.Timestamp.After(*r.To) {
		return false, nil
	}

	// integer comparison at the widest precision so SOL and USDC amounts compare alike
	if r.MinAmount != nil {
		cmp, err := common.CompareAmounts(tx.Amount, *r.MinAmount, common.SOLDecimals)
		if err != nil {
			return false, fmt.Errorf("failed to compare min amount: %w", err)
		}
		if cmp < 0 {
			return false, nil
		}
	}
	if r.MaxAmount != nil {
		cmp, err := common.CompareAmounts(tx.Amount, *r.MaxAmount, common.SOLDecimals)
		if err != nil {
			return false, fmt.Errorf("failed to compare max amount: %w", err)
		}
		if cmp > 0 {
			return false, nil
		}
	}
	return true, nil
}
