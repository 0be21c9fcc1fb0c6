package model

import "time"

// RecordStatus is the lifecycle state of a locally recorded transaction.
type RecordStatus string

const (
	StatusPending RecordStatus = "pending"
	StatusSuccess RecordStatus = "success"
	StatusFailed  RecordStatus = "failed"
)

// TransactionRecord is what the application remembers about a transfer it submitted.
// It is not reconciled against the chain after creation.
type TransactionRecord struct {
	ID        string       `json:"id"`
	Hash      string       `json:"hash"`
	Status    RecordStatus `json:"status"`
	Amount    string       `json:"amount"`
	Asset     string       `json:"asset"`
	Sender    string       `json:"sender"`
	Recipient string       `json:"recipient"`
	Confirmed bool         `json:"confirmed"` // true only when finality was awaited
	Error     string       `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// TransferRequest represents request for POST /transfers
type TransferRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Asset     string `json:"asset" default:"SOL" validate:"oneof=SOL USDC sol usdc"`
	Wait      *bool  `json:"wait"` // defaults to true
}

// ListRequest is the shared paging query for record listings.
type ListRequest struct {
	Limit  int `query:"limit" default:"50" validate:"gte=1,lte=500"`
	Offset int `query:"offset" default:"0" validate:"gte=0"`
}
