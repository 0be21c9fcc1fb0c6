package model

import "time"

// CWTFile represents .cwt file structure
type CWTFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
	ScryptN    int    `json:"scryptN,omitempty"` // zero means the default cost
}

// WalletData represents decrypted wallet data
type WalletData struct {
	PrivateKey []byte `json:"privateKey"`         // 64-byte ed25519 key (stored as base64 in JSON)
	Mnemonic   string `json:"mnemonic,omitempty"` // absent for keys created before mnemonic support
	CreatedAt  string `json:"createdAt"`
}

// WalletState is the public view of the wallet state store.
type WalletState struct {
	Connected   bool       `json:"connected"`
	Address     string     `json:"address,omitempty"`
	Network     string     `json:"network"`
	Asset       string     `json:"asset"`
	Balance     string     `json:"balance"`
	Source      string     `json:"source,omitempty"`
	RefreshedAt *time.Time `json:"refreshedAt,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
}

// ConnectResponse represents response for POST /wallet/connect, /wallet/new and /wallet/import
type ConnectResponse struct {
	State    WalletState `json:"state"`
	Created  bool        `json:"created"`
	Mnemonic string      `json:"mnemonic,omitempty"` // returned once, on creation only
	QR       string      `json:"QR,omitempty"`
}

// ImportRequest represents request for POST /wallet/import
type ImportRequest struct {
	Mnemonic string `json:"mnemonic" validate:"required"`
}

// AccountStatus represents response for GET /wallet/status
type AccountStatus struct {
	Address           string `json:"address"`
	Network           string `json:"network"`
	Exists            bool   `json:"exists"`
	Lamports          uint64 `json:"lamports"`
	Balance           string `json:"balance"`
	Executable        bool   `json:"executable"`
	HasTransactions   bool   `json:"hasTransactions"`
	TransactionCount  int    `json:"transactionCount"`
	LastTransactionID string `json:"lastTransactionId,omitempty"`
}

// AirdropRequest represents request for POST /wallet/airdrop
type AirdropRequest struct {
	Amount string `json:"amount" default:"1" validate:"required"`
}

// NetworkRequest represents request for PUT /network
type NetworkRequest struct {
	Network string `json:"network" validate:"required,network"`
}

// NetworkResponse represents response for GET /network
type NetworkResponse struct {
	Network     string `json:"network"`
	RPCURL      string `json:"rpcUrl"`
	FallbackURL string `json:"fallbackUrl"`
	USDCMint    string `json:"usdcMint,omitempty"`
}

// AirdropResponse represents response for POST /wallet/airdrop
type AirdropResponse struct {
	Signature string `json:"signature"`
	Amount    string `json:"amount"`
}
