package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

const (
	NetworkDevnet  = "devnet"
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet-beta"

	SwapModeSimulated    = "simulated"
	SwapModeSelfTransfer = "self-transfer"
)

// Endpoints describes one Solana cluster.
type Endpoints struct {
	RPCURL      string
	FallbackURL string
	USDCMint    string // empty when the cluster has no USDC mint
}

// clusters holds the default endpoints per network; env overrides win.
var clusters = map[string]Endpoints{
	NetworkDevnet: {
		RPCURL:      "https://api.devnet.solana.com",
		FallbackURL: "https://rpc.ankr.com/solana_devnet",
		USDCMint:    "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU",
	},
	NetworkTestnet: {
		RPCURL:      "https://api.testnet.solana.com",
		FallbackURL: "https://api.testnet.solana.com",
	},
	NetworkMainnet: {
		RPCURL:      "https://api.mainnet-beta.solana.com",
		FallbackURL: "https://solana-rpc.publicnode.com",
		USDCMint:    "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	},
}

// Config contains all configuration parameters for the application.
// Note: Password is prompted at runtime and kept in a Passphrase, never in Config.
type Config struct {
	Port           string `envconfig:"PORT" default:"8080"`
	WalletFilePath string `envconfig:"WALLET_FILE_PATH" required:"true"`

	Network        string `envconfig:"SOLANA_NETWORK" default:"devnet"`
	RPCURLOverride string `envconfig:"SOLANA_RPC_URL"`
	FallbackURL    string `envconfig:"FALLBACK_RPC_URL"`
	USDCMint       string `envconfig:"USDC_MINT"`

	PayCooldown     time.Duration `envconfig:"PAY_COOLDOWN" default:"0s"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"30s"`
	RetryAttempts   uint64        `envconfig:"LEDGER_RETRY_ATTEMPTS" default:"3"`
	RetryInitial    time.Duration `envconfig:"LEDGER_RETRY_INITIAL" default:"250ms"`
	ConfirmTimeout  time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"60s"`

	SwapMode       string  `envconfig:"SWAP_MODE" default:"simulated"`
	SwapRateJitter float64 `envconfig:"SWAP_RATE_JITTER" default:"0.01"`
	SwapRatesFile  string  `envconfig:"SWAP_RATES_FILE"`

	FiatCurrency string `envconfig:"FIAT_CURRENCY" default:"usd"`
	CoinGeckoURL string `envconfig:"COINGECKO_URL" default:"https://api.coingecko.com/api/v3"`

	DatabaseDSN string `envconfig:"DATABASE_DSN"`

	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins    []string `envconfig:"CORS_ORIGINS" default:"*"`
	RateLimitRPS   float64  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int      `envconfig:"RATE_LIMIT_BURST" default:"40"`
	TrustProxy     bool     `envconfig:"TRUST_PROXY_HEADERS" default:"false"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	if !IsNetwork(c.Network) {
		return fmt.Errorf("unknown SOLANA_NETWORK %q", c.Network)
	}
	if filepath.Ext(c.WalletFilePath) != ".cwt" {
		return errors.New("WALLET_FILE_PATH must have .cwt extension")
	}
	switch c.SwapMode {
	case SwapModeSimulated, SwapModeSelfTransfer:
	default:
		return fmt.Errorf("unknown SWAP_MODE %q", c.SwapMode)
	}
	if c.SwapRateJitter < 0 || c.SwapRateJitter >= 1 {
		return errors.New("SWAP_RATE_JITTER must be in [0, 1)")
	}
	if c.RefreshInterval <= 0 {
		return errors.New("REFRESH_INTERVAL must be positive")
	}
	return nil
}

// Cluster returns endpoints for the given network with env overrides applied.
// Overrides only apply to the configured network; switching away falls back to defaults.
func (c *Config) Cluster(network string) (Endpoints, error) {
	ep, ok := clusters[network]
	if !ok {
		return Endpoints{}, fmt.Errorf("unknown network %q", network)
	}
	if network != c.Network {
		return ep, nil
	}
	if c.RPCURLOverride != "" {
		ep.RPCURL = c.RPCURLOverride
	}
	if c.FallbackURL != "" {
		ep.FallbackURL = c.FallbackURL
	}
	if c.USDCMint != "" {
		ep.USDCMint = c.USDCMint
	}
	return ep, nil
}

// IsNetwork reports whether name is a known cluster.
func IsNetwork(name string) bool {
	_, ok := clusters[name]
	return ok
}

// Passphrase holds the keystore password for the lifetime of the process.
type Passphrase struct {
	b []byte
}

// NewPassphrase copies p; the caller may clear its own slice afterwards.
func NewPassphrase(p []byte) *Passphrase {
	out := make([]byte, len(p))
	copy(out, p)
	return &Passphrase{b: out}
}

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input).
// Call this at startup before the server begins handling requests.
func PromptForPassword(prompt string) (*Passphrase, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	defer clear(raw)
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return NewPassphrase(raw), nil
}

// Bytes returns a copy of the password.
// Caller must zero the returned slice after use for security.
func (p *Passphrase) Bytes() ([]byte, error) {
	if p == nil || len(p.b) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(p.b))
	copy(out, p.b)
	return out, nil
}

// Wipe zeroes the stored password.
func (p *Passphrase) Wipe() {
	if p != nil {
		clear(p.b)
		p.b = nil
	}
}
