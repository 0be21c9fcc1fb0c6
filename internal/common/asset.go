package common

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedAsset = errors.New("unsupported asset")

// Asset is an on-chain currency the wallet can hold.
type Asset struct {
	Symbol   string
	Decimals int
	Native   bool // SOL lives on the system account, everything else in an associated token account
}

// BaseFeeLamports is the signature fee of a single-signer transaction.
const BaseFeeLamports uint64 = 5000

var (
	AssetSOL  = Asset{Symbol: "SOL", Decimals: SOLDecimals, Native: true}
	AssetUSDC = Asset{Symbol: "USDC", Decimals: USDCDecimals}
)

var assets = map[string]Asset{
	AssetSOL.Symbol:  AssetSOL,
	AssetUSDC.Symbol: AssetUSDC,
}

// LookupAsset resolves a symbol case-insensitively.
func LookupAsset(symbol string) (Asset, error) {
	a, ok := assets[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Asset{}, fmt.Errorf("%w %q", ErrUnsupportedAsset, symbol)
	}
	return a, nil
}

// Format renders base units of the asset as a decimal string.
func (a Asset) Format(units uint64) string {
	return FormatUnits(units, a.Decimals)
}

// Parse converts a decimal string into base units of the asset.
func (a Asset) Parse(amount string) (uint64, error) {
	return ParseUnits(amount, a.Decimals)
}

func (a Asset) String() string {
	return a.Symbol
}
