package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	SOLDecimals  = 9 // SOL has 9 decimals (lamports)
	USDCDecimals = 6 // USDC has 6 decimals (micro)
)

// ErrInvalidAmount is returned when an amount string cannot be used for a transfer.
var ErrInvalidAmount = errors.New("invalid amount")

// LamportsToSOL converts lamports to SOL string without float precision loss
func LamportsToSOL(lamports uint64) string {
	return FormatUnits(lamports, SOLDecimals)
}

// MicroToUSDC converts micro units to USDC string without float precision loss
func MicroToUSDC(micro uint64) string {
	return FormatUnits(micro, USDCDecimals)
}

// USDCToMicro converts USDC string to micro units without float precision loss
func USDCToMicro(usdc string) (uint64, error) {
	return ParseUnits(usdc, USDCDecimals)
}

// FormatUnits converts integer base units to a decimal string by inserting the decimal point.
// Example: FormatUnits(24981836, 9) = "0.024981836"
func FormatUnits(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)
	if decimals <= 0 {
		return s
	}

	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// ParseUnits converts a decimal string to integer base units.
// Digits beyond the asset precision are truncated.
// Example: ParseUnits("0.024981836", 9) = 24981836
func ParseUnits(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("signed amounts are not supported: %q", s)
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return 0, fmt.Errorf("invalid decimal format")
	}
	if whole == "" {
		whole = "0"
	}
	if hasPoint && frac == "" {
		frac = "0"
	}

	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else if len(frac) > decimals {
		frac = frac[:decimals]
	}

	n, err := strconv.ParseUint(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return n, nil
}

// ParsePositiveAmount parses an amount and rejects zero.
// It is advisory only: the ledger remains the authority on what can be spent.
func ParsePositiveAmount(s string, decimals int) (uint64, error) {
	units, err := ParseUnits(s, decimals)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if units == 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}
	return units, nil
}

// CompareAmounts compares two decimal string amounts at the given precision.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func CompareAmounts(a, b string, decimals int) (int, error) {
	aVal, err := ParseUnits(a, decimals)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", a, err)
	}

	bVal, err := ParseUnits(b, decimals)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", b, err)
	}

	switch {
	case aVal < bVal:
		return -1, nil
	case aVal > bVal:
		return 1, nil
	}
	return 0, nil
}

// UnitsToFloat is for display and cosmetic arithmetic only.
func UnitsToFloat(units uint64, decimals int) float64 {
	f, _ := strconv.ParseFloat(FormatUnits(units, decimals), 64)
	return f
}
