package expense

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/zombor/hisaab-dost/internal/extraction"
)

// DefaultCurrency is used when no currency is configured
const DefaultCurrency = "PKR"

// NormalizeCurrency upper-cases an ISO-4217 code and rejects unknown ones
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	if money.GetCurrency(code) == nil {
		return "", fmt.Errorf("unknown currency code: %q", code)
	}
	return code, nil
}

func fraction(code string) int32 {
	if c := money.GetCurrency(code); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// toMinorUnits converts a decimal amount into integer minor units, rounding half away from zero.
// Amounts that do not fit in an int64 are rejected with ErrInvalid.
func toMinorUnits(a extraction.Amount, code string) (int64, error) {
	scaled := a.Mul(decimal.New(1, fraction(code))).Round(0)
	if scaled.GreaterThan(maxMinorUnits) || scaled.LessThan(minMinorUnits) {
		return 0, fmt.Errorf("%w: amount %s %s is out of range", ErrInvalid, a.String(), code)
	}
	return scaled.IntPart(), nil
}

// decimalString renders minor units as a plain decimal, e.g. 180 PKR -> "1.80"
func decimalString(minor int64, code string) string {
	f := fraction(code)
	return decimal.New(minor, -f).StringFixed(f)
}

// displayAmount renders minor units with the currency symbol
func displayAmount(minor int64, code string) string {
	return money.New(minor, code).Display()
}
