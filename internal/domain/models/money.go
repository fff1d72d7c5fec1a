package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/liancar/yard/internal/apperrors"
)

// ParseAmount reads "35.00" as well as the Brazilian forms "35,00",
// "1.234,50" and "R$ 1.234,50". A comma marks the decimal part, so dots
// before it are thousands separators.
func ParseAmount(raw string) (decimal.Decimal, error) {
	str := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if str == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", apperrors.ErrValidation)
	}
	if strings.Contains(str, ",") {
		str = strings.ReplaceAll(str, ".", "")
		str = strings.ReplaceAll(str, ",", ".")
	}
	amount, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, raw)
	}
	return amount, nil
}

// FormatBRL renders an amount as Brazilian currency, e.g. "R$ 1.234,50".
func FormatBRL(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}
	return sign + "R$ " + grouped.String() + "," + cents
}
