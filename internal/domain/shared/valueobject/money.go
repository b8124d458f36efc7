package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// AmountScale is the number of fractional digits an amount may carry.
// Parsing rejects anything finer, so rendering at this scale is exact.
const AmountScale = 2

// maxAmountDigits bounds the integer part so values fit decimal(18,4)
const maxAmountDigits = 14

// ParseAmount parses a decimal string such as "1250.50".
// Scientific notation and empty input are rejected so amounts always
// travel in plain fixed-point form.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, shared.NewDomainError(shared.CodeValidation, field+" is required")
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidAmount, field+" must be a plain decimal string")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidAmount, field+" must be a decimal string").WithCause(err)
	}
	if len(d.Abs().Truncate(0).String()) > maxAmountDigits {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidAmount, field+" is too large")
	}
	if !d.Equal(d.Truncate(AmountScale)) {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidAmount, field+" has more than 2 decimal places")
	}
	return d, nil
}

// ParsePositiveAmount parses an amount that must be strictly greater than zero
func ParsePositiveAmount(field, raw string) (decimal.Decimal, error) {
	d, err := ParseAmount(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidAmount, field+" must be positive")
	}
	return d, nil
}

// ParseNonNegativeAmount parses an amount that may be zero but never negative
func ParseNonNegativeAmount(field, raw string) (decimal.Decimal, error) {
	d, err := ParseAmount(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidAmount, field+" cannot be negative")
	}
	return d, nil
}

// FormatAmount renders an amount with AmountScale decimals. Amounts that
// came through ParseAmount, and sums of them, render without rounding.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}
