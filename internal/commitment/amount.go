package commitment

import (
	"strings"

	"github.com/k-kazuya0926/payment-commitments/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DynamoDB number limits: 38 significant digits, magnitude between 1E-130 and 9.99E+125.
const (
	MaxSignificantDigits = 38
	MinAdjustedExponent  = -130
	MaxAdjustedExponent  = 125
)

// Amount is an exact base-10 quantity that remembers the scale it was written with.
type Amount struct {
	d decimal.Decimal
}

// ParseAmount parses a decimal numeral without going through float64. Values a
// DynamoDB number attribute cannot hold are rejected with an AmountFormatError.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, errs.WithStack(&AmountFormatError{Input: s, Reason: "not a decimal numeral", cause: err})
	}

	coef := coefficientDigits(d)
	if n := len(strings.TrimRight(coef, "0")); n > MaxSignificantDigits {
		return Amount{}, errs.WithStack(&AmountFormatError{Input: s, Reason: "more than 38 significant digits"})
	}

	// Zero has no magnitude, but "0e-2000000000" would still render two billion digits.
	exp := int64(d.Exponent())
	if coef == "" {
		if exp > MaxAdjustedExponent || exp < MinAdjustedExponent {
			return Amount{}, errs.WithStack(&AmountFormatError{Input: s, Reason: "exponent out of range"})
		}
		return Amount{d: d}, nil
	}
	if adjusted := exp + int64(len(coef)) - 1; adjusted < MinAdjustedExponent || adjusted > MaxAdjustedExponent {
		return Amount{}, errs.WithStack(&AmountFormatError{Input: s, Reason: "magnitude outside 1E-130 to 9.99E+125"})
	}
	return Amount{d: d}, nil
}

// coefficientDigits returns the coefficient's digits without sign or leading
// zeros; zero yields "".
func coefficientDigits(d decimal.Decimal) string {
	coef := d.Coefficient()
	return strings.TrimLeft(coef.Abs(coef).String(), "0")
}

// Decimal exposes the value for arithmetic.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String keeps trailing fractional zeros, so "1500.00" stays "1500.00".
func (a Amount) String() string {
	if exp := a.d.Exponent(); exp < 0 {
		return a.d.StringFixed(-exp)
	}
	return a.d.String()
}
