package domain

import "github.com/shopspring/decimal"

// MoneyScale is the fixed number of fractional digits for monetary values.
// All amounts and balances are stored and compared at exactly this scale.
const MoneyScale = 4

// MaxAmount is the default magnitude bound for a single movement.
var MaxAmount = decimal.New(999_999_999, 0)

// RoundMoney normalizes d to the fixed monetary scale.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// AmountInBounds reports whether |d| <= bound. A zero bound falls back to
// MaxAmount.
func AmountInBounds(d, bound decimal.Decimal) bool {
	if bound.IsZero() {
		bound = MaxAmount
	}
	return d.Abs().LessThanOrEqual(bound)
}

// MoneyString renders d at the fixed monetary scale, e.g. "70.0000".
func MoneyString(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
