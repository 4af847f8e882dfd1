package analytics

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney parses the CRM's money encoding, a "<amount>|<currency-code>"
// string such as "95595.52|AED". Anything that is not a parseable string
// (nil, numbers, malformed text) degrades to zero; aggregation never fails on
// a bad money field.
func ParseMoney(value any) decimal.Decimal {
	s, ok := value.(string)
	if !ok || s == "" {
		return decimal.Zero
	}
	amount, _, _ := strings.Cut(s, "|")
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmount parses a plain numeric field such as OPPORTUNITY, which the CRM
// serves either as a number or a numeric string. Malformed input is zero.
func ParseAmount(value any) decimal.Decimal {
	switch t := value.(type) {
	case string:
		if t == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	default:
		return decimal.Zero
	}
}
