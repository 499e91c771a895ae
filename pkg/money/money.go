package money

import (
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the precision used for all monetary amounts.
const CurrencyPlaces = 2

// QuantityPlaces is the precision used for measured quantities
// (square metres of sheet are sold in fractions).
const QuantityPlaces = 4

var hundred = decimal.NewFromInt(100)

// Zero returns a zero amount at currency precision.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// Round rounds an amount to currency precision (half up).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// FromFloat converts an API-facing float into a currency amount.
func FromFloat(f float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(f))
}

// QuantityFromFloat converts an API-facing float into a measured quantity.
func QuantityFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(QuantityPlaces)
}

// AreaQuantity returns the billable quantity for area-priced items:
// length x width in square metres, multiplied by the piece count.
func AreaQuantity(length, width decimal.Decimal, count int) decimal.Decimal {
	return length.Mul(width).Mul(decimal.NewFromInt(int64(count))).Round(QuantityPlaces)
}

// LineTotal computes quantity x unitPrice less the percentage discount,
// rounded to currency precision.
func LineTotal(quantity, unitPrice, discountPercent decimal.Decimal) decimal.Decimal {
	gross := quantity.Mul(unitPrice)
	discount := gross.Mul(discountPercent).Div(hundred)
	return Round(gross.Sub(discount))
}

// SplitEven splits total into n currency-rounded parts. The last part
// absorbs the rounding remainder so the parts always sum back to total
// exactly.
func SplitEven(total decimal.Decimal, n int) []decimal.Decimal {
	if n < 1 {
		return nil
	}
	part := Round(total.Div(decimal.NewFromInt(int64(n))))
	parts := make([]decimal.Decimal, n)
	running := decimal.Zero
	for i := 0; i < n-1; i++ {
		parts[i] = part
		running = running.Add(part)
	}
	parts[n-1] = total.Sub(running)
	return parts
}
