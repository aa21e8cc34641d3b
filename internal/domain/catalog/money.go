package catalog

import "math"

// Money is a price stored as an integer count of minor currency units
// (e.g. cents). API input arrives as decimal currency units and is
// converted at the command-handler boundary, never inside the entities.
type Money int64

// MoneyFromDecimal converts decimal currency units to Money,
// e.g. 12.5 -> 1250.
func MoneyFromDecimal(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// Decimal converts Money back to decimal currency units for presentation.
func (m Money) Decimal() float64 {
	return float64(m) / 100
}
