package pricing

import (
	"errors"
	"math"
)

var ErrInvalidDiscount = errors.New("discount must be between 0 and 100")

// Line is a priced quantity, independent of where it came from
// (cart item or order item snapshot).
type Line struct {
	Quantity int
	Price    float64
}

// CartTotal returns the sum of quantity times unit price across all lines,
// rounded to currency minor units.
func CartTotal(lines []Line) float64 {
	total := 0.0
	for _, l := range lines {
		total += float64(l.Quantity) * l.Price
	}
	return Round2(total)
}

// DiscountedTotal applies a percentage discount to a total.
func DiscountedTotal(total, discount float64) (float64, error) {
	if discount < 0 || discount > 100 {
		return 0, ErrInvalidDiscount
	}
	return Round2(total - total*discount/100), nil
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
