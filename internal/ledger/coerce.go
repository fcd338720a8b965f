package ledger

import (
	"math"    // NaN/Inf checks
	"strconv" // String to number conversion

	"github.com/shopspring/decimal" // Exact decimal money math
)

// Numeric tolerance policy: client-supplied prices, quantities and amounts
// may arrive malformed (strings, fractions, negatives, nulls). Malformed or
// negative values coerce to zero instead of rejecting the request. This is
// deliberate and matches what existing clients rely on; a zero line simply
// contributes nothing to the total.

// CoerceAmount converts a client-supplied money value to a non-negative
// float64. Accepts JSON numbers and numeric strings; anything else, and any
// negative or non-finite value, becomes 0.
func CoerceAmount(v any) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val // JSON numbers decode as float64
	case int:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0 // Malformed string
		}
		f = parsed
	default:
		return 0 // null, bool, object, absent field
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// MaxQuantity caps a single order line. Anything above it is malformed
// input, and it also keeps the float64 to int conversion below far from the
// range where the conversion itself would wrap.
const MaxQuantity = 1 << 31

// CoerceQuantity converts a client-supplied quantity to a non-negative whole
// number. Fractional values (e.g. 1.5) are malformed, not rounded, and
// coerce to 0 along with negatives, non-numbers and values over MaxQuantity.
func CoerceQuantity(v any) int {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case int:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f > MaxQuantity {
		return 0
	}
	return int(f)
}

// OrderLine is one entry of the client's cart snapshot. Price and Quantity
// are untyped on purpose so malformed values pass binding and fall through
// the coercion policy above.
type OrderLine struct {
	FoodID   any    `json:"food_id"`  // Food reference, informational only
	Name     string `json:"name"`     // Item name, informational only
	Price    any    `json:"price"`    // Unit price, coerced via CoerceAmount
	Quantity any    `json:"quantity"` // Quantity, coerced via CoerceQuantity
}

// OrderTotal computes the order total from a cart snapshot: the sum of
// coerced price x quantity per line, rounded half-up to 2 decimal places at
// the final sum only.
func OrderTotal(lines []OrderLine) float64 {
	total := decimal.Zero
	for _, line := range lines {
		price := decimal.NewFromFloat(CoerceAmount(line.Price))
		qty := decimal.NewFromInt(int64(CoerceQuantity(line.Quantity)))
		total = total.Add(price.Mul(qty))
	}
	f, _ := total.Round(2).Float64()
	return f
}
