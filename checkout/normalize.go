package checkout

import (
	"math"

	"checkout-service/models"
)

// Line is a validated cart line.
type Line struct {
	ProductID int64
	Qty       int
}

// NormalizeItems coerces raw cart entries into validated lines. Entries
// whose product id is not a positive integer or whose quantity is not an
// integer >= 1 are dropped. Duplicate product ids are merged by summing
// quantities, keeping the position of the first occurrence. An empty
// result is ErrInvalidCart.
func NormalizeItems(items []models.CheckoutItem) ([]Line, error) {
	index := make(map[int64]int, len(items))
	lines := make([]Line, 0, len(items))

	for _, item := range items {
		id, ok := toPositiveInt(item.ProductID)
		if !ok {
			continue
		}
		qty, ok := toPositiveInt(item.Qty)
		if !ok {
			continue
		}
		if i, seen := index[id]; seen {
			lines[i].Qty += int(qty)
			continue
		}
		index[id] = len(lines)
		lines = append(lines, Line{ProductID: id, Qty: int(qty)})
	}

	if len(lines) == 0 {
		return nil, ErrInvalidCart
	}
	return lines, nil
}

func toPositiveInt(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < 1 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, false
	}
	return int64(v), true
}
