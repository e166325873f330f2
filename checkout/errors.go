package checkout

import (
	"errors"
	"fmt"
)

// ErrInvalidCart means the submitted cart was empty or contained no usable lines.
var ErrInvalidCart = errors.New("cart is empty or malformed")

// MissingProductsError reports requested product ids that do not exist or
// are not currently sellable. The caller should drop them and retry.
type MissingProductsError struct {
	Missing []int64
}

func (e *MissingProductsError) Error() string {
	return fmt.Sprintf("products unavailable: %v", e.Missing)
}

// InsufficientStockError is the race-lost outcome: the locked stock value
// is below the requested quantity.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): %d available, %d requested",
		e.ProductID, e.Name, e.Available, e.Requested)
}

// InvalidCouponError aborts a checkout that named a coupon this service
// will not honor.
type InvalidCouponError struct {
	Code   string
	Reason string
}

func (e *InvalidCouponError) Error() string {
	return fmt.Sprintf("coupon %s rejected: %s", e.Code, e.Reason)
}
