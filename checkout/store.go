package checkout

import (
	"context"

	"checkout-service/models"
)

// Store opens checkout transactions. Any relational engine with
// SELECT ... FOR UPDATE semantics can implement it.
type Store interface {
	Begin(ctx context.Context) (StoreTx, error)
}

// StoreTx is one checkout transaction. Row locks taken by LockProducts are
// held until Commit or Rollback, which is what serializes concurrent
// checkouts on overlapping products.
type StoreTx interface {
	// LockProducts selects the sellable (active and published) products
	// among ids under a row-level write lock. Ids with no sellable row are
	// simply absent from the result.
	LockProducts(ctx context.Context, ids []int64) ([]models.Product, error)

	// FindCoupon loads a coupon by its canonical upper-cased code.
	// Returns (nil, nil) when no row matches.
	FindCoupon(ctx context.Context, code string) (*models.Coupon, error)

	// CreateOrder inserts the order row and returns its id.
	CreateOrder(ctx context.Context, order *models.Order) (int64, error)

	// CreateOrderItems bulk-inserts the item rows for an order.
	CreateOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error

	// DecrementStock subtracts qty from a locked product's stock. It must
	// refuse to take stock below zero even though the caller has already
	// checked sufficiency under the lock.
	DecrementStock(ctx context.Context, productID int64, qty int) error

	Commit() error
	Rollback() error
}
