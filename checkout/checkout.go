package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"checkout-service/models"
)

// Command is a fully validated checkout request. The HTTP layer is
// responsible for customer-field and payment-method validation before a
// Command is built; item lines are still raw and go through the normalizer.
type Command struct {
	UserID        int64
	Customer      models.CustomerInfo
	PaymentMethod string
	CouponCode    string
	Items         []models.CheckoutItem
}

// Result is a successful checkout.
type Result struct {
	OrderID       int64
	InvoiceNo     string
	Subtotal      models.Money
	Discount      models.Money
	Total         models.Money
	PaymentMethod string
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Checkout converts a cart into a durable order in a single transaction:
// normalize the lines, lock and verify stock, price, apply the coupon,
// persist order + items + stock decrements, commit. Any failure after the
// transaction opens rolls everything back before the error is returned.
//
// The operation is not idempotent: resubmitting the same cart creates a
// second order with a fresh invoice number.
func (s *Service) Checkout(ctx context.Context, cmd Command) (*Result, error) {
	lines, err := NormalizeItems(cmd.Items)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("open checkout transaction: %w", err)
	}

	result, err := s.run(ctx, tx, cmd, lines)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Int64("user_id", cmd.UserID).Msg("Checkout rollback failed")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout transaction: %w", err)
	}

	log.Info().
		Int64("order_id", result.OrderID).
		Str("invoice_no", result.InvoiceNo).
		Int64("user_id", cmd.UserID).
		Int64("total", int64(result.Total)).
		Msg("Checkout committed")

	return result, nil
}

func (s *Service) run(ctx context.Context, tx StoreTx, cmd Command, lines []Line) (*Result, error) {
	ids := make([]int64, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	locked, err := tx.LockProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	products := make(map[int64]models.Product, len(locked))
	for _, p := range locked {
		products[p.ID] = p
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingProductsError{Missing: missing}
	}

	// Stock is compared against the value read under the lock, so two
	// contending checkouts resolve here, not at decrement time.
	for _, line := range lines {
		p := products[line.ProductID]
		if p.Stock < line.Qty {
			return nil, &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: line.Qty,
			}
		}
	}

	priced, subtotal := PriceLines(lines, products)

	var discount models.Money
	var appliedCode string
	if code := NormalizeCouponCode(cmd.CouponCode); code != "" {
		coupon, err := tx.FindCoupon(ctx, code)
		if err != nil {
			return nil, err
		}
		discount, err = ValidateCoupon(code, coupon, subtotal, s.now())
		if err != nil {
			return nil, err
		}
		appliedCode = coupon.Code
	}

	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	order := &models.Order{
		InvoiceNo:       NewInvoiceNo(s.now()),
		UserID:          cmd.UserID,
		CustomerName:    cmd.Customer.Name,
		CustomerPhone:   cmd.Customer.Phone,
		CustomerAddress: cmd.Customer.Address,
		Notes:           cmd.Customer.Notes,
		PaymentMethod:   cmd.PaymentMethod,
		TotalAmount:     total,
		CouponCode:      appliedCode,
		DiscountAmount:  discount,
		Status:          models.OrderStatusPending,
		CreatedAt:       s.now(),
	}

	orderID, err := tx.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, len(priced))
	for i, line := range priced {
		items[i] = models.OrderItem{
			OrderID:   orderID,
			ProductID: line.Product.ID,
			Quantity:  line.Qty,
			Price:     line.UnitPrice,
		}
	}
	if err := tx.CreateOrderItems(ctx, orderID, items); err != nil {
		return nil, err
	}

	for _, line := range lines {
		if err := tx.DecrementStock(ctx, line.ProductID, line.Qty); err != nil {
			return nil, err
		}
	}

	return &Result{
		OrderID:       orderID,
		InvoiceNo:     order.InvoiceNo,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         total,
		PaymentMethod: cmd.PaymentMethod,
	}, nil
}

// NewInvoiceNo builds a human-facing order reference, unique per order.
func NewInvoiceNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
