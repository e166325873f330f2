package checkout

import (
	"strings"
	"time"

	"checkout-service/models"
)

// NormalizeCouponCode upper-cases a submitted code; blank input means no coupon.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCoupon decides whether a loaded coupon row may be applied to the
// given subtotal and computes the discount. A nil coupon means the code did
// not match any row. The discount is clamped to [0, subtotal] so the order
// total can never go negative.
func ValidateCoupon(code string, coupon *models.Coupon, subtotal models.Money, now time.Time) (models.Money, error) {
	if coupon == nil {
		return 0, &InvalidCouponError{Code: code, Reason: "coupon not found"}
	}
	if !coupon.Active {
		return 0, &InvalidCouponError{Code: coupon.Code, Reason: "coupon is no longer active"}
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now) {
		return 0, &InvalidCouponError{Code: coupon.Code, Reason: "coupon has expired"}
	}
	if subtotal < coupon.MinSpend {
		return 0, &InvalidCouponError{Code: coupon.Code, Reason: "order does not meet the coupon minimum spend"}
	}

	var discount models.Money
	switch coupon.DiscountType {
	case models.DiscountTypePercent:
		discount = subtotal * coupon.Amount / 100
	case models.DiscountTypeFixed:
		discount = coupon.Amount
	default:
		return 0, &InvalidCouponError{Code: coupon.Code, Reason: "unknown discount type"}
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount, nil
}
