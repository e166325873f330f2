package models

import "time"

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusDraft    = "draft"
)

type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Price     Money  `json:"price"`
	SalePrice Money  `json:"sale_price"` // 0 means no sale
	Stock     int    `json:"stock"`
	Status    string `json:"status"`
	Published bool   `json:"published"`
}

const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

type Coupon struct {
	ID           int64      `json:"id"`
	Code         string     `json:"code"` // stored upper-cased
	DiscountType string     `json:"discount_type"`
	Amount       Money      `json:"amount"` // percentage points for percent coupons
	MinSpend     Money      `json:"min_spend"`
	Active       bool       `json:"active"`
	ExpiresAt    *time.Time `json:"expires_at"`
}
