package models

import (
	"time"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentMethodCOD      = "COD"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodEwallet  = "EWALLET"
)

type Order struct {
	ID              int64     `json:"id"`
	InvoiceNo       string    `json:"invoice_no"`
	UserID          int64     `json:"user_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerAddress string    `json:"customer_address"`
	Notes           string    `json:"notes"`
	PaymentMethod   string    `json:"payment_method"`
	TotalAmount     Money     `json:"total_amount"`
	CouponCode      string    `json:"coupon_code"` // empty when no coupon applied
	DiscountAmount  Money     `json:"discount_amount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     Money `json:"price"` // unit price snapshot at purchase time
}

type CustomerInfo struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	Notes   string `json:"notes"`
}

// CheckoutItem is a raw cart line as submitted by the client. Quantities
// and ids arrive as loosely typed JSON numbers; the checkout normalizer
// decides what is usable.
type CheckoutItem struct {
	ProductID float64 `json:"productId"`
	Qty       float64 `json:"qty"`
}

type CheckoutRequest struct {
	Customer      CustomerInfo   `json:"customer" binding:"required"`
	PaymentMethod string         `json:"paymentMethod" binding:"required,oneof=COD TRANSFER EWALLET"`
	CouponCode    string         `json:"couponCode"`
	Items         []CheckoutItem `json:"items" binding:"required"`
}

type CheckoutResponse struct {
	OrderID       int64  `json:"order_id"`
	InvoiceNo     string `json:"invoice_no"`
	Subtotal      Money  `json:"subtotal"`
	Discount      Money  `json:"discount"`
	Tax           Money  `json:"tax"`
	Shipping      Money  `json:"shipping"`
	Total         Money  `json:"total"`
	PaymentMethod string `json:"payment_method"`
}

type OrderResponse struct {
	ID             int64             `json:"id"`
	InvoiceNo      string            `json:"invoice_no"`
	UserID         int64             `json:"user_id"`
	TotalAmount    Money             `json:"total_amount"`
	CouponCode     string            `json:"coupon_code,omitempty"`
	DiscountAmount Money             `json:"discount_amount"`
	PaymentMethod  string            `json:"payment_method"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	Items          []OrderItemDetail `json:"items"`
}

type OrderItemDetail struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     Money  `json:"price"`
	Subtotal  Money  `json:"subtotal"`
}

type OrderEvent struct {
	OrderID  int64     `json:"order_id"`
	UserID   int64     `json:"user_id"`
	Type     string    `json:"type"` // created, payment_check
	Status   string    `json:"status"`
	Total    Money     `json:"total"`
	Occurred time.Time `json:"occurred"`
}
