package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"checkout-service/checkout"
	"checkout-service/middlewares"
	"checkout-service/models"
	"checkout-service/rabbitmq"
)

var (
	checkoutService *checkout.Service
	rabbitMQ        *rabbitmq.RabbitMQ
)

func SetCheckoutService(svc *checkout.Service) {
	checkoutService = svc
}

func SetRabbitMQ(rmq *rabbitmq.RabbitMQ) {
	rabbitMQ = rmq
}

// Checkout places an order from the submitted cart. Customer fields and the
// payment method enum are validated by request binding before any
// transaction opens; everything else happens inside the checkout service.
func Checkout(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RecordCheckout("malformed_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := checkoutService.Checkout(c.Request.Context(), checkout.Command{
		UserID:        userID.(int64),
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
		Items:         req.Items,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	middlewares.RecordCheckout("created")
	c.JSON(http.StatusCreated, models.CheckoutResponse{
		OrderID:       result.OrderID,
		InvoiceNo:     result.InvoiceNo,
		Subtotal:      result.Subtotal,
		Discount:      result.Discount,
		Tax:           0,
		Shipping:      0,
		Total:         result.Total,
		PaymentMethod: result.PaymentMethod,
	})

	publishOrderEvents(result, userID.(int64))
}

func respondCheckoutError(c *gin.Context, err error) {
	var missingErr *checkout.MissingProductsError
	var stockErr *checkout.InsufficientStockError
	var couponErr *checkout.InvalidCouponError

	switch {
	case errors.Is(err, checkout.ErrInvalidCart):
		middlewares.RecordCheckout("invalid_cart")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty or malformed"})
	case errors.As(err, &missingErr):
		// Stale cart: the caller should clear these items and retry.
		middlewares.RecordCheckout("missing_products")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Some products are no longer available",
			"missing": missingErr.Missing,
		})
	case errors.As(err, &stockErr):
		middlewares.RecordCheckout("insufficient_stock")
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Insufficient stock",
			"product_id": stockErr.ProductID,
			"name":       stockErr.Name,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		})
	case errors.As(err, &couponErr):
		middlewares.RecordCheckout("invalid_coupon")
		c.JSON(http.StatusBadRequest, gin.H{"error": couponErr.Reason})
	default:
		middlewares.RecordCheckout("error")
		log.Error().Err(err).Msg("Checkout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
	}
}

// publishOrderEvents runs after the transaction has committed; publish
// failures are logged, never surfaced to the caller.
func publishOrderEvents(result *checkout.Result, userID int64) {
	if rabbitMQ == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := models.OrderEvent{
		OrderID:  result.OrderID,
		UserID:   userID,
		Type:     "created",
		Status:   models.OrderStatusPending,
		Total:    result.Total,
		Occurred: time.Now(),
	}

	priority := 5
	if result.Total > 1000000 {
		priority = 9
	}

	if err := rabbitMQ.PublishOrderEvent(ctx, event, priority); err != nil {
		log.Error().Err(err).Int64("order_id", result.OrderID).Msg("Failed to publish order created event")
	}

	// Check payment status after 15 minutes; unpaid orders get cancelled
	// and their stock restored by the consumer.
	if err := rabbitMQ.PublishDelayedEvent(ctx, result.OrderID, userID, 15*time.Minute, "payment_check"); err != nil {
		log.Error().Err(err).Int64("order_id", result.OrderID).Msg("Failed to publish delayed payment check event")
	}
}
