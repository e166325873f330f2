package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"checkout-service/database"
	"checkout-service/models"
)

// GetUserOrders lists the caller's orders with their items, newest first.
func GetUserOrders(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	rows, err := database.DB.Query(`
		SELECT o.id, o.invoice_no, o.total_amount, COALESCE(o.coupon_code, ''),
		       o.discount_amount, o.payment_method, o.status, o.created_at,
		       oi.product_id, p.name, oi.quantity, oi.price
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.user_id = ?
		ORDER BY o.created_at DESC, oi.id ASC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	ordersMap := make(map[int64]*models.OrderResponse)
	orderIDs := make([]int64, 0)
	for rows.Next() {
		var o models.OrderResponse
		var item models.OrderItemDetail

		if err := rows.Scan(&o.ID, &o.InvoiceNo, &o.TotalAmount, &o.CouponCode,
			&o.DiscountAmount, &o.PaymentMethod, &o.Status, &o.CreatedAt,
			&item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			log.Error().Err(err).Msg("Error scanning order row")
			continue
		}

		if _, ok := ordersMap[o.ID]; !ok {
			o.UserID = userID.(int64)
			o.Items = []models.OrderItemDetail{}
			ordersMap[o.ID] = &o
			orderIDs = append(orderIDs, o.ID)
		}

		item.Subtotal = item.Price * models.Money(item.Quantity)
		ordersMap[o.ID].Items = append(ordersMap[o.ID].Items, item)
	}

	orders := make([]models.OrderResponse, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *ordersMap[id])
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrderDetails returns one of the caller's orders by id.
func GetOrderDetails(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var order models.OrderResponse
	err = database.DB.QueryRow(`
		SELECT id, invoice_no, user_id, total_amount, COALESCE(coupon_code, ''),
		       discount_amount, payment_method, status, created_at
		FROM orders
		WHERE id = ? AND user_id = ?
	`, orderID, userID).Scan(
		&order.ID, &order.InvoiceNo, &order.UserID, &order.TotalAmount,
		&order.CouponCode, &order.DiscountAmount, &order.PaymentMethod,
		&order.Status, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	rows, err := database.DB.Query(`
		SELECT oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
	`, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order items"})
		return
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItemDetail
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			log.Error().Err(err).Msg("Error scanning order item")
			continue
		}
		item.Subtotal = item.Price * models.Money(item.Quantity)
		order.Items = append(order.Items, item)
	}

	c.JSON(http.StatusOK, order)
}

// HandleDeadLetter receives dead-lettered order events for operator follow-up.
func HandleDeadLetter(c *gin.Context) {
	var deadLetter struct {
		OrderID int64  `json:"order_id"`
		Reason  string `json:"reason"`
	}

	if err := c.ShouldBindJSON(&deadLetter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Warn().Int64("order_id", deadLetter.OrderID).Str("reason", deadLetter.Reason).
		Msg("Handling dead letter")

	c.JSON(http.StatusOK, gin.H{"message": "Dead letter processed"})
}
