package consumers

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"checkout-service/config"
	"checkout-service/database"
	"checkout-service/models"
)

func StartOrderConsumer(ch *amqp.Channel, cfg *config.Config) {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"checkout-service", // consumer tag
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register order consumer")
	}

	go func() {
		for msg := range msgs {
			processOrderMessage(msg)
		}
	}()

	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"checkout-service-dlq", // consumer tag
		false,                  // auto-ack
		false,                  // exclusive
		false,                  // no-local
		false,                  // no-wait
		nil,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register DLQ consumer")
		return
	}

	go func() {
		for msg := range dlqMsgs {
			processDeadLetterMessage(msg)
		}
	}()
}

func processOrderMessage(msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic in message processing")
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Error().Err(err).Bytes("body", msg.Body).Msg("Invalid order event")
		msg.Nack(false, false) // malformed, straight to DLQ
		return
	}

	log.Info().Int64("order_id", event.OrderID).Str("type", event.Type).Msg("Processing order event")

	switch event.Type {
	case "created":
		handleOrderCreated(event.OrderID)
	case "payment_check":
		handlePaymentCheck(event.OrderID)
	default:
		log.Warn().Str("type", event.Type).Msg("Unknown event type")
	}

	msg.Ack(false)
}

func processDeadLetterMessage(msg amqp.Delivery) {
	log.Warn().Bytes("body", msg.Body).Msg("Received dead letter")
	msg.Ack(false)
}

func handleOrderCreated(orderID int64) {
	log.Info().Int64("order_id", orderID).Msg("Order created")
}

// handlePaymentCheck cancels an order that is still pending when the delayed
// check fires. Stock was decremented at checkout, so cancellation puts the
// decremented quantities back, all in one transaction.
func handlePaymentCheck(orderID int64) {
	tx, err := database.DB.Begin()
	if err != nil {
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to begin payment check transaction")
		return
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRow("SELECT status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&status)
	if err != nil {
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to get order status")
		return
	}
	if status != models.OrderStatusPending {
		return
	}

	if _, err := tx.Exec(
		"UPDATE orders SET status = ? WHERE id = ?",
		models.OrderStatusCancelled, orderID,
	); err != nil {
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to cancel order")
		return
	}

	if _, err := tx.Exec(`
		UPDATE products p
		JOIN order_items oi ON oi.product_id = p.id
		SET p.stock = p.stock + oi.quantity
		WHERE oi.order_id = ?
	`, orderID); err != nil {
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to restore stock")
		return
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to commit auto-cancel")
		return
	}

	log.Info().Int64("order_id", orderID).Msg("Auto-cancelled unpaid order and restored stock")
}
