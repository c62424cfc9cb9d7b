package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tokopos/internal/models"
	"tokopos/internal/services"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const saleEventTimeout = 10 * time.Second

// NewSaleEventHandler returns a queue message handler that feeds sale.created
// events to the loyalty service. Malformed messages are acknowledged and
// dropped; a returned error requeues the message.
func NewSaleEventHandler(loyalty *services.LoyaltyService, logger *zap.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event models.SaleCreatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			logger.Warn("dropping malformed sale event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), saleEventTimeout)
		defer cancel()
		if err := loyalty.HandleSaleCreated(ctx, event); err != nil {
			return fmt.Errorf("failed to handle sale event %s: %w", event.EventID, err)
		}
		return nil
	}
}
