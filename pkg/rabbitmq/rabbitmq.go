package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"tokopos/internal/models"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	// SalesExchange is the topic exchange sale events are published to.
	SalesExchange = "sales"
	// SaleCreatedKey is the routing key of sale.created events.
	SaleCreatedKey = "sale.created"
	// LoyaltyQueue receives sale.created events for the loyalty consumer.
	LoyaltyQueue = "sales.loyalty"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	// amqp channels are not safe for concurrent publishing.
	mu     sync.Mutex
	logger *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ and declares the sales topology.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("RabbitMQ client connected", zap.String("exchange", SalesExchange), zap.String("queue", LoyaltyQueue))
	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		SalesExchange, // name
		"topic",       // kind
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", SalesExchange, err)
	}

	if _, err := ch.QueueDeclare(
		LoyaltyQueue, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", LoyaltyQueue, err)
	}

	if err := ch.QueueBind(LoyaltyQueue, SaleCreatedKey, SalesExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", LoyaltyQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishSaleCreated publishes a persistent sale.created event as JSON.
func (c *Client) PublishSaleCreated(ctx context.Context, event models.SaleCreatedEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sale event: %w", err)
	}

	c.mu.Lock()
	err = c.channel.Publish(
		SalesExchange,  // exchange
		SaleCreatedKey, // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish sale event: %w", err)
	}

	c.logger.Debug("sale event published", zap.String("event_id", event.EventID), zap.Uint("sale_id", event.SaleID))
	return nil
}

// ConsumeSaleEvents delivers every message on the loyalty queue to handler
// until ctx is done or the channel closes. A nil result acks the message;
// an error nacks it with requeue.
func (c *Client) ConsumeSaleEvents(ctx context.Context, handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		LoyaltyQueue, // queue
		"",           // consumer tag
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for sale events", zap.String("queue", LoyaltyQueue))
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("sale event delivery channel closed")
			}
			if err := handler(msg); err != nil {
				c.logger.Warn("error processing sale event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
				if nackErr := msg.Nack(false, true); nackErr != nil {
					c.logger.Error("failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.logger.Error("failed to ack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
			}
		}
	}
}
