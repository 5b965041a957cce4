package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GoArmGo/Filmorate/internal/config"
	"github.com/GoArmGo/Filmorate/internal/messaging/payloads"
)

const publishTimeout = 5 * time.Second

// Client представляет собой клиент RabbitMQ для событий активности
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь событий
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	client := &Client{logger: logger}

	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	client.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	client.channel = ch

	// Объявление очереди идемпотентно
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}
	client.queue = q
	logger.Info("rabbitmq queue declared", "queue", q.Name, "messages", q.Messages)

	return client, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ connection", "error", err)
		}
	}
	c.logger.Info("rabbitmq client closed")
}

// PublishActivity публикует событие в очередь. Реализует ports.ActivityPublisher.
func (c *Client) PublishActivity(ctx context.Context, event payloads.ActivityEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish activity event: %w", err)
	}
	c.logger.Debug("activity event published", "queue", c.queue.Name, "event_id", event.ID, "type", event.Type)
	return nil
}

// StartConsumingActivity начинает потребление событий из очереди.
// Реализует ports.ActivityConsumer.
func (c *Client) StartConsumingActivity(ctx context.Context, handler func(context.Context, payloads.ActivityEvent) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack (подтверждаем вручную)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}
	c.logger.Info("consumer registered", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("rabbitmq delivery channel closed, stopping consumer")
					return
				}
				c.handleDelivery(ctx, msg, handler)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping rabbitmq consumer")
				return
			}
		}
	}()

	return nil
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.ActivityEvent) error) {
	event, err := decodeActivity(msg.Body)
	if err != nil {
		c.logger.Error("dropping malformed activity message", "error", err, "body", string(msg.Body))
		// Битое сообщение не возвращаем в очередь
		if err := msg.Nack(false, false); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		c.logger.Error("failed to process activity event", "event_id", event.ID, "error", err)
		if err := msg.Nack(false, true); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "event_id", event.ID, "error", err)
	}
}

func decodeActivity(body []byte) (payloads.ActivityEvent, error) {
	var event payloads.ActivityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return payloads.ActivityEvent{}, fmt.Errorf("unmarshal activity event: %w", err)
	}
	if !payloads.IsKnownActivity(event.Type) {
		return payloads.ActivityEvent{}, fmt.Errorf("unknown activity type %q", event.Type)
	}
	if event.UserID == 0 || event.EntityID == 0 {
		return payloads.ActivityEvent{}, errors.New("activity event without user or entity id")
	}
	return event, nil
}
