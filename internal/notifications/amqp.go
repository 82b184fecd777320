package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPNotifier publishes library events to a durable direct exchange.
type AMQPNotifier struct {
	conn       *amqp.Connection
	channel    amqpPublisher
	exchange   string
	routingKey string
	logger     *slog.Logger
	now        func() time.Time
}

type amqpEnvelope struct {
	Message   Message   `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewAMQPNotifier(cfg AMQPConfig, logger *slog.Logger) (*AMQPNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if cfg.QueueName != "" {
		q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("declare queue: %w", err)
		}
		if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("bind queue: %w", err)
		}
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	notifier := newAMQPNotifier(ch, cfg, logger)
	notifier.conn = conn
	return notifier, nil
}

func newAMQPNotifier(channel amqpPublisher, cfg AMQPConfig, logger *slog.Logger) *AMQPNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPNotifier{
		channel:    channel,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
		now:        time.Now,
	}
}

func (n *AMQPNotifier) Notify(ctx context.Context, message Message) error {
	body, err := json.Marshal(amqpEnvelope{Message: message, Timestamp: n.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = n.channel.PublishWithContext(
		ctx,
		n.exchange,
		n.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         message.Event,
			Body:         body,
			Timestamp:    n.now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	n.logger.Debug("published notification", "event", message.Event, "title", message.Title)
	return nil
}

func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
