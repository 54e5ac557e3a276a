package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher owns one AMQP connection bound to a topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type jsonPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// BrokerChannel publishes every notification for downstream consumers.
type BrokerChannel struct {
	pub jsonPublisher
}

func NewBrokerChannel(pub jsonPublisher) *BrokerChannel {
	return &BrokerChannel{pub: pub}
}

type brokerMessage struct {
	Event      string            `json:"event"`
	Version    int               `json:"version"`
	OccurredAt string            `json:"occurred_at"`
	UserID     string            `json:"user_id"`
	BookingID  string            `json:"booking_id"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func (c *BrokerChannel) Name() string { return "broker" }

func (c *BrokerChannel) Deliver(ctx context.Context, e Event, m Message) error {
	return c.pub.PublishJSON(ctx, RoutingKey(e.Kind), brokerMessage{
		Event:      string(e.Kind),
		Version:    1,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		UserID:     e.Recipient.UserID,
		BookingID:  e.BookingID,
		Title:      m.Title,
		Body:       m.Body,
		Attributes: m.Attributes,
	})
}

// RoutingKey maps BOOKING_APPROVED to notification.booking_approved.
func RoutingKey(k Kind) string {
	return "notification." + strings.ToLower(string(k))
}
