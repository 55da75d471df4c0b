package rabbit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange  = "order_events"
	NewsletterQueue = "newsletter_emails"
)

// Publisher publica eventos de órdenes en un exchange topic.
type Publisher struct {
	ch       *amqp091.Channel
	exchange string
}

func NewPublisher(ch *amqp091.Channel) (*Publisher, error) {
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, exchange: EventsExchange}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return publishJSON(ctx, p.ch, p.exchange, routingKey, payload)
}

// QueueMailer encola un mensaje por destinatario; el envío real lo hace
// el servicio de correo que consume newsletter_emails.
type QueueMailer struct {
	ch *amqp091.Channel
}

type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewQueueMailer(ch *amqp091.Channel) (*QueueMailer, error) {
	if _, err := ch.QueueDeclare(NewsletterQueue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &QueueMailer{ch: ch}, nil
}

func (m *QueueMailer) Send(ctx context.Context, to, subject, body string) error {
	return publishJSON(ctx, m.ch, "", NewsletterQueue, EmailMessage{To: to, Subject: subject, Body: body})
}

func publishJSON(ctx context.Context, ch *amqp091.Channel, exchange, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, exchange, key, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
