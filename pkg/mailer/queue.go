package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"rental-service/pkg/config"
)

// QueueSender publishes mail jobs to a RabbitMQ topic exchange for an
// external mail worker to render and deliver.
type QueueSender struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	from     string
}

// mailJob is the wire format the mail worker consumes.
type mailJob struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Template string            `json:"template"`
	Context  map[string]string `json:"context"`
}

func NewQueueSender(cfg config.MailConfig) (*QueueSender, error) {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.AMQPExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &QueueSender{conn: conn, ch: ch, exchange: cfg.AMQPExchange, from: cfg.From}, nil
}

func (s *QueueSender) Send(to, subject, template string, mailContext map[string]string) error {
	body, err := json.Marshal(mailJob{
		From:     s.from,
		To:       to,
		Subject:  subject,
		Template: template,
		Context:  mailContext,
	})
	if err != nil {
		return fmt.Errorf("marshal mail job: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = s.ch.PublishWithContext(ctx, s.exchange, "mail.send", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish mail job: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (s *QueueSender) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
