package notification

import (
	"context"
	"encoding/json"
	"time"

	"leavedesk/internal/events"

	"github.com/segmentio/kafka-go"
)

// Mailer is the mail-transport capability. Implementations own delivery
// mechanics entirely; a returned error counts as a per-recipient
// failure, never as a workflow failure.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type noopMailer struct{}

func NewNoopMailer() Mailer {
	return noopMailer{}
}

func (noopMailer) Send(context.Context, string, string, string, string) error {
	return nil
}

// kafkaRelayMailer publishes rendered messages to the mail-relay topic;
// the actual SMTP transport consumes that topic out of process.
type kafkaRelayMailer struct {
	writer *kafka.Writer
}

func NewKafkaRelayMailer(writer *kafka.Writer) Mailer {
	return &kafkaRelayMailer{writer: writer}
}

func (m *kafkaRelayMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	payload, err := json.Marshal(events.EmailRequestedEvent{
		To:         to,
		Subject:    subject,
		HTMLBody:   htmlBody,
		TextBody:   textBody,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return m.writer.WriteMessages(ctx, kafka.Message{
		Topic: events.EmailRequestedTopic,
		Key:   []byte(to),
		Value: payload,
	})
}
