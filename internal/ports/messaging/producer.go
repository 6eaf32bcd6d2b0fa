package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Producer publishes domain events through a MessageSender.
type Producer struct {
	sender         MessageSender
	notifyQueueURL string
}

// NewProducer creates a producer for the notification queue.
func NewProducer(sender MessageSender, notifyQueueURL string) *Producer {
	return &Producer{
		sender:         sender,
		notifyQueueURL: notifyQueueURL,
	}
}

// NewSQSProducer creates a producer backed by an AWS SQS sender.
func NewSQSProducer(client SQSClient, notifyQueueURL string) *Producer {
	return NewProducer(&SQSSender{client: client}, notifyQueueURL)
}

// PublishCheckout implements EventPublisher.
func (p *Producer) PublishCheckout(ctx context.Context, event CheckoutRecordedEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Enrich the current span with the subject identity if recording.
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() && event.Email != "" {
		span.SetAttributes(attribute.String("app.email", event.Email))
	}

	if err := p.sender.SendMessage(ctx, p.notifyQueueURL, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
