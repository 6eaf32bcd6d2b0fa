package core

import (
	"context"
	"fmt"
	"strings"

	"fieldops.service/internal/ports/messaging"
	"fieldops.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EmailService sends the visit summary to a supervisor after a checkout.
type EmailService interface {
	SendVisitSummary(ctx context.Context, to string, event messaging.CheckoutRecordedEvent) error
}

// SESEmailService implements EmailService over AWS SES.
type SESEmailService struct {
	client *ses.Client
	sender string
}

// NewSESEmailService creates the SES-backed email service.
func NewSESEmailService(client *ses.Client, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

// SendVisitSummary implements EmailService.
func (s *SESEmailService) SendVisitSummary(ctx context.Context, to string, event messaging.CheckoutRecordedEvent) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if email := telemetry.GetEmailFromContext(ctx); email != "" {
		span.SetAttributes(attribute.String("app.email", email))
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hello,\n\n%s checked out of %q on %s.\n", event.Name, event.Location, event.Date)
	if event.CheckinTime != "" {
		fmt.Fprintf(&body, "Check-in: %s\n", event.CheckinTime)
	}
	fmt.Fprintf(&body, "Checkout: %s\n", event.CheckoutTime)
	if event.DistanceKm != nil {
		fmt.Fprintf(&body, "Distance between fixes: %.3f km\n", *event.DistanceKm)
	}
	if event.OutOfArea {
		body.WriteString("\nWARNING: the checkout location is outside the allowed radius of the check-in location.\n")
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(fmt.Sprintf("Field Visit Summary: %s", event.Name)),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body.String()),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}
