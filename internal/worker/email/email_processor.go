package email

import (
	"context"
	"encoding/json"
	"math"

	"fieldops.service/internal/core"
	"fieldops.service/internal/ports/messaging"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
)

// Processor turns checkout events into visit-summary emails for the field
// rep's supervisor.
type Processor struct {
	emailService core.EmailService
}

// NewProcessor creates the notification processor.
func NewProcessor(emailService core.EmailService) *Processor {
	return &Processor{emailService: emailService}
}

// Process handles one message from the notify queue. Send failures are
// retried with exponential backoff; a malformed message or a missing
// supervisor address is final.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.CheckoutRecordedEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal checkout event")
		return false, 0, err // Do not retry on malformed message
	}

	if event.SupervisorEmail == "" {
		log.Ctx(ctx).Info().Str("email", event.Email).Msg("No supervisor on record, skipping notification")
		return false, 0, nil
	}

	if err := p.emailService.SendVisitSummary(ctx, event.SupervisorEmail, event); err != nil {
		retries := receiveCount(msg)
		return true, calculateBackoff(retries), err
	}

	log.Ctx(ctx).Info().
		Str("email", event.Email).
		Str("supervisor", event.SupervisorEmail).
		Bool("out_of_area", event.OutOfArea).
		Msg("Visit summary sent")
	return false, 0, nil
}

// receiveCount reads the approximate delivery attempt from the message
// attributes SQS sets on redelivery.
func receiveCount(msg types.Message) int {
	if v, ok := msg.Attributes["ApproximateReceiveCount"]; ok {
		count := 0
		for _, c := range v {
			if c < '0' || c > '9' {
				return 1
			}
			count = count*10 + int(c-'0')
		}
		if count > 0 {
			return count
		}
	}
	return 1
}

// calculateBackoff grows the retry delay exponentially, capped at one hour.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 {
		return 3600
	}
	return backoff
}
