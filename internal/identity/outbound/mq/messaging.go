package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/messaging"
	"github.com/shandysiswandi/growguard/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

// Messaging hands OTP deliveries to the notification module through the
// broker. A published event counts as delivered; the send happens later.
type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) Deliver(ctx context.Context, d entity.OTPDelivery) entity.DeliveryOutcome {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishOTPDelivery")
	defer span.End()

	body, err := json.Marshal(event.OTPDeliveryMessage{
		MobileNumber:    d.PhoneNumber,
		Code:            d.Code,
		Purpose:         d.Purpose.String(),
		ExpiresAt:       d.ExpiresAt,
		ValidForSeconds: int64(d.ExpiresIn / time.Second),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.DeliveryOutcome{Detail: err.Error()}
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.OTPDeliveryDestination, messaging.OutgoingMessage{
		Key:     []byte(d.PhoneNumber),
		Body:    body,
		Headers: []messaging.Header{{Key: event.HeaderCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.DeliveryOutcome{Detail: "publish failed: " + err.Error()}
	}

	return entity.DeliveryOutcome{Delivered: true, Detail: "queued"}
}
