package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/growguard/internal/notification/usecase"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/messaging"
	"github.com/shandysiswandi/growguard/internal/pkg/uid"
	"github.com/shandysiswandi/growguard/internal/shared/event"
)

type uc interface {
	ConsumeOTPDelivery(ctx context.Context, in usecase.ConsumeOTPDeliveryInput) error
}

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	if cid, ok := messaging.HeaderValue(headers, event.HeaderCorrelationID); ok && cid != "" {
		return instrument.SetCorrelationID(ctx, cid)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// OTPDelivery sends the code carried by an otp_delivery event. Malformed
// bodies are acknowledged and dropped.
func (h *MQHandler) OTPDelivery(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPDelivery")
	defer span.End()

	slog.InfoContext(ctx, "consume: otp delivery", "msg_id", msg.ID(), "topic", msg.Topic())

	var payload event.OTPDeliveryMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp delivery", "msg_id", msg.ID(), "error", err)
		return nil
	}

	if err := h.uc.ConsumeOTPDelivery(ctx, usecase.ConsumeOTPDeliveryInput{
		MobileNumber:    payload.MobileNumber,
		Code:            payload.Code,
		Purpose:         payload.Purpose,
		ExpiresAt:       payload.ExpiresAt,
		ValidForSeconds: payload.ValidForSeconds,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp delivery", "msg_id", msg.ID(), "error", err)
		return err
	}

	return nil
}
