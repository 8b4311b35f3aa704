// Package sms delivers OTP codes synchronously through the configured SMS driver.
package sms

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	pkgsms "github.com/shandysiswandi/growguard/internal/pkg/sms"
	"github.com/shandysiswandi/growguard/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

type Config struct {
	CountryCode string
	Timeout     time.Duration
}

// Gateway sends through the primary driver. When the primary fails and a
// fallback is set, the code is handed to the fallback (a display-only
// console in practice) and the outcome stays not delivered.
type Gateway struct {
	primary  pkgsms.SMS
	fallback pkgsms.SMS
	cfg      Config
	ins      instrument.Instrumentation
}

func NewGateway(primary, fallback pkgsms.SMS, cfg Config, ins instrument.Instrumentation) *Gateway {
	if cfg.CountryCode == "" {
		cfg.CountryCode = "92"
	}
	return &Gateway{primary: primary, fallback: fallback, cfg: cfg, ins: ins}
}

func (g *Gateway) Deliver(ctx context.Context, d entity.OTPDelivery) entity.DeliveryOutcome {
	ctx, span := g.ins.Tracer("identity.outbound.sms").Start(ctx, "Deliver")
	defer span.End()

	body := event.OTPDeliveryMessage{
		Code:            d.Code,
		ValidForSeconds: int64(d.ExpiresIn / time.Second),
	}.Text()
	msg := pkgsms.Message{
		To:   pkgsms.NormalizeE164(d.PhoneNumber, g.cfg.CountryCode),
		Body: body,
	}

	sendCtx := ctx
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	receipt, err := g.primary.Send(sendCtx, msg)
	if err == nil {
		slog.InfoContext(ctx, "otp sms sent", "to", msg.To, "provider", receipt.Provider, "receipt", receipt.ID)
		return entity.DeliveryOutcome{Delivered: true, Detail: "sent via " + receipt.Provider}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	slog.ErrorContext(ctx, "failed to send otp sms", "to", msg.To, "error", err)

	if g.fallback == nil {
		return entity.DeliveryOutcome{Delivered: false, Detail: err.Error()}
	}

	if _, ferr := g.fallback.Send(ctx, msg); ferr != nil {
		slog.ErrorContext(ctx, "failed to send otp sms to fallback", "to", msg.To, "error", ferr)
		return entity.DeliveryOutcome{Delivered: false, Detail: err.Error()}
	}

	return entity.DeliveryOutcome{Delivered: false, Detail: "primary failed, code written to console fallback: " + err.Error()}
}
