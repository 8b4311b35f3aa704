package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/sms"
	"github.com/shandysiswandi/growguard/internal/shared/event"
)

type ConsumeOTPDeliveryInput struct {
	MobileNumber    string `validate:"required,phone"`
	Code            string `validate:"required,otp"`
	Purpose         string `validate:"required"`
	ExpiresAt       time.Time
	ValidForSeconds int64 `validate:"gte=0"`
}

// ConsumeOTPDelivery texts a queued code to its owner. Invalid or already
// expired payloads are dropped; a provider failure is returned so the
// broker redelivers.
func (s *Usecase) ConsumeOTPDelivery(ctx context.Context, in ConsumeOTPDeliveryInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPDelivery")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	if !in.ExpiresAt.IsZero() && !in.ExpiresAt.After(s.clock.Now()) {
		slog.WarnContext(ctx, "otp expired before delivery, dropping", "purpose", in.Purpose, "expires_at", in.ExpiresAt)
		return nil
	}

	countryCode := s.cfg.GetString("sms.country_code")
	if countryCode == "" {
		countryCode = "92"
	}

	body := event.OTPDeliveryMessage{Code: in.Code, ValidForSeconds: in.ValidForSeconds}.Text()

	rcpt, err := s.repoSMS.Send(ctx, sms.Message{
		To:   sms.NormalizeE164(in.MobileNumber, countryCode),
		Body: body,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send otp sms", "purpose", in.Purpose, "error", err)
		return err
	}

	slog.InfoContext(ctx, "otp sms sent", "purpose", in.Purpose, "provider", rcpt.Provider, "receipt_id", rcpt.ID)
	return nil
}
