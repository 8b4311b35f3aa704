package sms

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	pkgsms "github.com/shandysiswandi/growguard/internal/pkg/sms"
)

type fakeSender struct {
	err  error
	sent []pkgsms.Message
}

func (f *fakeSender) Send(_ context.Context, msg pkgsms.Message) (pkgsms.Receipt, error) {
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return pkgsms.Receipt{}, f.err
	}
	return pkgsms.Receipt{ID: "SM1", Provider: "fake"}, nil
}

func (*fakeSender) Close() error {
	return nil
}

var delivery = entity.OTPDelivery{
	PhoneNumber: "03001234567",
	Code:        "0427",
	Purpose:     entity.PurposeLogin,
	ExpiresIn:   3 * time.Minute,
}

func TestGateway_Deliver(t *testing.T) {
	t.Run("Sent", func(t *testing.T) {
		// Arrange
		primary := &fakeSender{}
		g := NewGateway(primary, nil, Config{}, instrument.NewNoop())

		// Act
		out := g.Deliver(context.Background(), delivery)

		// Assert
		if !out.Delivered {
			t.Fatalf("outcome = %+v", out)
		}
		if primary.sent[0].To != "+923001234567" {
			t.Fatalf("to = %q", primary.sent[0].To)
		}
		if !strings.Contains(primary.sent[0].Body, "0427") || !strings.Contains(primary.sent[0].Body, "3 minutes") {
			t.Fatalf("body = %q", primary.sent[0].Body)
		}
	})

	t.Run("FailureWithoutFallback", func(t *testing.T) {
		// Arrange
		g := NewGateway(&fakeSender{err: errors.New("twilio down")}, nil, Config{}, instrument.NewNoop())

		// Act
		out := g.Deliver(context.Background(), delivery)

		// Assert
		if out.Delivered || out.Detail != "twilio down" {
			t.Fatalf("outcome = %+v", out)
		}
	})

	t.Run("FailureWithFallback", func(t *testing.T) {
		// Arrange
		fallback := &fakeSender{}
		g := NewGateway(&fakeSender{err: errors.New("twilio down")}, fallback, Config{}, instrument.NewNoop())

		// Act
		out := g.Deliver(context.Background(), delivery)

		// Assert
		if out.Delivered {
			t.Fatalf("fallback must not count as delivered")
		}
		if len(fallback.sent) != 1 || !strings.Contains(out.Detail, "console fallback") {
			t.Fatalf("fallback sent = %d, detail = %q", len(fallback.sent), out.Detail)
		}
	})
}
