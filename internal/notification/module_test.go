package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/identity/outbound/mq"
	"github.com/shandysiswandi/growguard/internal/pkg/clock"
	"github.com/shandysiswandi/growguard/internal/pkg/config"
	"github.com/shandysiswandi/growguard/internal/pkg/goroutine"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/messaging"
	"github.com/shandysiswandi/growguard/internal/pkg/sms"
	"github.com/shandysiswandi/growguard/internal/pkg/uid"
	"github.com/shandysiswandi/growguard/internal/pkg/validator"
)

type capturingSMS struct {
	mu   sync.Mutex
	sent chan sms.Message
}

func (c *capturingSMS) Send(_ context.Context, msg sms.Message) (sms.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent <- msg
	return sms.Receipt{ID: "1", Provider: "capture"}, nil
}

func (*capturingSMS) Close() error { return nil }

func TestModule_QueuedOTPDelivery(t *testing.T) {
	// Arrange
	now := time.Now().UTC()
	cfg, err := config.NewViperFromBytes("yaml", []byte("sms:\n  country_code: \"92\"\n"))
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator error = %v", err)
	}

	broker := messaging.NewMemory(messaging.MemoryConfig{})
	t.Cleanup(func() { _ = broker.Close() })

	sender := &capturingSMS{sent: make(chan sms.Message, 1)}
	gm := goroutine.NewManager(4)
	ctx, cancel := context.WithCancel(context.Background())

	err = New(Dependency{
		Ctx:        ctx,
		Messaging:  broker,
		SMS:        sender,
		Config:     cfg,
		Instrument: instrument.NewNoop(),
		UUID:       uid.NewUUID(),
		Clock:      clock.New(),
		Goroutine:  gm,
		Validator:  v,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	gateway := mq.NewMessaging(broker, instrument.NewNoop())

	// Act
	outcome := gateway.Deliver(instrument.SetCorrelationID(ctx, "cid-1"), entity.OTPDelivery{
		PhoneNumber: "03001234567",
		Code:        "9012",
		Purpose:     entity.PurposeRegistration,
		ExpiresAt:   now.Add(3 * time.Minute),
		ExpiresIn:   3 * time.Minute,
	})

	// Assert
	if !outcome.Delivered || outcome.Detail != "queued" {
		t.Fatalf("outcome = %+v", outcome)
	}
	select {
	case msg := <-sender.sent:
		if msg.To != "+923001234567" {
			t.Fatalf("to = %q", msg.To)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("queued otp was not sent")
	}

	cancel()
	_ = gm.Wait()
}
