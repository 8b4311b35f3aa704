package messaging

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

func collect(t *testing.T, ch <-chan string, n int) []string {
	t.Helper()
	var out []string
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case v := <-ch:
			out = append(out, v)
		case <-timeout:
			t.Fatalf("timed out after %d of %d messages", len(out), n)
		}
	}
	return out
}

func TestMemory_PublishConsume(t *testing.T) {
	// Arrange
	broker := NewMemory(MemoryConfig{})
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 4)
	go func() {
		_ = broker.Consume(ctx, "otp_delivery", func(_ context.Context, msg Message) error {
			cid, _ := HeaderValue(msg.Headers(), "cID")
			got <- string(msg.Body()) + "|" + cid
			return nil
		}, WithGroup("notification"), WithAutoAck(true))
	}()

	// Act
	_, err := broker.Publish(ctx, "otp_delivery", OutgoingMessage{
		Body:    []byte("hello"),
		Headers: []Header{{Key: "cID", Value: []byte("abc")}},
	})

	// Assert
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if msgs := collect(t, got, 1); msgs[0] != "hello|abc" {
		t.Fatalf("message = %q", msgs[0])
	}
}

func TestMemory_BacklogBeforeSubscribe(t *testing.T) {
	// Arrange
	broker := NewMemory(MemoryConfig{})
	defer broker.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, body := range []string{"a", "b"} {
		if _, err := broker.Publish(ctx, "topic", OutgoingMessage{Body: []byte(body)}); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	// Act
	got := make(chan string, 2)
	go func() {
		_ = broker.Consume(ctx, "topic", func(_ context.Context, msg Message) error {
			got <- string(msg.Body())
			return nil
		})
	}()

	// Assert
	msgs := collect(t, got, 2)
	if msgs[0] != "a" || msgs[1] != "b" {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestMemory_NackRedeliversUntilLimit(t *testing.T) {
	// Arrange
	broker := NewMemory(MemoryConfig{MaxDeliveries: 3})
	defer broker.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	attempts := 0
	got := make(chan string, 8)
	go func() {
		_ = broker.Consume(ctx, "topic", func(_ context.Context, msg Message) error {
			mu.Lock()
			attempts++
			mu.Unlock()
			got <- msg.ID()
			return errors.New("boom")
		}, WithAutoAck(true))
	}()

	// Act
	if _, err := broker.Publish(ctx, "topic", OutgoingMessage{Body: []byte("x")}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// Assert
	collect(t, got, 3)
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestMemory_PanicIsRecovered(t *testing.T) {
	// Arrange
	broker := NewMemory(MemoryConfig{MaxDeliveries: 1})
	defer broker.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 2)
	go func() {
		_ = broker.Consume(ctx, "topic", func(_ context.Context, msg Message) error {
			if string(msg.Body()) == "panic" {
				panic("handler exploded")
			}
			got <- string(msg.Body())
			return nil
		}, WithAutoAck(true))
	}()

	// Act
	_, _ = broker.Publish(ctx, "topic", OutgoingMessage{Body: []byte("panic")})
	_, _ = broker.Publish(ctx, "topic", OutgoingMessage{Body: []byte("ok")})

	// Assert
	if msgs := collect(t, got, 1); msgs[0] != "ok" {
		t.Fatalf("message = %q", msgs[0])
	}
}

func TestMemory_ClosedAndValidation(t *testing.T) {
	// Arrange
	broker := NewMemory(MemoryConfig{})
	ctx := context.Background()

	// Act & Assert
	if _, err := broker.Publish(ctx, "", OutgoingMessage{}); !errors.Is(err, ErrTopicRequired) {
		t.Fatalf("Publish(empty topic) error = %v", err)
	}
	if _, err := broker.Publish(ctx, "t", OutgoingMessage{Delay: time.Second}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Publish(delay) error = %v", err)
	}
	if err := broker.Consume(ctx, "t", nil); !errors.Is(err, ErrHandlerRequired) {
		t.Fatalf("Consume(nil handler) error = %v", err)
	}

	_ = broker.Close()
	if _, err := broker.Publish(ctx, "t", OutgoingMessage{}); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Publish(closed) error = %v", err)
	}
}

func TestNewFromDriver(t *testing.T) {
	m, err := NewFromDriver("", FactoryOptions{})
	if err != nil {
		t.Fatalf("NewFromDriver(\"\") error = %v", err)
	}
	_ = m.Close()

	if _, err := NewFromDriver("rabbit", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("NewFromDriver(rabbit) error = %v", err)
	}
	if _, err := NewFromDriver(DriverKafka, FactoryOptions{}); !errors.Is(err, ErrKafkaBrokersRequired) {
		t.Fatalf("NewFromDriver(kafka) error = %v", err)
	}
	if _, err := NewFromDriver(DriverNATS, FactoryOptions{}); !errors.Is(err, ErrNATSURLRequired) {
		t.Fatalf("NewFromDriver(nats) error = %v", err)
	}
}
