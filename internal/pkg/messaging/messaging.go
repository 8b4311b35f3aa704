// Package messaging is a small broker-agnostic publish/consume layer.
//
// Kafka and NATS are supported for deployments; the in-memory broker keeps a
// single process self-contained (local runs and tests).
package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrUnsupported is returned when a feature is not supported by the selected broker.
	ErrUnsupported = errors.New("messaging: unsupported operation")
	// ErrTopicRequired is returned when the destination or source is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
)

// Messaging can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a topic (Kafka topic or NATS subject).
type Publisher interface {
	Publish(ctx context.Context, topic string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer blocks consuming messages from a topic until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
//
// With auto-ack enabled a nil error acks and a non-nil error nacks.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to be published.
type OutgoingMessage struct {
	Body []byte

	// Key is used by Kafka for partitioning.
	Key []byte

	// Headers support binary values and duplicate keys.
	Headers []Header

	// Delay requests deferred delivery; no bundled broker supports it.
	Delay time.Duration
}

// Header is a key/value pair carried with a message.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries what the broker reported for a publish.
type PublishResult struct {
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	Body() []byte
	Key() []byte
	Headers() []Header

	ID() string
	Topic() string
	Timestamp() time.Time

	// Ack acknowledges successful processing.
	Ack(ctx context.Context) error
	// Nack asks for redelivery when the broker supports it.
	Nack(ctx context.Context) error
}

// HeaderValue returns the first header value stored under key.
func HeaderValue(headers []Header, key string) (string, bool) {
	for i := range headers {
		if headers[i].Key == key {
			return string(headers[i].Value), true
		}
	}
	return "", false
}

func validatePublish(ctx context.Context, topic string, msg OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if msg.Delay > 0 {
		return ErrUnsupported
	}
	return nil
}

func validateConsume(ctx context.Context, topic string, handler Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}

// ackAfter applies auto-ack semantics once a handler has returned.
func ackAfter(ctx context.Context, msg Message, responded bool, autoAck bool, handlerErr error) error {
	if responded || !autoAck {
		return nil
	}
	if handlerErr == nil {
		return msg.Ack(ctx)
	}
	return msg.Nack(ctx)
}
