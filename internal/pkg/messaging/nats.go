package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures the NATS implementation.
type NATSConfig struct {
	URL  string
	Name string

	// Options are appended after the defaults derived from Name.
	Options []nats.Option
}

// NATS is a messaging implementation backed by core NATS subjects.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	subs   []*nats.Subscription
	closed bool
}

// NewNATS connects to the NATS server.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	opts := []nats.Option{nats.MaxReconnects(-1)}
	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}
	opts = append(opts, cfg.Options...)

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains subscriptions and closes the NATS connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	var closeErr error
	for _, sub := range subs {
		closeErr = errors.Join(closeErr, sub.Drain())
	}
	closeErr = errors.Join(closeErr, n.conn.Drain())
	n.conn.Close()
	return closeErr
}

// Publish sends a message to a NATS subject.
func (n *NATS) Publish(ctx context.Context, topic string, msg OutgoingMessage) (PublishResult, error) {
	if err := validatePublish(ctx, topic, msg); err != nil {
		return PublishResult{}, err
	}

	nmsg := nats.NewMsg(topic)
	nmsg.Data = msg.Body
	for _, h := range msg.Headers {
		if h.Key == "" {
			continue
		}
		nmsg.Header.Add(h.Key, string(h.Value))
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats flush: %w", err)
	}

	return PublishResult{Topic: topic, Timestamp: time.Now()}, nil
}

// Consume subscribes to a subject, using the group as the queue group, and
// blocks until ctx is done.
func (n *NATS) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	concurrency := concurrencyOrDefault(co.concurrency, 1)

	msgCh := make(chan *nats.Msg, concurrency)
	sub, err := n.conn.QueueSubscribe(topic, co.group, func(m *nats.Msg) {
		select {
		case msgCh <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			for m := range msgCh {
				wrapped := newNATSMessage(m, time.Now())
				herr := callHandlerWithRecover(ctx, DriverNATS, func() error {
					return handler(ctx, wrapped)
				})
				//nolint:errcheck // core NATS has no redelivery to act on
				_ = ackAfter(ctx, wrapped, wrapped.hasResponded(), co.autoAck, herr)
			}
		})
	}

	stop := func(cause error) error {
		uerr := sub.Drain()
		close(msgCh)
		wg.Wait()
		return errors.Join(cause, uerr)
	}

	if err := n.track(sub); err != nil {
		return stop(err)
	}
	if err := n.conn.Flush(); err != nil {
		return stop(fmt.Errorf("messaging: nats flush: %w", err))
	}

	<-ctx.Done()
	return stop(ctx.Err())
}

func (n *NATS) track(sub *nats.Subscription) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return io.ErrClosedPipe
	}
	n.subs = append(n.subs, sub)
	return nil
}
