package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
	ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")
	// ErrKafkaGroupRequired is returned when Consume is called without WithGroup.
	ErrKafkaGroupRequired = errors.New("messaging: kafka consumer group is required")
)

// KafkaConfig configures the Kafka implementation.
type KafkaConfig struct {
	Brokers []string

	// Dialer configures broker connections; nil uses the kafka-go default.
	Dialer *kafka.Dialer

	// MaxBytes caps a fetch batch; zero means 10MB.
	MaxBytes int
}

// Kafka is a messaging implementation backed by kafka-go.
type Kafka struct {
	cfg KafkaConfig

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers []*kafka.Reader
	closed  bool
}

// NewKafka constructs a Kafka messaging client. Connections are opened lazily.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10e6
	}
	cfg.Brokers = append([]string{}, cfg.Brokers...)

	return &Kafka{cfg: cfg, writers: map[string]*kafka.Writer{}}, nil
}

// Close shuts down all Kafka readers and writers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers := k.writers
	k.writers = nil
	readers := k.readers
	k.readers = nil
	k.mu.Unlock()

	var closeErr error
	for _, r := range readers {
		closeErr = errors.Join(closeErr, r.Close())
	}
	for _, w := range writers {
		closeErr = errors.Join(closeErr, w.Close())
	}
	return closeErr
}

// Publish writes a message to a Kafka topic.
func (k *Kafka) Publish(ctx context.Context, topic string, msg OutgoingMessage) (PublishResult, error) {
	if err := validatePublish(ctx, topic, msg); err != nil {
		return PublishResult{}, err
	}

	writer, err := k.writer(topic)
	if err != nil {
		return PublishResult{}, err
	}

	kmsg := kafka.Message{Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for _, h := range msg.Headers {
		if h.Key == "" {
			continue
		}
		kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: h.Key, Value: h.Value})
	}

	if err := writer.WriteMessages(ctx, kmsg); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return PublishResult{Topic: topic, Timestamp: kmsg.Time}, nil
}

// Consume reads a Kafka topic as part of a consumer group until ctx is done
// or a commit fails.
func (k *Kafka) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrKafkaGroupRequired
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.cfg.Brokers,
		GroupID:  co.group,
		Topic:    topic,
		MaxBytes: k.cfg.MaxBytes,
		Dialer:   k.cfg.Dialer,
	})
	if err := k.track(reader); err != nil {
		return errors.Join(err, reader.Close())
	}
	defer k.untrack(reader)

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgCh := make(chan kafka.Message)
	errCh := make(chan error, 1)

	go func() {
		defer close(msgCh)
		for {
			m, err := reader.FetchMessage(consumeCtx)
			if err != nil {
				trySendErr(errCh, err)
				return
			}
			select {
			case msgCh <- m:
			case <-consumeCtx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range concurrencyOrDefault(co.concurrency, 1) {
		wg.Go(func() {
			for m := range msgCh {
				wrapped := newKafkaMessage(reader, m)
				herr := callHandlerWithRecover(consumeCtx, DriverKafka, func() error {
					return handler(consumeCtx, wrapped)
				})
				if err := ackAfter(consumeCtx, wrapped, wrapped.hasResponded(), co.autoAck, herr); err != nil {
					trySendErr(errCh, err)
					cancel()
					return
				}
			}
		})
	}

	var waitErr error
	select {
	case err := <-errCh:
		cancel()
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			waitErr = fmt.Errorf("messaging: kafka consume: %w", err)
		}
	case <-ctx.Done():
	}
	wg.Wait()

	if waitErr == nil {
		waitErr = ctx.Err()
	}
	return errors.Join(waitErr, reader.Close())
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, io.ErrClosedPipe
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(k.cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	if k.cfg.Dialer != nil {
		w.Transport = &kafka.Transport{TLS: k.cfg.Dialer.TLS, SASL: k.cfg.Dialer.SASLMechanism}
	}
	k.writers[topic] = w
	return w, nil
}

func (k *Kafka) track(reader *kafka.Reader) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return io.ErrClosedPipe
	}
	k.readers = append(k.readers, reader)
	return nil
}

func (k *Kafka) untrack(reader *kafka.Reader) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i := range k.readers {
		if k.readers[i] == reader {
			k.readers = append(k.readers[:i], k.readers[i+1:]...)
			return
		}
	}
}

func trySendErr(ch chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case ch <- err:
	default:
	}
}
