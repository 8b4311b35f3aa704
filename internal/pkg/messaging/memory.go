package messaging

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// MemoryConfig configures the in-process broker.
type MemoryConfig struct {
	// Buffer is the per-group queue size; zero means 256.
	Buffer int
	// MaxDeliveries bounds redelivery after Nack; zero means 3.
	MaxDeliveries int
}

// Memory is an in-process broker. Every group subscribed to a topic receives
// each message once; consumers sharing a group split the stream. Messages
// published before any group exists are held for the first one.
type Memory struct {
	cfg MemoryConfig

	mu      sync.Mutex
	groups  map[string]map[string]chan *memoryMessage
	backlog map[string][]*memoryMessage

	offset    atomic.Int64
	anonymous atomic.Int64
	closed    atomic.Bool
	done      chan struct{}
}

// NewMemory constructs an in-process broker.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.MaxDeliveries <= 0 {
		cfg.MaxDeliveries = 3
	}

	return &Memory{
		cfg:     cfg,
		groups:  map[string]map[string]chan *memoryMessage{},
		backlog: map[string][]*memoryMessage{},
		done:    make(chan struct{}),
	}
}

// Close stops every consumer. Queued messages are dropped.
func (m *Memory) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	close(m.done)
	return nil
}

// Publish enqueues the message for every group subscribed to topic.
func (m *Memory) Publish(ctx context.Context, topic string, msg OutgoingMessage) (PublishResult, error) {
	if err := validatePublish(ctx, topic, msg); err != nil {
		return PublishResult{}, err
	}
	if m.closed.Load() {
		return PublishResult{}, io.ErrClosedPipe
	}

	base := memoryMessage{
		topic:     topic,
		offset:    m.offset.Inc(),
		body:      append([]byte(nil), msg.Body...),
		key:       append([]byte(nil), msg.Key...),
		headers:   append([]Header(nil), msg.Headers...),
		timestamp: time.Now(),
	}

	m.mu.Lock()
	queues := make([]chan *memoryMessage, 0, len(m.groups[topic]))
	for _, q := range m.groups[topic] {
		queues = append(queues, q)
	}
	if len(queues) == 0 {
		cp := base
		m.backlog[topic] = append(m.backlog[topic], &cp)
	}
	m.mu.Unlock()

	for _, q := range queues {
		cp := base
		cp.queue = q
		if err := m.enqueue(ctx, &cp); err != nil {
			return PublishResult{}, err
		}
	}

	return PublishResult{Topic: topic, Offset: base.offset, Timestamp: base.timestamp}, nil
}

// Consume delivers messages of topic to handler until ctx is done or the broker closes.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	if m.closed.Load() {
		return io.ErrClosedPipe
	}

	co := newConsumeOptions(opts...)
	group := co.group
	if group == "" {
		group = "anonymous-" + strconv.FormatInt(m.anonymous.Inc(), 10)
	}
	queue, pending := m.subscribe(topic, group)
	for _, msg := range pending {
		if err := m.enqueue(ctx, msg); err != nil {
			return err
		}
	}

	var wg sync.WaitGroup
	for range concurrencyOrDefault(co.concurrency, 1) {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case msg := <-queue:
					delivery := msg.deliver(m)
					herr := callHandlerWithRecover(ctx, DriverMemory, func() error {
						return handler(ctx, delivery)
					})
					//nolint:errcheck // redelivery failure only happens on shutdown
					_ = ackAfter(ctx, delivery, delivery.responded.Load(), co.autoAck, herr)
				}
			}
		})
	}
	wg.Wait()

	if m.closed.Load() && ctx.Err() == nil {
		return nil
	}
	return ctx.Err()
}

func (m *Memory) subscribe(topic, group string) (chan *memoryMessage, []*memoryMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.groups[topic] == nil {
		m.groups[topic] = map[string]chan *memoryMessage{}
	}
	queue, ok := m.groups[topic][group]
	if !ok {
		queue = make(chan *memoryMessage, m.cfg.Buffer)
		m.groups[topic][group] = queue
	}

	pending := m.backlog[topic]
	delete(m.backlog, topic)
	for _, msg := range pending {
		msg.queue = queue
	}
	return queue, pending
}

func (m *Memory) enqueue(ctx context.Context, msg *memoryMessage) error {
	select {
	case msg.queue <- msg:
		return nil
	case <-m.done:
		return io.ErrClosedPipe
	case <-ctx.Done():
		return ctx.Err()
	}
}

type memoryMessage struct {
	queue chan *memoryMessage

	topic     string
	offset    int64
	body      []byte
	key       []byte
	headers   []Header
	timestamp time.Time
	attempts  int
}

// deliver returns a per-attempt view so Ack/Nack bookkeeping is not shared
// between redeliveries.
func (msg *memoryMessage) deliver(m *Memory) *memoryDelivery {
	msg.attempts++
	return &memoryDelivery{broker: m, msg: msg}
}

type memoryDelivery struct {
	broker *Memory
	msg    *memoryMessage

	responded atomic.Bool
}

func (d *memoryDelivery) Body() []byte {
	return d.msg.body
}

func (d *memoryDelivery) Key() []byte {
	return d.msg.key
}

func (d *memoryDelivery) Headers() []Header {
	return d.msg.headers
}

func (d *memoryDelivery) ID() string {
	return fmt.Sprintf("%s/%d", d.msg.topic, d.msg.offset)
}

func (d *memoryDelivery) Topic() string {
	return d.msg.topic
}

func (d *memoryDelivery) Timestamp() time.Time {
	return d.msg.timestamp
}

func (d *memoryDelivery) Ack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.responded.Store(true)
	return nil
}

// Nack requeues the message until MaxDeliveries is reached, then drops it.
func (d *memoryDelivery) Nack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.responded.Swap(true) {
		return nil
	}
	if d.msg.attempts >= d.broker.cfg.MaxDeliveries {
		return nil
	}

	// The requeue must not block the worker that would drain it.
	go func() {
		//nolint:errcheck // only fails once the broker is closed
		_ = d.broker.enqueue(context.WithoutCancel(ctx), d.msg)
	}()
	return nil
}
