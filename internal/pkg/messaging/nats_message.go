package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"
)

type natsMessage struct {
	msg        *nats.Msg
	receivedAt time.Time

	responded atomic.Bool
}

func newNATSMessage(msg *nats.Msg, receivedAt time.Time) *natsMessage {
	return &natsMessage{msg: msg, receivedAt: receivedAt}
}

func (m *natsMessage) hasResponded() bool {
	return m.responded.Load()
}

func (m *natsMessage) Body() []byte {
	return m.msg.Data
}

func (m *natsMessage) Key() []byte {
	return nil
}

func (m *natsMessage) Headers() []Header {
	var headers []Header
	for k, values := range m.msg.Header {
		for _, v := range values {
			headers = append(headers, Header{Key: k, Value: []byte(v)})
		}
	}
	return headers
}

func (m *natsMessage) ID() string {
	return ""
}

func (m *natsMessage) Topic() string {
	return m.msg.Subject
}

func (m *natsMessage) Timestamp() time.Time {
	return m.receivedAt
}

func (m *natsMessage) Ack(ctx context.Context) error {
	return m.respond(ctx, m.msg.Ack)
}

func (m *natsMessage) Nack(ctx context.Context) error {
	return m.respond(ctx, m.msg.Nak)
}

func (m *natsMessage) respond(ctx context.Context, fn func(...nats.AckOpt) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.responded.Swap(true) {
		return nil
	}
	if err := fn(); err != nil && !isNATSAckUnsupported(err) {
		return err
	}
	return nil
}

func isNATSAckUnsupported(err error) bool {
	return errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound)
}
